// Package reporting derives dashboard and report figures from a document
// snapshot. Every function is a pure read: nothing here mutates the store,
// and dangling references degrade to placeholders instead of errors.
package reporting

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"rentcore/pkg/domain"
)

// Document is the materialized snapshot the derivations run against.
type Document struct {
	Properties          []domain.Property
	Units               []domain.Unit
	Tenants             []domain.Tenant
	Leases              []domain.Lease
	Payments            []domain.Payment
	UnitFeatures        []domain.UnitFeature
	MaintenanceRequests []domain.MaintenanceRequest
	MaintenanceRecords  []domain.MaintenanceRecord
	Vendors             []domain.Vendor
	PreventiveTasks     []domain.PreventiveTask
	Notifications       []domain.Notification
}

// Collect copies every collection out of a transaction view.
func Collect(view domain.TransactionView) Document {
	return Document{
		Properties:          view.ListProperties(),
		Units:               view.ListUnits(),
		Tenants:             view.ListTenants(),
		Leases:              view.ListLeases(),
		Payments:            view.ListPayments(),
		UnitFeatures:        view.ListUnitFeatures(),
		MaintenanceRequests: view.ListMaintenanceRequests(),
		MaintenanceRecords:  view.ListMaintenanceRecords(),
		Vendors:             view.ListVendors(),
		PreventiveTasks:     view.ListPreventiveTasks(),
		Notifications:       view.ListNotifications(),
	}
}

// Occupancy returns the portfolio occupancy percentage, rounded to the
// nearest whole number. A portfolio with no units reports 0.
func (d Document) Occupancy() int {
	if len(d.Units) == 0 {
		return 0
	}
	occupied := 0
	for _, unit := range d.Units {
		if unit.Status == domain.UnitOccupied {
			occupied++
		}
	}
	return int(math.Round(100 * float64(occupied) / float64(len(d.Units))))
}

// RentRow is one payment line on the monthly rent report.
type RentRow struct {
	PaymentID string
	UnitLabel string
	Tenant    string
	Month     string
	Amount    float64
	Status    domain.PaymentStatus
}

// RentReport aggregates a single month of rent activity.
type RentReport struct {
	Month       string
	Rows        []RentRow
	Collected   float64
	Outstanding float64
	Overdue     int
}

// MonthlyRentStatus builds the rent report for one YYYY-MM month.
func (d Document) MonthlyRentStatus(month string) RentReport {
	report := RentReport{Month: month}
	leaseIndex := make(map[string]domain.Lease, len(d.Leases))
	for _, lease := range d.Leases {
		leaseIndex[lease.ID] = lease
	}
	tenantIndex := make(map[string]domain.Tenant, len(d.Tenants))
	for _, tenant := range d.Tenants {
		tenantIndex[tenant.ID] = tenant
	}

	for _, payment := range d.Payments {
		if payment.Month != month {
			continue
		}
		row := RentRow{
			PaymentID: payment.ID,
			UnitLabel: "—",
			Tenant:    "—",
			Month:     payment.Month,
			Amount:    payment.Amount,
			Status:    payment.Status,
		}
		if lease, ok := leaseIndex[payment.LeaseID]; ok {
			row.UnitLabel = d.UnitLabel(lease.UnitID)
			if tenant, ok := tenantIndex[lease.TenantID]; ok {
				row.Tenant = tenant.Name
			}
		}
		report.Rows = append(report.Rows, row)
		if payment.Status == domain.PaymentPaid {
			report.Collected += payment.Amount
		} else {
			report.Outstanding += payment.Amount
			report.Overdue++
		}
	}
	return report
}

// ExpiringSoon returns the five soonest-ending active leases, sorted by end
// date ascending. The count is not bounded by any date window; the nearest
// deadlines surface no matter how far out they are.
func (d Document) ExpiringSoon() []domain.Lease {
	active := make([]domain.Lease, 0, len(d.Leases))
	for _, lease := range d.Leases {
		if lease.Active {
			active = append(active, lease)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].End < active[j].End })
	if len(active) > 5 {
		active = active[:5]
	}
	return active
}

// PropertyStats is the per-property rollup shown on the portfolio screen.
type PropertyStats struct {
	PropertyID     string
	Name           string
	Units          int
	Occupied       int
	OccupancyPct   int
	MonthlyRevenue float64
}

// PropertyRollup aggregates units per property in property insertion order.
func (d Document) PropertyRollup() []PropertyStats {
	stats := make([]PropertyStats, 0, len(d.Properties))
	for _, property := range d.Properties {
		entry := PropertyStats{PropertyID: property.ID, Name: property.Name}
		for _, unit := range d.Units {
			if unit.PropertyID != property.ID {
				continue
			}
			entry.Units++
			if unit.Status == domain.UnitOccupied {
				entry.Occupied++
				entry.MonthlyRevenue += unit.Rent
			}
		}
		if entry.Units > 0 {
			entry.OccupancyPct = int(math.Round(100 * float64(entry.Occupied) / float64(entry.Units)))
		}
		stats = append(stats, entry)
	}
	return stats
}

// FinancialSummary combines the portfolio-level money figures.
type FinancialSummary struct {
	MonthlyRevenue  float64
	Collected       float64
	Outstanding     float64
	MaintenanceCost float64
	AverageCost     float64
}

// Financials computes revenue over active leases, the month's collection
// status, and all-time maintenance spend.
func (d Document) Financials(month string) FinancialSummary {
	var summary FinancialSummary
	for _, lease := range d.Leases {
		if lease.Active {
			summary.MonthlyRevenue += lease.Rent
		}
	}
	rent := d.MonthlyRentStatus(month)
	summary.Collected = rent.Collected
	summary.Outstanding = rent.Outstanding
	for _, record := range d.MaintenanceRecords {
		summary.MaintenanceCost += record.Cost
	}
	if len(d.MaintenanceRecords) > 0 {
		summary.AverageCost = summary.MaintenanceCost / float64(len(d.MaintenanceRecords))
	}
	return summary
}

// MaintenanceStats counts requests by workflow state plus completed spend.
type MaintenanceStats struct {
	Open       int
	InProgress int
	Completed  int
	TotalCost  float64
}

// MaintenanceSummary tallies active requests and the completed history.
func (d Document) MaintenanceSummary() MaintenanceStats {
	var stats MaintenanceStats
	for _, request := range d.MaintenanceRequests {
		switch request.Status {
		case domain.MaintenanceInProgress:
			stats.InProgress++
		default:
			stats.Open++
		}
	}
	stats.Completed = len(d.MaintenanceRecords)
	for _, record := range d.MaintenanceRecords {
		stats.TotalCost += record.Cost
	}
	return stats
}

// UnitLabel renders "<property name> • <unit label>" for a unit id. A missing
// unit renders as "—"; a dangling property reference falls back to the
// "Property" placeholder.
func (d Document) UnitLabel(unitID string) string {
	var unit domain.Unit
	found := false
	for _, candidate := range d.Units {
		if candidate.ID == unitID {
			unit = candidate
			found = true
			break
		}
	}
	if !found {
		return "—"
	}
	propertyName := "Property"
	for _, property := range d.Properties {
		if property.ID == unit.PropertyID {
			propertyName = property.Name
			break
		}
	}
	return fmt.Sprintf("%s • %s", propertyName, unit.Label)
}

// NotificationsNewestFirst returns notifications ordered by created date
// descending; ties keep insertion order reversed so the latest append wins.
func (d Document) NotificationsNewestFirst() []domain.Notification {
	out := make([]domain.Notification, len(d.Notifications))
	copy(out, d.Notifications)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Created > out[j].Created })
	return out
}

// SearchResult is one cross-entity search hit.
type SearchResult struct {
	Label       string
	Meta        string
	Destination string
}

// Search matches a case-insensitive substring across properties, units,
// tenants, vendors, and maintenance requests. Results are deduplicated by
// their full (label, meta, destination) triple; an empty term matches
// nothing.
func (d Document) Search(term string) []SearchResult {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}
	matches := func(fields ...string) bool {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}

	var results []SearchResult
	seen := make(map[SearchResult]struct{})
	add := func(result SearchResult) {
		if _, dup := seen[result]; dup {
			return
		}
		seen[result] = struct{}{}
		results = append(results, result)
	}

	for _, property := range d.Properties {
		if matches(property.Name, property.Address) {
			add(SearchResult{Label: property.Name, Meta: property.Address, Destination: "properties/" + property.ID})
		}
	}
	for _, unit := range d.Units {
		if matches(unit.Label, unit.TenantName) {
			add(SearchResult{Label: d.UnitLabel(unit.ID), Meta: string(unit.Status), Destination: "units/" + unit.ID})
		}
	}
	for _, tenant := range d.Tenants {
		if matches(tenant.Name, tenant.Email) {
			add(SearchResult{Label: tenant.Name, Meta: tenant.Email, Destination: "tenants/" + tenant.ID})
		}
	}
	for _, vendor := range d.Vendors {
		if matches(vendor.Name, vendor.Category, vendor.Email) {
			add(SearchResult{Label: vendor.Name, Meta: vendor.Category, Destination: "vendors/" + vendor.ID})
		}
	}
	for _, request := range d.MaintenanceRequests {
		if matches(request.Title, request.Category) {
			add(SearchResult{Label: request.Title, Meta: request.Category, Destination: "maintenance/" + request.ID})
		}
	}
	return results
}

// Dashboard bundles the landing-screen figures for one month.
type Dashboard struct {
	OccupancyPct  int
	Financials    FinancialSummary
	Maintenance   MaintenanceStats
	ExpiringSoon  []domain.Lease
	Notifications []domain.Notification
}

// BuildDashboard derives the landing screen for the given YYYY-MM month.
func (d Document) BuildDashboard(month string) Dashboard {
	return Dashboard{
		OccupancyPct:  d.Occupancy(),
		Financials:    d.Financials(month),
		Maintenance:   d.MaintenanceSummary(),
		ExpiringSoon:  d.ExpiringSoon(),
		Notifications: d.NotificationsNewestFirst(),
	}
}
