package core

import (
	"context"
	"encoding/json"
	"fmt"

	"rentcore/internal/infra/persistence/memory"
)

// seedDocument returns the demo portfolio loaded by Bootstrap: two DC
// properties with units, tenants, active leases, a January payment run,
// tracked features, maintenance in both states, vendors, preventive tasks,
// and dashboard notifications.
func seedDocument() memory.Snapshot {
	return memory.Snapshot{
		Properties: []Property{
			{Base: Base{ID: "p1"}, Name: "Capitol Hill Duplex", Address: "123 A St NE, Washington, DC", Type: "House"},
			{Base: Base{ID: "p2"}, Name: "Navy Yard Flats", Address: "77 Water St SE, Washington, DC", Type: "Apartment"},
		},
		Units: []Unit{
			{Base: Base{ID: "u1"}, PropertyID: "p1", Label: "Unit A", SqFt: 900, Rent: 2800, Status: UnitOccupied, TenantName: "Jordan Lee", LeaseActive: true},
			{Base: Base{ID: "u2"}, PropertyID: "p1", Label: "Unit B", SqFt: 850, Rent: 2600, Status: UnitVacant},
			{Base: Base{ID: "u3"}, PropertyID: "p2", Label: "101", SqFt: 720, Rent: 2500, Status: UnitOccupied, TenantName: "Sam Patel", LeaseActive: true},
			{Base: Base{ID: "u4"}, PropertyID: "p2", Label: "102", SqFt: 705, Rent: 2450, Status: UnitOccupied, TenantName: "Avery Chen", LeaseActive: true},
			{Base: Base{ID: "u5"}, PropertyID: "p2", Label: "103", SqFt: 690, Rent: 2400, Status: UnitVacant},
		},
		Tenants: []Tenant{
			{Base: Base{ID: "t1"}, UnitID: "u1", Name: "Jordan Lee", Email: "jordan@example.com", Phone: "555-111-2222"},
			{Base: Base{ID: "t2"}, UnitID: "u3", Name: "Sam Patel", Email: "sam@example.com", Phone: "555-222-3333"},
			{Base: Base{ID: "t3"}, UnitID: "u4", Name: "Avery Chen", Email: "avery@example.com", Phone: "555-333-4444"},
		},
		Leases: []Lease{
			{Base: Base{ID: "l1"}, UnitID: "u1", TenantID: "t1", Start: "2025-06-01", End: "2026-05-31", Rent: 2800, Deposit: 2800, Active: true},
			{Base: Base{ID: "l2"}, UnitID: "u3", TenantID: "t2", Start: "2025-09-01", End: "2026-08-31", Rent: 2500, Deposit: 2500, Active: true},
			{Base: Base{ID: "l3"}, UnitID: "u4", TenantID: "t3", Start: "2025-03-01", End: "2026-02-28", Rent: 2450, Deposit: 2450, Active: true},
		},
		Payments: []Payment{
			{Base: Base{ID: "pay1"}, LeaseID: "l1", Month: "2026-01", Amount: 2800, Status: PaymentPaid},
			{Base: Base{ID: "pay2"}, LeaseID: "l2", Month: "2026-01", Amount: 2500, Status: PaymentPaid},
			{Base: Base{ID: "pay3"}, LeaseID: "l3", Month: "2026-01", Amount: 2450, Status: PaymentUnpaid},
		},
		UnitFeatures: []UnitFeature{
			{Base: Base{ID: "f1"}, UnitID: "u1", Category: "Appliance", Name: "Dishwasher (Bosch)"},
			{Base: Base{ID: "f2"}, UnitID: "u1", Category: "HVAC", Name: "HVAC (Carrier)"},
			{Base: Base{ID: "f3"}, UnitID: "u3", Category: "Appliance", Name: "Washer/Dryer"},
		},
		MaintenanceRequests: []MaintenanceRequest{
			{Base: Base{ID: "m1"}, UnitID: "u1", Title: "Dishwasher not draining", Category: "Appliance", Priority: PriorityMedium, Status: MaintenanceOpen, Created: "2026-01-22", FeatureID: "f1"},
			{Base: Base{ID: "m2"}, UnitID: "u3", Title: "HVAC making noise", Category: "HVAC", Priority: PriorityMedium, Status: MaintenanceInProgress, Created: "2026-01-18", VendorID: "v1", FeatureID: "f2"},
		},
		MaintenanceRecords: []MaintenanceRecord{
			{Base: Base{ID: "mh1"}, UnitID: "u3", Title: "HVAC filter replacement", Category: "HVAC", Status: MaintenanceComplete, Cost: 180, VendorID: "v1", FeatureID: "f2", Completed: "2025-12-10"},
			{Base: Base{ID: "mh2"}, UnitID: "u1", Title: "Garbage disposal unclog", Category: "Plumbing", Status: MaintenanceComplete, Cost: 120, Completed: "2025-11-03"},
		},
		Vendors: []Vendor{
			{Base: Base{ID: "v1"}, Name: "District HVAC Co.", Category: "HVAC", Phone: "555-777-1212", Email: "dispatch@dhvac.com"},
			{Base: Base{ID: "v2"}, Name: "Capitol Plumbing", Category: "Plumbing", Phone: "555-888-3434", Email: "service@capplumb.com"},
		},
		PreventiveTasks: []PreventiveTask{
			{Base: Base{ID: "pm1"}, Scope: TaskScopeProperty, PropertyID: "p2", Title: "Smoke/CO detector test", Frequency: FrequencyQuarterly, NextDue: "2026-03-15"},
			{Base: Base{ID: "pm2"}, Scope: TaskScopeUnit, PropertyID: "p1", UnitID: "u1", Title: "HVAC seasonal tune-up", Frequency: FrequencySemiAnnual, NextDue: "2026-04-01", VendorID: "v1"},
		},
		Notifications: []Notification{
			{Base: Base{ID: "n1"}, Type: NotificationLease, Text: "Lease ending soon: Unit 102 (ends 2026-02-28)", Created: "2026-01-20"},
			{Base: Base{ID: "n2"}, Type: NotificationRent, Text: "Rent overdue: Unit 102 (Jan payment unpaid)", Created: "2026-01-26"},
			{Base: Base{ID: "n3"}, Type: NotificationMaintenance, Text: "New request: Dishwasher not draining (Unit A)", Created: "2026-01-22"},
		},
	}
}

// Bootstrap seeds the demo portfolio when every collection is empty. A store
// with any existing record is left untouched, so repeated calls are
// idempotent. Returns true when seeding happened.
func (s *Service) Bootstrap(ctx context.Context) (bool, error) {
	empty := true
	if err := s.store.View(ctx, func(view TransactionView) error {
		empty = len(view.ListProperties()) == 0 &&
			len(view.ListUnits()) == 0 &&
			len(view.ListTenants()) == 0 &&
			len(view.ListLeases()) == 0 &&
			len(view.ListPayments()) == 0 &&
			len(view.ListUnitFeatures()) == 0 &&
			len(view.ListMaintenanceRequests()) == 0 &&
			len(view.ListMaintenanceRecords()) == 0 &&
			len(view.ListVendors()) == 0 &&
			len(view.ListPreventiveTasks()) == 0 &&
			len(view.ListNotifications()) == 0 &&
			len(view.ListProfiles()) == 0
		return nil
	}); err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}

	seed := seedDocument()
	_, err := s.transact(ctx, "bootstrap", func(tx Transaction) (string, error) {
		for _, property := range seed.Properties {
			if _, err := tx.CreateProperty(property); err != nil {
				return "", err
			}
		}
		for _, unit := range seed.Units {
			if _, err := tx.CreateUnit(unit); err != nil {
				return "", err
			}
		}
		for _, tenant := range seed.Tenants {
			if _, err := tx.CreateTenant(tenant); err != nil {
				return "", err
			}
		}
		for _, lease := range seed.Leases {
			if _, err := tx.CreateLease(lease); err != nil {
				return "", err
			}
		}
		for _, payment := range seed.Payments {
			if _, err := tx.CreatePayment(payment); err != nil {
				return "", err
			}
		}
		for _, feature := range seed.UnitFeatures {
			if _, err := tx.CreateUnitFeature(feature); err != nil {
				return "", err
			}
		}
		for _, request := range seed.MaintenanceRequests {
			if _, err := tx.CreateMaintenanceRequest(request); err != nil {
				return "", err
			}
		}
		for _, record := range seed.MaintenanceRecords {
			if _, err := tx.CreateMaintenanceRecord(record); err != nil {
				return "", err
			}
		}
		for _, vendor := range seed.Vendors {
			if _, err := tx.CreateVendor(vendor); err != nil {
				return "", err
			}
		}
		for _, task := range seed.PreventiveTasks {
			if _, err := tx.CreatePreventiveTask(task); err != nil {
				return "", err
			}
		}
		for _, notification := range seed.Notifications {
			if _, err := tx.CreateNotification(notification); err != nil {
				return "", err
			}
		}
		return "", nil
	})
	if err != nil {
		return false, err
	}
	s.opts.logger.Info("seeded demo portfolio")
	return true, nil
}

// stateCarrier is implemented by stores that can dump and replace their full
// in-memory state. All bundled backends qualify via their embedded memory
// store.
type stateCarrier interface {
	ExportState() memory.Snapshot
	ImportState(memory.Snapshot)
}

// ExportDocument serializes the full document as indented JSON, suitable for
// a user-facing backup download.
func (s *Service) ExportDocument(context.Context) ([]byte, error) {
	carrier, ok := s.store.(stateCarrier)
	if !ok {
		return nil, fmt.Errorf("store %T does not support document export", s.store)
	}
	return json.MarshalIndent(carrier.ExportState(), "", "  ")
}

// ResetToSeed wipes the document and reloads the demo portfolio in one step.
// Durable stores persist the reseeded document through the bootstrap
// transaction.
func (s *Service) ResetToSeed(ctx context.Context) error {
	carrier, ok := s.store.(stateCarrier)
	if !ok {
		return fmt.Errorf("store %T does not support reset", s.store)
	}
	carrier.ImportState(memory.Snapshot{})
	seeded, err := s.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if !seeded {
		return fmt.Errorf("reset left a non-empty document")
	}
	return nil
}
