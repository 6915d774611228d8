// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by rentcore.
package domain

import (
	"encoding/json"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityProperty identifies a property record.
	EntityProperty EntityType = "property"
	// EntityUnit identifies a rentable unit record.
	EntityUnit EntityType = "unit"
	// EntityTenant identifies a tenant record.
	EntityTenant EntityType = "tenant"
	// EntityLease identifies a lease record.
	EntityLease EntityType = "lease"
	// EntityPayment identifies a monthly rent payment record.
	EntityPayment EntityType = "payment"
	// EntityUnitFeature identifies a tracked appliance or system within a unit.
	EntityUnitFeature EntityType = "unit_feature"
	// EntityMaintenanceRequest identifies an active maintenance request.
	EntityMaintenanceRequest EntityType = "maintenance_request"
	// EntityMaintenanceRecord identifies a completed maintenance history entry.
	EntityMaintenanceRecord EntityType = "maintenance_record"
	// EntityVendor identifies a vendor contact record.
	EntityVendor EntityType = "vendor"
	// EntityPreventiveTask identifies a recurring preventive maintenance task.
	EntityPreventiveTask EntityType = "preventive_task"
	// EntityNotification identifies a notification record.
	EntityNotification EntityType = "notification"
	// EntityProfile identifies a user profile record keyed by email.
	EntityProfile EntityType = "profile"
)

// UnitStatus represents the occupancy state of a unit.
type UnitStatus string

// Canonical unit statuses driven by lease lifecycle transitions.
const (
	UnitOccupied UnitStatus = "Occupied"
	UnitVacant   UnitStatus = "Vacant"
)

// MaintenanceStatus enumerates the maintenance workflow states. Requests only
// ever hold Open or In Progress; Complete lives on history records.
type MaintenanceStatus string

// Canonical maintenance statuses.
const (
	MaintenanceOpen       MaintenanceStatus = "Open"
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceComplete   MaintenanceStatus = "Complete"
)

// PaymentStatus enumerates rent payment states.
type PaymentStatus string

// Canonical payment statuses.
const (
	PaymentPaid   PaymentStatus = "Paid"
	PaymentUnpaid PaymentStatus = "Unpaid"
)

// Priority captures maintenance urgency.
type Priority string

// Canonical maintenance priorities.
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// NotificationType classifies notifications for presentation.
type NotificationType string

// Canonical notification types.
const (
	NotificationLease       NotificationType = "Lease"
	NotificationRent        NotificationType = "Rent"
	NotificationMaintenance NotificationType = "Maintenance"
)

// TaskFrequency describes how often a preventive task recurs.
type TaskFrequency string

// Canonical preventive task frequencies.
const (
	FrequencyQuarterly  TaskFrequency = "Quarterly"
	FrequencySemiAnnual TaskFrequency = "Semi-Annual"
	FrequencyAnnual     TaskFrequency = "Annual"
)

// Months returns the recurrence interval in calendar months. Unknown
// frequencies default to annual.
func (f TaskFrequency) Months() int {
	switch f {
	case FrequencyQuarterly:
		return 3
	case FrequencySemiAnnual:
		return 6
	default:
		return 12
	}
}

// TaskScope indicates whether a preventive task targets a whole property or a single unit.
type TaskScope string

// Canonical preventive task scopes.
const (
	TaskScopeProperty TaskScope = "Property"
	TaskScopeUnit     TaskScope = "Unit"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Property represents a building or house in the managed portfolio.
type Property struct {
	Base
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type"`
}

// Unit represents a rentable unit within a property. TenantName and
// LeaseActive are denormalized from the current lease and are maintained in
// the same transaction that changes lease state.
type Unit struct {
	Base
	PropertyID  string     `json:"property_id"`
	Label       string     `json:"label"`
	SqFt        int        `json:"sqft"`
	Rent        float64    `json:"rent"`
	Status      UnitStatus `json:"status"`
	TenantName  string     `json:"tenant_name"`
	LeaseActive bool       `json:"lease_active"`
}

// Tenant represents a person associated with a unit.
type Tenant struct {
	Base
	UnitID string `json:"unit_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// Lease binds a tenant to a unit for a date range. Leases are never hard
// deleted; ending a lease clears Active and the record stays for audit.
// Dates are calendar days in YYYY-MM-DD form.
type Lease struct {
	Base
	UnitID   string  `json:"unit_id"`
	TenantID string  `json:"tenant_id"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Rent     float64 `json:"rent"`
	Deposit  float64 `json:"deposit"`
	Active   bool    `json:"active"`
}

type leaseAlias Lease

// UnmarshalJSON treats an absent active flag as active: only an explicit
// false marks a lease ended.
func (l *Lease) UnmarshalJSON(data []byte) error {
	type payload struct {
		leaseAlias
		Active *bool `json:"active"`
	}
	var aux payload
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = Lease(aux.leaseAlias)
	l.Active = aux.Active == nil || *aux.Active
	return nil
}

// Payment tracks one calendar month of rent owed under a lease.
// Month is in YYYY-MM form.
type Payment struct {
	Base
	LeaseID string        `json:"lease_id"`
	Month   string        `json:"month"`
	Amount  float64       `json:"amount"`
	Status  PaymentStatus `json:"status"`
}

// UnitFeature tracks an appliance or building system within a unit, with
// optional warranty and service metadata. Dates are YYYY-MM-DD strings and
// may be empty.
type UnitFeature struct {
	Base
	UnitID          string `json:"unit_id"`
	Category        string `json:"category"`
	Name            string `json:"name"`
	Manufacturer    string `json:"manufacturer,omitempty"`
	Model           string `json:"model,omitempty"`
	InstallDate     string `json:"install_date,omitempty"`
	WarrantyExpires string `json:"warranty_expires,omitempty"`
	LastServiceDate string `json:"last_service_date,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// MaintenanceRequest captures an active repair or service request against a
// unit. FeatureID and VendorID are optional links.
type MaintenanceRequest struct {
	Base
	UnitID      string            `json:"unit_id"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Priority    Priority          `json:"priority"`
	Description string            `json:"description,omitempty"`
	Status      MaintenanceStatus `json:"status"`
	Created     string            `json:"created"`
	VendorID    string            `json:"vendor_id,omitempty"`
	FeatureID   string            `json:"feature_id,omitempty"`
}

// MaintenanceRecord is the append-only history entry written when a request
// completes. Completed is the completion date in YYYY-MM-DD form.
type MaintenanceRecord struct {
	Base
	UnitID    string            `json:"unit_id"`
	Title     string            `json:"title"`
	Category  string            `json:"category"`
	Status    MaintenanceStatus `json:"status"`
	Cost      float64           `json:"cost"`
	VendorID  string            `json:"vendor_id,omitempty"`
	FeatureID string            `json:"feature_id,omitempty"`
	Completed string            `json:"completed"`
}

// Vendor represents a preferred service provider.
type Vendor struct {
	Base
	Name     string `json:"name"`
	Category string `json:"category"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// PreventiveTask describes recurring scheduled maintenance scoped to a
// property or a unit.
type PreventiveTask struct {
	Base
	Scope      TaskScope     `json:"scope"`
	PropertyID string        `json:"property_id,omitempty"`
	UnitID     string        `json:"unit_id,omitempty"`
	Title      string        `json:"title"`
	Frequency  TaskFrequency `json:"frequency"`
	NextDue    string        `json:"next_due"`
	VendorID   string        `json:"vendor_id,omitempty"`
}

// Notification is an alert or reminder surfaced on the dashboard.
type Notification struct {
	Base
	Type    NotificationType `json:"type"`
	Text    string           `json:"text"`
	Created string           `json:"created"`
}

// Profile holds per-user preferences keyed by lowercase email. Profiles sit
// outside the Base/ID scheme because the email is the identity.
type Profile struct {
	Email         string    `json:"email"`
	Completed     bool      `json:"completed"`
	Phone         string    `json:"phone,omitempty"`
	Company       string    `json:"company,omitempty"`
	PortfolioName string    `json:"portfolio_name,omitempty"`
	Role          string    `json:"role,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
