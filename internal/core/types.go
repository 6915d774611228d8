package core

import "rentcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	UnitStatus         = domain.UnitStatus
	MaintenanceStatus  = domain.MaintenanceStatus
	PaymentStatus      = domain.PaymentStatus
	Priority           = domain.Priority
	NotificationType   = domain.NotificationType
	TaskFrequency      = domain.TaskFrequency
	TaskScope          = domain.TaskScope
	Severity           = domain.Severity
	Base               = domain.Base
	Property           = domain.Property
	Unit               = domain.Unit
	Tenant             = domain.Tenant
	Lease              = domain.Lease
	Payment            = domain.Payment
	UnitFeature        = domain.UnitFeature
	MaintenanceRequest = domain.MaintenanceRequest
	MaintenanceRecord  = domain.MaintenanceRecord
	Vendor             = domain.Vendor
	PreventiveTask     = domain.PreventiveTask
	Notification       = domain.Notification
	Profile            = domain.Profile
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	Rule               = domain.Rule
	RuleView           = domain.RuleView
	RulesEngine        = domain.RulesEngine
)

const (
	EntityProperty           = domain.EntityProperty
	EntityUnit               = domain.EntityUnit
	EntityTenant             = domain.EntityTenant
	EntityLease              = domain.EntityLease
	EntityPayment            = domain.EntityPayment
	EntityUnitFeature        = domain.EntityUnitFeature
	EntityMaintenanceRequest = domain.EntityMaintenanceRequest
	EntityMaintenanceRecord  = domain.EntityMaintenanceRecord
	EntityVendor             = domain.EntityVendor
	EntityPreventiveTask     = domain.EntityPreventiveTask
	EntityNotification       = domain.EntityNotification
	EntityProfile            = domain.EntityProfile
)

const (
	UnitOccupied = domain.UnitOccupied
	UnitVacant   = domain.UnitVacant
)

const (
	MaintenanceOpen       = domain.MaintenanceOpen
	MaintenanceInProgress = domain.MaintenanceInProgress
	MaintenanceComplete   = domain.MaintenanceComplete
)

const (
	PriorityLow    = domain.PriorityLow
	PriorityMedium = domain.PriorityMedium
	PriorityHigh   = domain.PriorityHigh
)

const (
	NotificationLease       = domain.NotificationLease
	NotificationRent        = domain.NotificationRent
	NotificationMaintenance = domain.NotificationMaintenance
)

const (
	FrequencyQuarterly  = domain.FrequencyQuarterly
	FrequencySemiAnnual = domain.FrequencySemiAnnual
	FrequencyAnnual     = domain.FrequencyAnnual
)

const (
	TaskScopeProperty = domain.TaskScopeProperty
	TaskScopeUnit     = domain.TaskScopeUnit
)

const (
	PaymentPaid   = domain.PaymentPaid
	PaymentUnpaid = domain.PaymentUnpaid
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(ReferenceIntegrityRule())
	return engine
}
