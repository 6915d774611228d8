package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateProperty(Property) (Property, error)
	UpdateProperty(id string, mutator func(*Property) error) (Property, error)
	DeleteProperty(id string) error
	CreateUnit(Unit) (Unit, error)
	UpdateUnit(id string, mutator func(*Unit) error) (Unit, error)
	DeleteUnit(id string) error
	CreateTenant(Tenant) (Tenant, error)
	UpdateTenant(id string, mutator func(*Tenant) error) (Tenant, error)
	DeleteTenant(id string) error
	CreateLease(Lease) (Lease, error)
	UpdateLease(id string, mutator func(*Lease) error) (Lease, error)
	CreatePayment(Payment) (Payment, error)
	UpdatePayment(id string, mutator func(*Payment) error) (Payment, error)
	DeletePayment(id string) error
	CreateUnitFeature(UnitFeature) (UnitFeature, error)
	UpdateUnitFeature(id string, mutator func(*UnitFeature) error) (UnitFeature, error)
	DeleteUnitFeature(id string) error
	CreateMaintenanceRequest(MaintenanceRequest) (MaintenanceRequest, error)
	UpdateMaintenanceRequest(id string, mutator func(*MaintenanceRequest) error) (MaintenanceRequest, error)
	DeleteMaintenanceRequest(id string) error
	CreateMaintenanceRecord(MaintenanceRecord) (MaintenanceRecord, error)
	CreateVendor(Vendor) (Vendor, error)
	UpdateVendor(id string, mutator func(*Vendor) error) (Vendor, error)
	DeleteVendor(id string) error
	CreatePreventiveTask(PreventiveTask) (PreventiveTask, error)
	UpdatePreventiveTask(id string, mutator func(*PreventiveTask) error) (PreventiveTask, error)
	DeletePreventiveTask(id string) error
	CreateNotification(Notification) (Notification, error)
	DeleteNotification(id string) error
	ClearNotifications() error
	PutProfile(Profile) (Profile, error)
	FindProperty(id string) (Property, bool)
	FindUnit(id string) (Unit, bool)
	FindTenant(id string) (Tenant, bool)
	FindLease(id string) (Lease, bool)
	FindPayment(id string) (Payment, bool)
	FindUnitFeature(id string) (UnitFeature, bool)
	FindMaintenanceRequest(id string) (MaintenanceRequest, bool)
	FindVendor(id string) (Vendor, bool)
	FindPreventiveTask(id string) (PreventiveTask, bool)
	FindProfile(email string) (Profile, bool)
}

// TransactionView provides read-only access to snapshot data for rules and
// derivations. Listing operations return records in insertion order.
type TransactionView interface {
	ListProperties() []Property
	FindProperty(id string) (Property, bool)
	ListUnits() []Unit
	FindUnit(id string) (Unit, bool)
	ListTenants() []Tenant
	FindTenant(id string) (Tenant, bool)
	ListLeases() []Lease
	FindLease(id string) (Lease, bool)
	ListPayments() []Payment
	FindPayment(id string) (Payment, bool)
	ListUnitFeatures() []UnitFeature
	FindUnitFeature(id string) (UnitFeature, bool)
	ListMaintenanceRequests() []MaintenanceRequest
	FindMaintenanceRequest(id string) (MaintenanceRequest, bool)
	ListMaintenanceRecords() []MaintenanceRecord
	ListVendors() []Vendor
	FindVendor(id string) (Vendor, bool)
	ListPreventiveTasks() []PreventiveTask
	FindPreventiveTask(id string) (PreventiveTask, bool)
	ListNotifications() []Notification
	ListProfiles() []Profile
	FindProfile(email string) (Profile, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetProperty(id string) (Property, bool)
	ListProperties() []Property
	GetUnit(id string) (Unit, bool)
	ListUnits() []Unit
	GetTenant(id string) (Tenant, bool)
	ListTenants() []Tenant
	GetLease(id string) (Lease, bool)
	ListLeases() []Lease
	GetPayment(id string) (Payment, bool)
	ListPayments() []Payment
	ListUnitFeatures() []UnitFeature
	ListMaintenanceRequests() []MaintenanceRequest
	ListMaintenanceRecords() []MaintenanceRecord
	ListVendors() []Vendor
	ListPreventiveTasks() []PreventiveTask
	ListNotifications() []Notification
	GetProfile(email string) (Profile, bool)
	ListProfiles() []Profile
}
