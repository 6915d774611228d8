// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rentcore/pkg/domain"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var (
	_ domain.PersistentStore = (*Store)(nil)
	_ domain.Transaction     = (*transaction)(nil)
	_ domain.RuleView        = transactionView{}
)

type (
	// Property aliases domain.Property for in-memory persistence operations.
	Property = domain.Property
	// Unit aliases domain.Unit.
	Unit = domain.Unit
	// Tenant aliases domain.Tenant.
	Tenant = domain.Tenant
	// Lease aliases domain.Lease.
	Lease = domain.Lease
	// Payment aliases domain.Payment.
	Payment = domain.Payment
	// UnitFeature aliases domain.UnitFeature.
	UnitFeature = domain.UnitFeature
	// MaintenanceRequest aliases domain.MaintenanceRequest.
	MaintenanceRequest = domain.MaintenanceRequest
	// MaintenanceRecord aliases domain.MaintenanceRecord.
	MaintenanceRecord = domain.MaintenanceRecord
	// Vendor aliases domain.Vendor.
	Vendor = domain.Vendor
	// PreventiveTask aliases domain.PreventiveTask.
	PreventiveTask = domain.PreventiveTask
	// Notification aliases domain.Notification.
	Notification = domain.Notification
	// Profile aliases domain.Profile.
	Profile = domain.Profile
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

// memoryState holds every collection as a slice so that listing preserves
// insertion order, matching how records are surfaced to callers. Profiles are
// keyed by lowercase email and listed sorted for determinism.
type memoryState struct {
	properties    []Property
	units         []Unit
	tenants       []Tenant
	leases        []Lease
	payments      []Payment
	features      []UnitFeature
	maintenance   []MaintenanceRequest
	history       []MaintenanceRecord
	vendors       []Vendor
	tasks         []PreventiveTask
	notifications []Notification
	profiles      map[string]Profile
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Properties          []Property           `json:"properties"`
	Units               []Unit               `json:"units"`
	Tenants             []Tenant             `json:"tenants"`
	Leases              []Lease              `json:"leases"`
	Payments            []Payment            `json:"payments"`
	UnitFeatures        []UnitFeature        `json:"unit_features"`
	MaintenanceRequests []MaintenanceRequest `json:"maintenance"`
	MaintenanceRecords  []MaintenanceRecord  `json:"maintenance_history"`
	Vendors             []Vendor             `json:"vendors"`
	PreventiveTasks     []PreventiveTask     `json:"preventive_tasks"`
	Notifications       []Notification       `json:"notifications"`
	Profiles            map[string]Profile   `json:"profiles"`
}

// IsEmpty reports whether the snapshot carries no records at all.
func (s Snapshot) IsEmpty() bool {
	return len(s.Properties) == 0 && len(s.Units) == 0 && len(s.Tenants) == 0 &&
		len(s.Leases) == 0 && len(s.Payments) == 0 && len(s.UnitFeatures) == 0 &&
		len(s.MaintenanceRequests) == 0 && len(s.MaintenanceRecords) == 0 &&
		len(s.Vendors) == 0 && len(s.PreventiveTasks) == 0 &&
		len(s.Notifications) == 0 && len(s.Profiles) == 0
}

func newMemoryState() memoryState {
	return memoryState{profiles: make(map[string]Profile)}
}

func (s memoryState) clone() memoryState {
	cp := memoryState{
		properties:    append([]Property(nil), s.properties...),
		units:         append([]Unit(nil), s.units...),
		tenants:       append([]Tenant(nil), s.tenants...),
		leases:        append([]Lease(nil), s.leases...),
		payments:      append([]Payment(nil), s.payments...),
		features:      append([]UnitFeature(nil), s.features...),
		maintenance:   append([]MaintenanceRequest(nil), s.maintenance...),
		history:       append([]MaintenanceRecord(nil), s.history...),
		vendors:       append([]Vendor(nil), s.vendors...),
		tasks:         append([]PreventiveTask(nil), s.tasks...),
		notifications: append([]Notification(nil), s.notifications...),
		profiles:      make(map[string]Profile, len(s.profiles)),
	}
	for k, v := range s.profiles {
		cp.profiles[k] = v
	}
	return cp
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	cp := state.clone()
	return Snapshot{
		Properties:          cp.properties,
		Units:               cp.units,
		Tenants:             cp.tenants,
		Leases:              cp.leases,
		Payments:            cp.payments,
		UnitFeatures:        cp.features,
		MaintenanceRequests: cp.maintenance,
		MaintenanceRecords:  cp.history,
		Vendors:             cp.vendors,
		PreventiveTasks:     cp.tasks,
		Notifications:       cp.notifications,
		Profiles:            cp.profiles,
	}
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := memoryState{
		properties:    append([]Property(nil), s.Properties...),
		units:         append([]Unit(nil), s.Units...),
		tenants:       append([]Tenant(nil), s.Tenants...),
		leases:        append([]Lease(nil), s.Leases...),
		payments:      append([]Payment(nil), s.Payments...),
		features:      append([]UnitFeature(nil), s.UnitFeatures...),
		maintenance:   append([]MaintenanceRequest(nil), s.MaintenanceRequests...),
		history:       append([]MaintenanceRecord(nil), s.MaintenanceRecords...),
		vendors:       append([]Vendor(nil), s.Vendors...),
		tasks:         append([]PreventiveTask(nil), s.PreventiveTasks...),
		notifications: append([]Notification(nil), s.Notifications...),
		profiles:      make(map[string]Profile, len(s.Profiles)),
	}
	for k, v := range s.Profiles {
		state.profiles[strings.ToLower(k)] = v
	}
	return state
}

// migrateSnapshot normalizes snapshots loaded from durable backends. Profile
// keys are lowercased and dangling references are left in place: derivations
// tolerate them and deletions enforce integrity going forward.
func migrateSnapshot(s Snapshot) Snapshot {
	if s.Profiles == nil {
		s.Profiles = make(map[string]Profile)
	}
	normalized := make(map[string]Profile, len(s.Profiles))
	for k, v := range s.Profiles {
		key := strings.ToLower(strings.TrimSpace(k))
		v.Email = key
		normalized[key] = v
	}
	s.Profiles = normalized
	return s
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// NewID returns a fresh record identifier carrying the conventional
// per-entity prefix ("p" for properties, "l" for leases, and so on).
func NewID(prefix string) string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return prefix + hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine for integration points.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc overrides the time provider, primarily for deterministic tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of the transactional state to
// rules and derivations.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) transactionView {
	return transactionView{state: state}
}

// RunInTransaction executes fn within a transactional copy of the store state.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// CreateProperty stores a new property within the transaction.
func (tx *transaction) CreateProperty(p Property) (Property, error) {
	if p.ID == "" {
		p.ID = NewID("p")
	}
	if _, ok := findProperty(tx.state.properties, p.ID); ok {
		return Property{}, fmt.Errorf("property %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.properties = append(tx.state.properties, p)
	tx.recordChange(Change{Entity: domain.EntityProperty, Action: domain.ActionCreate, After: p})
	return p, nil
}

// UpdateProperty mutates a property using the provided mutator function.
func (tx *transaction) UpdateProperty(id string, mutator func(*Property) error) (Property, error) {
	idx, ok := findProperty(tx.state.properties, id)
	if !ok {
		return Property{}, fmt.Errorf("property %q not found", id)
	}
	before := tx.state.properties[idx]
	current := before
	if err := mutator(&current); err != nil {
		return Property{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.properties[idx] = current
	tx.recordChange(Change{Entity: domain.EntityProperty, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteProperty removes a property. Properties that still contain units
// cannot be removed.
func (tx *transaction) DeleteProperty(id string) error {
	idx, ok := findProperty(tx.state.properties, id)
	if !ok {
		return fmt.Errorf("property %q not found", id)
	}
	for _, u := range tx.state.units {
		if u.PropertyID == id {
			return fmt.Errorf("property %q still referenced by unit %q", id, u.ID)
		}
	}
	current := tx.state.properties[idx]
	tx.state.properties = append(tx.state.properties[:idx], tx.state.properties[idx+1:]...)
	tx.recordChange(Change{Entity: domain.EntityProperty, Action: domain.ActionDelete, Before: current})
	return nil
}

// FindProperty retrieves a property by ID within the transaction scope.
func (tx *transaction) FindProperty(id string) (Property, bool) {
	idx, ok := findProperty(tx.state.properties, id)
	if !ok {
		return Property{}, false
	}
	return tx.state.properties[idx], true
}

// CreateUnit stores a new unit within the transaction.
func (tx *transaction) CreateUnit(u Unit) (Unit, error) {
	if u.ID == "" {
		u.ID = NewID("u")
	}
	if _, ok := findUnit(tx.state.units, u.ID); ok {
		return Unit{}, fmt.Errorf("unit %q already exists", u.ID)
	}
	if u.Status == "" {
		u.Status = domain.UnitVacant
	}
	u.CreatedAt = tx.now
	u.UpdatedAt = tx.now
	tx.state.units = append(tx.state.units, u)
	tx.recordChange(Change{Entity: domain.EntityUnit, Action: domain.ActionCreate, After: u})
	return u, nil
}

// UpdateUnit mutates a unit using the provided mutator function.
func (tx *transaction) UpdateUnit(id string, mutator func(*Unit) error) (Unit, error) {
	idx, ok := findUnit(tx.state.units, id)
	if !ok {
		return Unit{}, fmt.Errorf("unit %q not found", id)
	}
	before := tx.state.units[idx]
	current := before
	if err := mutator(&current); err != nil {
		return Unit{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.units[idx] = current
	tx.recordChange(Change{Entity: domain.EntityUnit, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteUnit removes a unit. Units under an active lease cannot be removed.
func (tx *transaction) DeleteUnit(id string) error {
	idx, ok := findUnit(tx.state.units, id)
	if !ok {
		return fmt.Errorf("unit %q not found", id)
	}
	current := tx.state.units[idx]
	if current.LeaseActive {
		return fmt.Errorf("unit %q still referenced by an active lease", id)
	}
	for _, l := range tx.state.leases {
		if l.UnitID == id && l.Active {
			return fmt.Errorf("unit %q still referenced by lease %q", id, l.ID)
		}
	}
	tx.state.units = append(tx.state.units[:idx], tx.state.units[idx+1:]...)
	tx.recordChange(Change{Entity: domain.EntityUnit, Action: domain.ActionDelete, Before: current})
	return nil
}

// FindUnit retrieves a unit by ID within the transaction scope.
func (tx *transaction) FindUnit(id string) (Unit, bool) {
	idx, ok := findUnit(tx.state.units, id)
	if !ok {
		return Unit{}, false
	}
	return tx.state.units[idx], true
}

// CreateTenant stores a new tenant within the transaction.
func (tx *transaction) CreateTenant(t Tenant) (Tenant, error) {
	if t.ID == "" {
		t.ID = NewID("t")
	}
	if _, ok := findTenant(tx.state.tenants, t.ID); ok {
		return Tenant{}, fmt.Errorf("tenant %q already exists", t.ID)
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	tx.state.tenants = append(tx.state.tenants, t)
	tx.recordChange(Change{Entity: domain.EntityTenant, Action: domain.ActionCreate, After: t})
	return t, nil
}

// UpdateTenant mutates a tenant using the provided mutator function.
func (tx *transaction) UpdateTenant(id string, mutator func(*Tenant) error) (Tenant, error) {
	idx, ok := findTenant(tx.state.tenants, id)
	if !ok {
		return Tenant{}, fmt.Errorf("tenant %q not found", id)
	}
	before := tx.state.tenants[idx]
	current := before
	if err := mutator(&current); err != nil {
		return Tenant{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.tenants[idx] = current
	tx.recordChange(Change{Entity: domain.EntityTenant, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteTenant removes a tenant unconditionally. Leases keep their tenant
// reference; readers resolve the gap with a placeholder.
func (tx *transaction) DeleteTenant(id string) error {
	idx, ok := findTenant(tx.state.tenants, id)
	if !ok {
		return fmt.Errorf("tenant %q not found", id)
	}
	current := tx.state.tenants[idx]
	tx.state.tenants = append(tx.state.tenants[:idx], tx.state.tenants[idx+1:]...)
	tx.recordChange(Change{Entity: domain.EntityTenant, Action: domain.ActionDelete, Before: current})
	return nil
}

// FindTenant retrieves a tenant by ID within the transaction scope.
func (tx *transaction) FindTenant(id string) (Tenant, bool) {
	idx, ok := findTenant(tx.state.tenants, id)
	if !ok {
		return Tenant{}, false
	}
	return tx.state.tenants[idx], true
}

// CreateLease stores a new lease within the transaction. Leases have no
// delete operation: ending a lease flips Active off and keeps the record.
func (tx *transaction) CreateLease(l Lease) (Lease, error) {
	if l.ID == "" {
		l.ID = NewID("l")
	}
	if _, ok := findLease(tx.state.leases, l.ID); ok {
		return Lease{}, fmt.Errorf("lease %q already exists", l.ID)
	}
	l.CreatedAt = tx.now
	l.UpdatedAt = tx.now
	tx.state.leases = append(tx.state.leases, l)
	tx.recordChange(Change{Entity: domain.EntityLease, Action: domain.ActionCreate, After: l})
	return l, nil
}

// UpdateLease mutates a lease using the provided mutator function.
func (tx *transaction) UpdateLease(id string, mutator func(*Lease) error) (Lease, error) {
	idx, ok := findLease(tx.state.leases, id)
	if !ok {
		return Lease{}, fmt.Errorf("lease %q not found", id)
	}
	before := tx.state.leases[idx]
	current := before
	if err := mutator(&current); err != nil {
		return Lease{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.leases[idx] = current
	tx.recordChange(Change{Entity: domain.EntityLease, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// FindLease retrieves a lease by ID within the transaction scope.
func (tx *transaction) FindLease(id string) (Lease, bool) {
	idx, ok := findLease(tx.state.leases, id)
	if !ok {
		return Lease{}, false
	}
	return tx.state.leases[idx], true
}

// CreatePayment stores a new payment record within the transaction.
func (tx *transaction) CreatePayment(p Payment) (Payment, error) {
	if p.ID == "" {
		p.ID = NewID("pay")
	}
	if _, ok := findPayment(tx.state.payments, p.ID); ok {
		return Payment{}, fmt.Errorf("payment %q already exists", p.ID)
	}
	if p.Status == "" {
		p.Status = domain.PaymentUnpaid
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.payments = append(tx.state.payments, p)
	tx.recordChange(Change{Entity: domain.EntityPayment, Action: domain.ActionCreate, After: p})
	return p, nil
}

// UpdatePayment mutates a payment using the provided mutator function.
func (tx *transaction) UpdatePayment(id string, mutator func(*Payment) error) (Payment, error) {
	idx, ok := findPayment(tx.state.payments, id)
	if !ok {
		return Payment{}, fmt.Errorf("payment %q not found", id)
	}
	before := tx.state.payments[idx]
	current := before
	if err := mutator(&current); err != nil {
		return Payment{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.payments[idx] = current
	tx.recordChange(Change{Entity: domain.EntityPayment, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeletePayment removes a payment record from the transaction state.
func (tx *transaction) DeletePayment(id string) error {
	idx, ok := findPayment(tx.state.payments, id)
	if !ok {
		return fmt.Errorf("payment %q not found", id)
	}
	current := tx.state.payments[idx]
	tx.state.payments = append(tx.state.payments[:idx], tx.state.payments[idx+1:]...)
	tx.recordChange(Change{Entity: domain.EntityPayment, Action: domain.ActionDelete, Before: current})
	return nil
}

// FindPayment retrieves a payment by ID within the transaction scope.
func (tx *transaction) FindPayment(id string) (Payment, bool) {
	idx, ok := findPayment(tx.state.payments, id)
	if !ok {
		return Payment{}, false
	}
	return tx.state.payments[idx], true
}

// CreateUnitFeature stores a new unit feature within the transaction.
func (tx *transaction) CreateUnitFeature(f UnitFeature) (UnitFeature, error) {
	if f.ID == "" {
		f.ID = NewID("f")
	}
	if _, ok := findUnitFeature(tx.state.features, f.ID); ok {
		return UnitFeature{}, fmt.Errorf("unit feature %q already exists", f.ID)
	}
	f.CreatedAt = tx.now
	f.UpdatedAt = tx.now
	tx.state.features = append(tx.state.features, f)
	tx.recordChange(Change{Entity: domain.EntityUnitFeature, Action: domain.ActionCreate, After: f})
	return f, nil
}

// UpdateUnitFeature mutates a unit feature using the provided mutator function.
func (tx *transaction) UpdateUnitFeature(id string, mutator func(*UnitFeature) error) (UnitFeature, error) {
	idx, ok := findUnitFeature(tx.state.features, id)
	if !ok {
		return UnitFeature{}, fmt.Errorf("unit feature %q not found", id)
	}
	before := tx.state.features[idx]
	current := before
	if err := mutator(&current); err != nil {
		return UnitFeature{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.features[idx] = current
	tx.recordChange(Change{Entity: domain.EntityUnitFeature, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteUnitFeature removes a unit feature. Requests keep their feature link
// as-is; lookups treat a missing feature as unlinked.
func (tx *transaction) DeleteUnitFeature(id string) error {
	idx, ok := findUnitFeature(tx.state.features, id)
	if !ok {
		return fmt.Errorf("unit feature %q not found", id)
	}
	current := tx.state.features[idx]
	tx.state.features = append(tx.state.features[:idx], tx.state.features[idx+1:]...)
	tx.recordChange(Change{Entity: domain.EntityUnitFeature, Action: domain.ActionDelete, Before: current})
	return nil
}

// FindUnitFeature retrieves a unit feature by ID within the transaction scope.
func (tx *transaction) FindUnitFeature(id string) (UnitFeature, bool) {
	idx, ok := findUnitFeature(tx.state.features, id)
	if !ok {
		return UnitFeature{}, false
	}
	return tx.state.features[idx], true
}

// CreateMaintenanceRequest stores a new maintenance request within the transaction.
func (tx *transaction) CreateMaintenanceRequest(m MaintenanceRequest) (MaintenanceRequest, error) {
	if m.ID == "" {
		m.ID = NewID("m")
	}
	if _, ok := findMaintenanceRequest(tx.state.maintenance, m.ID); ok {
		return MaintenanceRequest{}, fmt.Errorf("maintenance request %q already exists", m.ID)
	}
	if m.Status == "" {
		m.Status = domain.MaintenanceOpen
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	tx.state.maintenance = append(tx.state.maintenance, m)
	tx.recordChange(Change{Entity: domain.EntityMaintenanceRequest, Action: domain.ActionCreate, After: m})
	return m, nil
}

// UpdateMaintenanceRequest mutates a maintenance request using the provided mutator function.
func (tx *transaction) UpdateMaintenanceRequest(id string, mutator func(*MaintenanceRequest) error) (MaintenanceRequest, error) {
	idx, ok := findMaintenanceRequest(tx.state.maintenance, id)
	if !ok {
		return MaintenanceRequest{}, fmt.Errorf("maintenance request %q not found", id)
	}
	before := tx.state.maintenance[idx]
	current := before
	if err := mutator(&current); err != nil {
		return MaintenanceRequest{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.maintenance[idx] = current
	tx.recordChange(Change{Entity: domain.EntityMaintenanceRequest, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteMaintenanceRequest removes a maintenance request from the transaction state.
func (tx *transaction) DeleteMaintenanceRequest(id string) error {
	idx, ok := findMaintenanceRequest(tx.state.maintenance, id)
	if !ok {
		return fmt.Errorf("maintenance request %q not found", id)
	}
	current := tx.state.maintenance[idx]
	tx.state.maintenance = append(tx.state.maintenance[:idx], tx.state.maintenance[idx+1:]...)
	tx.recordChange(Change{Entity: domain.EntityMaintenanceRequest, Action: domain.ActionDelete, Before: current})
	return nil
}

// FindMaintenanceRequest retrieves a maintenance request by ID within the transaction scope.
func (tx *transaction) FindMaintenanceRequest(id string) (MaintenanceRequest, bool) {
	idx, ok := findMaintenanceRequest(tx.state.maintenance, id)
	if !ok {
		return MaintenanceRequest{}, false
	}
	return tx.state.maintenance[idx], true
}

// CreateMaintenanceRecord appends a completed maintenance history entry.
// History is append-only; there is no update or delete.
func (tx *transaction) CreateMaintenanceRecord(r MaintenanceRecord) (MaintenanceRecord, error) {
	if r.ID == "" {
		r.ID = NewID("mh")
	}
	for _, existing := range tx.state.history {
		if existing.ID == r.ID {
			return MaintenanceRecord{}, fmt.Errorf("maintenance record %q already exists", r.ID)
		}
	}
	if r.Status == "" {
		r.Status = domain.MaintenanceComplete
	}
	r.CreatedAt = tx.now
	r.UpdatedAt = tx.now
	tx.state.history = append(tx.state.history, r)
	tx.recordChange(Change{Entity: domain.EntityMaintenanceRecord, Action: domain.ActionCreate, After: r})
	return r, nil
}

// CreateVendor stores a new vendor within the transaction.
func (tx *transaction) CreateVendor(v Vendor) (Vendor, error) {
	if v.ID == "" {
		v.ID = NewID("v")
	}
	if _, ok := findVendor(tx.state.vendors, v.ID); ok {
		return Vendor{}, fmt.Errorf("vendor %q already exists", v.ID)
	}
	v.CreatedAt = tx.now
	v.UpdatedAt = tx.now
	tx.state.vendors = append(tx.state.vendors, v)
	tx.recordChange(Change{Entity: domain.EntityVendor, Action: domain.ActionCreate, After: v})
	return v, nil
}

// UpdateVendor mutates a vendor using the provided mutator function.
func (tx *transaction) UpdateVendor(id string, mutator func(*Vendor) error) (Vendor, error) {
	idx, ok := findVendor(tx.state.vendors, id)
	if !ok {
		return Vendor{}, fmt.Errorf("vendor %q not found", id)
	}
	before := tx.state.vendors[idx]
	current := before
	if err := mutator(&current); err != nil {
		return Vendor{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.vendors[idx] = current
	tx.recordChange(Change{Entity: domain.EntityVendor, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteVendor removes a vendor. Requests, history entries, and preventive
// tasks keep their vendor link; lookups treat a missing vendor as unassigned.
func (tx *transaction) DeleteVendor(id string) error {
	idx, ok := findVendor(tx.state.vendors, id)
	if !ok {
		return fmt.Errorf("vendor %q not found", id)
	}
	current := tx.state.vendors[idx]
	tx.state.vendors = append(tx.state.vendors[:idx], tx.state.vendors[idx+1:]...)
	tx.recordChange(Change{Entity: domain.EntityVendor, Action: domain.ActionDelete, Before: current})
	return nil
}

// FindVendor retrieves a vendor by ID within the transaction scope.
func (tx *transaction) FindVendor(id string) (Vendor, bool) {
	idx, ok := findVendor(tx.state.vendors, id)
	if !ok {
		return Vendor{}, false
	}
	return tx.state.vendors[idx], true
}

// CreatePreventiveTask stores a new preventive maintenance task within the transaction.
func (tx *transaction) CreatePreventiveTask(t PreventiveTask) (PreventiveTask, error) {
	if t.ID == "" {
		t.ID = NewID("pm")
	}
	if _, ok := findPreventiveTask(tx.state.tasks, t.ID); ok {
		return PreventiveTask{}, fmt.Errorf("preventive task %q already exists", t.ID)
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	tx.state.tasks = append(tx.state.tasks, t)
	tx.recordChange(Change{Entity: domain.EntityPreventiveTask, Action: domain.ActionCreate, After: t})
	return t, nil
}

// UpdatePreventiveTask mutates a preventive task using the provided mutator function.
func (tx *transaction) UpdatePreventiveTask(id string, mutator func(*PreventiveTask) error) (PreventiveTask, error) {
	idx, ok := findPreventiveTask(tx.state.tasks, id)
	if !ok {
		return PreventiveTask{}, fmt.Errorf("preventive task %q not found", id)
	}
	before := tx.state.tasks[idx]
	current := before
	if err := mutator(&current); err != nil {
		return PreventiveTask{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.tasks[idx] = current
	tx.recordChange(Change{Entity: domain.EntityPreventiveTask, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeletePreventiveTask removes a preventive task from the transaction state.
func (tx *transaction) DeletePreventiveTask(id string) error {
	idx, ok := findPreventiveTask(tx.state.tasks, id)
	if !ok {
		return fmt.Errorf("preventive task %q not found", id)
	}
	current := tx.state.tasks[idx]
	tx.state.tasks = append(tx.state.tasks[:idx], tx.state.tasks[idx+1:]...)
	tx.recordChange(Change{Entity: domain.EntityPreventiveTask, Action: domain.ActionDelete, Before: current})
	return nil
}

// FindPreventiveTask retrieves a preventive task by ID within the transaction scope.
func (tx *transaction) FindPreventiveTask(id string) (PreventiveTask, bool) {
	idx, ok := findPreventiveTask(tx.state.tasks, id)
	if !ok {
		return PreventiveTask{}, false
	}
	return tx.state.tasks[idx], true
}

// CreateNotification stores a new notification within the transaction.
func (tx *transaction) CreateNotification(n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = NewID("n")
	}
	for _, existing := range tx.state.notifications {
		if existing.ID == n.ID {
			return Notification{}, fmt.Errorf("notification %q already exists", n.ID)
		}
	}
	n.CreatedAt = tx.now
	n.UpdatedAt = tx.now
	tx.state.notifications = append(tx.state.notifications, n)
	tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionCreate, After: n})
	return n, nil
}

// DeleteNotification removes a single notification from the transaction state.
func (tx *transaction) DeleteNotification(id string) error {
	for idx, existing := range tx.state.notifications {
		if existing.ID == id {
			tx.state.notifications = append(tx.state.notifications[:idx], tx.state.notifications[idx+1:]...)
			tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionDelete, Before: existing})
			return nil
		}
	}
	return fmt.Errorf("notification %q not found", id)
}

// ClearNotifications removes every notification in a single sweep.
func (tx *transaction) ClearNotifications() error {
	for _, existing := range tx.state.notifications {
		tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionDelete, Before: existing})
	}
	tx.state.notifications = nil
	return nil
}

// PutProfile creates or replaces the profile for an email address. The whole
// record is replaced; there is no per-field merge.
func (tx *transaction) PutProfile(p Profile) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(p.Email))
	if key == "" {
		return Profile{}, fmt.Errorf("profile email is required")
	}
	p.Email = key
	p.UpdatedAt = tx.now
	if previous, ok := tx.state.profiles[key]; ok {
		tx.recordChange(Change{Entity: domain.EntityProfile, Action: domain.ActionUpdate, Before: previous, After: p})
	} else {
		tx.recordChange(Change{Entity: domain.EntityProfile, Action: domain.ActionCreate, After: p})
	}
	tx.state.profiles[key] = p
	return p, nil
}

// FindProfile retrieves a profile by email within the transaction scope.
func (tx *transaction) FindProfile(email string) (Profile, bool) {
	p, ok := tx.state.profiles[strings.ToLower(strings.TrimSpace(email))]
	return p, ok
}

func findProperty(list []Property, id string) (int, bool) {
	for i, p := range list {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findUnit(list []Unit, id string) (int, bool) {
	for i, u := range list {
		if u.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findTenant(list []Tenant, id string) (int, bool) {
	for i, t := range list {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findLease(list []Lease, id string) (int, bool) {
	for i, l := range list {
		if l.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findPayment(list []Payment, id string) (int, bool) {
	for i, p := range list {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findUnitFeature(list []UnitFeature, id string) (int, bool) {
	for i, f := range list {
		if f.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findMaintenanceRequest(list []MaintenanceRequest, id string) (int, bool) {
	for i, m := range list {
		if m.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findVendor(list []Vendor, id string) (int, bool) {
	for i, v := range list {
		if v.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findPreventiveTask(list []PreventiveTask, id string) (int, bool) {
	for i, t := range list {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

// ListProperties returns all properties within the transaction snapshot.
func (v transactionView) ListProperties() []Property {
	return append([]Property(nil), v.state.properties...)
}

// FindProperty retrieves a property by ID from the snapshot.
func (v transactionView) FindProperty(id string) (Property, bool) {
	idx, ok := findProperty(v.state.properties, id)
	if !ok {
		return Property{}, false
	}
	return v.state.properties[idx], true
}

// ListUnits returns all units within the transaction snapshot.
func (v transactionView) ListUnits() []Unit {
	return append([]Unit(nil), v.state.units...)
}

// FindUnit retrieves a unit by ID from the snapshot.
func (v transactionView) FindUnit(id string) (Unit, bool) {
	idx, ok := findUnit(v.state.units, id)
	if !ok {
		return Unit{}, false
	}
	return v.state.units[idx], true
}

// ListTenants returns all tenants within the transaction snapshot.
func (v transactionView) ListTenants() []Tenant {
	return append([]Tenant(nil), v.state.tenants...)
}

// FindTenant retrieves a tenant by ID from the snapshot.
func (v transactionView) FindTenant(id string) (Tenant, bool) {
	idx, ok := findTenant(v.state.tenants, id)
	if !ok {
		return Tenant{}, false
	}
	return v.state.tenants[idx], true
}

// ListLeases returns all leases within the transaction snapshot.
func (v transactionView) ListLeases() []Lease {
	return append([]Lease(nil), v.state.leases...)
}

// FindLease retrieves a lease by ID from the snapshot.
func (v transactionView) FindLease(id string) (Lease, bool) {
	idx, ok := findLease(v.state.leases, id)
	if !ok {
		return Lease{}, false
	}
	return v.state.leases[idx], true
}

// ListPayments returns all payments within the transaction snapshot.
func (v transactionView) ListPayments() []Payment {
	return append([]Payment(nil), v.state.payments...)
}

// FindPayment retrieves a payment by ID from the snapshot.
func (v transactionView) FindPayment(id string) (Payment, bool) {
	idx, ok := findPayment(v.state.payments, id)
	if !ok {
		return Payment{}, false
	}
	return v.state.payments[idx], true
}

// ListUnitFeatures returns all unit features within the transaction snapshot.
func (v transactionView) ListUnitFeatures() []UnitFeature {
	return append([]UnitFeature(nil), v.state.features...)
}

// FindUnitFeature retrieves a unit feature by ID from the snapshot.
func (v transactionView) FindUnitFeature(id string) (UnitFeature, bool) {
	idx, ok := findUnitFeature(v.state.features, id)
	if !ok {
		return UnitFeature{}, false
	}
	return v.state.features[idx], true
}

// ListMaintenanceRequests returns all maintenance requests within the snapshot.
func (v transactionView) ListMaintenanceRequests() []MaintenanceRequest {
	return append([]MaintenanceRequest(nil), v.state.maintenance...)
}

// FindMaintenanceRequest retrieves a maintenance request by ID from the snapshot.
func (v transactionView) FindMaintenanceRequest(id string) (MaintenanceRequest, bool) {
	idx, ok := findMaintenanceRequest(v.state.maintenance, id)
	if !ok {
		return MaintenanceRequest{}, false
	}
	return v.state.maintenance[idx], true
}

// ListMaintenanceRecords returns all completed maintenance history entries.
func (v transactionView) ListMaintenanceRecords() []MaintenanceRecord {
	return append([]MaintenanceRecord(nil), v.state.history...)
}

// ListVendors returns all vendors within the transaction snapshot.
func (v transactionView) ListVendors() []Vendor {
	return append([]Vendor(nil), v.state.vendors...)
}

// FindVendor retrieves a vendor by ID from the snapshot.
func (v transactionView) FindVendor(id string) (Vendor, bool) {
	idx, ok := findVendor(v.state.vendors, id)
	if !ok {
		return Vendor{}, false
	}
	return v.state.vendors[idx], true
}

// ListPreventiveTasks returns all preventive tasks within the snapshot.
func (v transactionView) ListPreventiveTasks() []PreventiveTask {
	return append([]PreventiveTask(nil), v.state.tasks...)
}

// FindPreventiveTask retrieves a preventive task by ID from the snapshot.
func (v transactionView) FindPreventiveTask(id string) (PreventiveTask, bool) {
	idx, ok := findPreventiveTask(v.state.tasks, id)
	if !ok {
		return PreventiveTask{}, false
	}
	return v.state.tasks[idx], true
}

// ListNotifications returns all notifications within the snapshot.
func (v transactionView) ListNotifications() []Notification {
	return append([]Notification(nil), v.state.notifications...)
}

// FindNotification retrieves a notification by ID from the snapshot.
func (v transactionView) FindNotification(id string) (Notification, bool) {
	for _, n := range v.state.notifications {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

// ListProfiles returns all profiles sorted by email.
func (v transactionView) ListProfiles() []Profile {
	out := make([]Profile, 0, len(v.state.profiles))
	for _, p := range v.state.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// FindProfile retrieves a profile by email from the snapshot.
func (v transactionView) FindProfile(email string) (Profile, bool) {
	p, ok := v.state.profiles[strings.ToLower(strings.TrimSpace(email))]
	return p, ok
}

// GetProperty retrieves a property by ID from current committed state.
func (s *Store) GetProperty(id string) (Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := findProperty(s.state.properties, id)
	if !ok {
		return Property{}, false
	}
	return s.state.properties[idx], true
}

// ListProperties returns all properties in insertion order.
func (s *Store) ListProperties() []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Property(nil), s.state.properties...)
}

// GetUnit retrieves a unit by ID from current committed state.
func (s *Store) GetUnit(id string) (Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := findUnit(s.state.units, id)
	if !ok {
		return Unit{}, false
	}
	return s.state.units[idx], true
}

// ListUnits returns all units in insertion order.
func (s *Store) ListUnits() []Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Unit(nil), s.state.units...)
}

// GetTenant retrieves a tenant by ID from current committed state.
func (s *Store) GetTenant(id string) (Tenant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := findTenant(s.state.tenants, id)
	if !ok {
		return Tenant{}, false
	}
	return s.state.tenants[idx], true
}

// ListTenants returns all tenants in insertion order.
func (s *Store) ListTenants() []Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Tenant(nil), s.state.tenants...)
}

// GetLease retrieves a lease by ID from current committed state.
func (s *Store) GetLease(id string) (Lease, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := findLease(s.state.leases, id)
	if !ok {
		return Lease{}, false
	}
	return s.state.leases[idx], true
}

// ListLeases returns all leases in insertion order.
func (s *Store) ListLeases() []Lease {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Lease(nil), s.state.leases...)
}

// GetPayment retrieves a payment by ID from current committed state.
func (s *Store) GetPayment(id string) (Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := findPayment(s.state.payments, id)
	if !ok {
		return Payment{}, false
	}
	return s.state.payments[idx], true
}

// ListPayments returns all payments in insertion order.
func (s *Store) ListPayments() []Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Payment(nil), s.state.payments...)
}

// ListUnitFeatures returns all unit features in insertion order.
func (s *Store) ListUnitFeatures() []UnitFeature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]UnitFeature(nil), s.state.features...)
}

// ListMaintenanceRequests returns all maintenance requests in insertion order.
func (s *Store) ListMaintenanceRequests() []MaintenanceRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MaintenanceRequest(nil), s.state.maintenance...)
}

// ListMaintenanceRecords returns the completed maintenance history in insertion order.
func (s *Store) ListMaintenanceRecords() []MaintenanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MaintenanceRecord(nil), s.state.history...)
}

// ListVendors returns all vendors in insertion order.
func (s *Store) ListVendors() []Vendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Vendor(nil), s.state.vendors...)
}

// ListPreventiveTasks returns all preventive tasks in insertion order.
func (s *Store) ListPreventiveTasks() []PreventiveTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]PreventiveTask(nil), s.state.tasks...)
}

// ListNotifications returns all notifications in insertion order.
func (s *Store) ListNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.state.notifications...)
}

// GetProfile retrieves a profile by email from current committed state.
func (s *Store) GetProfile(email string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.profiles[strings.ToLower(strings.TrimSpace(email))]
	return p, ok
}

// ListProfiles returns all profiles sorted by email.
func (s *Store) ListProfiles() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Profile, 0, len(s.state.profiles))
	for _, p := range s.state.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}
