package core

import (
	"context"
	"fmt"
	"time"

	"rentcore/internal/infra/persistence/memory"
	"rentcore/pkg/domain"
)

// Service exposes one method per portfolio operation. Every mutation runs as
// a single store transaction and is instrumented with the configured logger,
// metrics recorder, tracer, and audit trail.
type Service struct {
	store PersistentStore
	opts  serviceOptions
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	options := defaultServiceOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{store: store, opts: options}
}

// NewInMemoryService creates a service over a fresh in-memory store using the
// given rules engine. A nil engine gets the default policy set.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// ErrNotFound is returned when an operation targets a missing record.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

type operationInfo struct {
	entity EntityType
	action Action
}

// operationCatalog maps service operation names to the entity and action they
// audit as. Operations outside the catalog are metered and traced but produce
// no audit entry.
var operationCatalog = map[string]operationInfo{
	"create_property":              {EntityProperty, ActionCreate},
	"update_property":              {EntityProperty, ActionUpdate},
	"delete_property":              {EntityProperty, ActionDelete},
	"create_unit":                  {EntityUnit, ActionCreate},
	"update_unit":                  {EntityUnit, ActionUpdate},
	"delete_unit":                  {EntityUnit, ActionDelete},
	"create_tenant":                {EntityTenant, ActionCreate},
	"update_tenant":                {EntityTenant, ActionUpdate},
	"delete_tenant":                {EntityTenant, ActionDelete},
	"create_lease":                 {EntityLease, ActionCreate},
	"end_lease":                    {EntityLease, ActionUpdate},
	"set_payment_status":           {EntityPayment, ActionUpdate},
	"toggle_payment_status":        {EntityPayment, ActionUpdate},
	"create_unit_feature":          {EntityUnitFeature, ActionCreate},
	"update_unit_feature":          {EntityUnitFeature, ActionUpdate},
	"delete_unit_feature":          {EntityUnitFeature, ActionDelete},
	"create_maintenance_request":   {EntityMaintenanceRequest, ActionCreate},
	"update_maintenance_request":   {EntityMaintenanceRequest, ActionUpdate},
	"advance_maintenance_request":  {EntityMaintenanceRequest, ActionUpdate},
	"complete_maintenance_request": {EntityMaintenanceRecord, ActionCreate},
	"delete_maintenance_request":   {EntityMaintenanceRequest, ActionDelete},
	"create_vendor":                {EntityVendor, ActionCreate},
	"update_vendor":                {EntityVendor, ActionUpdate},
	"delete_vendor":                {EntityVendor, ActionDelete},
	"create_preventive_task":       {EntityPreventiveTask, ActionCreate},
	"update_preventive_task":       {EntityPreventiveTask, ActionUpdate},
	"complete_preventive_task":     {EntityPreventiveTask, ActionUpdate},
	"delete_preventive_task":       {EntityPreventiveTask, ActionDelete},
	"add_notification":             {EntityNotification, ActionCreate},
	"clear_notifications":          {EntityNotification, ActionDelete},
	"save_profile":                 {EntityProfile, ActionUpdate},
}

func (s *Service) recordAuditSuccess(ctx context.Context, operation, entityID string, duration time.Duration) {
	info, ok := operationCatalog[operation]
	if !ok {
		return
	}
	s.opts.audit.Record(ctx, AuditEntry{
		Operation: operation,
		Entity:    info.entity,
		Action:    info.action,
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.opts.clock.Now(),
	})
}

func (s *Service) recordAuditError(ctx context.Context, operation, entityID string, opErr error, duration time.Duration) {
	info, ok := operationCatalog[operation]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: operation,
		Entity:    info.entity,
		Action:    info.action,
		EntityID:  entityID,
		Status:    AuditStatusError,
		Duration:  duration,
		Timestamp: s.opts.clock.Now(),
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	s.opts.audit.Record(ctx, entry)
}

// transact runs fn inside a store transaction wrapped with the full
// observability pipeline. fn returns the primary entity id for the audit
// trail; the id may only be known after the transaction assigns it.
func (s *Service) transact(ctx context.Context, operation string, fn func(tx Transaction) (string, error)) (Result, error) {
	start := time.Now()
	ctx, span := s.opts.tracer.Start(ctx, operation)

	var entityID string
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		id, txErr := fn(tx)
		entityID = id
		return txErr
	})

	duration := time.Since(start)
	span.End(err)
	s.opts.metrics.Observe(ctx, operation, err == nil, duration)
	if err != nil {
		s.opts.logger.Warn("operation rejected", "operation", operation, "entity_id", entityID, "error", err)
		s.recordAuditError(ctx, operation, entityID, err, duration)
		return res, err
	}
	s.opts.logger.Debug("operation committed", "operation", operation, "entity_id", entityID, "duration", duration)
	s.recordAuditSuccess(ctx, operation, entityID, duration)
	return res, nil
}

// today formats the clock's current date as a calendar day string.
func (s *Service) today() string {
	return s.opts.clock.Now().Format("2006-01-02")
}

// Transaction and view aliases shared with the persistence layer.
type (
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
)

func requireField(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}
