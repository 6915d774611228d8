package core

import "context"

// CreateProperty persists a new property.
func (s *Service) CreateProperty(ctx context.Context, property Property) (Property, Result, error) {
	var created Property
	res, err := s.transact(ctx, "create_property", func(tx Transaction) (string, error) {
		if err := requireField(property.Name, "property name"); err != nil {
			return "", err
		}
		if err := requireField(property.Address, "property address"); err != nil {
			return "", err
		}
		var txErr error
		created, txErr = tx.CreateProperty(property)
		return created.ID, txErr
	})
	return created, res, err
}

// UpdateProperty mutates a property using the provided mutator.
func (s *Service) UpdateProperty(ctx context.Context, id string, mutator func(*Property) error) (Property, Result, error) {
	var updated Property
	res, err := s.transact(ctx, "update_property", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdateProperty(id, mutator)
		return id, txErr
	})
	return updated, res, err
}

// DeleteProperty removes a property. The store rejects the delete while any
// unit still references the property.
func (s *Service) DeleteProperty(ctx context.Context, id string) (Result, error) {
	return s.transact(ctx, "delete_property", func(tx Transaction) (string, error) {
		return id, tx.DeleteProperty(id)
	})
}

// CreateUnit persists a new unit under a property. Status defaults to Vacant.
func (s *Service) CreateUnit(ctx context.Context, unit Unit) (Unit, Result, error) {
	var created Unit
	res, err := s.transact(ctx, "create_unit", func(tx Transaction) (string, error) {
		if err := requireField(unit.Label, "unit label"); err != nil {
			return "", err
		}
		if _, ok := tx.FindProperty(unit.PropertyID); !ok {
			return "", ErrNotFound{Entity: EntityProperty, ID: unit.PropertyID}
		}
		var txErr error
		created, txErr = tx.CreateUnit(unit)
		return created.ID, txErr
	})
	return created, res, err
}

// UpdateUnit mutates a unit using the provided mutator.
func (s *Service) UpdateUnit(ctx context.Context, id string, mutator func(*Unit) error) (Unit, Result, error) {
	var updated Unit
	res, err := s.transact(ctx, "update_unit", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdateUnit(id, mutator)
		return id, txErr
	})
	return updated, res, err
}

// DeleteUnit removes a unit along with its features and open maintenance
// requests in the same transaction. The store rejects the delete while the
// unit has an active lease. Maintenance history is retained.
func (s *Service) DeleteUnit(ctx context.Context, id string) (Result, error) {
	return s.transact(ctx, "delete_unit", func(tx Transaction) (string, error) {
		if _, ok := tx.FindUnit(id); !ok {
			return id, ErrNotFound{Entity: EntityUnit, ID: id}
		}
		view := tx.Snapshot()
		for _, feature := range view.ListUnitFeatures() {
			if feature.UnitID != id {
				continue
			}
			if err := tx.DeleteUnitFeature(feature.ID); err != nil {
				return id, err
			}
		}
		for _, request := range view.ListMaintenanceRequests() {
			if request.UnitID != id {
				continue
			}
			if err := tx.DeleteMaintenanceRequest(request.ID); err != nil {
				return id, err
			}
		}
		return id, tx.DeleteUnit(id)
	})
}

// CreateTenant persists a new tenant attached to a unit.
func (s *Service) CreateTenant(ctx context.Context, tenant Tenant) (Tenant, Result, error) {
	var created Tenant
	res, err := s.transact(ctx, "create_tenant", func(tx Transaction) (string, error) {
		if err := requireField(tenant.Name, "tenant name"); err != nil {
			return "", err
		}
		if _, ok := tx.FindUnit(tenant.UnitID); !ok {
			return "", ErrNotFound{Entity: EntityUnit, ID: tenant.UnitID}
		}
		var txErr error
		created, txErr = tx.CreateTenant(tenant)
		return created.ID, txErr
	})
	return created, res, err
}

// UpdateTenant mutates a tenant using the provided mutator.
func (s *Service) UpdateTenant(ctx context.Context, id string, mutator func(*Tenant) error) (Tenant, Result, error) {
	var updated Tenant
	res, err := s.transact(ctx, "update_tenant", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdateTenant(id, mutator)
		return id, txErr
	})
	return updated, res, err
}

// DeleteTenant removes a tenant. Deletion is unconditional; leases keep their
// tenant reference and readers substitute a placeholder.
func (s *Service) DeleteTenant(ctx context.Context, id string) (Result, error) {
	return s.transact(ctx, "delete_tenant", func(tx Transaction) (string, error) {
		return id, tx.DeleteTenant(id)
	})
}
