package core

import (
	"context"
	"fmt"

	"rentcore/pkg/domain"
)

// ReferenceIntegrityRule blocks creates that would introduce dangling
// required references: tenants, leases, features, and maintenance requests
// must point at an existing unit, leases additionally at an existing tenant,
// and payments at an existing lease. Only creates are checked: once an entity
// exists, its references may go dangling through deletes elsewhere and
// readers render a placeholder, so updates (ending a lease, renaming a
// tenant) must not be blocked by a reference the caller is not changing.
// Optional vendor and feature links are never checked.
func ReferenceIntegrityRule() domain.Rule {
	return referenceIntegrityRule{}
}

type referenceIntegrityRule struct{}

func (referenceIntegrityRule) Name() string { return "reference_integrity" }

func (referenceIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	requireUnit := func(entity domain.EntityType, entityID, unitID string) {
		if unitID == "" {
			res.Violations = append(res.Violations, referenceViolation(entity, entityID, fmt.Sprintf("%s %s has no unit reference", entity, entityID)))
			return
		}
		if _, ok := view.FindUnit(unitID); !ok {
			res.Violations = append(res.Violations, referenceViolation(entity, entityID, fmt.Sprintf("%s %s references missing unit %s", entity, entityID, unitID)))
		}
	}

	for _, change := range changes {
		if change.Action != domain.ActionCreate || change.After == nil {
			continue
		}
		switch change.Entity {
		case domain.EntityUnit:
			unit, ok := change.After.(domain.Unit)
			if !ok {
				continue
			}
			if _, found := view.FindProperty(unit.PropertyID); !found {
				res.Violations = append(res.Violations, referenceViolation(domain.EntityUnit, unit.ID, fmt.Sprintf("unit %s references missing property %s", unit.ID, unit.PropertyID)))
			}
		case domain.EntityTenant:
			tenant, ok := change.After.(domain.Tenant)
			if !ok {
				continue
			}
			requireUnit(domain.EntityTenant, tenant.ID, tenant.UnitID)
		case domain.EntityLease:
			lease, ok := change.After.(domain.Lease)
			if !ok {
				continue
			}
			requireUnit(domain.EntityLease, lease.ID, lease.UnitID)
			if _, found := view.FindTenant(lease.TenantID); !found {
				res.Violations = append(res.Violations, referenceViolation(domain.EntityLease, lease.ID, fmt.Sprintf("lease %s references missing tenant %s", lease.ID, lease.TenantID)))
			}
		case domain.EntityPayment:
			payment, ok := change.After.(domain.Payment)
			if !ok {
				continue
			}
			if _, found := view.FindLease(payment.LeaseID); !found {
				res.Violations = append(res.Violations, referenceViolation(domain.EntityPayment, payment.ID, fmt.Sprintf("payment %s references missing lease %s", payment.ID, payment.LeaseID)))
			}
		case domain.EntityUnitFeature:
			feature, ok := change.After.(domain.UnitFeature)
			if !ok {
				continue
			}
			requireUnit(domain.EntityUnitFeature, feature.ID, feature.UnitID)
		case domain.EntityMaintenanceRequest:
			request, ok := change.After.(domain.MaintenanceRequest)
			if !ok {
				continue
			}
			requireUnit(domain.EntityMaintenanceRequest, request.ID, request.UnitID)
		}
	}

	return res, nil
}

func referenceViolation(entity domain.EntityType, entityID, message string) domain.Violation {
	return domain.Violation{
		Rule:     "reference_integrity",
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   entity,
		EntityID: entityID,
	}
}
