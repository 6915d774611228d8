package core

import (
	"context"
	"fmt"
	"time"
)

// CreateUnitFeature persists a tracked appliance or system within a unit.
func (s *Service) CreateUnitFeature(ctx context.Context, feature UnitFeature) (UnitFeature, Result, error) {
	var created UnitFeature
	res, err := s.transact(ctx, "create_unit_feature", func(tx Transaction) (string, error) {
		if err := requireField(feature.Name, "feature name"); err != nil {
			return "", err
		}
		if _, ok := tx.FindUnit(feature.UnitID); !ok {
			return "", ErrNotFound{Entity: EntityUnit, ID: feature.UnitID}
		}
		var txErr error
		created, txErr = tx.CreateUnitFeature(feature)
		return created.ID, txErr
	})
	return created, res, err
}

// UpdateUnitFeature mutates a unit feature using the provided mutator.
func (s *Service) UpdateUnitFeature(ctx context.Context, id string, mutator func(*UnitFeature) error) (UnitFeature, Result, error) {
	var updated UnitFeature
	res, err := s.transact(ctx, "update_unit_feature", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdateUnitFeature(id, mutator)
		return id, txErr
	})
	return updated, res, err
}

// DeleteUnitFeature removes a unit feature. Maintenance records keep their
// feature reference; readers treat the gap as unlinked.
func (s *Service) DeleteUnitFeature(ctx context.Context, id string) (Result, error) {
	return s.transact(ctx, "delete_unit_feature", func(tx Transaction) (string, error) {
		return id, tx.DeleteUnitFeature(id)
	})
}

// CreateMaintenanceRequest opens a new request against a unit and appends a
// maintenance notification in the same transaction. Status starts at Open and
// the created date comes from the service clock.
func (s *Service) CreateMaintenanceRequest(ctx context.Context, request MaintenanceRequest) (MaintenanceRequest, Result, error) {
	var created MaintenanceRequest
	res, err := s.transact(ctx, "create_maintenance_request", func(tx Transaction) (string, error) {
		if err := requireField(request.Title, "request title"); err != nil {
			return "", err
		}
		if _, ok := tx.FindUnit(request.UnitID); !ok {
			return "", ErrNotFound{Entity: EntityUnit, ID: request.UnitID}
		}
		request.Status = MaintenanceOpen
		if request.Created == "" {
			request.Created = s.today()
		}
		if request.Priority == "" {
			request.Priority = PriorityMedium
		}
		var txErr error
		created, txErr = tx.CreateMaintenanceRequest(request)
		if txErr != nil {
			return "", txErr
		}
		_, txErr = tx.CreateNotification(Notification{
			Type:    NotificationMaintenance,
			Text:    fmt.Sprintf("New maintenance request: %s", created.Title),
			Created: s.today(),
		})
		return created.ID, txErr
	})
	return created, res, err
}

// UpdateMaintenanceRequest mutates a request, typically to assign a vendor or
// edit its description.
func (s *Service) UpdateMaintenanceRequest(ctx context.Context, id string, mutator func(*MaintenanceRequest) error) (MaintenanceRequest, Result, error) {
	var updated MaintenanceRequest
	res, err := s.transact(ctx, "update_maintenance_request", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdateMaintenanceRequest(id, mutator)
		return id, txErr
	})
	return updated, res, err
}

// AdvanceMaintenanceRequest moves an Open request to In Progress. Completing
// a request goes through CompleteMaintenanceRequest, which takes the cost.
func (s *Service) AdvanceMaintenanceRequest(ctx context.Context, id string) (MaintenanceRequest, Result, error) {
	var updated MaintenanceRequest
	res, err := s.transact(ctx, "advance_maintenance_request", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdateMaintenanceRequest(id, func(m *MaintenanceRequest) error {
			if m.Status != MaintenanceOpen {
				return fmt.Errorf("request %s is %s, not %s", id, m.Status, MaintenanceOpen)
			}
			m.Status = MaintenanceInProgress
			return nil
		})
		return id, txErr
	})
	return updated, res, err
}

// CompleteMaintenanceRequest converts a request into an append-only history
// record with the supplied cost and removes it from the active collection.
// Completion is allowed straight from Open; a negative cost is recorded as 0.
func (s *Service) CompleteMaintenanceRequest(ctx context.Context, id string, cost float64) (MaintenanceRecord, Result, error) {
	var record MaintenanceRecord
	res, err := s.transact(ctx, "complete_maintenance_request", func(tx Transaction) (string, error) {
		request, ok := tx.FindMaintenanceRequest(id)
		if !ok {
			return id, ErrNotFound{Entity: EntityMaintenanceRequest, ID: id}
		}
		if cost < 0 {
			cost = 0
		}
		var err error
		record, err = tx.CreateMaintenanceRecord(MaintenanceRecord{
			UnitID:    request.UnitID,
			Title:     request.Title,
			Category:  request.Category,
			Status:    MaintenanceComplete,
			Cost:      cost,
			VendorID:  request.VendorID,
			FeatureID: request.FeatureID,
			Completed: s.today(),
		})
		if err != nil {
			return id, err
		}
		return record.ID, tx.DeleteMaintenanceRequest(id)
	})
	return record, res, err
}

// DeleteMaintenanceRequest discards a request without recording history.
func (s *Service) DeleteMaintenanceRequest(ctx context.Context, id string) (Result, error) {
	return s.transact(ctx, "delete_maintenance_request", func(tx Transaction) (string, error) {
		return id, tx.DeleteMaintenanceRequest(id)
	})
}

// CreateVendor persists a vendor contact.
func (s *Service) CreateVendor(ctx context.Context, vendor Vendor) (Vendor, Result, error) {
	var created Vendor
	res, err := s.transact(ctx, "create_vendor", func(tx Transaction) (string, error) {
		if err := requireField(vendor.Name, "vendor name"); err != nil {
			return "", err
		}
		var txErr error
		created, txErr = tx.CreateVendor(vendor)
		return created.ID, txErr
	})
	return created, res, err
}

// UpdateVendor mutates a vendor using the provided mutator.
func (s *Service) UpdateVendor(ctx context.Context, id string, mutator func(*Vendor) error) (Vendor, Result, error) {
	var updated Vendor
	res, err := s.transact(ctx, "update_vendor", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdateVendor(id, mutator)
		return id, txErr
	})
	return updated, res, err
}

// DeleteVendor removes a vendor. Requests and tasks keep their vendor
// reference; readers treat the gap as unassigned.
func (s *Service) DeleteVendor(ctx context.Context, id string) (Result, error) {
	return s.transact(ctx, "delete_vendor", func(tx Transaction) (string, error) {
		return id, tx.DeleteVendor(id)
	})
}

// CreatePreventiveTask schedules a recurring maintenance task scoped to a
// property or a unit.
func (s *Service) CreatePreventiveTask(ctx context.Context, task PreventiveTask) (PreventiveTask, Result, error) {
	var created PreventiveTask
	res, err := s.transact(ctx, "create_preventive_task", func(tx Transaction) (string, error) {
		if err := requireField(task.Title, "task title"); err != nil {
			return "", err
		}
		switch task.Scope {
		case TaskScopeProperty:
			if _, ok := tx.FindProperty(task.PropertyID); !ok {
				return "", ErrNotFound{Entity: EntityProperty, ID: task.PropertyID}
			}
		case TaskScopeUnit:
			if _, ok := tx.FindUnit(task.UnitID); !ok {
				return "", ErrNotFound{Entity: EntityUnit, ID: task.UnitID}
			}
		default:
			return "", fmt.Errorf("unknown task scope %q", task.Scope)
		}
		var txErr error
		created, txErr = tx.CreatePreventiveTask(task)
		return created.ID, txErr
	})
	return created, res, err
}

// UpdatePreventiveTask mutates a preventive task using the provided mutator.
func (s *Service) UpdatePreventiveTask(ctx context.Context, id string, mutator func(*PreventiveTask) error) (PreventiveTask, Result, error) {
	var updated PreventiveTask
	res, err := s.transact(ctx, "update_preventive_task", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdatePreventiveTask(id, mutator)
		return id, txErr
	})
	return updated, res, err
}

// CompletePreventiveTask advances a task's next-due date by its recurrence
// interval. An unset or unparsable next-due date advances from today.
func (s *Service) CompletePreventiveTask(ctx context.Context, id string) (PreventiveTask, Result, error) {
	var updated PreventiveTask
	res, err := s.transact(ctx, "complete_preventive_task", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdatePreventiveTask(id, func(task *PreventiveTask) error {
			base, err := time.Parse(dayLayout, task.NextDue)
			if err != nil {
				base, err = time.Parse(dayLayout, s.today())
				if err != nil {
					return err
				}
			}
			task.NextDue = base.AddDate(0, task.Frequency.Months(), 0).Format(dayLayout)
			return nil
		})
		return id, txErr
	})
	return updated, res, err
}

// DeletePreventiveTask removes a preventive task.
func (s *Service) DeletePreventiveTask(ctx context.Context, id string) (Result, error) {
	return s.transact(ctx, "delete_preventive_task", func(tx Transaction) (string, error) {
		return id, tx.DeletePreventiveTask(id)
	})
}
