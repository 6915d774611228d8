package core

import (
	"context"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// paymentMonths returns one YYYY-MM key per calendar month whose first day
// falls on or before the lease end, starting from the first of the start
// month. A start and end in the same month yield a single entry; an end
// before the start month yields none.
func paymentMonths(start, end string) ([]string, error) {
	startDay, err := time.Parse(dayLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parse lease start %q: %w", start, err)
	}
	endDay, err := time.Parse(dayLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parse lease end %q: %w", end, err)
	}

	var months []string
	cursor := time.Date(startDay.Year(), startDay.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(endDay) {
		months = append(months, cursor.Format("2006-01"))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months, nil
}

// CreateLease creates an active lease, generates its full payment run (one
// Unpaid payment per covered month), and flips the unit to Occupied with the
// tenant's name, all in one transaction. A unit already carrying an active
// lease is rejected before any record is written.
func (s *Service) CreateLease(ctx context.Context, lease Lease) (Lease, []Payment, Result, error) {
	var (
		created  Lease
		payments []Payment
	)
	res, err := s.transact(ctx, "create_lease", func(tx Transaction) (string, error) {
		unit, ok := tx.FindUnit(lease.UnitID)
		if !ok {
			return "", ErrNotFound{Entity: EntityUnit, ID: lease.UnitID}
		}
		if unit.LeaseActive {
			return "", fmt.Errorf("unit %s already has an active lease", lease.UnitID)
		}
		tenant, ok := tx.FindTenant(lease.TenantID)
		if !ok {
			return "", ErrNotFound{Entity: EntityTenant, ID: lease.TenantID}
		}
		months, err := paymentMonths(lease.Start, lease.End)
		if err != nil {
			return "", err
		}

		lease.Active = true
		created, err = tx.CreateLease(lease)
		if err != nil {
			return "", err
		}
		payments = payments[:0]
		for _, month := range months {
			payment, err := tx.CreatePayment(Payment{
				LeaseID: created.ID,
				Month:   month,
				Amount:  created.Rent,
				Status:  PaymentUnpaid,
			})
			if err != nil {
				return created.ID, err
			}
			payments = append(payments, payment)
		}
		_, err = tx.UpdateUnit(created.UnitID, func(u *Unit) error {
			u.Status = UnitOccupied
			u.TenantName = tenant.Name
			u.LeaseActive = true
			return nil
		})
		return created.ID, err
	})
	if err != nil {
		return Lease{}, nil, res, err
	}
	return created, payments, res, nil
}

// EndLease deactivates a lease and reverts its unit to Vacant with the tenant
// name cleared. The lease record and its payments are retained unchanged.
func (s *Service) EndLease(ctx context.Context, id string) (Lease, Result, error) {
	var ended Lease
	res, err := s.transact(ctx, "end_lease", func(tx Transaction) (string, error) {
		current, ok := tx.FindLease(id)
		if !ok {
			return id, ErrNotFound{Entity: EntityLease, ID: id}
		}
		if !current.Active {
			return id, fmt.Errorf("lease %s already ended", id)
		}
		var err error
		ended, err = tx.UpdateLease(id, func(l *Lease) error {
			l.Active = false
			return nil
		})
		if err != nil {
			return id, err
		}
		if _, ok := tx.FindUnit(ended.UnitID); !ok {
			// The unit may have been removed after the lease ended elsewhere;
			// nothing left to revert.
			return id, nil
		}
		_, err = tx.UpdateUnit(ended.UnitID, func(u *Unit) error {
			u.Status = UnitVacant
			u.TenantName = ""
			u.LeaseActive = false
			return nil
		})
		return id, err
	})
	if err != nil {
		return Lease{}, res, err
	}
	return ended, res, nil
}

// SetPaymentStatus marks a payment Paid or Unpaid.
func (s *Service) SetPaymentStatus(ctx context.Context, id string, status PaymentStatus) (Payment, Result, error) {
	var updated Payment
	res, err := s.transact(ctx, "set_payment_status", func(tx Transaction) (string, error) {
		if status != PaymentPaid && status != PaymentUnpaid {
			return id, fmt.Errorf("unknown payment status %q", status)
		}
		var txErr error
		updated, txErr = tx.UpdatePayment(id, func(p *Payment) error {
			p.Status = status
			return nil
		})
		return id, txErr
	})
	return updated, res, err
}

// TogglePaymentStatus flips a payment between Paid and Unpaid.
func (s *Service) TogglePaymentStatus(ctx context.Context, id string) (Payment, Result, error) {
	var updated Payment
	res, err := s.transact(ctx, "toggle_payment_status", func(tx Transaction) (string, error) {
		var txErr error
		updated, txErr = tx.UpdatePayment(id, func(p *Payment) error {
			if p.Status == PaymentPaid {
				p.Status = PaymentUnpaid
			} else {
				p.Status = PaymentPaid
			}
			return nil
		})
		return id, txErr
	})
	return updated, res, err
}
