package ledger

import (
	"context"
	"fmt"
	"time"

	"bodegabaratote/backend/internal/domain"
	"bodegabaratote/backend/internal/xid"
)

// paymentBreakdown aggregates sales into the three payment buckets.
// Unknown payment methods fold into tarjeta; the Sale itself keeps the
// method as given.
func paymentBreakdown(sales []domain.Sale) domain.PaymentBreakdown {
	var bd domain.PaymentBreakdown

	add := func(b *domain.PaymentBucket, s domain.Sale) {
		b.Ops++
		b.Units += s.Qty
		b.Amount += s.Total
	}

	for _, s := range sales {
		switch s.PaymentMethod {
		case domain.PaymentCash:
			add(&bd.Efectivo, s)
		case domain.PaymentTransfer:
			add(&bd.Transferencia, s)
		default:
			add(&bd.Tarjeta, s)
		}
		bd.TotalUnits += s.Qty
		bd.TotalAmount += s.Total
	}
	bd.TotalOps = len(sales)

	return bd
}

// Summary reports the open (unclosed) sales: count, grand total, the
// per-payment breakdown and the low-stock alert list.
func (l *Ledger) Summary() domain.Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sum := domain.Summary{
		Ventas:    len(l.state.Sales),
		ByPayment: paymentBreakdown(l.state.Sales),
		Alertas:   []domain.Product{},
	}
	sum.Total = sum.ByPayment.TotalAmount

	for i := range l.state.Products {
		p := &l.state.Products[i]
		if p.Active && p.Stock <= p.Minimo {
			sum.Alertas = append(sum.Alertas, cloneProduct(*p))
		}
	}

	return sum
}

// CloseDay archives every open sale into an immutable Day record and
// clears the open set. Closing with nothing to close is an error.
func (l *Ledger) CloseDay(ctx context.Context) (domain.Day, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.state.Sales) == 0 {
		return domain.Day{}, fmt.Errorf("%w: no open sales to close", ErrInvalidInput)
	}

	bd := paymentBreakdown(l.state.Sales)
	day := domain.Day{
		ID:        xid.New("day"),
		ClosedAt:  time.Now().UTC(),
		Ventas:    len(l.state.Sales),
		Total:     bd.TotalAmount,
		Sales:     cloneSales(l.state.Sales),
		ByPayment: bd,
		Encargado: actorName(ctx),
	}

	l.state.Days = append([]domain.Day{day}, l.state.Days...)
	l.state.Sales = nil
	l.persist(ctx)

	return cloneDay(day), nil
}

// ListDays returns archived days newest first, optionally restricted to
// an inclusive closing-date range. Dates use the 2006-01-02 format.
func (l *Ledger) ListDays(from string, to string) ([]domain.Day, error) {
	var fromT, toT time.Time
	var err error
	if from != "" {
		fromT, err = time.Parse("2006-01-02", from)
		if err != nil {
			return nil, fmt.Errorf("%w: bad from date %q", ErrInvalidInput, from)
		}
	}
	if to != "" {
		toT, err = time.Parse("2006-01-02", to)
		if err != nil {
			return nil, fmt.Errorf("%w: bad to date %q", ErrInvalidInput, to)
		}
		toT = toT.Add(24*time.Hour - time.Nanosecond)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Day, 0, len(l.state.Days))
	for _, day := range l.state.Days {
		if !fromT.IsZero() && day.ClosedAt.Before(fromT) {
			continue
		}
		if !toT.IsZero() && day.ClosedAt.After(toT) {
			continue
		}
		out = append(out, cloneDay(day))
	}

	return out, nil
}

func (l *Ledger) DeleteDay(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, day := range l.state.Days {
		if day.ID != id {
			continue
		}
		l.state.Days = append(l.state.Days[:i], l.state.Days[i+1:]...)
		l.persist(ctx)
		return nil
	}

	return ErrNotFound
}
