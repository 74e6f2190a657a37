package ledger

import (
	"context"
	"fmt"
	"time"

	"bodegabaratote/backend/internal/domain"
	"bodegabaratote/backend/internal/xid"
)

// AddStock applies a signed delta to a product's stock. The result is
// clamped at zero: a delta that would drive stock negative empties it
// instead of failing. With meta set, an audit movement is recorded.
func (l *Ledger) AddStock(ctx context.Context, productID string, delta int, meta *domain.MovementInput) (domain.Product, error) {
	if delta == 0 {
		return domain.Product{}, fmt.Errorf("%w: delta must be non-zero", ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.findProduct(productID)
	if p == nil {
		return domain.Product{}, ErrNotFound
	}

	p.Stock = max(p.Stock+delta, 0)

	if meta != nil {
		mov := domain.Movement{
			ID:          xid.New("mov"),
			ProductID:   p.ID,
			Qty:         delta,
			Type:        domain.MovementIn,
			Reason:      meta.Reason,
			Note:        meta.Note,
			Date:        time.Now().UTC(),
			Responsable: actorName(ctx),
		}
		if delta < 0 {
			mov.Type = domain.MovementOut
			mov.Qty = -delta
		} else {
			mov.Provider = meta.Provider
		}
		l.state.Movements = append([]domain.Movement{mov}, l.state.Movements...)
	}

	l.persist(ctx)

	return cloneProduct(*p), nil
}

// ListMovements returns audit movements newest first, optionally limited
// to one product. limit < 1 means no cap.
func (l *Ledger) ListMovements(productID string, limit int) []domain.Movement {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Movement, 0, len(l.state.Movements))
	for _, mov := range l.state.Movements {
		if productID != "" && mov.ProductID != productID {
			continue
		}
		out = append(out, mov)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
