package ledger

import (
	"context"
	"fmt"
	"time"

	"bodegabaratote/backend/internal/domain"
	"bodegabaratote/backend/internal/xid"
)

// resolvePrice picks the unit (or per-pack) price for a sale. Resolution
// order: active matching price option, explicit positive override,
// positive precioOferta, base precio. An unknown or inactive option id
// silently falls through to the next source.
func resolvePrice(p *domain.Product, req domain.SaleRequest) (price int64, tipo string, packQty int) {
	if req.PriceOptionID != "" {
		for _, opt := range p.Precios {
			if opt.ID != req.PriceOptionID || !opt.Activo {
				continue
			}
			if req.Packs != nil {
				price = opt.Precio
			} else if opt.Cantidad > 0 {
				price = opt.Precio / int64(opt.Cantidad)
			}
			tipo = opt.Tipo
			packQty = opt.Cantidad
			break
		}
	}

	if price <= 0 {
		tipo, packQty = "", 0
		switch {
		case req.Price != nil && *req.Price > 0:
			price = *req.Price
		case p.PrecioOferta > 0:
			price = p.PrecioOferta
		default:
			price = p.Precio
		}
	}

	return price, tipo, packQty
}

// sellLocked validates and applies a single sale. Callers hold l.mu for
// writing and handle persistence.
func (l *Ledger) sellLocked(ctx context.Context, req domain.SaleRequest, now time.Time) (domain.Sale, error) {
	p := l.findProduct(req.ProductID)
	if p == nil {
		return domain.Sale{}, ErrNotFound
	}
	if !p.Active {
		return domain.Sale{}, fmt.Errorf("%w: producto inactivo: %s", ErrInvalidInput, p.Nombre)
	}
	if req.Qty < 1 {
		return domain.Sale{}, fmt.Errorf("%w: qty must be positive", ErrInvalidInput)
	}
	if req.Packs != nil && *req.Packs < 1 {
		return domain.Sale{}, fmt.Errorf("%w: packs must be positive", ErrInvalidInput)
	}
	if req.Qty > p.Stock {
		return domain.Sale{}, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Nombre)
	}

	price, tipo, packQty := resolvePrice(p, req)

	total := price * int64(req.Qty)
	packs := 0
	if req.Packs != nil {
		packs = *req.Packs
		total = price * int64(packs)
	}

	p.Stock -= req.Qty

	sale := domain.Sale{
		ID:            xid.New("sale"),
		ProductID:     p.ID,
		Nombre:        p.Nombre,
		Qty:           req.Qty,
		Packs:         packs,
		PriceOptionID: req.PriceOptionID,
		Tipo:          tipo,
		PackQty:       packQty,
		Precio:        price,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		Vendedor:      actorName(ctx),
		CreatedAt:     now,
	}
	if tipo == "" {
		sale.PriceOptionID = ""
	}

	l.state.Sales = append([]domain.Sale{sale}, l.state.Sales...)

	return sale, nil
}

func (l *Ledger) Sell(ctx context.Context, req domain.SaleRequest) (domain.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sale, err := l.sellLocked(ctx, req, time.Now().UTC())
	if err != nil {
		return domain.Sale{}, err
	}
	l.persist(ctx)

	return sale, nil
}

// cartUnits resolves a cart line to its product, price option and unit
// count. Cart lines always sell through a price option.
func (l *Ledger) cartUnits(line domain.CartLine) (*domain.Product, domain.PriceOption, int, error) {
	p := l.findProduct(line.ProductID)
	if p == nil {
		return nil, domain.PriceOption{}, 0, ErrNotFound
	}
	if !p.Active {
		return nil, domain.PriceOption{}, 0, fmt.Errorf("%w: producto inactivo: %s", ErrInvalidInput, p.Nombre)
	}
	if line.Qty < 1 {
		return nil, domain.PriceOption{}, 0, fmt.Errorf("%w: qty must be positive", ErrInvalidInput)
	}
	for _, opt := range p.Precios {
		if opt.ID == line.PriceOptionID && opt.Activo && opt.Cantidad > 0 {
			return p, opt, opt.Cantidad * line.Qty, nil
		}
	}
	return nil, domain.PriceOption{}, 0, fmt.Errorf("%w: unknown price option %q", ErrInvalidInput, line.PriceOptionID)
}

// ValidateCartLine checks whether next fits on top of an unconfirmed
// cart: availability is the product's stock net of units other lines in
// the same cart already reserve. Nothing is mutated.
func (l *Ledger) ValidateCartLine(cart []domain.CartLine, next domain.CartLine) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	reserved := 0
	for _, line := range cart {
		if line.ProductID != next.ProductID {
			continue
		}
		_, _, units, err := l.cartUnits(line)
		if err != nil {
			return err
		}
		reserved += units
	}

	p, _, units, err := l.cartUnits(next)
	if err != nil {
		return err
	}
	if units > p.Stock-reserved {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, p.Nombre)
	}
	return nil
}

// SellCart confirms a whole cart atomically: every line is validated
// against stock net of the cart's own reservations before any stock
// moves, so one failing line rejects the cart with no mutation.
func (l *Ledger) SellCart(ctx context.Context, req domain.CartRequest) ([]domain.Sale, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: empty cart", ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	reserved := make(map[string]int, len(req.Lines))
	for _, line := range req.Lines {
		p, _, units, err := l.cartUnits(line)
		if err != nil {
			return nil, err
		}
		if units > p.Stock-reserved[p.ID] {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Nombre)
		}
		reserved[p.ID] += units
	}

	now := time.Now().UTC()
	sales := make([]domain.Sale, 0, len(req.Lines))
	for _, line := range req.Lines {
		packs := line.Qty
		_, _, units, err := l.cartUnits(line)
		if err != nil {
			return sales, err
		}
		sale, err := l.sellLocked(ctx, domain.SaleRequest{
			ProductID:     line.ProductID,
			Qty:           units,
			PaymentMethod: req.PaymentMethod,
			PriceOptionID: line.PriceOptionID,
			Packs:         &packs,
		}, now)
		if err != nil {
			return sales, err
		}
		sales = append(sales, sale)
	}

	l.persist(ctx)

	return sales, nil
}

// CancelSale removes an open sale and restores its units to the
// product's stock. Closed (archived) sales cannot be cancelled.
func (l *Ledger) CancelSale(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, sale := range l.state.Sales {
		if sale.ID != id {
			continue
		}
		if p := l.findProduct(sale.ProductID); p != nil {
			p.Stock += sale.Qty
		}
		l.state.Sales = append(l.state.Sales[:i], l.state.Sales[i+1:]...)
		l.persist(ctx)
		return nil
	}

	return ErrNotFound
}

func (l *Ledger) ListSales() []domain.Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return cloneSales(l.state.Sales)
}
