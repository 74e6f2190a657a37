package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"bodegabaratote/backend/internal/domain"
	"bodegabaratote/backend/internal/xid"
)

// NormalizeSKU trims, uppercases and collapses internal whitespace runs
// to single hyphens, so " coca  500 " and "COCA-500" compare equal.
func NormalizeSKU(sku string) string {
	return strings.Join(strings.Fields(strings.ToUpper(strings.TrimSpace(sku))), "-")
}

var tierSpecs = []struct {
	suffix   string
	tipo     string
	cantidad int
}{
	{"U", domain.PriceTypeUnit, 1},
	{"P6", domain.PriceTypePack, 6},
	{"P12", domain.PriceTypePack, 12},
	{"P15", domain.PriceTypePack, 15},
}

// priceTiers derives the standard price list for a product from its base
// unit price. keepActive, when non-nil, preserves per-tier activo flags
// across a regeneration; a nil keepActive yields all tiers active.
func priceTiers(productID string, base int64, keepActive func(id string) bool) []domain.PriceOption {
	out := make([]domain.PriceOption, 0, len(tierSpecs))
	for _, t := range tierSpecs {
		id := productID + "-" + t.suffix
		active := true
		if keepActive != nil {
			active = keepActive(id)
		}
		out = append(out, domain.PriceOption{
			ID:       id,
			Tipo:     t.tipo,
			Cantidad: t.cantidad,
			Precio:   base * int64(t.cantidad),
			Activo:   active,
		})
	}
	return out
}

// ownsPriceList reports whether every option id carries the product's
// ownership prefix. A list that fails this check belongs to some other
// product (or to an older document format) and must be regenerated.
func ownsPriceList(p domain.Product) bool {
	if len(p.Precios) == 0 {
		return false
	}
	prefix := p.ID + "-"
	for _, opt := range p.Precios {
		if !strings.HasPrefix(opt.ID, prefix) {
			return false
		}
	}
	return true
}

func (l *Ledger) AddProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return domain.Product{}, fmt.Errorf("%w: nombre is required", ErrInvalidInput)
	}
	sku := NormalizeSKU(req.SKU)
	if sku == "" {
		return domain.Product{}, fmt.Errorf("%w: sku is required", ErrInvalidInput)
	}
	if req.Precio < 1 {
		return domain.Product{}, fmt.Errorf("%w: precio must be positive", ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.state.Products {
		if l.state.Products[i].SKU == sku {
			return domain.Product{}, fmt.Errorf("%w: %s", ErrSKUExists, sku)
		}
	}

	product := domain.Product{
		ID:           xid.New("prod"),
		Nombre:       nombre,
		SKU:          sku,
		Categoria:    strings.TrimSpace(req.Categoria),
		Descripcion:  strings.TrimSpace(req.Descripcion),
		Precio:       req.Precio,
		PrecioOferta: max(req.PrecioOferta, 0),
		Stock:        max(req.Stock, 0),
		Minimo:       max(req.Minimo, 0),
		Active:       true,
	}
	product.Precios = priceTiers(product.ID, product.Precio, nil)

	l.state.Products = append(l.state.Products, product)
	l.persist(ctx)

	return cloneProduct(product), nil
}

func (l *Ledger) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.findProduct(id)
	if p == nil {
		return domain.Product{}, ErrNotFound
	}

	updated := cloneProduct(*p)

	if patch.Nombre != nil {
		nombre := strings.TrimSpace(*patch.Nombre)
		if nombre == "" {
			return domain.Product{}, fmt.Errorf("%w: nombre is required", ErrInvalidInput)
		}
		updated.Nombre = nombre
	}
	if patch.SKU != nil {
		sku := NormalizeSKU(*patch.SKU)
		if sku == "" {
			return domain.Product{}, fmt.Errorf("%w: sku is required", ErrInvalidInput)
		}
		for i := range l.state.Products {
			if l.state.Products[i].ID != id && l.state.Products[i].SKU == sku {
				return domain.Product{}, fmt.Errorf("%w: %s", ErrSKUExists, sku)
			}
		}
		updated.SKU = sku
	}
	if patch.Categoria != nil {
		updated.Categoria = strings.TrimSpace(*patch.Categoria)
	}
	if patch.Descripcion != nil {
		updated.Descripcion = strings.TrimSpace(*patch.Descripcion)
	}
	if patch.PrecioOferta != nil {
		updated.PrecioOferta = max(*patch.PrecioOferta, 0)
	}
	if patch.Minimo != nil {
		updated.Minimo = max(*patch.Minimo, 0)
	}
	if patch.Active != nil {
		updated.Active = *patch.Active
	}
	if patch.Precios != nil {
		updated.Precios = make([]domain.PriceOption, len(*patch.Precios))
		copy(updated.Precios, *patch.Precios)
	}
	if patch.Precio != nil {
		if *patch.Precio < 1 {
			return domain.Product{}, fmt.Errorf("%w: precio must be positive", ErrInvalidInput)
		}
		updated.Precio = *patch.Precio

		// A base price change rebuilds the tier list but keeps each
		// tier's activo flag.
		wasActive := make(map[string]bool, len(p.Precios))
		for _, opt := range p.Precios {
			wasActive[opt.ID] = opt.Activo
		}
		updated.Precios = priceTiers(updated.ID, updated.Precio, func(optID string) bool {
			active, ok := wasActive[optID]
			if !ok {
				return true
			}
			return active
		})
	}

	// A price list that does not pass the ownership check never survives
	// a write.
	if !ownsPriceList(updated) {
		updated.Precios = priceTiers(updated.ID, updated.Precio, nil)
	}

	*p = updated
	l.persist(ctx)

	return cloneProduct(updated), nil
}

// SetProductActive hides a product from sale (or restores it) without
// touching its stock or history. Products are never hard-deleted.
func (l *Ledger) SetProductActive(ctx context.Context, id string, active bool) (domain.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.findProduct(id)
	if p == nil {
		return domain.Product{}, ErrNotFound
	}

	p.Active = active
	l.persist(ctx)

	return cloneProduct(*p), nil
}

func (l *Ledger) GetProduct(id string) (domain.Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p := l.findProduct(id)
	if p == nil {
		return domain.Product{}, ErrNotFound
	}
	return cloneProduct(*p), nil
}

func (l *Ledger) ListProducts(includeInactive bool) []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	products := make([]domain.Product, 0, len(l.state.Products))
	for i := range l.state.Products {
		if !includeInactive && !l.state.Products[i].Active {
			continue
		}
		products = append(products, cloneProduct(l.state.Products[i]))
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.Nombre == b.Nombre {
			return cmpString(a.ID, b.ID)
		}
		return cmpString(a.Nombre, b.Nombre)
	})

	return products
}
