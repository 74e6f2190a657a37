package ledger

import (
	"context"
	"errors"
	"testing"

	"bodegabaratote/backend/internal/domain"
)

func TestSellUnitTierDecrementsStock(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := actorCtx("Pedro", domain.RoleStockist)

	sale, err := l.Sell(ctx, domain.SaleRequest{
		ProductID:     "1",
		Qty:           2,
		PaymentMethod: domain.PaymentCash,
		PriceOptionID: "1-U",
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if sale.Precio != 3000 || sale.Total != 6000 {
		t.Fatalf("unit tier pricing wrong: precio=%d total=%d", sale.Precio, sale.Total)
	}
	if sale.Vendedor != "Pedro" {
		t.Fatalf("vendedor = %q", sale.Vendedor)
	}

	p, _ := l.GetProduct("1")
	if p.Stock != 16 {
		t.Fatalf("stock = %d, want 16", p.Stock)
	}
	if got := len(l.ListSales()); got != 1 {
		t.Fatalf("open sales = %d", got)
	}
}

func TestSellPackTier(t *testing.T) {
	l, _ := newTestLedger(t)

	packs := 2
	sale, err := l.Sell(context.Background(), domain.SaleRequest{
		ProductID:     "1",
		Qty:           12,
		PaymentMethod: domain.PaymentTransfer,
		PriceOptionID: "1-P6",
		Packs:         &packs,
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	// Pack mode prices per pack: 6 x 3000 per pack, two packs.
	if sale.Precio != 18000 || sale.Total != 36000 {
		t.Fatalf("pack pricing wrong: precio=%d total=%d", sale.Precio, sale.Total)
	}
	if sale.Packs != 2 || sale.PackQty != 6 || sale.Tipo != domain.PriceTypePack {
		t.Fatalf("pack metadata wrong: %+v", sale)
	}

	p, _ := l.GetProduct("1")
	if p.Stock != 6 {
		t.Fatalf("stock = %d, want 6", p.Stock)
	}
}

func TestSellPriceFallbackChain(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	// Unknown option id falls through to the explicit override.
	override := int64(2500)
	sale, err := l.Sell(ctx, domain.SaleRequest{
		ProductID: "1", Qty: 1, PaymentMethod: domain.PaymentCash,
		PriceOptionID: "1-NOPE", Price: &override,
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if sale.Precio != 2500 || sale.PriceOptionID != "" {
		t.Fatalf("override not applied: %+v", sale)
	}

	// precioOferta beats the base price when set.
	oferta := int64(2800)
	if _, err := l.UpdateProduct(ctx, "1", domain.ProductPatch{PrecioOferta: &oferta}); err != nil {
		t.Fatalf("patch oferta: %v", err)
	}
	sale, err = l.Sell(ctx, domain.SaleRequest{ProductID: "1", Qty: 1, PaymentMethod: domain.PaymentCash})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if sale.Precio != 2800 {
		t.Fatalf("oferta not applied: %d", sale.Precio)
	}

	// Base price is the last resort.
	sale, err = l.Sell(ctx, domain.SaleRequest{ProductID: "2", Qty: 1, PaymentMethod: domain.PaymentCash})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if sale.Precio != 1500 {
		t.Fatalf("base price not applied: %d", sale.Precio)
	}
}

func TestSellRejections(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.Sell(ctx, domain.SaleRequest{ProductID: "1", Qty: 19, PaymentMethod: domain.PaymentCash}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("over-stock sell: got %v", err)
	}
	if _, err := l.Sell(ctx, domain.SaleRequest{ProductID: "1", Qty: 0, PaymentMethod: domain.PaymentCash}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero qty: got %v", err)
	}
	if _, err := l.Sell(ctx, domain.SaleRequest{ProductID: "nope", Qty: 1, PaymentMethod: domain.PaymentCash}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown product: got %v", err)
	}

	if _, err := l.SetProductActive(ctx, "1", false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := l.Sell(ctx, domain.SaleRequest{ProductID: "1", Qty: 1, PaymentMethod: domain.PaymentCash}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inactive product: got %v", err)
	}

	p, _ := l.GetProduct("1")
	if p.Stock != 18 || len(l.ListSales()) != 0 {
		t.Fatalf("rejected sells must not mutate state")
	}
}

func TestCancelSaleRestoresStock(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	sale, err := l.Sell(ctx, domain.SaleRequest{ProductID: "1", Qty: 5, PaymentMethod: domain.PaymentCash})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}

	if err := l.CancelSale(ctx, sale.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	p, _ := l.GetProduct("1")
	if p.Stock != 18 {
		t.Fatalf("stock after cancel = %d, want 18", p.Stock)
	}
	if got := len(l.ListSales()); got != 0 {
		t.Fatalf("open sales after cancel = %d", got)
	}

	if err := l.CancelSale(ctx, sale.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double cancel: got %v", err)
	}
}

func TestSellCartRejectsOverCommitAcrossLines(t *testing.T) {
	l, _ := newTestLedger(t)

	// Product 1 has 18 units; two P12 lines would need 24.
	_, err := l.SellCart(context.Background(), domain.CartRequest{
		PaymentMethod: domain.PaymentCash,
		Lines: []domain.CartLine{
			{ProductID: "1", PriceOptionID: "1-P12", Qty: 1},
			{ProductID: "1", PriceOptionID: "1-P12", Qty: 1},
		},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	p, _ := l.GetProduct("1")
	if p.Stock != 18 || len(l.ListSales()) != 0 {
		t.Fatalf("rejected cart must leave no partial mutation")
	}
}

func TestSellCartConfirmsOneSalePerLine(t *testing.T) {
	l, _ := newTestLedger(t)

	sales, err := l.SellCart(actorCtx("Admin", domain.RoleAdmin), domain.CartRequest{
		PaymentMethod: domain.PaymentTransfer,
		Lines: []domain.CartLine{
			{ProductID: "1", PriceOptionID: "1-P6", Qty: 2},
			{ProductID: "2", PriceOptionID: "2-U", Qty: 3},
		},
	})
	if err != nil {
		t.Fatalf("sell cart: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}
	if sales[0].Qty != 12 || sales[1].Qty != 3 {
		t.Fatalf("unit counts wrong: %d, %d", sales[0].Qty, sales[1].Qty)
	}

	p1, _ := l.GetProduct("1")
	p2, _ := l.GetProduct("2")
	if p1.Stock != 6 || p2.Stock != 37 {
		t.Fatalf("stock after cart = %d, %d", p1.Stock, p2.Stock)
	}
}

func TestValidateCartLineNetOfReservations(t *testing.T) {
	l, _ := newTestLedger(t)

	cart := []domain.CartLine{{ProductID: "1", PriceOptionID: "1-P12", Qty: 1}}

	// 12 of 18 reserved; another 6 fits, another 12 does not.
	if err := l.ValidateCartLine(cart, domain.CartLine{ProductID: "1", PriceOptionID: "1-P6", Qty: 1}); err != nil {
		t.Fatalf("line within availability rejected: %v", err)
	}
	err := l.ValidateCartLine(cart, domain.CartLine{ProductID: "1", PriceOptionID: "1-P12", Qty: 1})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Validation never mutates.
	p, _ := l.GetProduct("1")
	if p.Stock != 18 {
		t.Fatalf("validate must not touch stock, got %d", p.Stock)
	}
}
