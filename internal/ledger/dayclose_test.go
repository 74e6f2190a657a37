package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"bodegabaratote/backend/internal/domain"
)

func sellForTest(t *testing.T, l *Ledger, productID string, qty int, method string) domain.Sale {
	t.Helper()
	sale, err := l.Sell(context.Background(), domain.SaleRequest{
		ProductID: productID, Qty: qty, PaymentMethod: method,
	})
	if err != nil {
		t.Fatalf("sell %s x%d: %v", productID, qty, err)
	}
	return sale
}

func TestSummaryPartitionsByPaymentMethod(t *testing.T) {
	l, _ := newTestLedger(t)

	sellForTest(t, l, "1", 2, domain.PaymentCash)     // 6000
	sellForTest(t, l, "2", 1, domain.PaymentTransfer) // 1500
	sellForTest(t, l, "2", 3, domain.PaymentCard)     // 4500
	sellForTest(t, l, "3", 10, "cheque")              // unknown method, folds into tarjeta

	sum := l.Summary()
	if sum.Ventas != 4 {
		t.Fatalf("ventas = %d", sum.Ventas)
	}
	if sum.ByPayment.Efectivo.Ops != 1 || sum.ByPayment.Efectivo.Units != 2 || sum.ByPayment.Efectivo.Amount != 6000 {
		t.Fatalf("efectivo bucket wrong: %+v", sum.ByPayment.Efectivo)
	}
	if sum.ByPayment.Transferencia.Amount != 1500 {
		t.Fatalf("transferencia bucket wrong: %+v", sum.ByPayment.Transferencia)
	}
	if sum.ByPayment.Tarjeta.Ops != 2 || sum.ByPayment.Tarjeta.Units != 13 || sum.ByPayment.Tarjeta.Amount != 5500 {
		t.Fatalf("tarjeta bucket must absorb unknown methods: %+v", sum.ByPayment.Tarjeta)
	}

	wantTotal := sum.ByPayment.Efectivo.Amount + sum.ByPayment.Transferencia.Amount + sum.ByPayment.Tarjeta.Amount
	if sum.Total != wantTotal || sum.ByPayment.TotalAmount != wantTotal {
		t.Fatalf("bucket totals do not reconcile: total=%d buckets=%d", sum.Total, wantTotal)
	}
	if sum.ByPayment.TotalOps != 4 || sum.ByPayment.TotalUnits != 16 {
		t.Fatalf("grand totals wrong: %+v", sum.ByPayment)
	}
}

func TestSummaryLowStockAlerts(t *testing.T) {
	l, _ := newTestLedger(t)

	// Seed: Coca 18/20 is already below minimum, the others are not.
	sum := l.Summary()
	if len(sum.Alertas) != 1 || sum.Alertas[0].ID != "1" {
		t.Fatalf("alertas = %+v", sum.Alertas)
	}

	// Inactive products never alert.
	if _, err := l.SetProductActive(context.Background(), "1", false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if got := len(l.Summary().Alertas); got != 0 {
		t.Fatalf("alertas after deactivation = %d", got)
	}
}

func TestCloseDayArchivesAndClears(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := actorCtx("Admin", domain.RoleAdmin)

	sellForTest(t, l, "1", 2, domain.PaymentCash)
	sellForTest(t, l, "2", 1, domain.PaymentTransfer)

	day, err := l.CloseDay(ctx)
	if err != nil {
		t.Fatalf("close day: %v", err)
	}
	if day.Ventas != 2 || day.Total != 7500 {
		t.Fatalf("day = %+v", day)
	}
	if len(day.Sales) != 2 {
		t.Fatalf("archived sales = %d", len(day.Sales))
	}
	if day.Encargado != "Admin" {
		t.Fatalf("encargado = %q", day.Encargado)
	}
	if day.ByPayment.Efectivo.Amount != 6000 || day.ByPayment.Transferencia.Amount != 1500 {
		t.Fatalf("day breakdown wrong: %+v", day.ByPayment)
	}

	if got := len(l.ListSales()); got != 0 {
		t.Fatalf("open sales after close = %d", got)
	}
	if sum := l.Summary(); sum.Ventas != 0 || sum.Total != 0 {
		t.Fatalf("summary after close = %+v", sum)
	}

	days, err := l.ListDays("", "")
	if err != nil {
		t.Fatalf("list days: %v", err)
	}
	if len(days) != 1 || days[0].ID != day.ID {
		t.Fatalf("days = %+v", days)
	}

	// Closed sales are out of reach of cancellation.
	if err := l.CancelSale(ctx, day.Sales[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancel archived sale: got %v", err)
	}
}

func TestCloseDayRequiresOpenSales(t *testing.T) {
	l, _ := newTestLedger(t)

	if _, err := l.CloseDay(context.Background()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListDaysDateFilter(t *testing.T) {
	l, _ := newTestLedger(t)

	sellForTest(t, l, "1", 1, domain.PaymentCash)
	if _, err := l.CloseDay(context.Background()); err != nil {
		t.Fatalf("close day: %v", err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	days, err := l.ListDays(today, today)
	if err != nil {
		t.Fatalf("list days: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("inclusive same-day range must match, got %d", len(days))
	}

	days, err = l.ListDays("2000-01-01", "2000-01-02")
	if err != nil {
		t.Fatalf("list days: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("out-of-range filter must match nothing, got %d", len(days))
	}

	if _, err := l.ListDays("not-a-date", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad date: got %v", err)
	}
}

func TestDeleteDay(t *testing.T) {
	l, _ := newTestLedger(t)

	sellForTest(t, l, "1", 1, domain.PaymentCash)
	day, err := l.CloseDay(context.Background())
	if err != nil {
		t.Fatalf("close day: %v", err)
	}

	if err := l.DeleteDay(context.Background(), day.ID); err != nil {
		t.Fatalf("delete day: %v", err)
	}
	days, _ := l.ListDays("", "")
	if len(days) != 0 {
		t.Fatalf("days after delete = %d", len(days))
	}
	if err := l.DeleteDay(context.Background(), day.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: got %v", err)
	}
}
