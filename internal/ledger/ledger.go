// Package ledger owns the whole kiosk state: catalog, stock, open sales,
// closed days, stock movements and users. All mutations run under one
// write lock, validate before touching state, and end with a wholesale
// snapshot write. A failed snapshot write is logged and absorbed; the
// in-memory state stays authoritative.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"bodegabaratote/backend/internal/domain"
	"bodegabaratote/backend/internal/snapshot"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
	ErrSKUExists         = errors.New("sku already exists")
	ErrProtectedUser     = errors.New("protected user")
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

func actorName(ctx context.Context) string {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return "Sistema"
	}
	if actor.Nombre != "" {
		return actor.Nombre
	}
	if actor.Username != "" {
		return actor.Username
	}
	return "Sistema"
}

type SeedPasswords struct {
	Admin    string
	Stockist string
}

type Ledger struct {
	mu    sync.RWMutex
	state *domain.Snapshot
	store snapshot.Store
}

// New loads the document from the slot and migrates it. An empty or
// unparsable document falls back to the seed state; only a transport
// failure aborts startup.
func New(ctx context.Context, store snapshot.Store, seed SeedPasswords) (*Ledger, error) {
	l := &Ledger{store: store}

	doc, err := store.Load(ctx)
	switch {
	case errors.Is(err, snapshot.ErrEmpty):
		l.state = seedState(seed)
	case err != nil:
		return nil, err
	default:
		var state domain.Snapshot
		if jsonErr := json.Unmarshal(doc, &state); jsonErr != nil {
			log.Printf("[ledger] WARN: stored snapshot unreadable, starting from defaults: %v", jsonErr)
			l.state = seedState(seed)
		} else {
			l.state = &state
		}
	}

	changed := false
	if len(l.state.Users) == 0 {
		l.state.Users = seedUsers(seed)
		changed = true
	}
	if migratePriceLists(l.state) {
		changed = true
	}
	if changed {
		l.persist(ctx)
	}

	return l, nil
}

// persist is called with l.mu held for writing (or before the ledger is
// shared, during New).
func (l *Ledger) persist(ctx context.Context) {
	doc, err := json.Marshal(l.state)
	if err != nil {
		log.Printf("[ledger] WARN: encode snapshot: %v", err)
		return
	}
	if err := l.store.Save(ctx, doc); err != nil {
		log.Printf("[ledger] WARN: persist snapshot: %v", err)
	}
}

func seedState(seed SeedPasswords) *domain.Snapshot {
	products := []domain.Product{
		{ID: "1", Nombre: "Coca Cola 500ml", SKU: "COCA-500", Categoria: "Bebidas", Precio: 3000, Stock: 18, Minimo: 20, Active: true},
		{ID: "2", Nombre: "Hielo bolsa", SKU: "HIELO-BOLSA", Categoria: "Congelados", Precio: 1500, Stock: 40, Minimo: 15, Active: true},
		{ID: "3", Nombre: "Caramelos surtidos", SKU: "CARAMELOS", Categoria: "Dulces", Precio: 100, Stock: 200, Minimo: 50, Active: true},
	}
	for i := range products {
		products[i].Precios = priceTiers(products[i].ID, products[i].Precio, nil)
	}

	return &domain.Snapshot{
		Products: products,
		Users:    seedUsers(seed),
	}
}

// Seed passwords are stored plaintext here and upgraded to bcrypt the
// first time the auth layer bootstraps.
func seedUsers(seed SeedPasswords) []domain.User {
	adminPass := seed.Admin
	if adminPass == "" {
		adminPass = "admin123"
	}
	stockistPass := seed.Stockist
	if stockistPass == "" {
		stockistPass = "almacen123"
	}

	return []domain.User{
		{ID: 1, Username: "admin", Password: adminPass, Role: domain.RoleAdmin, Nombre: "Administrador"},
		{ID: 2, Username: "pedro", Password: stockistPass, Role: domain.RoleStockist, Nombre: "Pedro"},
	}
}

func (l *Ledger) findProduct(id string) *domain.Product {
	for i := range l.state.Products {
		if l.state.Products[i].ID == id {
			return &l.state.Products[i]
		}
	}
	return nil
}

func cloneProduct(p domain.Product) domain.Product {
	out := p
	out.Precios = make([]domain.PriceOption, len(p.Precios))
	copy(out.Precios, p.Precios)
	return out
}

func cloneSales(sales []domain.Sale) []domain.Sale {
	out := make([]domain.Sale, len(sales))
	copy(out, sales)
	return out
}

func cloneDay(d domain.Day) domain.Day {
	out := d
	out.Sales = cloneSales(d.Sales)
	return out
}

func cmpString(a string, b string) int {
	return strings.Compare(a, b)
}
