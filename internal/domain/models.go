package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleStockist = "almacenista"
)

const (
	PriceTypeUnit = "UNIDAD"
	PriceTypePack = "PACK"
)

const (
	PaymentCash     = "efectivo"
	PaymentTransfer = "transferencia"
	PaymentCard     = "tarjeta"
)

const (
	MovementIn  = "entrada"
	MovementOut = "salida"
)

type PriceOption struct {
	ID       string `json:"id"`
	Tipo     string `json:"tipo"`
	Cantidad int    `json:"cantidad"`
	Precio   int64  `json:"precio"`
	Activo   bool   `json:"activo"`
}

type Product struct {
	ID           string        `json:"id"`
	Nombre       string        `json:"nombre"`
	SKU          string        `json:"sku"`
	Categoria    string        `json:"categoria"`
	Descripcion  string        `json:"descripcion,omitempty"`
	Precio       int64         `json:"precio"`
	PrecioOferta int64         `json:"precioOferta,omitempty"`
	Stock        int           `json:"stock"`
	Minimo       int           `json:"minimo"`
	Active       bool          `json:"active"`
	Precios      []PriceOption `json:"precios"`
}

type ProductCreateRequest struct {
	Nombre       string `json:"nombre"`
	SKU          string `json:"sku"`
	Categoria    string `json:"categoria"`
	Descripcion  string `json:"descripcion"`
	Precio       int64  `json:"precio"`
	PrecioOferta int64  `json:"precioOferta"`
	Stock        int    `json:"stock"`
	Minimo       int    `json:"minimo"`
}

type ProductPatch struct {
	Nombre       *string        `json:"nombre,omitempty"`
	SKU          *string        `json:"sku,omitempty"`
	Categoria    *string        `json:"categoria,omitempty"`
	Descripcion  *string        `json:"descripcion,omitempty"`
	Precio       *int64         `json:"precio,omitempty"`
	PrecioOferta *int64         `json:"precioOferta,omitempty"`
	Minimo       *int           `json:"minimo,omitempty"`
	Active       *bool          `json:"active,omitempty"`
	Precios      *[]PriceOption `json:"precios,omitempty"`
}

type Movement struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	Qty         int       `json:"qty"`
	Type        string    `json:"type"`
	Reason      string    `json:"reason"`
	Note        string    `json:"note,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	Date        time.Time `json:"date"`
	Responsable string    `json:"responsable"`
}

type MovementInput struct {
	Reason   string `json:"reason"`
	Note     string `json:"note"`
	Provider string `json:"provider"`
}

type StockRequest struct {
	Delta    int            `json:"delta"`
	Movement *MovementInput `json:"movement,omitempty"`
}

type Sale struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	Nombre        string    `json:"nombre"`
	Qty           int       `json:"qty"`
	Packs         int       `json:"packs,omitempty"`
	PriceOptionID string    `json:"priceOptionId,omitempty"`
	Tipo          string    `json:"tipo,omitempty"`
	PackQty       int       `json:"packQty,omitempty"`
	Precio        int64     `json:"precio"`
	Total         int64     `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	Vendedor      string    `json:"vendedor"`
	CreatedAt     time.Time `json:"createdAt"`
}

type SaleRequest struct {
	ProductID     string `json:"productId"`
	Qty           int    `json:"qty"`
	PaymentMethod string `json:"paymentMethod"`
	PriceOptionID string `json:"priceOptionId,omitempty"`
	Price         *int64 `json:"price,omitempty"`
	Packs         *int   `json:"packs,omitempty"`
}

type CartLine struct {
	ProductID     string `json:"productId"`
	PriceOptionID string `json:"priceOptionId"`
	Qty           int    `json:"qty"`
}

type CartRequest struct {
	PaymentMethod string     `json:"paymentMethod"`
	Lines         []CartLine `json:"lines"`
}

type PaymentBucket struct {
	Ops    int   `json:"ops"`
	Units  int   `json:"units"`
	Amount int64 `json:"amount"`
}

type PaymentBreakdown struct {
	Efectivo      PaymentBucket `json:"efectivo"`
	Transferencia PaymentBucket `json:"transferencia"`
	Tarjeta       PaymentBucket `json:"tarjeta"`
	TotalOps      int           `json:"totalOps"`
	TotalUnits    int           `json:"totalUnits"`
	TotalAmount   int64         `json:"totalAmount"`
}

type Day struct {
	ID        string           `json:"id"`
	ClosedAt  time.Time        `json:"closedAt"`
	Ventas    int              `json:"ventas"`
	Total     int64            `json:"total"`
	Sales     []Sale           `json:"sales"`
	ByPayment PaymentBreakdown `json:"byPayment"`
	Encargado string           `json:"encargado"`
}

type Summary struct {
	Ventas    int              `json:"ventas"`
	Total     int64            `json:"total"`
	ByPayment PaymentBreakdown `json:"byPayment"`
	Alertas   []Product        `json:"alertas"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
	Nombre   string `json:"nombre"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Nombre   string `json:"nombre"`
}

type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	Nombre   *string `json:"nombre,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	Nombre      string `json:"nombre"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Nombre   string
	Role     string
}

// Snapshot is the whole ledger state, marshalled as one JSON document
// and written wholesale to a single storage slot. The key names match
// the stored bodega_v2 document so pre-existing slots load as-is; the
// legacy document's transient "user" (session) key is ignored.
type Snapshot struct {
	Products  []Product  `json:"products"`
	Sales     []Sale     `json:"sales"`
	Days      []Day      `json:"days"`
	Movements []Movement `json:"movements"`
	Users     []User     `json:"users"`
}
