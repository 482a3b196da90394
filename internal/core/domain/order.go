package domain

import "time"

// OrderFields is the header payload pushed to the order store on create and
// update. Money fields are deliberately absent: the store computes them from
// the submitted items and payments.
type OrderFields struct {
	ClientName    string
	ClientPhone   string
	DeliveryDate  string // YYYY-MM-DD
	DeliveryTime  string // HH:MM
	Urgent        bool
	DiscountPct   float64
	CreatedBy     string
	ClearRevision bool // CLIENT-step update marks a bounced order corrected
}

// OrderTotals is the authoritative money snapshot read back from the order
// store after every write. The intake flow never trusts its local preview
// once an order exists server-side.
type OrderTotals struct {
	Gross       float64 `json:"gross"`
	Final       float64 `json:"final"`
	DiscountPct float64 `json:"discount_pct"`
	Deposit     float64 `json:"deposit"`
	Settlement  float64 `json:"settlement"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
	IsPaid      bool    `json:"is_paid"`
}

// PaymentKind distinguishes a partial payment from one that settles the
// balance.
type PaymentKind string

const (
	PaymentOnAccount  PaymentKind = "ON_ACCOUNT"
	PaymentSettlement PaymentKind = "SETTLEMENT"
)

// ValidPaymentKind reports whether k is one of the two accepted kinds.
func ValidPaymentKind(k PaymentKind) bool {
	return k == PaymentOnAccount || k == PaymentSettlement
}

// Payment is an append-only remote record; intake inserts them and lists
// them, never edits or deletes.
type Payment struct {
	ID         string      `json:"id"`
	OrderID    string      `json:"order_id"`
	Amount     float64     `json:"amount"`
	Kind       PaymentKind `json:"kind"`
	Note       string      `json:"note"`
	OperatorID string      `json:"operator_id"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderHeader is the stored order record as read back for resume.
type OrderHeader struct {
	ID            string
	ClientName    string
	ClientPhone   string
	DeliveryDate  string
	DeliveryTime  string
	Urgent        bool
	DiscountPct   float64
	NeedsRevision bool
	CreatedBy     string
	CreatedAt     time.Time
}

// OrderSummary is one row of the incomplete-orders list: enough for the
// operator to recognize the order and decide to resume or discard it.
type OrderSummary struct {
	ID            string    `json:"id"`
	ClientName    string    `json:"client_name"`
	ClientPhone   string    `json:"client_phone"`
	DeliveryDate  string    `json:"delivery_date"`
	DeliveryTime  string    `json:"delivery_time"`
	Urgent        bool      `json:"urgent"`
	NeedsRevision bool      `json:"needs_revision"`
	CreatedAt     time.Time `json:"created_at"`
}

// RemoteLineItem is a stored order line as read back for resume. No mode
// column; InferMode reconstructs it from Size and Finish.
type RemoteLineItem struct {
	Size      string
	Finish    string
	Quantity  int
	Paper     string
	Urgent    bool
	Clothing  string
	Specs     string
	UnitPrice float64
	Subtotal  float64
}
