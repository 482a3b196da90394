// Package draft defines the resumable session snapshot. The snapshot is the
// source of truth for in-progress work: it is rewritten after every state
// change and read exactly once at startup, so nothing the operator typed is
// lost to a reload or a transient network failure.
package draft

import (
	"time"

	"github.com/studiofoto/intake/internal/core/domain"
)

// Snapshot is the full wizard state, JSON-serializable for the store.
type Snapshot struct {
	Step        int               `json:"step"`
	Operator    *domain.Operator  `json:"operator,omitempty"`
	Items       []domain.LineItem `json:"items"`
	DiscountPct float64           `json:"discount_pct"`
	OrderID     string            `json:"order_id,omitempty"`

	ClientName   string `json:"client_name"`
	ClientPhone  string `json:"client_phone"`
	DeliveryDate string `json:"delivery_date"`
	DeliveryTime string `json:"delivery_time"`

	PaymentKind     string `json:"payment_kind"`
	PaymentAmount   string `json:"payment_amount"`
	PaymentNote     string `json:"payment_note"`
	PaymentReceived string `json:"payment_received"`

	EditingID string    `json:"editing_id,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}
