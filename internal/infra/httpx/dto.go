package httpx

import (
	"github.com/studiofoto/intake/internal/core/domain"
	"github.com/studiofoto/intake/internal/core/session"
)

type ResolveOperatorRequest struct {
	Code int `json:"code"`
}

type GoStepRequest struct {
	Step string `json:"step"`
}

type CommitLineRequest struct {
	Mode string `json:"mode"` // "CATALOG" or "MANUAL"

	// Catalog fields.
	Size   string `json:"size,omitempty"`
	Finish string `json:"finish,omitempty"`

	// Manual fields.
	Description  string  `json:"description,omitempty"`
	PackagePrice float64 `json:"package_price,omitempty"`

	// Shared.
	Quantity     int    `json:"quantity"`
	Paper        string `json:"paper,omitempty"`
	PremiumPaper bool   `json:"premium_paper"`
	Urgent       bool   `json:"urgent"`
	Clothing     string `json:"clothing,omitempty"`
	Specs        string `json:"specs,omitempty"`
}

type QuoteResponse struct {
	Price float64 `json:"price"`
}

type DiscountRequest struct {
	Pct float64 `json:"pct"`
}

type ClientRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	DeliveryDate string `json:"delivery_date"`
	DeliveryTime string `json:"delivery_time"`
}

type PaymentRequest struct {
	Kind     string  `json:"kind"`
	Amount   float64 `json:"amount"`
	Received float64 `json:"received"`
	Note     string  `json:"note"`
}

type PaymentFormRequest struct {
	Kind     string `json:"kind"`
	Amount   string `json:"amount"`
	Received string `json:"received"`
	Note     string `json:"note"`
}

type PaymentResponse struct {
	Change float64             `json:"change"`
	Totals *domain.OrderTotals `json:"totals,omitempty"`
}

type OperatorResponse struct {
	ID    string `json:"id"`
	Code  int    `json:"code"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

type ClientResponse struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	DeliveryDate string `json:"delivery_date"`
	DeliveryTime string `json:"delivery_time"`
}

type EditResponse struct {
	Item domain.LineItem `json:"item"`

	// Prefill helpers for manual lines: the plain description and the specs
	// text without the wire markers.
	ManualDescription string `json:"manual_description,omitempty"`
	ManualSpecs       string `json:"manual_specs,omitempty"`
}

// LineDefaults prefills the line-builder form with the shop's most common
// order; the manual fields prefill the special-line form.
type LineDefaults struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Finish   string `json:"finish"`
	Paper    string `json:"paper"`

	ManualDescription string  `json:"manual_description"`
	ManualPrice       float64 `json:"manual_price"`
	ManualQuantity    int     `json:"manual_quantity"`
}

// QuantitiesResponse lists the valid quantities for a size and the snapped
// selection, so the quantity control follows a size change.
type QuantitiesResponse struct {
	Quantities []int `json:"quantities"`
	Snapped    int   `json:"snapped"`
}

// StateResponse is the full wizard state the UI renders from.
type StateResponse struct {
	Step        string              `json:"step"`
	Operator    *OperatorResponse   `json:"operator,omitempty"`
	Items       []domain.LineItem   `json:"items"`
	EditingID   string              `json:"editing_id,omitempty"`
	OrderID     string              `json:"order_id,omitempty"`
	Client      ClientResponse      `json:"client"`
	LocalTotals domain.CartTotals   `json:"local_totals"`
	Totals      *domain.OrderTotals `json:"totals,omitempty"`
	Payments    []domain.Payment    `json:"payments"`
	Sizes       []string            `json:"sizes,omitempty"`
	Defaults    LineDefaults        `json:"defaults"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapState(s *session.Session) StateResponse {
	resp := StateResponse{
		Step:        s.Step().String(),
		Items:       s.Items(),
		EditingID:   s.EditingID(),
		OrderID:     s.OrderID(),
		LocalTotals: s.LocalTotals(),
		Totals:      s.RemoteTotals(),
		Payments:    s.Payments(),
	}
	if op := s.Operator(); op != nil {
		resp.Operator = &OperatorResponse{ID: op.ID, Code: op.Code, Name: op.Name, Admin: op.Admin}
	}
	name, phone, date, timeOfDay := s.Client()
	resp.Client = ClientResponse{Name: name, Phone: phone, DeliveryDate: date, DeliveryTime: timeOfDay}
	if c := s.Catalog(); c != nil {
		resp.Sizes = c.Sizes()
	}
	resp.Defaults = LineDefaults{
		Size:              domain.DefaultSize,
		Quantity:          domain.DefaultQuantity,
		Finish:            domain.DefaultFinish,
		Paper:             domain.DefaultPaper,
		ManualDescription: domain.DefaultManualDescription,
		ManualPrice:       domain.DefaultManualPrice,
		ManualQuantity:    domain.DefaultManualQuantity,
	}
	return resp
}
