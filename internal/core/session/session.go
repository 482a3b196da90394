// Package session implements the order-intake wizard: a five-step, resumable
// transaction builder coordinating the catalog index, the cart, the draft
// store and the remote order gateway.
//
// The session is single-threaded (one operator, one device); callers
// serialize access. Every mutation rewrites the draft
// slot fire-and-forget, so in-progress work survives reloads and transient
// gateway failures without losing operator input.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studiofoto/intake/internal/core/domain"
	"github.com/studiofoto/intake/internal/core/draft"
	"github.com/studiofoto/intake/internal/core/ports"
	"github.com/studiofoto/intake/internal/intakelog"
)

// UrgentLeadTime is the fixed delivery window forced onto an order when any
// cart line is urgent: delivery is "now + this", not operator-chosen.
const UrgentLeadTime = 20 * time.Minute

// DefaultDeliveryTime is the prefilled delivery time for non-urgent orders.
const DefaultDeliveryTime = "12:30"

// Session is the wizard controller. Zero concurrency control here; the
// httpx layer holds one mutex per device session.
type Session struct {
	gw     ports.OrderGateway
	drafts ports.DraftStore
	events intakelog.Repository // nil-safe: event logging skipped if nil

	now   func() time.Time
	newID func() string

	step     Step
	operator *domain.Operator
	catalog  *domain.Catalog
	cart     *domain.Cart

	discountPct float64
	orderID     string

	clientName   string
	clientPhone  string
	deliveryDate string
	deliveryTime string

	payKind     domain.PaymentKind
	payAmount   string
	payReceived string
	payNote     string

	editingID string

	// Authoritative state read back from the gateway after writes.
	totals   *domain.OrderTotals
	payments []domain.Payment
}

// New builds a fresh session in the OPERATOR step. events may be nil.
func New(gw ports.OrderGateway, drafts ports.DraftStore, events intakelog.Repository) *Session {
	s := &Session{
		gw:     gw,
		drafts: drafts,
		events: events,
		now:    time.Now,
		newID:  uuid.NewString,
		cart:   domain.NewCart(),
	}
	s.resetOrderState()
	s.step = StepOperator
	return s
}

// Restore loads the draft slot once and rebuilds the wizard state from it.
// Call right after New; a missing or unreadable draft leaves the fresh state.
func (s *Session) Restore(ctx context.Context) error {
	snap, err := s.drafts.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "draft load failed, starting clean", "error", err)
		return err
	}
	if snap == nil {
		return nil
	}
	s.applySnapshot(snap)
	if s.orderID != "" {
		// The draft carries no money fields; pull the server-computed totals
		// and payments so the payment step shows authoritative numbers
		// without waiting for the next remote write.
		if err := s.refresh(ctx); err != nil {
			slog.WarnContext(ctx, "totals refresh after restore failed", "error", err)
		}
	}
	return nil
}

func (s *Session) applySnapshot(snap *draft.Snapshot) {
	s.step = Step(snap.Step)
	if s.step < StepOperator || s.step > StepPayment {
		s.step = StepOperator
	}
	s.operator = snap.Operator
	s.cart.Replace(snap.Items)
	s.discountPct = domain.ClampDiscount(snap.DiscountPct)
	s.orderID = snap.OrderID
	s.clientName = snap.ClientName
	s.clientPhone = snap.ClientPhone
	if snap.DeliveryDate != "" {
		s.deliveryDate = snap.DeliveryDate
	}
	if snap.DeliveryTime != "" {
		s.deliveryTime = snap.DeliveryTime
	}
	if k := domain.PaymentKind(snap.PaymentKind); domain.ValidPaymentKind(k) {
		s.payKind = k
	}
	s.payAmount = snap.PaymentAmount
	s.payReceived = snap.PaymentReceived
	s.payNote = snap.PaymentNote
	s.editingID = snap.EditingID
}

func (s *Session) snapshot() *draft.Snapshot {
	return &draft.Snapshot{
		Step:            int(s.step),
		Operator:        s.operator,
		Items:           s.cart.Items(),
		DiscountPct:     s.discountPct,
		OrderID:         s.orderID,
		ClientName:      s.clientName,
		ClientPhone:     s.clientPhone,
		DeliveryDate:    s.deliveryDate,
		DeliveryTime:    s.deliveryTime,
		PaymentKind:     string(s.payKind),
		PaymentAmount:   s.payAmount,
		PaymentReceived: s.payReceived,
		PaymentNote:     s.payNote,
		EditingID:       s.editingID,
		SavedAt:         s.now().UTC(),
	}
}

// saveDraft rewrites the draft slot. Fire-and-forget: a failed write is
// logged and swallowed; the draft is a convenience, never a gate.
func (s *Session) saveDraft(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.drafts.Save(ctx, s.snapshot()); err != nil {
		slog.WarnContext(ctx, "draft save failed", "error", err)
	}
}

// logEvent appends an intake event. Nil-safe; failures are logged only.
func (s *Session) logEvent(ctx context.Context, orderID string, event intakelog.Event, detail string) {
	if s.events == nil {
		return
	}
	opID := ""
	if s.operator != nil {
		opID = s.operator.ID
	}
	if err := s.events.Save(ctx, intakelog.NewEntry(ctx, orderID, event, opID, detail)); err != nil {
		slog.WarnContext(ctx, "intake event save failed", "event", string(event), "error", err)
	}
}

// resetOrderState wipes everything tied to the order being built; the
// operator and the loaded catalog survive.
func (s *Session) resetOrderState() {
	s.cart.Clear()
	s.discountPct = 0
	s.orderID = ""
	s.clientName = ""
	s.clientPhone = ""
	s.deliveryDate = s.today()
	s.deliveryTime = DefaultDeliveryTime
	s.payKind = domain.PaymentOnAccount
	s.payAmount = ""
	s.payReceived = ""
	s.payNote = ""
	s.editingID = ""
	s.totals = nil
	s.payments = nil
}

// Finish is the explicit "next client" action: the operator stays resolved,
// everything else is wiped, the draft slot cleared, and the wizard lands on
// the line builder ready for the next order.
func (s *Session) Finish(ctx context.Context) {
	if s.orderID != "" {
		s.logEvent(ctx, s.orderID, intakelog.EventSessionCompleted, "")
	}
	s.resetOrderState()
	if s.operator != nil {
		s.step = StepLineBuilder
	} else {
		s.step = StepOperator
	}
	if err := s.drafts.Clear(ctx); err != nil {
		slog.WarnContext(ctx, "draft clear failed", "error", err)
	}
}

func (s *Session) today() string {
	return s.now().Format("2006-01-02")
}

// Step returns the wizard's current step.
func (s *Session) Step() Step { return s.step }

// Operator returns the resolved operator, nil before step 0 succeeds.
func (s *Session) Operator() *domain.Operator { return s.operator }

// OrderID returns the remote order identifier, empty until CLIENT submits.
func (s *Session) OrderID() string { return s.orderID }

// Items returns the cart lines in display order.
func (s *Session) Items() []domain.LineItem { return s.cart.Items() }

// EditingID returns the local ID of the line being edited, if any.
func (s *Session) EditingID() string { return s.editingID }

// LocalTotals is the client-side money preview. Once an order exists
// server-side, RemoteTotals is the number that counts.
func (s *Session) LocalTotals() domain.CartTotals { return s.cart.Totals(s.discountPct) }

// RemoteTotals returns the last authoritative totals fetched from the
// gateway, nil before the first submit.
func (s *Session) RemoteTotals() *domain.OrderTotals { return s.totals }

// Payments returns the order's payments as last fetched, newest first.
func (s *Session) Payments() []domain.Payment { return s.payments }

// Catalog returns the loaded price index, nil until the operator resolves.
func (s *Session) Catalog() *domain.Catalog { return s.catalog }

// Client returns the captured client/schedule fields.
func (s *Session) Client() (name, phone, date, timeOfDay string) {
	return s.clientName, s.clientPhone, s.deliveryDate, s.deliveryTime
}

// PaymentForm returns the raw payment-form inputs held for the draft.
func (s *Session) PaymentForm() (kind domain.PaymentKind, amount, received, note string) {
	return s.payKind, s.payAmount, s.payReceived, s.payNote
}

// SetPaymentForm stores the typed-but-unsubmitted payment inputs so they
// survive a reload like every other field.
func (s *Session) SetPaymentForm(ctx context.Context, kind domain.PaymentKind, amount, received, note string) {
	if domain.ValidPaymentKind(kind) {
		s.payKind = kind
	}
	s.payAmount = amount
	s.payReceived = received
	s.payNote = note
	s.saveDraft(ctx)
}
