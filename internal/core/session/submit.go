package session

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/studiofoto/intake/internal/core/domain"
	"github.com/studiofoto/intake/internal/intakelog"
)

// ClientInput is the CLIENT-step form.
type ClientInput struct {
	Name         string
	Phone        string
	DeliveryDate string // YYYY-MM-DD
	DeliveryTime string // HH:MM
}

// SubmitClient captures the client/schedule fields and upserts the order
// header: create when no remote order exists yet, update when one was created
// or resumed. Both paths land on CART_REVIEW; any failure keeps the wizard on
// CLIENT with local state intact so the operator can retry.
//
// Urgency overrides scheduling: if any cart line is urgent, the delivery
// fields are forced to today / now + UrgentLeadTime regardless of input.
// The update path also clears the revision-requested flag; re-submitting
// the CLIENT step is how a bounced order is marked corrected.
func (s *Session) SubmitClient(ctx context.Context, in ClientInput) error {
	if s.operator == nil {
		return domain.ErrOperatorNotFound
	}
	if s.cart.Len() == 0 {
		return domain.ErrEmptyCart
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ErrEmptyClientName
	}

	s.clientName = name
	s.clientPhone = strings.TrimSpace(in.Phone)
	if in.DeliveryDate != "" {
		s.deliveryDate = in.DeliveryDate
	}
	if in.DeliveryTime != "" {
		s.deliveryTime = in.DeliveryTime
	}
	if s.cart.AnyUrgent() {
		s.deliveryDate = s.today()
		s.deliveryTime = s.now().Add(UrgentLeadTime).Format("15:04")
	}
	s.saveDraft(ctx)

	fields := domain.OrderFields{
		ClientName:   s.clientName,
		ClientPhone:  s.clientPhone,
		DeliveryDate: s.deliveryDate,
		DeliveryTime: s.deliveryTime,
		Urgent:       s.cart.AnyUrgent(),
		DiscountPct:  domain.ClampDiscount(s.discountPct),
		CreatedBy:    s.operator.ID,
	}

	if s.orderID == "" {
		id, err := s.gw.CreateOrder(ctx, fields)
		if err != nil {
			return err
		}
		s.orderID = id
		s.logEvent(ctx, id, intakelog.EventOrderCreated, s.clientName)
	} else {
		fields.ClearRevision = true
		if err := s.gw.UpdateOrder(ctx, s.orderID, fields); err != nil {
			return err
		}
		s.logEvent(ctx, s.orderID, intakelog.EventOrderUpdated, s.clientName)
	}

	s.step = StepCartReview
	s.saveDraft(ctx)
	return nil
}

// SubmitCart pushes the local cart to the order store as a full replace
// (delete all remote lines, insert the cart), then advances to PAYMENT and
// re-fetches the authoritative totals. The replace is not transactional; on
// a partial failure the remote order holds zero lines until the operator
// retries, and retrying with the same cart is idempotent.
func (s *Session) SubmitCart(ctx context.Context) error {
	if s.operator == nil {
		return domain.ErrOperatorNotFound
	}
	if s.orderID == "" {
		return domain.ErrNoOrder
	}
	if s.cart.Len() == 0 {
		return domain.ErrEmptyCart
	}

	items := s.cart.Items()
	if err := s.gw.ReplaceLineItems(ctx, s.orderID, items, s.operator.ID); err != nil {
		return err
	}
	s.logEvent(ctx, s.orderID, intakelog.EventItemsReplaced, fmt.Sprintf("%d lines", len(items)))

	s.step = StepPayment
	s.saveDraft(ctx)
	return s.refresh(ctx)
}

// PaymentInput is the PAYMENT-step form. Received is the cash handed over,
// used only to compute change; zero means "not entered".
type PaymentInput struct {
	Kind     domain.PaymentKind
	Amount   float64
	Received float64
	Note     string
}

// RecordPayment validates and inserts a payment, then re-fetches the
// authoritative totals. Returns the change to hand back:
// max(0, received − amount), 0 when no cash figure was entered.
func (s *Session) RecordPayment(ctx context.Context, in PaymentInput) (change float64, err error) {
	if s.operator == nil {
		return 0, domain.ErrOperatorNotFound
	}
	if s.orderID == "" {
		return 0, domain.ErrNoOrder
	}
	if !domain.ValidPaymentKind(in.Kind) {
		return 0, fmt.Errorf("%w: unknown payment kind %q", domain.ErrInvalidAmount, in.Kind)
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	id, err := s.gw.InsertPayment(ctx, s.orderID, in.Kind, in.Amount, strings.TrimSpace(in.Note), s.operator.ID)
	if err != nil {
		return 0, err
	}
	s.logEvent(ctx, s.orderID, intakelog.EventPaymentRecorded, fmt.Sprintf("%s %.2f (%s)", in.Kind, in.Amount, id))

	if received := domain.SanitizeAmount(in.Received); received > in.Amount {
		change = received - in.Amount
	}

	// Submitted: the form inputs are spent.
	s.payAmount = ""
	s.payReceived = ""
	s.payNote = ""
	s.saveDraft(ctx)
	return change, s.refresh(ctx)
}

// SaveChanges re-runs the header update without recording a payment, so a
// fully settled order stays editable for logistics fields (delivery time,
// phone). Unlike the CLIENT-step upsert it does not touch the revision flag.
func (s *Session) SaveChanges(ctx context.Context, in ClientInput) error {
	if s.operator == nil {
		return domain.ErrOperatorNotFound
	}
	if s.orderID == "" {
		return domain.ErrNoOrder
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ErrEmptyClientName
	}

	s.clientName = name
	s.clientPhone = strings.TrimSpace(in.Phone)
	if in.DeliveryDate != "" {
		s.deliveryDate = in.DeliveryDate
	}
	if in.DeliveryTime != "" {
		s.deliveryTime = in.DeliveryTime
	}
	if s.cart.AnyUrgent() {
		s.deliveryDate = s.today()
		s.deliveryTime = s.now().Add(UrgentLeadTime).Format("15:04")
	}

	fields := domain.OrderFields{
		ClientName:   s.clientName,
		ClientPhone:  s.clientPhone,
		DeliveryDate: s.deliveryDate,
		DeliveryTime: s.deliveryTime,
		Urgent:       s.cart.AnyUrgent(),
		DiscountPct:  domain.ClampDiscount(s.discountPct),
		CreatedBy:    s.operator.ID,
	}
	if err := s.gw.UpdateOrder(ctx, s.orderID, fields); err != nil {
		return err
	}
	s.logEvent(ctx, s.orderID, intakelog.EventOrderUpdated, "logistics only")

	s.saveDraft(ctx)
	return s.refresh(ctx)
}

// refresh re-reads the authoritative totals and payment list. Called after
// every remote write; local previews are never trusted past that point.
func (s *Session) refresh(ctx context.Context) error {
	if s.orderID == "" {
		return nil
	}
	totals, err := s.gw.FetchOrderTotals(ctx, s.orderID)
	if err != nil {
		return err
	}
	payments, err := s.gw.ListPayments(ctx, s.orderID)
	if err != nil {
		return err
	}
	s.totals = totals
	s.payments = payments
	return nil
}
