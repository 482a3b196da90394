package session

import (
	"context"
	"errors"

	"github.com/studiofoto/intake/internal/core/domain"
	"github.com/studiofoto/intake/internal/intakelog"
)

// ErrConfirmRequired guards the destructive discard path: the call is only
// made after the operator explicitly confirmed.
var ErrConfirmRequired = errors.New("discard requires explicit confirmation")

// ListIncomplete returns recent remote orders still needing intake work:
// orders with zero payments, or flagged for revision by a downstream
// production stage. The OR is intentional; a fully paid order reappears
// here when production bounces it back.
func (s *Session) ListIncomplete(ctx context.Context) ([]domain.OrderSummary, error) {
	return s.gw.ListIncompleteOrders(ctx)
}

// Resume reattaches the session to an existing remote order: the header
// populates the client/schedule/discount fields, the stored lines rebuild the
// local cart, and the wizard enters CLIENT with the order identifier set.
//
// The stored rows carry no mode tag, so each line's CATALOG/MANUAL mode is
// inferred (domain.InferMode); ambiguous rows default to CATALOG. This is the
// only path where the mode is inferred rather than chosen.
func (s *Session) Resume(ctx context.Context, orderID string) error {
	if s.operator == nil {
		return domain.ErrOperatorNotFound
	}

	header, err := s.gw.FetchOrder(ctx, orderID)
	if err != nil {
		return err
	}
	lines, err := s.gw.FetchLineItems(ctx, orderID)
	if err != nil {
		return err
	}
	payments, err := s.gw.ListPayments(ctx, orderID)
	if err != nil {
		return err
	}

	rebuilt := make([]domain.LineItem, 0, len(lines))
	for _, l := range lines {
		rebuilt = append(rebuilt, s.rebuildLine(l))
	}

	s.orderID = header.ID
	s.clientName = header.ClientName
	s.clientPhone = header.ClientPhone
	if header.DeliveryDate != "" {
		s.deliveryDate = header.DeliveryDate
	} else {
		s.deliveryDate = s.today()
	}
	if header.DeliveryTime != "" {
		s.deliveryTime = header.DeliveryTime
	} else {
		s.deliveryTime = DefaultDeliveryTime
	}
	s.discountPct = domain.ClampDiscount(header.DiscountPct)
	s.cart.Replace(rebuilt)
	s.payments = payments
	s.editingID = ""
	s.step = StepClient

	if err := s.refresh(ctx); err != nil {
		return err
	}

	s.logEvent(ctx, orderID, intakelog.EventOrderResumed, header.ClientName)
	s.saveDraft(ctx)
	return nil
}

// rebuildLine maps a stored row back into a cart line. Stored prices are
// taken verbatim; re-pricing a resumed line against today's catalog would
// break the price the client was quoted.
func (s *Session) rebuildLine(l domain.RemoteLineItem) domain.LineItem {
	unit := domain.SanitizeAmount(l.UnitPrice)
	sub := domain.SanitizeAmount(l.Subtotal)
	if unit == 0 {
		unit = sub
	}
	return domain.LineItem{
		LocalID:      s.newID(),
		Mode:         domain.InferMode(l.Size, l.Finish),
		Size:         l.Size,
		Quantity:     maxInt(l.Quantity, 1),
		Finish:       l.Finish,
		Paper:        l.Paper,
		PremiumPaper: domain.NormalizeSize(l.Paper) == domain.PremiumPaperName,
		Urgent:       l.Urgent,
		Clothing:     l.Clothing,
		Specs:        l.Specs,
		UnitPrice:    unit,
		Subtotal:     sub,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Discard hard-deletes an incomplete remote order and its lines.
// Irreversible; confirm must be true or nothing happens.
func (s *Session) Discard(ctx context.Context, orderID string, confirm bool) error {
	if !confirm {
		return ErrConfirmRequired
	}
	if err := s.gw.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	s.logEvent(ctx, orderID, intakelog.EventOrderDiscarded, "")
	if s.orderID == orderID {
		// The order under this session is gone; drop the remote linkage but
		// keep the local cart so nothing typed is lost.
		s.orderID = ""
		s.totals = nil
		s.payments = nil
		s.saveDraft(ctx)
	}
	return nil
}
