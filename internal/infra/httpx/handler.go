package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studiofoto/intake/internal/core/domain"
	"github.com/studiofoto/intake/internal/core/session"
)

// Handler exposes the intake wizard over HTTP. Every endpoint acquires the
// calling device's session, holds its lock for the request, and replies with
// the refreshed wizard state so the UI never diverges from the machine.
type Handler struct {
	sessions *registry
}

// NewHandler builds the handler; factory creates a session per device slot.
func NewHandler(factory SessionFactory) *Handler {
	return &Handler{sessions: newRegistry(factory)}
}

// State returns the current wizard state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	s, release := h.sessions.acquire(r.Context(), r)
	defer release()
	writeJSON(w, http.StatusOK, mapState(s))
}

// ResolveOperator handles step 0: staff code lookup plus catalog load.
func (h *Handler) ResolveOperator(w http.ResponseWriter, r *http.Request) {
	var req ResolveOperatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	if err := s.ResolveOperator(r.Context(), req.Code); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapState(s))
}

// ReloadCatalog refetches the price list on demand.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	if err := s.ReloadCatalog(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapState(s))
}

// Quantities returns the valid quantities for a size and snaps the current
// selection to one of them, keeping the quantity control consistent after a
// size change.
func (h *Handler) Quantities(w http.ResponseWriter, r *http.Request) {
	size := chi.URLParam(r, "size")
	current, _ := strconv.Atoi(r.URL.Query().Get("current"))

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	c := s.Catalog()
	if c == nil {
		writeDomainError(w, domain.ErrCatalogLoad)
		return
	}
	quantities := c.QuantitiesFor(size)
	if quantities == nil {
		quantities = []int{}
	}
	writeJSON(w, http.StatusOK, QuantitiesResponse{
		Quantities: quantities,
		Snapped:    c.SnapQuantity(size, current),
	})
}

// GoStep asks for a step change. A transition whose guard fails is a silent
// no-op: the response simply shows the unchanged step.
func (h *Handler) GoStep(w http.ResponseWriter, r *http.Request) {
	var req GoStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	target, ok := parseStep(req.Step)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_step", req.Step)
		return
	}

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()
	s.Go(target)
	writeJSON(w, http.StatusOK, mapState(s))
}

// QuoteLine prices a candidate catalog line without committing it.
func (h *Handler) QuoteLine(w http.ResponseWriter, r *http.Request) {
	var req CommitLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	price, err := s.QuoteCatalogLine(session.CatalogLineInput{
		Size:         req.Size,
		Quantity:     req.Quantity,
		Urgent:       req.Urgent,
		PremiumPaper: req.PremiumPaper,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuoteResponse{Price: price})
}

// CommitLine appends a line to the cart, or replaces the line under edit.
func (h *Handler) CommitLine(w http.ResponseWriter, r *http.Request) {
	var req CommitLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	var err error
	switch domain.LineMode(req.Mode) {
	case domain.ModeManual:
		_, err = s.CommitManualLine(r.Context(), session.ManualLineInput{
			Description:  req.Description,
			Quantity:     req.Quantity,
			PackagePrice: req.PackagePrice,
			Paper:        req.Paper,
			PremiumPaper: req.PremiumPaper,
			Urgent:       req.Urgent,
			Clothing:     req.Clothing,
			Specs:        req.Specs,
		})
	case domain.ModeCatalog, "":
		_, err = s.CommitCatalogLine(r.Context(), session.CatalogLineInput{
			Size:         req.Size,
			Quantity:     req.Quantity,
			Finish:       req.Finish,
			Paper:        req.Paper,
			PremiumPaper: req.PremiumPaper,
			Urgent:       req.Urgent,
			Clothing:     req.Clothing,
			Specs:        req.Specs,
		})
	default:
		writeError(w, http.StatusBadRequest, "unknown_mode", req.Mode)
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapState(s))
}

// EditLine marks a line for editing and returns the prefill payload.
func (h *Handler) EditLine(w http.ResponseWriter, r *http.Request) {
	localID := chi.URLParam(r, "id")

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	item, ok := s.StartEdit(r.Context(), localID)
	if !ok {
		writeError(w, http.StatusNotFound, "line_not_found", localID)
		return
	}
	resp := EditResponse{Item: item}
	if item.Mode == domain.ModeManual {
		resp.ManualDescription = domain.ManualDescription(item.Size)
		resp.ManualSpecs = domain.StripManualSuffix(item.Specs)
	}
	writeJSON(w, http.StatusOK, resp)
}

// RemoveLine deletes a cart line.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	s, release := h.sessions.acquire(r.Context(), r)
	defer release()
	s.RemoveLine(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, mapState(s))
}

// SetDiscount stores the order discount percentage.
func (h *Handler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()
	s.SetDiscount(r.Context(), req.Pct)
	writeJSON(w, http.StatusOK, mapState(s))
}

// SubmitClient handles the CLIENT step upsert.
func (h *Handler) SubmitClient(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	err := s.SubmitClient(r.Context(), session.ClientInput{
		Name:         req.Name,
		Phone:        req.Phone,
		DeliveryDate: req.DeliveryDate,
		DeliveryTime: req.DeliveryTime,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapState(s))
}

// SubmitCart replaces the remote line items with the local cart and moves to
// the payment step.
func (h *Handler) SubmitCart(w http.ResponseWriter, r *http.Request) {
	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	if err := s.SubmitCart(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapState(s))
}

// RecordPayment inserts a payment and reports the change to hand back.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	change, err := s.RecordPayment(r.Context(), session.PaymentInput{
		Kind:     domain.PaymentKind(req.Kind),
		Amount:   req.Amount,
		Received: req.Received,
		Note:     req.Note,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaymentResponse{Change: change, Totals: s.RemoteTotals()})
}

// SavePaymentForm keeps typed-but-unsubmitted payment inputs in the draft.
func (h *Handler) SavePaymentForm(w http.ResponseWriter, r *http.Request) {
	var req PaymentFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()
	s.SetPaymentForm(r.Context(), domain.PaymentKind(req.Kind), req.Amount, req.Received, req.Note)
	w.WriteHeader(http.StatusNoContent)
}

// SaveChanges updates logistics fields without recording a payment.
func (h *Handler) SaveChanges(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	err := s.SaveChanges(r.Context(), session.ClientInput{
		Name:         req.Name,
		Phone:        req.Phone,
		DeliveryDate: req.DeliveryDate,
		DeliveryTime: req.DeliveryTime,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapState(s))
}

// Finish wipes the session for the next client; the operator stays resolved.
func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	s, release := h.sessions.acquire(r.Context(), r)
	defer release()
	s.Finish(r.Context())
	writeJSON(w, http.StatusOK, mapState(s))
}

// ListIncomplete returns orders still needing intake work.
func (h *Handler) ListIncomplete(w http.ResponseWriter, r *http.Request) {
	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	orders, err := s.ListIncomplete(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.OrderSummary{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// ResumeOrder reattaches the session to an existing remote order.
func (h *Handler) ResumeOrder(w http.ResponseWriter, r *http.Request) {
	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	if err := s.Resume(r.Context(), chi.URLParam(r, "orderID")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapState(s))
}

// DiscardOrder hard-deletes an incomplete order. Requires ?confirm=true.
func (h *Handler) DiscardOrder(w http.ResponseWriter, r *http.Request) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	s, release := h.sessions.acquire(r.Context(), r)
	defer release()

	if err := s.Discard(r.Context(), chi.URLParam(r, "orderID"), confirm); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapState(s))
}

func parseStep(name string) (session.Step, bool) {
	for _, st := range []session.Step{
		session.StepOperator, session.StepLineBuilder, session.StepClient,
		session.StepCartReview, session.StepPayment,
	} {
		if st.String() == name {
			return st, true
		}
	}
	return 0, false
}

// writeDomainError maps the error taxonomy to HTTP statuses. Messages go out
// verbatim; they are the status text the operator sees on the current step.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOperatorNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrOperatorInactive):
		writeError(w, http.StatusForbidden, "operator_inactive", err.Error())
	case errors.Is(err, domain.ErrPriceNotFound),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrEmptyClientName),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrNoOrder):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, session.ErrConfirmRequired):
		writeError(w, http.StatusConflict, "confirm_required", err.Error())
	case errors.Is(err, domain.ErrCatalogLoad),
		errors.Is(err, domain.ErrRemoteRead),
		errors.Is(err, domain.ErrRemoteWrite):
		writeError(w, http.StatusBadGateway, "gateway_error", err.Error())
	default:
		slog.Error("unclassified intake error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
