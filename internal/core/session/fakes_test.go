package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/studiofoto/intake/internal/core/domain"
	"github.com/studiofoto/intake/internal/core/draft"
	"github.com/studiofoto/intake/internal/intakelog"
)

// fakeGateway is an in-memory stand-in for the Postgres order store. It
// mirrors the server-side totals recomputation so tests exercise the same
// authoritative-totals contract the real adapter provides.
type fakeGateway struct {
	operators map[int]*domain.Operator
	catalog   []domain.CatalogEntry

	orders     map[string]*fakeOrder
	seq        int
	created    []string // order IDs in creation order
	catalogErr error
	replaceErr error
}

type fakeOrder struct {
	header   domain.OrderHeader
	lines    []domain.RemoteLineItem
	payments []domain.Payment
	totals   domain.OrderTotals
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		operators: map[int]*domain.Operator{
			7:  {ID: "op-7", Code: 7, Name: "Lupita", Active: true},
			13: {ID: "op-13", Code: 13, Name: "Ex Empleado", Active: false},
		},
		catalog: []domain.CatalogEntry{
			{Size: "INFANTIL", Quantity: 6, BasePrice: 200, UrgentSurcharge: 50, PremiumSurcharge: 30},
			{Size: "INFANTIL", Quantity: 12, BasePrice: 350, UrgentSurcharge: 80, PremiumSurcharge: 50},
			{Size: "OVALADA", Quantity: 1, BasePrice: 120, UrgentSurcharge: 40, PremiumSurcharge: 25},
		},
		orders: make(map[string]*fakeOrder),
	}
}

func (g *fakeGateway) ResolveOperator(_ context.Context, code int) (*domain.Operator, error) {
	op, ok := g.operators[code]
	if !ok {
		return nil, domain.ErrOperatorNotFound
	}
	cp := *op
	return &cp, nil
}

func (g *fakeGateway) LoadCatalog(_ context.Context) ([]domain.CatalogEntry, error) {
	if g.catalogErr != nil {
		return nil, g.catalogErr
	}
	return g.catalog, nil
}

func (g *fakeGateway) CreateOrder(_ context.Context, fields domain.OrderFields) (string, error) {
	g.seq++
	id := fmt.Sprintf("order-%d", g.seq)
	g.orders[id] = &fakeOrder{header: domain.OrderHeader{
		ID:           id,
		ClientName:   fields.ClientName,
		ClientPhone:  fields.ClientPhone,
		DeliveryDate: fields.DeliveryDate,
		DeliveryTime: fields.DeliveryTime,
		Urgent:       fields.Urgent,
		DiscountPct:  fields.DiscountPct,
		CreatedBy:    fields.CreatedBy,
		CreatedAt:    time.Now(),
	}}
	g.created = append(g.created, id)
	g.recompute(id)
	return id, nil
}

func (g *fakeGateway) UpdateOrder(_ context.Context, orderID string, fields domain.OrderFields) error {
	o, ok := g.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.header.ClientName = fields.ClientName
	o.header.ClientPhone = fields.ClientPhone
	o.header.DeliveryDate = fields.DeliveryDate
	o.header.DeliveryTime = fields.DeliveryTime
	o.header.Urgent = fields.Urgent
	o.header.DiscountPct = fields.DiscountPct
	if fields.ClearRevision {
		o.header.NeedsRevision = false
	}
	g.recompute(orderID)
	return nil
}

func (g *fakeGateway) ReplaceLineItems(_ context.Context, orderID string, items []domain.LineItem, _ string) error {
	o, ok := g.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.lines = nil
	if g.replaceErr != nil {
		// Delete succeeded, insert failed: the non-transactional failure mode.
		return g.replaceErr
	}
	for _, it := range items {
		o.lines = append(o.lines, domain.RemoteLineItem{
			Size:      it.Size,
			Finish:    it.Finish,
			Quantity:  it.Quantity,
			Paper:     it.Paper,
			Urgent:    it.Urgent,
			Clothing:  it.Clothing,
			Specs:     it.Specs,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	g.recompute(orderID)
	return nil
}

func (g *fakeGateway) FetchOrderTotals(_ context.Context, orderID string) (*domain.OrderTotals, error) {
	o, ok := g.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	t := o.totals
	return &t, nil
}

func (g *fakeGateway) InsertPayment(_ context.Context, orderID string, kind domain.PaymentKind, amount float64, note, operatorID string) (string, error) {
	o, ok := g.orders[orderID]
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	g.seq++
	id := fmt.Sprintf("pay-%d", g.seq)
	o.payments = append([]domain.Payment{{
		ID: id, OrderID: orderID, Amount: amount, Kind: kind,
		Note: note, OperatorID: operatorID, CreatedAt: time.Now(),
	}}, o.payments...)
	g.recompute(orderID)
	return id, nil
}

func (g *fakeGateway) ListPayments(_ context.Context, orderID string) ([]domain.Payment, error) {
	o, ok := g.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return append([]domain.Payment(nil), o.payments...), nil
}

func (g *fakeGateway) ListIncompleteOrders(_ context.Context) ([]domain.OrderSummary, error) {
	var out []domain.OrderSummary
	for i := len(g.created) - 1; i >= 0; i-- {
		o, ok := g.orders[g.created[i]]
		if !ok {
			continue
		}
		if len(o.payments) == 0 || o.header.NeedsRevision {
			out = append(out, domain.OrderSummary{
				ID:            o.header.ID,
				ClientName:    o.header.ClientName,
				ClientPhone:   o.header.ClientPhone,
				DeliveryDate:  o.header.DeliveryDate,
				DeliveryTime:  o.header.DeliveryTime,
				Urgent:        o.header.Urgent,
				NeedsRevision: o.header.NeedsRevision,
				CreatedAt:     o.header.CreatedAt,
			})
		}
	}
	return out, nil
}

func (g *fakeGateway) FetchOrder(_ context.Context, orderID string) (*domain.OrderHeader, error) {
	o, ok := g.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	h := o.header
	return &h, nil
}

func (g *fakeGateway) FetchLineItems(_ context.Context, orderID string) ([]domain.RemoteLineItem, error) {
	o, ok := g.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return append([]domain.RemoteLineItem(nil), o.lines...), nil
}

func (g *fakeGateway) DeleteOrder(_ context.Context, orderID string) error {
	delete(g.orders, orderID)
	return nil
}

// recompute mirrors the store-side totals derivation: gross from the stored
// lines, discount applied once, paid when the payment sum covers the final.
func (g *fakeGateway) recompute(orderID string) {
	o := g.orders[orderID]
	var gross, deposit, settlement float64
	for _, l := range o.lines {
		gross += l.Subtotal
	}
	for _, p := range o.payments {
		switch p.Kind {
		case domain.PaymentOnAccount:
			deposit += p.Amount
		case domain.PaymentSettlement:
			settlement += p.Amount
		}
	}
	final := gross - gross*o.header.DiscountPct/100
	if final < 0 {
		final = 0
	}
	paid := deposit + settlement
	outstanding := final - paid
	if outstanding < 0 {
		outstanding = 0
	}
	o.totals = domain.OrderTotals{
		Gross:       gross,
		Final:       final,
		DiscountPct: o.header.DiscountPct,
		Deposit:     deposit,
		Settlement:  settlement,
		Paid:        paid,
		Outstanding: outstanding,
		IsPaid:      paid > 0 && paid >= final,
	}
}

// memDrafts round-trips snapshots through JSON so tests catch any field that
// would not survive the real store.
type memDrafts struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func (m *memDrafts) Save(_ context.Context, snap *draft.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.data = b
	m.saves++
	return nil
}

func (m *memDrafts) Load(_ context.Context) (*draft.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	var snap draft.Snapshot
	if err := json.Unmarshal(m.data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (m *memDrafts) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// memEvents records intake events for assertions.
type memEvents struct {
	entries []*intakelog.Entry
}

func (m *memEvents) Save(_ context.Context, e *intakelog.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memEvents) has(event intakelog.Event) bool {
	for _, e := range m.entries {
		if e.Event == event {
			return true
		}
	}
	return false
}

// newTestSession wires a session against the fakes with deterministic clock
// and ID generation.
func newTestSession(gw *fakeGateway, drafts *memDrafts, events *memEvents) *Session {
	s := New(gw, drafts, events)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("local-%d", n)
	}
	s.now = func() time.Time {
		return time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	}
	// resetOrderState ran with the real clock inside New; redo with the fake.
	s.resetOrderState()
	return s
}
