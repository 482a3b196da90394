package session

import (
	"context"
	"errors"
	"testing"

	"github.com/studiofoto/intake/internal/core/domain"
	"github.com/studiofoto/intake/internal/intakelog"
)

func TestResolveOperator(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Step() != StepLineBuilder {
		t.Errorf("step = %v, want LINE_BUILDER", s.Step())
	}
	if s.Operator() == nil || s.Operator().Name != "Lupita" {
		t.Errorf("operator = %+v", s.Operator())
	}
	if s.Catalog() == nil || s.Catalog().Len() != 3 {
		t.Errorf("catalog not loaded")
	}
}

func TestResolveOperator_UnknownCode(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})

	err := s.ResolveOperator(context.Background(), 999)
	if !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Fatalf("err = %v, want ErrOperatorNotFound", err)
	}
	if s.Step() != StepOperator {
		t.Errorf("step moved to %v on failed lookup", s.Step())
	}
}

func TestResolveOperator_Inactive(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})

	err := s.ResolveOperator(context.Background(), 13)
	if !errors.Is(err, domain.ErrOperatorInactive) {
		t.Fatalf("err = %v, want ErrOperatorInactive", err)
	}
	if s.Operator() != nil {
		t.Error("inactive operator was kept")
	}
}

func TestResolveOperator_CatalogFailureKeepsPreviousIndex(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	gw.catalogErr = errors.New("network down")
	err := s.ResolveOperator(ctx, 7)
	if !errors.Is(err, domain.ErrCatalogLoad) {
		t.Fatalf("err = %v, want ErrCatalogLoad", err)
	}
	if s.Operator() == nil {
		t.Error("operator dropped on catalog failure")
	}
	if s.Catalog() == nil || s.Catalog().Len() != 3 {
		t.Error("previous catalog index not retained")
	}
}

func TestStepGuards(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	// No operator: everything past OPERATOR is unreachable.
	for _, target := range []Step{StepLineBuilder, StepClient, StepCartReview, StepPayment} {
		if got := s.Go(target); got != StepOperator {
			t.Errorf("Go(%v) without operator = %v", target, got)
		}
	}

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}

	// Operator but empty cart: CLIENT and CART_REVIEW stay locked.
	if got := s.Go(StepClient); got != StepLineBuilder {
		t.Errorf("Go(CLIENT) with empty cart = %v", got)
	}
	if got := s.Go(StepCartReview); got != StepLineBuilder {
		t.Errorf("Go(CART_REVIEW) with empty cart = %v", got)
	}

	// PAYMENT needs a remote order, cart alone is not enough.
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE"}); err != nil {
		t.Fatal(err)
	}
	if got := s.Go(StepPayment); got != StepLineBuilder {
		t.Errorf("Go(PAYMENT) without order = %v", got)
	}
	if got := s.Go(StepClient); got != StepClient {
		t.Errorf("Go(CLIENT) with cart = %v", got)
	}
}

func TestSubmitClient_EmptyCartIsRejected(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	err := s.SubmitClient(ctx, ClientInput{Name: "Maria"})
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if s.OrderID() != "" {
		t.Error("order created from empty cart")
	}
}

func TestSubmitClient_CreatesThenUpdates(t *testing.T) {
	gw := newFakeGateway()
	events := &memEvents{}
	s := newTestSession(gw, &memDrafts{}, events)
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE"}); err != nil {
		t.Fatal(err)
	}

	if err := s.SubmitClient(ctx, ClientInput{Name: " Maria Lopez ", Phone: "555-1234", DeliveryDate: "2025-03-15", DeliveryTime: "17:00"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	orderID := s.OrderID()
	if orderID == "" {
		t.Fatal("no order ID after create")
	}
	if s.Step() != StepCartReview {
		t.Errorf("step = %v, want CART_REVIEW", s.Step())
	}
	name, _, _, _ := s.Client()
	if name != "Maria Lopez" {
		t.Errorf("client name = %q, not trimmed", name)
	}
	if !events.has(intakelog.EventOrderCreated) {
		t.Error("ORDER_CREATED event missing")
	}

	// Re-submitting updates in place and clears the revision flag.
	gw.orders[orderID].header.NeedsRevision = true
	if err := s.SubmitClient(ctx, ClientInput{Name: "Maria Lopez", Phone: "555-9999"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.OrderID() != orderID {
		t.Errorf("order ID changed on update: %s -> %s", orderID, s.OrderID())
	}
	if gw.orders[orderID].header.NeedsRevision {
		t.Error("revision flag not cleared by CLIENT-step update")
	}
	if gw.orders[orderID].header.ClientPhone != "555-9999" {
		t.Errorf("phone = %q", gw.orders[orderID].header.ClientPhone)
	}
}

func TestSubmitClient_UrgentOverridesSchedule(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE", Urgent: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitClient(ctx, ClientInput{Name: "Pedro", DeliveryDate: "2025-04-01", DeliveryTime: "09:00"}); err != nil {
		t.Fatal(err)
	}

	_, _, date, timeOfDay := s.Client()
	// Fake clock is 2025-03-10 11:00 UTC; urgent forces today, now + 20 min.
	if date != "2025-03-10" {
		t.Errorf("delivery date = %q, want clock date", date)
	}
	if timeOfDay != "11:20" {
		t.Errorf("delivery time = %q, want 11:20", timeOfDay)
	}
	if !gw.orders[s.OrderID()].header.Urgent {
		t.Error("urgent flag not pushed to the store")
	}
}

func TestSubmitCart_ReplacesAndFetchesTotals(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	// Scenario: catalog 6-pack urgent (250) plus a 100-peso manual special.
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE", Urgent: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitManualLine(ctx, ManualLineInput{Description: "Credencial", Quantity: 4, PackagePrice: 100}); err != nil {
		t.Fatal(err)
	}
	s.SetDiscount(ctx, 10)

	if err := s.SubmitClient(ctx, ClientInput{Name: "Maria"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitCart(ctx); err != nil {
		t.Fatal(err)
	}

	if s.Step() != StepPayment {
		t.Errorf("step = %v, want PAYMENT", s.Step())
	}
	totals := s.RemoteTotals()
	if totals == nil {
		t.Fatal("no remote totals after submit")
	}
	if totals.Gross != 350 {
		t.Errorf("gross = %v, want 350 (manual line not multiplied by quantity)", totals.Gross)
	}
	if totals.Final != 315 {
		t.Errorf("final = %v, want 315", totals.Final)
	}

	// Retrying the replace with the same cart is idempotent.
	if err := s.SubmitCart(ctx); err != nil {
		t.Fatal(err)
	}
	if got := len(gw.orders[s.OrderID()].lines); got != 2 {
		t.Errorf("stored lines after retry = %d, want 2", got)
	}
}

func TestSubmitCart_PartialFailureLeavesZeroLines(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitClient(ctx, ClientInput{Name: "Maria"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitCart(ctx); err != nil {
		t.Fatal(err)
	}

	gw.replaceErr = errors.New("insert failed")
	if err := s.SubmitCart(ctx); err == nil {
		t.Fatal("expected replace failure")
	}
	if got := len(gw.orders[s.OrderID()].lines); got != 0 {
		t.Errorf("remote lines after partial failure = %d, want 0", got)
	}

	// Retry recovers the full cart.
	gw.replaceErr = nil
	if err := s.SubmitCart(ctx); err != nil {
		t.Fatal(err)
	}
	if got := len(gw.orders[s.OrderID()].lines); got != 1 {
		t.Errorf("remote lines after retry = %d, want 1", got)
	}
}

func TestRecordPayment_Reconciliation(t *testing.T) {
	gw := newFakeGateway()
	events := &memEvents{}
	s := newTestSession(gw, &memDrafts{}, events)
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 12, Finish: "COLOR", Paper: "MATE"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitClient(ctx, ClientInput{Name: "Maria"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitCart(ctx); err != nil {
		t.Fatal(err)
	}

	// Deposit of 200 against a 350 order, paying with a 500 bill.
	change, err := s.RecordPayment(ctx, PaymentInput{Kind: domain.PaymentOnAccount, Amount: 200, Received: 500})
	if err != nil {
		t.Fatal(err)
	}
	if change != 300 {
		t.Errorf("change = %v, want 300", change)
	}
	totals := s.RemoteTotals()
	if totals.Outstanding != 150 {
		t.Errorf("outstanding = %v, want 150", totals.Outstanding)
	}
	if totals.IsPaid {
		t.Error("order marked paid after partial payment")
	}

	// Settlement of the remainder; exact cash means zero change.
	change, err = s.RecordPayment(ctx, PaymentInput{Kind: domain.PaymentSettlement, Amount: 150, Received: 150})
	if err != nil {
		t.Fatal(err)
	}
	if change != 0 {
		t.Errorf("change = %v, want 0", change)
	}
	totals = s.RemoteTotals()
	if totals.Outstanding != 0 || !totals.IsPaid {
		t.Errorf("totals after settlement = %+v", totals)
	}
	if len(s.Payments()) != 2 {
		t.Errorf("payments listed = %d, want 2", len(s.Payments()))
	}
	if !events.has(intakelog.EventPaymentRecorded) {
		t.Error("PAYMENT_RECORDED event missing")
	}
}

func TestRecordPayment_InvalidInput(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitClient(ctx, ClientInput{Name: "Maria"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitCart(ctx); err != nil {
		t.Fatal(err)
	}

	for _, amount := range []float64{0, -50} {
		if _, err := s.RecordPayment(ctx, PaymentInput{Kind: domain.PaymentOnAccount, Amount: amount}); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("amount %v: err = %v, want ErrInvalidAmount", amount, err)
		}
	}
	if _, err := s.RecordPayment(ctx, PaymentInput{Kind: "REGALO", Amount: 100}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("bad kind: err = %v, want ErrInvalidAmount", err)
	}
	if got, _ := gw.ListPayments(ctx, s.OrderID()); len(got) != 0 {
		t.Errorf("payments stored from invalid input: %d", len(got))
	}
}

func TestEditLine_ReplacesInPlace(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	first, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "OVALADA", Quantity: 1, Finish: "COLOR", Paper: "MATE"}); err != nil {
		t.Fatal(err)
	}

	item, ok := s.StartEdit(ctx, first.LocalID)
	if !ok {
		t.Fatal("StartEdit did not find the line")
	}
	if s.Step() != StepLineBuilder {
		t.Errorf("step = %v after StartEdit", s.Step())
	}
	if item.Size != "INFANTIL" {
		t.Errorf("prefill item = %+v", item)
	}

	replaced, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 12, Finish: "COLOR", Paper: "MATE"})
	if err != nil {
		t.Fatal(err)
	}
	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("cart grew during edit: %d lines", len(items))
	}
	if items[0].LocalID != first.LocalID || items[0].Quantity != 12 {
		t.Errorf("edited slot = %+v", items[0])
	}
	if replaced.LocalID != first.LocalID {
		t.Errorf("committed line got fresh ID %s under edit", replaced.LocalID)
	}
	if s.EditingID() != "" {
		t.Error("edit mode not cleared after commit")
	}
}

func TestRemoveLine_CancelsMatchingEdit(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	line, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.StartEdit(ctx, line.LocalID); !ok {
		t.Fatal("StartEdit failed")
	}
	s.RemoveLine(ctx, line.LocalID)
	if s.EditingID() != "" {
		t.Error("edit survives removal of its line")
	}
	if len(s.Items()) != 0 {
		t.Error("line not removed")
	}
}

func TestDraftRoundTrip(t *testing.T) {
	gw := newFakeGateway()
	drafts := &memDrafts{}
	s := newTestSession(gw, drafts, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	line, err := s.CommitManualLine(ctx, ManualLineInput{Description: "Credencial 2.5x3.5", Quantity: 2, PackagePrice: 75, Specs: "fondo azul"})
	if err != nil {
		t.Fatal(err)
	}
	s.SetDiscount(ctx, 15)
	if _, ok := s.StartEdit(ctx, line.LocalID); !ok {
		t.Fatal("StartEdit failed")
	}
	s.SetPaymentForm(ctx, domain.PaymentSettlement, "120", "200", "pagando con billete grande")

	// Simulate a crash: a fresh session restores from the same draft slot.
	restored := newTestSession(gw, drafts, &memEvents{})
	if err := restored.Restore(ctx); err != nil {
		t.Fatal(err)
	}

	if restored.Step() != s.Step() {
		t.Errorf("step = %v, want %v", restored.Step(), s.Step())
	}
	if restored.Operator() == nil || restored.Operator().ID != "op-7" {
		t.Errorf("operator = %+v", restored.Operator())
	}
	items := restored.Items()
	if len(items) != 1 || items[0].LocalID != line.LocalID || items[0].Subtotal != 75 {
		t.Errorf("restored items = %+v", items)
	}
	if restored.EditingID() != line.LocalID {
		t.Errorf("editing ID = %q", restored.EditingID())
	}
	if got := restored.LocalTotals(); got.DiscountPct != 15 {
		t.Errorf("discount = %v", got.DiscountPct)
	}
	kind, amount, received, note := restored.PaymentForm()
	if kind != domain.PaymentSettlement || amount != "120" || received != "200" || note != "pagando con billete grande" {
		t.Errorf("payment form = %v %q %q %q", kind, amount, received, note)
	}
}

func TestRestore_WithOrderFetchesAuthoritativeTotals(t *testing.T) {
	gw := newFakeGateway()
	drafts := &memDrafts{}
	s := newTestSession(gw, drafts, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitClient(ctx, ClientInput{Name: "Maria"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitCart(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordPayment(ctx, PaymentInput{Kind: domain.PaymentOnAccount, Amount: 50}); err != nil {
		t.Fatal(err)
	}

	// A fresh session restoring onto the payment step must show the
	// server-computed money fields immediately, not wait for the next write.
	restored := newTestSession(gw, drafts, &memEvents{})
	if err := restored.Restore(ctx); err != nil {
		t.Fatal(err)
	}
	if restored.Step() != StepPayment {
		t.Errorf("step = %v, want PAYMENT", restored.Step())
	}
	totals := restored.RemoteTotals()
	if totals == nil {
		t.Fatal("no authoritative totals after restore")
	}
	if totals.Gross != 200 || totals.Deposit != 50 || totals.Outstanding != 150 {
		t.Errorf("totals after restore = %+v", totals)
	}
	if len(restored.Payments()) != 1 {
		t.Errorf("payments after restore = %d, want 1", len(restored.Payments()))
	}
}

func TestRestore_EmptySlotLeavesCleanState(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	if err := s.Restore(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Step() != StepOperator || s.Operator() != nil || len(s.Items()) != 0 {
		t.Errorf("fresh state disturbed: step=%v", s.Step())
	}
}

func TestFinish_KeepsOperatorClearsRest(t *testing.T) {
	gw := newFakeGateway()
	drafts := &memDrafts{}
	events := &memEvents{}
	s := newTestSession(gw, drafts, events)
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitClient(ctx, ClientInput{Name: "Maria"}); err != nil {
		t.Fatal(err)
	}

	s.Finish(ctx)

	if s.Step() != StepLineBuilder {
		t.Errorf("step = %v, want LINE_BUILDER", s.Step())
	}
	if s.Operator() == nil {
		t.Error("operator dropped by Finish")
	}
	if s.OrderID() != "" || len(s.Items()) != 0 || s.RemoteTotals() != nil {
		t.Error("order state survived Finish")
	}
	_, _, date, timeOfDay := s.Client()
	if date != "2025-03-10" || timeOfDay != DefaultDeliveryTime {
		t.Errorf("schedule not reset: %q %q", date, timeOfDay)
	}
	if snap, _ := drafts.Load(ctx); snap != nil {
		t.Error("draft slot not cleared")
	}
	if !events.has(intakelog.EventSessionCompleted) {
		t.Error("SESSION_COMPLETED event missing")
	}
}

func TestSaveChanges_DoesNotTouchRevisionFlag(t *testing.T) {
	gw := newFakeGateway()
	s := newTestSession(gw, &memDrafts{}, &memEvents{})
	ctx := context.Background()

	if err := s.ResolveOperator(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CommitCatalogLine(ctx, CatalogLineInput{Size: "INFANTIL", Quantity: 6, Finish: "COLOR", Paper: "MATE"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitClient(ctx, ClientInput{Name: "Maria"}); err != nil {
		t.Fatal(err)
	}
	orderID := s.OrderID()
	gw.orders[orderID].header.NeedsRevision = true

	if err := s.SaveChanges(ctx, ClientInput{Name: "Maria", DeliveryTime: "18:00"}); err != nil {
		t.Fatal(err)
	}
	if !gw.orders[orderID].header.NeedsRevision {
		t.Error("logistics-only save cleared the revision flag")
	}
	if gw.orders[orderID].header.DeliveryTime != "18:00" {
		t.Errorf("delivery time = %q", gw.orders[orderID].header.DeliveryTime)
	}
}
