package session

import (
	"context"
	"fmt"

	"github.com/studiofoto/intake/internal/core/domain"
)

// CatalogLineInput is the line-builder form for a catalog-priced line.
type CatalogLineInput struct {
	Size         string
	Quantity     int
	Finish       string
	Paper        string
	PremiumPaper bool
	Urgent       bool
	Clothing     string
	Specs        string
}

// ManualLineInput is the form for a manually priced "special" line.
// PackagePrice is the price of the whole line; Quantity describes the
// package and never multiplies into the price.
type ManualLineInput struct {
	Description  string
	Quantity     int
	PackagePrice float64
	Paper        string
	PremiumPaper bool
	Urgent       bool
	Clothing     string
	Specs        string
}

// QuoteCatalogLine prices a candidate line without touching the cart; the
// line builder shows this figure live. Entirely local; no network.
func (s *Session) QuoteCatalogLine(in CatalogLineInput) (float64, error) {
	if s.catalog == nil {
		return 0, domain.ErrCatalogLoad
	}
	return domain.PriceCatalogLine(s.catalog, in.Size, in.Quantity, in.Urgent, in.PremiumPaper)
}

// CommitCatalogLine prices the form against the loaded catalog and appends
// the line, or, when an edit is in progress, replaces the line being edited
// in place and clears edit mode.
func (s *Session) CommitCatalogLine(ctx context.Context, in CatalogLineInput) (domain.LineItem, error) {
	if s.operator == nil {
		return domain.LineItem{}, domain.ErrOperatorNotFound
	}
	price, err := s.QuoteCatalogLine(in)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("%w: %s x%d", err, domain.NormalizeSize(in.Size), in.Quantity)
	}

	item := domain.NewCatalogLine(s.commitID(), in.Size, in.Quantity, in.Finish, in.Paper,
		in.PremiumPaper, in.Urgent, in.Clothing, in.Specs, price)
	s.commit(ctx, item)
	return item, nil
}

// CommitManualLine appends (or replaces, under edit) a special line priced
// verbatim at the entered package price.
func (s *Session) CommitManualLine(ctx context.Context, in ManualLineInput) (domain.LineItem, error) {
	if s.operator == nil {
		return domain.LineItem{}, domain.ErrOperatorNotFound
	}

	item := domain.NewManualLine(s.commitID(), in.Description, in.Quantity, in.Paper,
		in.PremiumPaper, in.Urgent, in.Clothing, in.Specs, in.PackagePrice)
	s.commit(ctx, item)
	return item, nil
}

// commitID returns the identifier a committed line should carry: the line
// under edit keeps its ID, a new line gets a fresh one.
func (s *Session) commitID() string {
	if s.editingID != "" {
		return s.editingID
	}
	return s.newID()
}

func (s *Session) commit(ctx context.Context, item domain.LineItem) {
	if s.editingID != "" {
		s.cart.Update(s.editingID, item)
		s.editingID = ""
	} else {
		s.cart.Add(item)
	}
	s.saveDraft(ctx)
}

// StartEdit marks a cart line as being edited and routes the wizard back to
// the line builder so the form can be prefilled from the returned item.
func (s *Session) StartEdit(ctx context.Context, localID string) (domain.LineItem, bool) {
	item, ok := s.cart.Get(localID)
	if !ok {
		return domain.LineItem{}, false
	}
	s.editingID = localID
	s.step = StepLineBuilder
	s.saveDraft(ctx)
	return item, true
}

// RemoveLine deletes a cart line. Removing the line under edit cancels the
// edit.
func (s *Session) RemoveLine(ctx context.Context, localID string) {
	s.cart.Remove(localID)
	if s.editingID == localID {
		s.editingID = ""
	}
	s.saveDraft(ctx)
}

// SetDiscount stores the order discount percentage, clamped to [0,100].
func (s *Session) SetDiscount(ctx context.Context, pct float64) {
	s.discountPct = domain.ClampDiscount(pct)
	s.saveDraft(ctx)
}
