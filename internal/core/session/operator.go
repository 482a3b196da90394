package session

import (
	"context"
	"fmt"

	"github.com/studiofoto/intake/internal/core/domain"
)

// ResolveOperator looks up the staff member for the entered code and, on
// success, loads the catalog index and advances to the line builder.
//
// Failure modes keep the wizard on OPERATOR: unknown code, inactive account,
// transport error. A catalog load failure after a successful lookup leaves
// the previous index (if any) intact and surfaces ErrCatalogLoad; the
// operator is resolved either way.
func (s *Session) ResolveOperator(ctx context.Context, code int) error {
	op, err := s.gw.ResolveOperator(ctx, code)
	if err != nil {
		return err
	}
	if !op.Active {
		// Surfaced with the name so the UI can say who was rejected.
		return fmt.Errorf("%w: %s", domain.ErrOperatorInactive, op.Name)
	}

	s.operator = op
	s.saveDraft(ctx)

	if err := s.ReloadCatalog(ctx); err != nil {
		return err
	}

	s.step = StepLineBuilder
	s.saveDraft(ctx)
	return nil
}

// ReloadCatalog refetches the price list on demand. On failure the previous
// index stays in place.
func (s *Session) ReloadCatalog(ctx context.Context) error {
	entries, err := s.gw.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}
	s.catalog = domain.NewCatalog(entries)
	return nil
}
