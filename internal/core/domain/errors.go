package domain

import "errors"

// Every failure the intake flow can surface to the operator maps to one of
// these sentinels. Adapters wrap them with fmt.Errorf("...: %w", err) so the
// session can classify with errors.Is while keeping the adapter detail in the
// message shown on the current step.
var (
	ErrOperatorNotFound = errors.New("operator code not found")
	ErrOperatorInactive = errors.New("operator is inactive")
	ErrCatalogLoad      = errors.New("catalog load failed")
	ErrPriceNotFound    = errors.New("size/quantity not in catalog")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrRemoteWrite      = errors.New("remote write failed")
	ErrRemoteRead       = errors.New("remote read failed")

	ErrEmptyClientName = errors.New("client name is required")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoOrder         = errors.New("no order created or resumed")
	ErrOrderNotFound   = errors.New("order not found")
)
