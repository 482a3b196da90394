package ports

import (
	"context"

	"github.com/studiofoto/intake/internal/core/domain"
)

// OrderGateway is the port to the remote order store. The session depends on
// this abstraction, not on Postgres directly, so tests run against an
// in-memory fake.
type OrderGateway interface {
	// ResolveOperator looks up a staff member by numeric code. Returns
	// domain.ErrOperatorNotFound when the code is unknown; the inactive check
	// is the caller's (an inactive operator is still returned so the UI can
	// name who was rejected).
	ResolveOperator(ctx context.Context, code int) (*domain.Operator, error)

	// LoadCatalog fetches the full price list.
	LoadCatalog(ctx context.Context) ([]domain.CatalogEntry, error)

	// CreateOrder inserts a new order header and returns its ID.
	CreateOrder(ctx context.Context, fields domain.OrderFields) (string, error)

	// UpdateOrder rewrites the header fields of an existing order.
	UpdateOrder(ctx context.Context, orderID string, fields domain.OrderFields) error

	// ReplaceLineItems deletes every stored line for the order, then inserts
	// the given items. The two steps are NOT one transaction: if the insert
	// fails after the delete, the order holds zero lines until the submit is
	// retried. Retrying with the same cart is idempotent, which is the
	// accepted recovery path at single-shop scale.
	ReplaceLineItems(ctx context.Context, orderID string, items []domain.LineItem, createdBy string) error

	// FetchOrderTotals reads the server-computed money fields.
	FetchOrderTotals(ctx context.Context, orderID string) (*domain.OrderTotals, error)

	// InsertPayment appends a payment record and returns its ID.
	InsertPayment(ctx context.Context, orderID string, kind domain.PaymentKind, amount float64, note, operatorID string) (string, error)

	// ListPayments returns the order's payments, newest first.
	ListPayments(ctx context.Context, orderID string) ([]domain.Payment, error)

	// ListIncompleteOrders returns recent orders that have no payment at all
	// or that carry the revision-requested flag.
	ListIncompleteOrders(ctx context.Context) ([]domain.OrderSummary, error)

	// FetchOrder reads one order header; domain.ErrOrderNotFound when absent.
	FetchOrder(ctx context.Context, orderID string) (*domain.OrderHeader, error)

	// FetchLineItems reads the stored lines of an order in insertion order.
	FetchLineItems(ctx context.Context, orderID string) ([]domain.RemoteLineItem, error)

	// DeleteOrder removes the order and its lines outright. Irreversible.
	DeleteOrder(ctx context.Context, orderID string) error
}
