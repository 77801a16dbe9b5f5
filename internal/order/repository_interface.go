package order

import "context"

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Order, error)
	GetByExternalID(ctx context.Context, externalID string) (*Order, error)
	Confirm(ctx context.Context, userID int, externalID string) (*Order, error)
	ListByUser(ctx context.Context, userID int) ([]Order, error)
	UserHasConfirmedOrder(ctx context.Context, userID, productID int) (bool, error)
}
