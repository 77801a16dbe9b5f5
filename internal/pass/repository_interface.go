package pass

import "context"

type Repository interface {
	CreatePass(ctx context.Context, p *Pass, productInternalIDs []int) (*Pass, error)
	GetByExternalID(ctx context.Context, externalID string) (*Pass, error)
	ListByCreator(ctx context.Context, creatorID int) ([]Pass, error)
	ListForProduct(ctx context.Context, productID int) ([]Pass, error)

	CreateOwnedPass(ctx context.Context, passID, userID int, status OwnedPassStatus, followUpProductID *int) (*OwnedPass, error)
	ConfirmOwnedPass(ctx context.Context, userID int, passOrderID string) (*OwnedPass, error)
	GetOwnedByOrderID(ctx context.Context, passOrderID string) (*OwnedPass, error)
	ListOwnedByUser(ctx context.Context, userID int) ([]OwnedPass, error)
	UsableForProduct(ctx context.Context, userID, productID int) ([]OwnedPass, error)
	HasConfirmedOwnedPass(ctx context.Context, userID, passID int) (bool, error)
	RedeemCredit(ctx context.Context, passOrderID string) error
}
