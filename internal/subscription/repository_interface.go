package subscription

import (
	"context"

	"passhub/internal/product"
)

type Repository interface {
	Create(ctx context.Context, userID int, plan string, months int, credits []CreditLine, allowedProductIDs map[product.Kind][]int) (*Subscription, error)
	UsableForProduct(ctx context.Context, userID int, kind product.Kind, productID int) (*UsableSubscription, error)
	ConsumeCredit(ctx context.Context, subscriptionID int, kind product.Kind) error
	ListActiveByUser(ctx context.Context, userID int) ([]Subscription, error)
	CreditsFor(ctx context.Context, subscriptionID int) ([]CreditLine, error)
}
