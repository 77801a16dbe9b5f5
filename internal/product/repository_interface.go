package product

import "context"

type Repository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	GetByExternalID(ctx context.Context, externalID string) (*Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)
	ListPublic(ctx context.Context) ([]Product, error)
	ListByCreator(ctx context.Context, creatorID int) ([]Product, error)
}
