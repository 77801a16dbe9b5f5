package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	query := `
		INSERT INTO products (external_id, creator_id, kind, title, description, price_cents, currency, pay_what_you_want, valid_from, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, external_id, creator_id, kind, title, description, price_cents, currency, pay_what_you_want, valid_from, valid_until, created_at
	`

	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	var created Product
	err := r.db.GetContext(ctx, &created, query,
		uuid.NewString(), p.CreatorID, p.Kind, p.Title, p.Description,
		p.PriceCents, currency, p.PayWhatYouWant, p.ValidFrom, p.ValidUntil,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByExternalID(ctx context.Context, externalID string) (*Product, error) {
	query := `
		SELECT id, external_id, creator_id, kind, title, description, price_cents, currency, pay_what_you_want, valid_from, valid_until, created_at
		FROM products
		WHERE external_id = $1
	`

	var p Product
	err := r.db.GetContext(ctx, &p, query, externalID)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Product, error) {
	query := `
		SELECT id, external_id, creator_id, kind, title, description, price_cents, currency, pay_what_you_want, valid_from, valid_until, created_at
		FROM products
		WHERE id = $1
	`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListPublic(ctx context.Context) ([]Product, error) {
	query := `
		SELECT id, external_id, creator_id, kind, title, description, price_cents, currency, pay_what_you_want, valid_from, valid_until, created_at
		FROM products
		WHERE valid_until IS NULL OR valid_until >= NOW()
		ORDER BY created_at DESC
	`

	var products []Product
	err := r.db.SelectContext(ctx, &products, query)
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) ListByCreator(ctx context.Context, creatorID int) ([]Product, error) {
	query := `
		SELECT id, external_id, creator_id, kind, title, description, price_cents, currency, pay_what_you_want, valid_from, valid_until, created_at
		FROM products
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`

	var products []Product
	err := r.db.SelectContext(ctx, &products, query, creatorID)
	if err != nil {
		return nil, err
	}

	return products, nil
}
