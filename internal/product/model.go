package product

import "time"

type Kind string

const (
	KindSession Kind = "SESSION"
	KindVideo   Kind = "VIDEO"
	KindCourse  Kind = "COURSE"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSession, KindVideo, KindCourse:
		return true
	}
	return false
}

// Noun returns the lower-case name used in customer-facing messages.
func (k Kind) Noun() string {
	switch k {
	case KindSession:
		return "session"
	case KindVideo:
		return "video"
	case KindCourse:
		return "course"
	}
	return "product"
}

type Product struct {
	ID             int        `db:"id" json:"id"`
	ExternalID     string     `db:"external_id" json:"external_id"`
	CreatorID      int        `db:"creator_id" json:"creator_id"`
	Kind           Kind       `db:"kind" json:"kind"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	PriceCents     int64      `db:"price_cents" json:"price_cents"`
	Currency       string     `db:"currency" json:"currency"`
	PayWhatYouWant bool       `db:"pay_what_you_want" json:"pay_what_you_want"`
	ValidFrom      *time.Time `db:"valid_from" json:"valid_from,omitempty"`
	ValidUntil     *time.Time `db:"valid_until" json:"valid_until,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

func (p *Product) IsFree() bool {
	return p.PriceCents == 0
}

// AvailableAt reports whether the product can be purchased at the given time.
func (p *Product) AvailableAt(t time.Time) bool {
	if p.ValidFrom != nil && t.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && t.After(*p.ValidUntil) {
		return false
	}
	return true
}

type CreateProductRequest struct {
	Kind           Kind   `json:"kind" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	PriceCents     int64  `json:"price_cents" binding:"min=0"`
	Currency       string `json:"currency"`
	PayWhatYouWant bool   `json:"pay_what_you_want"`
	ValidFrom      string `json:"valid_from,omitempty"`
	ValidUntil     string `json:"valid_until,omitempty"`
}
