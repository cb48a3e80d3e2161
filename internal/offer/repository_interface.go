package offer

import "context"

type Repository interface {
	Create(ctx context.Context, o *Offer) (*Offer, error)
	GetByID(ctx context.Context, id int) (*Offer, error)
	GetAll(ctx context.Context) ([]Offer, error)
}
