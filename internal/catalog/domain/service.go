package domain

import (
	"context"
	"errors"
)

type CreateClientRequest struct {
	Name    string `validate:"required"`
	NCC     string
	Email   string `validate:"omitempty,email"`
	Phone   string
	Address string
	City    string
}

type CreateProductRequest struct {
	Description string `validate:"required"`
	Price       string `validate:"required"`
}

type Service interface {
	CreateClient(context.Context, CreateClientRequest) (Client, error)
	ListClients(ctx context.Context, search string) ([]Client, error)
	GetClient(ctx context.Context, id int64) (Client, error)
	DeleteClient(ctx context.Context, id int64) error

	CreateProduct(context.Context, CreateProductRequest) (Product, error)
	ListProducts(ctx context.Context, search string) ([]Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// PriceIndex snapshots the product catalog for description lookups.
	PriceIndex(ctx context.Context) (PriceIndex, error)
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidPrice       = errors.New("invalid_price")
	ErrNotFound           = errors.New("not_found")
)
