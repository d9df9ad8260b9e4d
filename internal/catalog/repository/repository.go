package repository

import (
	"github.com/smallbiznis/facturier/internal/catalog/domain"
	"github.com/smallbiznis/facturier/internal/store"
	"github.com/smallbiznis/facturier/pkg/repository"
)

type Clients struct {
	*repository.Collection[domain.Client]
}

type Products struct {
	*repository.Collection[domain.Product]
}

func NewClients(s store.Store) *Clients {
	return &Clients{repository.NewCollection(s, store.KeyClients, func(c domain.Client) int64 { return c.ID })}
}

func NewProducts(s store.Store) *Products {
	return &Products{repository.NewCollection(s, store.KeyProducts, func(p domain.Product) int64 { return p.ID })}
}
