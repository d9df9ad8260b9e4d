// Package domain contains the client and product catalog.
package domain

import (
	documentdomain "github.com/smallbiznis/facturier/internal/document/domain"
)

// Client is a saved customer that can be applied to a recipient.
type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	NCC     string `json:"ncc"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Product is a saved catalog line with its unit price.
type Product struct {
	ID          int64                 `json:"id"`
	Description string                `json:"description"`
	Price       documentdomain.Number `json:"price"`
}

// ApplyClient copies the client's identity and contact fields onto recipient.
// Fields a client does not carry are kept.
func ApplyClient(recipient documentdomain.Party, client Client) documentdomain.Party {
	recipient.Name = client.Name
	recipient.NCC = client.NCC
	recipient.Address = client.Address
	recipient.City = client.City
	recipient.Email = client.Email
	recipient.Phone = client.Phone
	return recipient
}
