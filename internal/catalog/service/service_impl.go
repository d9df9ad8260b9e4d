package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/facturier/internal/catalog/domain"
	"github.com/smallbiznis/facturier/internal/catalog/repository"
	documentdomain "github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/smallbiznis/facturier/pkg/ids"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    ids.Generator
	Clients  *repository.Clients
	Products *repository.Products
}

type Service struct {
	log      *zap.Logger
	genID    ids.Generator
	validate *validator.Validate
	clients  *repository.Clients
	products *repository.Products
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("catalog.service"),
		genID:    p.GenID,
		validate: validator.New(),
		clients:  p.Clients,
		products: p.Products,
	}
}

func (s *Service) CreateClient(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validateRequest(req); err != nil {
		return domain.Client{}, err
	}

	client := domain.Client{
		ID:      s.genID.Generate().Int64(),
		Name:    req.Name,
		NCC:     strings.TrimSpace(req.NCC),
		Email:   req.Email,
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
	}

	if _, err := s.clients.Upsert(ctx, client); err != nil {
		s.log.Error("failed to save client", zap.Error(err))
		return domain.Client{}, fmt.Errorf("save client: %w", err)
	}

	s.log.Info("client created", zap.Int64("client_id", client.ID))
	return client, nil
}

func (s *Service) ListClients(ctx context.Context, search string) ([]domain.Client, error) {
	clients, err := s.clients.All(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return clients, nil
	}
	out := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) GetClient(ctx context.Context, id int64) (domain.Client, error) {
	client, ok, err := s.clients.Find(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}
	if !ok {
		return domain.Client{}, domain.ErrNotFound
	}
	return client, nil
}

func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	_, removed, err := s.clients.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if removed {
		s.log.Info("client deleted", zap.Int64("client_id", id))
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	req.Description = strings.TrimSpace(req.Description)
	req.Price = strings.TrimSpace(req.Price)
	if err := s.validateRequest(req); err != nil {
		return domain.Product{}, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return domain.Product{}, domain.ErrInvalidPrice
	}

	product := domain.Product{
		ID:          s.genID.Generate().Int64(),
		Description: req.Description,
		Price:       documentdomain.NumberFromDecimal(price),
	}

	if _, err := s.products.Upsert(ctx, product); err != nil {
		s.log.Error("failed to save product", zap.Error(err))
		return domain.Product{}, fmt.Errorf("save product: %w", err)
	}

	s.log.Info("product created", zap.Int64("product_id", product.ID))
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return products, nil
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	_, removed, err := s.products.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if removed {
		s.log.Info("product deleted", zap.Int64("product_id", id))
	}
	return nil
}

func (s *Service) PriceIndex(ctx context.Context) (domain.PriceIndex, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewPriceIndex(products), nil
}

// validateRequest maps the first failing field onto its sentinel error.
func (s *Service) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return err
	}
	switch vErrs[0].Field() {
	case "Name":
		return domain.ErrInvalidName
	case "Email":
		return domain.ErrInvalidEmail
	case "Description":
		return domain.ErrInvalidDescription
	case "Price":
		return domain.ErrInvalidPrice
	default:
		return err
	}
}
