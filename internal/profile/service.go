// Package profile keeps the company identity printed as sender.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/smallbiznis/facturier/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Store store.Store
}

type Service struct {
	log   *zap.Logger
	store store.Store
}

func New(p Params) *Service {
	return &Service{
		log:   p.Log.Named("profile.service"),
		store: p.Store,
	}
}

// Get returns the saved profile. The bool is false until one is saved.
func (s *Service) Get(ctx context.Context) (domain.Party, bool, error) {
	var party domain.Party
	found, err := s.store.Get(ctx, store.KeyProfile, &party)
	if err != nil {
		return domain.Party{}, false, fmt.Errorf("load profile: %w", err)
	}
	return party, found, nil
}

// Current is Get as a pointer, nil when no profile exists.
func (s *Service) Current(ctx context.Context) (*domain.Party, error) {
	party, found, err := s.Get(ctx)
	if err != nil || !found {
		return nil, err
	}
	return &party, nil
}

func (s *Service) Save(ctx context.Context, party domain.Party) (domain.Party, error) {
	party.Name = strings.TrimSpace(party.Name)
	party.Email = strings.TrimSpace(party.Email)
	if err := s.store.Save(ctx, store.KeyProfile, party); err != nil {
		s.log.Error("failed to save profile", zap.Error(err))
		return domain.Party{}, fmt.Errorf("save profile: %w", err)
	}
	s.log.Info("profile saved", zap.Bool("has_logo", party.Logo != ""))
	return party, nil
}

var Module = fx.Module("profile.service",
	fx.Provide(New),
)
