package client

import (
	"context"
	"fmt"
	"time"

	"stockyard/internal/core/numerator"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
)

// Service provides business logic for the Client catalog.
type Service struct {
	*domain.CatalogService[*Client]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Client service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "client",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

// prepareForCreate handles code generation.
func (s *Service) prepareForCreate(ctx context.Context, cl *Client) error {
	if cl.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CLI"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		cl.Code = code
	}
	return nil
}
