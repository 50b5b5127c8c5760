package outgoing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stockyard/internal/core/apperror"
	appctx "stockyard/internal/core/context"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/numerator"
	"stockyard/internal/core/tx"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
	"stockyard/internal/domain/auditlog"
	"stockyard/internal/domain/catalogs/client"
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/ledger"
	"stockyard/pkg/logger"
)

// Service provides business operations for outgoing documents.
//
// Create is a single unit of work: the header, the transaction record,
// the items, the stock decreases and the audit entries all commit
// together or not at all. An insufficient stock on any line rolls back
// the whole document, including lines already applied.
type Service struct {
	repo       Repository
	products   product.Repository
	clients    client.Repository
	warehouses warehouse.Repository
	stock      *ledger.Service
	audit      *auditlog.Service
	numerator  numerator.Generator
	txManager  tx.Manager
	hooks      *domain.HookRegistry[*Outgoing]
}

// NewService creates a new outgoing document service.
func NewService(
	repo Repository,
	products product.Repository,
	clients client.Repository,
	warehouses warehouse.Repository,
	stock *ledger.Service,
	audit *auditlog.Service,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		products:   products,
		clients:    clients,
		warehouses: warehouses,
		stock:      stock,
		audit:      audit,
		numerator:  gen,
		txManager:  txManager,
		hooks:      domain.NewHookRegistry[*Outgoing](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Outgoing] {
	return s.hooks
}

// Create validates and commits an outgoing document.
//
// Reference resolution and all validation run before the transaction
// opens. The sufficiency check happens per line under an exclusive row
// lock inside the transaction; items are applied in (product, warehouse)
// order so that concurrent documents acquire locks in the same sequence.
func (s *Service) Create(ctx context.Context, doc *Outgoing) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	products, err := s.resolveReferences(ctx, doc)
	if err != nil {
		return err
	}

	if doc.CreatedBy == "" {
		doc.CreatedBy = appctx.GetUserID(ctx)
	}

	if doc.Number == "" {
		cfg := numerator.DefaultConfig(NumberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		priceItems(doc, products)
		if err := s.repo.SaveItems(ctx, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}

		for _, item := range lockOrdered(doc.Items) {
			mutation, err := s.stock.Decrease(ctx, item.ProductID, doc.WarehouseID, item.Quantity)
			if err != nil {
				return err
			}
			if _, err := s.audit.RecordStock(ctx, mutation.Stock.ID, entity.OperationShipment, mutation.Detail); err != nil {
				return err
			}
		}

		doc.TotalAmount = totalOf(doc.Items)
		if err := s.repo.SetTotalAmount(ctx, doc); err != nil {
			return fmt.Errorf("set total amount: %w", err)
		}

		if _, err := s.audit.RecordDocument(ctx, doc.ID, entity.DocumentTypeOutgoing, entity.OperationShipment, doc); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "outgoing document created",
		"id", doc.ID,
		"number", doc.Number,
		"client_id", doc.ClientID,
		"warehouse_id", doc.WarehouseID,
		"items", len(doc.Items),
		"total", doc.TotalAmount)

	return nil
}

// resolveReferences checks that every referenced entity exists and is
// usable, and returns the products keyed by ID for pricing.
func (s *Service) resolveReferences(ctx context.Context, doc *Outgoing) (map[id.ID]*product.Product, error) {
	cl, err := s.clients.GetByID(ctx, doc.ClientID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewValidation("unknown client").
				WithDetail("client_id", doc.ClientID.String())
		}
		return nil, fmt.Errorf("resolve client: %w", err)
	}
	if cl.DeletionMark {
		return nil, apperror.NewValidation("client is marked for deletion").
			WithDetail("client_id", doc.ClientID.String())
	}

	wh, err := s.warehouses.GetByID(ctx, doc.WarehouseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewValidation("unknown warehouse").
				WithDetail("warehouse_id", doc.WarehouseID.String())
		}
		return nil, fmt.Errorf("resolve warehouse: %w", err)
	}
	if !wh.CanHoldStock() {
		return nil, apperror.NewValidation("warehouse cannot ship stock").
			WithDetail("warehouse_id", doc.WarehouseID.String())
	}

	products := make(map[id.ID]*product.Product, len(doc.Items))
	for _, item := range doc.Items {
		if _, ok := products[item.ProductID]; ok {
			continue
		}
		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewValidation("unknown product").
					WithDetail("product_id", item.ProductID.String())
			}
			return nil, fmt.Errorf("resolve product: %w", err)
		}
		if p.DeletionMark {
			return nil, apperror.NewValidation("product is marked for deletion").
				WithDetail("product_id", item.ProductID.String())
		}
		products[item.ProductID] = p
	}

	return products, nil
}

// priceItems captures the selling price of each product on its lines.
func priceItems(doc *Outgoing, products map[id.ID]*product.Product) {
	for i := range doc.Items {
		p := products[doc.Items[i].ProductID]
		doc.Items[i].UnitPrice = p.SellingPrice
		doc.Items[i].Amount = types.LineExtension(doc.Items[i].Quantity, p.SellingPrice)
	}
}

// lockOrdered returns a copy of the items sorted by product ID. Stock
// rows are locked in this order to keep concurrent documents deadlock
// free; the stored line order is untouched.
func lockOrdered(items []Item) []Item {
	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ProductID.String() < ordered[j].ProductID.String()
	})
	return ordered
}

func totalOf(items []Item) types.Money {
	total := types.ZeroMoney()
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// GetByID retrieves an outgoing document with items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Outgoing, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// GetByNumber retrieves an outgoing document by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Outgoing, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// List retrieves outgoing documents with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Outgoing], error) {
	return s.repo.List(ctx, filter)
}
