package incoming

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
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/supplier"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/ledger"
	"stockyard/pkg/logger"
)

// Service provides business operations for incoming documents.
//
// Create is a single unit of work: the header, the transaction record,
// the items, the stock increases and the audit entries all commit
// together or not at all.
type Service struct {
	repo       Repository
	products   product.Repository
	suppliers  supplier.Repository
	warehouses warehouse.Repository
	stock      *ledger.Service
	audit      *auditlog.Service
	numerator  numerator.Generator
	txManager  tx.Manager
	hooks      *domain.HookRegistry[*Incoming]
}

// NewService creates a new incoming document service.
func NewService(
	repo Repository,
	products product.Repository,
	suppliers supplier.Repository,
	warehouses warehouse.Repository,
	stock *ledger.Service,
	audit *auditlog.Service,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		products:   products,
		suppliers:  suppliers,
		warehouses: warehouses,
		stock:      stock,
		audit:      audit,
		numerator:  gen,
		txManager:  txManager,
		hooks:      domain.NewHookRegistry[*Incoming](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Incoming] {
	return s.hooks
}

// Create validates and commits an incoming document.
//
// Reference resolution and all validation run before the transaction
// opens; a rejected document leaves no trace. Inside the transaction the
// items are applied to the stock ledger in (product, warehouse) order so
// that concurrent documents acquire row locks in the same sequence.
func (s *Service) Create(ctx context.Context, doc *Incoming) error {
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
			mutation, err := s.stock.Increase(ctx, item.ProductID, doc.WarehouseID, item.Quantity)
			if err != nil {
				return err
			}
			if _, err := s.audit.RecordStock(ctx, mutation.Stock.ID, entity.OperationReceipt, mutation.Detail); err != nil {
				return err
			}
		}

		doc.TotalAmount = totalOf(doc.Items)
		if err := s.repo.SetTotalAmount(ctx, doc); err != nil {
			return fmt.Errorf("set total amount: %w", err)
		}

		if _, err := s.audit.RecordDocument(ctx, doc.ID, entity.DocumentTypeIncoming, entity.OperationReceipt, doc); err != nil {
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

	logger.Info(ctx, "incoming document created",
		"id", doc.ID,
		"number", doc.Number,
		"supplier_id", doc.SupplierID,
		"warehouse_id", doc.WarehouseID,
		"items", len(doc.Items),
		"total", doc.TotalAmount)

	return nil
}

// resolveReferences checks that every referenced entity exists and is
// usable, and returns the products keyed by ID for pricing.
func (s *Service) resolveReferences(ctx context.Context, doc *Incoming) (map[id.ID]*product.Product, error) {
	sup, err := s.suppliers.GetByID(ctx, doc.SupplierID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewValidation("unknown supplier").
				WithDetail("supplier_id", doc.SupplierID.String())
		}
		return nil, fmt.Errorf("resolve supplier: %w", err)
	}
	if sup.DeletionMark {
		return nil, apperror.NewValidation("supplier is marked for deletion").
			WithDetail("supplier_id", doc.SupplierID.String())
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
		return nil, apperror.NewValidation("warehouse cannot accept stock").
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

// priceItems captures the purchase price of each product on its lines.
func priceItems(doc *Incoming, products map[id.ID]*product.Product) {
	for i := range doc.Items {
		p := products[doc.Items[i].ProductID]
		doc.Items[i].UnitPrice = p.PurchasePrice
		doc.Items[i].Amount = types.LineExtension(doc.Items[i].Quantity, p.PurchasePrice)
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

// GetByID retrieves an incoming document with items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Incoming, error) {
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

// GetByNumber retrieves an incoming document by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Incoming, error) {
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

// List retrieves incoming documents with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Incoming], error) {
	return s.repo.List(ctx, filter)
}
