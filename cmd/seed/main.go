// Package main provides a CLI tool for seeding the database with demo data.
//
// Catalogs are created through the domain services so the usual validation
// and code generation apply, and opening stock is loaded through incoming
// documents so the stock ledger and audit log stay consistent with real
// operation. Safe to run repeatedly: existing entities are reused by code.
package main

import (
	"context"
	"fmt"
	"os"

	"stockyard/internal/core/apperror"
	appctx "stockyard/internal/core/context"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/auditlog"
	"stockyard/internal/domain/catalogs/client"
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/supplier"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/documents/incoming"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/infrastructure/auth"
	"stockyard/internal/infrastructure/numerator"
	"stockyard/internal/infrastructure/storage/postgres"
	"stockyard/internal/infrastructure/storage/postgres/audit_repo"
	"stockyard/internal/infrastructure/storage/postgres/catalog_repo"
	"stockyard/internal/infrastructure/storage/postgres/document_repo"
	"stockyard/internal/infrastructure/storage/postgres/ledger_repo"
	"stockyard/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	// All seeded entities are attributed to a synthetic actor.
	ctx = appctx.WithUser(ctx, &appctx.UserContext{
		UserID:  "seed",
		Name:    "Seed Tool",
		Roles:   []string{"manager", "storekeeper"},
		IsAdmin: true,
	})

	txManager := postgres.NewTxManager(pool)
	gen := numerator.New(pool)

	productRepo := catalog_repo.NewProductRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	clientRepo := catalog_repo.NewClientRepo(txManager)

	logRepo, err := audit_repo.NewLogRepo(txManager)
	if err != nil {
		log.Fatalw("failed to create audit repo", "error", err)
	}

	stockService := ledger.NewService(ledger_repo.NewStockRepo(txManager))
	auditService := auditlog.NewService(logRepo)

	products := product.NewService(productRepo, txManager, gen)
	warehouses := warehouse.NewService(warehouseRepo, txManager, gen)
	suppliers := supplier.NewService(supplierRepo, txManager, gen)
	clients := client.NewService(clientRepo, txManager, gen)

	incomingService := incoming.NewService(
		document_repo.NewIncomingRepo(txManager),
		productRepo, supplierRepo, warehouseRepo,
		stockService, auditService, gen, txManager,
	)

	seeded, err := seedCatalogs(ctx, log, products, warehouses, suppliers, clients)
	if err != nil {
		log.Fatalw("failed to seed catalogs", "error", err)
	}

	if os.Getenv("SEED_OPENING_STOCK") != "false" {
		if err := seedOpeningStock(ctx, log, incomingService, seeded); err != nil {
			log.Fatalw("failed to seed opening stock", "error", err)
		}
	}

	printDevToken(log)

	log.Info("seeding completed successfully")
}

// seededIDs collects the entities later stages reference.
type seededIDs struct {
	productIDs  []id.ID
	warehouseID id.ID
	supplierID  id.ID
}

func seedCatalogs(
	ctx context.Context,
	log *logger.Logger,
	products *product.Service,
	warehouses *warehouse.Service,
	suppliers *supplier.Service,
	clients *client.Service,
) (*seededIDs, error) {
	out := &seededIDs{}

	// 1. Warehouses
	warehouseSeeds := []struct {
		code    string
		name    string
		address string
	}{
		{"WH-001", "Main Warehouse", "12 Dock Street"},
		{"WH-002", "Retail Store", "5 Market Square"},
	}

	for i, w := range warehouseSeeds {
		existing, err := warehouses.GetByCode(ctx, w.code)
		if err == nil {
			log.Infow("warehouse already exists", "code", w.code)
			if i == 0 {
				out.warehouseID = existing.ID
			}
			continue
		}
		if !apperror.IsNotFound(err) {
			return nil, fmt.Errorf("check warehouse %s: %w", w.code, err)
		}

		wh := warehouse.NewWarehouse(w.code, w.name)
		wh.Address = &warehouseSeeds[i].address
		if err := warehouses.Create(ctx, wh); err != nil {
			return nil, fmt.Errorf("create warehouse %s: %w", w.code, err)
		}
		if i == 0 {
			out.warehouseID = wh.ID
		}
		log.Infow("warehouse created", "code", w.code, "id", wh.ID)
	}

	// 2. Suppliers
	supplierSeeds := []struct {
		code  string
		name  string
		email string
	}{
		{"SUP-001", "Northwind Traders", "orders@northwind.example"},
		{"SUP-002", "Acme Wholesale", "sales@acme.example"},
	}

	for i, s := range supplierSeeds {
		existing, err := suppliers.GetByCode(ctx, s.code)
		if err == nil {
			log.Infow("supplier already exists", "code", s.code)
			if i == 0 {
				out.supplierID = existing.ID
			}
			continue
		}
		if !apperror.IsNotFound(err) {
			return nil, fmt.Errorf("check supplier %s: %w", s.code, err)
		}

		sup := supplier.NewSupplier(s.code, s.name)
		sup.Email = &supplierSeeds[i].email
		if err := suppliers.Create(ctx, sup); err != nil {
			return nil, fmt.Errorf("create supplier %s: %w", s.code, err)
		}
		if i == 0 {
			out.supplierID = sup.ID
		}
		log.Infow("supplier created", "code", s.code, "id", sup.ID)
	}

	// 3. Clients
	clientSeeds := []struct {
		code string
		name string
	}{
		{"CLI-001", "City Office Supplies"},
		{"CLI-002", "Riverside Workshop"},
	}

	for _, c := range clientSeeds {
		_, err := clients.GetByCode(ctx, c.code)
		if err == nil {
			log.Infow("client already exists", "code", c.code)
			continue
		}
		if !apperror.IsNotFound(err) {
			return nil, fmt.Errorf("check client %s: %w", c.code, err)
		}

		cl := client.NewClient(c.code, c.name)
		if err := clients.Create(ctx, cl); err != nil {
			return nil, fmt.Errorf("create client %s: %w", c.code, err)
		}
		log.Infow("client created", "code", c.code, "id", cl.ID)
	}

	// 4. Products
	productSeeds := []struct {
		code          string
		name          string
		sku           string
		purchasePrice string
		sellingPrice  string
		minStock      int64
	}{
		{"PRD-00001", "Office Paper A4", "PAP-A4-500", "3.20", "4.50", 50},
		{"PRD-00002", "Ballpoint Pen Blue", "PEN-BLU", "0.25", "0.60", 200},
		{"PRD-00003", "Desktop Stapler", "STP-001", "5.80", "9.90", 10},
		{"PRD-00004", "Ring Binder", "FOL-REG", "1.40", "2.75", 30},
	}

	for i, p := range productSeeds {
		existing, err := products.GetByCode(ctx, p.code)
		if err == nil {
			log.Infow("product already exists", "code", p.code)
			out.productIDs = append(out.productIDs, existing.ID)
			continue
		}
		if !apperror.IsNotFound(err) {
			return nil, fmt.Errorf("check product %s: %w", p.code, err)
		}

		prod := product.NewProduct(p.code, p.name)
		prod.SKU = &productSeeds[i].sku
		prod.PurchasePrice = types.MustMoney(p.purchasePrice)
		prod.SellingPrice = types.MustMoney(p.sellingPrice)
		prod.MinimumStockLevel = types.NewQuantity(p.minStock)
		if err := products.Create(ctx, prod); err != nil {
			return nil, fmt.Errorf("create product %s: %w", p.code, err)
		}
		out.productIDs = append(out.productIDs, prod.ID)
		log.Infow("product created", "code", p.code, "id", prod.ID)
	}

	return out, nil
}

// seedOpeningStock loads initial quantities through a regular incoming
// document, exactly as a receipt from a supplier would.
func seedOpeningStock(
	ctx context.Context,
	log *logger.Logger,
	incomingService *incoming.Service,
	seeded *seededIDs,
) error {
	const openingNumber = "INC-OPENING"

	if _, err := incomingService.GetByNumber(ctx, openingNumber); err == nil {
		log.Infow("opening stock document already exists", "number", openingNumber)
		return nil
	} else if !apperror.IsNotFound(err) {
		return fmt.Errorf("check opening document: %w", err)
	}

	if id.IsNil(seeded.supplierID) || id.IsNil(seeded.warehouseID) || len(seeded.productIDs) == 0 {
		log.Warn("missing seeded references; skipping opening stock")
		return nil
	}

	doc := incoming.NewIncoming(seeded.supplierID, seeded.warehouseID)
	doc.Number = openingNumber
	doc.Comment = "opening balances"

	quantities := []int64{120, 500, 25, 80}
	for i, productID := range seeded.productIDs {
		qty := int64(10)
		if i < len(quantities) {
			qty = quantities[i]
		}
		doc.AddItem(productID, types.NewQuantity(qty))
	}

	if err := incomingService.Create(ctx, doc); err != nil {
		return fmt.Errorf("create opening document: %w", err)
	}

	log.Infow("opening stock loaded",
		"number", doc.Number,
		"items", len(doc.Items),
		"total", doc.TotalAmount,
	)
	return nil
}

// printDevToken emits a short-lived bearer token for manual API testing
// when a signing secret is configured.
func printDevToken(log *logger.Logger) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return
	}

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(secret))
	token, expiresAt, err := jwtService.GenerateAccessToken(
		"seed", "Seed Tool", []string{"manager", "storekeeper"}, true,
	)
	if err != nil {
		log.Warnw("failed to generate dev token", "error", err)
		return
	}

	log.Infow("dev access token", "token", token, "expires_at", expiresAt)
}
