package dto

import (
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/reports"
)

// Report responses reuse the domain report types directly: they are
// read models already shaped for serialization.

// --- Stock Balance Report ---

// StockBalanceReportRequest represents request for the stock balance report.
type StockBalanceReportRequest struct {
	WarehouseIDs []string `form:"warehouseId"`
	ProductIDs   []string `form:"productId"`
	ExcludeZero  bool     `form:"excludeZero"`
	Limit        int      `form:"limit"`
	Offset       int      `form:"offset"`
}

// ToFilter converts the request to a domain filter.
func (r *StockBalanceReportRequest) ToFilter() (reports.StockBalanceFilter, error) {
	warehouseIDs, err := parseIDs(r.WarehouseIDs, "warehouseId")
	if err != nil {
		return reports.StockBalanceFilter{}, err
	}
	productIDs, err := parseIDs(r.ProductIDs, "productId")
	if err != nil {
		return reports.StockBalanceFilter{}, err
	}

	return reports.StockBalanceFilter{
		WarehouseIDs: warehouseIDs,
		ProductIDs:   productIDs,
		ExcludeZero:  r.ExcludeZero,
		Limit:        r.Limit,
		Offset:       r.Offset,
	}, nil
}

// --- Low Stock Report ---

// LowStockReportRequest represents request for the low stock report.
type LowStockReportRequest struct {
	WarehouseIDs []string `form:"warehouseId"`
	ProductIDs   []string `form:"productId"`
	Limit        int      `form:"limit"`
	Offset       int      `form:"offset"`
}

// ToFilter converts the request to a domain filter.
func (r *LowStockReportRequest) ToFilter() (reports.LowStockFilter, error) {
	warehouseIDs, err := parseIDs(r.WarehouseIDs, "warehouseId")
	if err != nil {
		return reports.LowStockFilter{}, err
	}
	productIDs, err := parseIDs(r.ProductIDs, "productId")
	if err != nil {
		return reports.LowStockFilter{}, err
	}

	return reports.LowStockFilter{
		WarehouseIDs: warehouseIDs,
		ProductIDs:   productIDs,
		Limit:        r.Limit,
		Offset:       r.Offset,
	}, nil
}

// --- Document Journal ---

// DocumentJournalRequest represents request for the document journal.
type DocumentJournalRequest struct {
	FromDate        *time.Time `form:"fromDate"`
	ToDate          *time.Time `form:"toDate"`
	DocumentType    string     `form:"documentType"`
	NumberContains  string     `form:"number"`
	WarehouseIDs    []string   `form:"warehouseId"`
	CounterpartyIDs []string   `form:"counterpartyId"`
	SortBy          string     `form:"sortBy"`
	SortOrder       string     `form:"sortOrder"`
	Limit           int        `form:"limit"`
	Offset          int        `form:"offset"`
}

// ToFilter converts the request to a domain filter.
func (r *DocumentJournalRequest) ToFilter() (reports.DocumentJournalFilter, error) {
	warehouseIDs, err := parseIDs(r.WarehouseIDs, "warehouseId")
	if err != nil {
		return reports.DocumentJournalFilter{}, err
	}
	counterpartyIDs, err := parseIDs(r.CounterpartyIDs, "counterpartyId")
	if err != nil {
		return reports.DocumentJournalFilter{}, err
	}

	return reports.DocumentJournalFilter{
		FromDate:        r.FromDate,
		ToDate:          r.ToDate,
		DocumentType:    r.DocumentType,
		NumberContains:  r.NumberContains,
		WarehouseIDs:    warehouseIDs,
		CounterpartyIDs: counterpartyIDs,
		SortBy:          r.SortBy,
		SortOrder:       r.SortOrder,
		Limit:           r.Limit,
		Offset:          r.Offset,
	}, nil
}

func parseIDs(raw []string, field string) ([]id.ID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]id.ID, 0, len(raw))
	for _, s := range raw {
		parsed, err := id.Parse(s)
		if err != nil {
			return nil, apperror.NewValidation("invalid id format").
				WithDetail("field", field).
				WithDetail("value", s)
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}
