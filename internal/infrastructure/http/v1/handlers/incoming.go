package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/documents/incoming"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// IncomingHandler serves incoming (receipt) documents.
// Documents are immutable once created: there is no update or delete.
type IncomingHandler struct {
	*BaseHandler
	service *incoming.Service
}

// NewIncomingHandler creates an incoming document handler.
func NewIncomingHandler(base *BaseHandler, service *incoming.Service) *IncomingHandler {
	return &IncomingHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /documents/incoming.
// On success the whole unit of work committed: header, transaction,
// items, stock increases, audit entries.
func (h *IncomingHandler) Create(c *gin.Context) {
	var req dto.CreateIncomingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromIncoming(doc))
}

// Get handles GET /documents/incoming/:id.
func (h *IncomingHandler) Get(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromIncoming(doc))
}

// GetByNumber handles GET /documents/incoming/number/:number.
func (h *IncomingHandler) GetByNumber(c *gin.Context) {
	doc, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromIncoming(doc))
}

// List handles GET /documents/incoming.
func (h *IncomingHandler) List(c *gin.Context) {
	filter := incoming.ListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")

	if v := c.Query("supplierId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid supplier id").WithDetail("field", "supplierId"))
			return
		}
		filter.SupplierID = &parsed
	}
	if v := c.Query("warehouseId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouse id").WithDetail("field", "warehouseId"))
			return
		}
		filter.WarehouseID = &parsed
	}
	var ok bool
	if filter.DateFrom, ok = parseTimeQuery(c, h.BaseHandler, "dateFrom"); !ok {
		return
	}
	if filter.DateTo, ok = parseTimeQuery(c, h.BaseHandler, "dateTo"); !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromIncoming(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// parseTimeQuery parses an RFC 3339 query parameter.
// The second return value is false when the parameter was present but invalid.
func parseTimeQuery(c *gin.Context, h *BaseHandler, key string) (*time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date format (RFC 3339 expected)").WithDetail("field", key))
		return nil, false
	}
	return &t, true
}
