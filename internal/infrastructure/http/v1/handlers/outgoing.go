package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/documents/outgoing"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// OutgoingHandler serves outgoing (shipment) documents.
type OutgoingHandler struct {
	*BaseHandler
	service *outgoing.Service
}

// NewOutgoingHandler creates an outgoing document handler.
func NewOutgoingHandler(base *BaseHandler, service *outgoing.Service) *OutgoingHandler {
	return &OutgoingHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /documents/outgoing.
// Insufficient stock on any line rejects the whole document; nothing
// is persisted.
func (h *OutgoingHandler) Create(c *gin.Context) {
	var req dto.CreateOutgoingRequest
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

	c.JSON(http.StatusCreated, dto.FromOutgoing(doc))
}

// Get handles GET /documents/outgoing/:id.
func (h *OutgoingHandler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.FromOutgoing(doc))
}

// GetByNumber handles GET /documents/outgoing/number/:number.
func (h *OutgoingHandler) GetByNumber(c *gin.Context) {
	doc, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromOutgoing(doc))
}

// List handles GET /documents/outgoing.
func (h *OutgoingHandler) List(c *gin.Context) {
	filter := outgoing.ListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")

	if v := c.Query("clientId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid client id").WithDetail("field", "clientId"))
			return
		}
		filter.ClientID = &parsed
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
		items[i] = dto.FromOutgoing(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
