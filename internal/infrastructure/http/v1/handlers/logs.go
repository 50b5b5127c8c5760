package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/auditlog"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// LogsHandler serves the append-only audit trail.
type LogsHandler struct {
	*BaseHandler
	service *auditlog.Service
}

// NewLogsHandler creates an audit log handler.
func NewLogsHandler(base *BaseHandler, service *auditlog.Service) *LogsHandler {
	return &LogsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListStock handles GET /logs/stock.
func (h *LogsHandler) ListStock(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	if v := c.Query("stockId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid stock id").WithDetail("field", "stockId"))
			return
		}
		filter.StockID = &parsed
	}

	logs, err := h.service.ListStockLogs(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockLogResponse, len(logs))
	for i, log := range logs {
		items[i] = dto.FromStockLog(log)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListDocuments handles GET /logs/documents.
func (h *LogsHandler) ListDocuments(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	if v := c.Query("documentId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid document id").WithDetail("field", "documentId"))
			return
		}
		filter.DocumentID = &parsed
	}

	logs, err := h.service.ListDocumentLogs(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.DocumentLogResponse, len(logs))
	for i, log := range logs {
		items[i] = dto.FromDocumentLog(log)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *LogsHandler) parseFilter(c *gin.Context) (auditlog.Filter, bool) {
	filter := auditlog.Filter{
		Actor:  c.Query("actor"),
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("operation"); v != "" {
		op := entity.OperationKind(v)
		if op != entity.OperationReceipt && op != entity.OperationShipment {
			h.Error(c, apperror.NewValidation("invalid operation").WithDetail("field", "operation"))
			return filter, false
		}
		filter.Operation = &op
	}

	var ok bool
	if filter.FromDate, ok = parseTimeQuery(c, h.BaseHandler, "fromDate"); !ok {
		return filter, false
	}
	if filter.ToDate, ok = parseTimeQuery(c, h.BaseHandler, "toDate"); !ok {
		return filter, false
	}

	return filter, true
}
