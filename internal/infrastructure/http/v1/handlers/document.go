package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/documents"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// DocumentHandler serves the direction-agnostic document lookup.
type DocumentHandler struct {
	*BaseHandler
	resolver *documents.Resolver
}

// NewDocumentHandler creates a document handler.
func NewDocumentHandler(base *BaseHandler, resolver *documents.Resolver) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: base,
		resolver:    resolver,
	}
}

// Get handles GET /documents/:id - retrieve a document of either
// direction by ID.
func (h *DocumentHandler) Get(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	view, err := h.resolver.Resolve(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDocumentView(view))
}
