package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/provimatch/backend/internal/domain"
	"github.com/provimatch/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher  *usecase.MatchingService
	catalog  domain.CatalogRepository
	lexicons domain.LexiconProvider
	logger   *zap.SugaredLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	matcher *usecase.MatchingService,
	catalog domain.CatalogRepository,
	lexicons domain.LexiconProvider,
	logger *zap.SugaredLogger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		matcher:  matcher,
		catalog:  catalog,
		lexicons: lexicons,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "provimatch-backend",
		"version": "1.0.0",
	})
}

// SearchMatches ranks active catalog items against the reference query
func (h *Handler) SearchMatches(c *gin.Context) {
	var req domain.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	candidates, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Errorw("catalog listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
		return
	}

	matches, err := h.matcher.FindMatches(c.Request.Context(), &req, candidates)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Errorw("matching failed", "name", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "matching failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   req.Name,
		"count":   len(matches),
		"matches": matches,
	})
}

// explainRequest pairs a reference query with the catalog item to explain.
type explainRequest struct {
	Request domain.MatchRequest `json:"request" binding:"required"`
	ItemID  string              `json:"itemId" binding:"required"`
}

// ExplainMatch reports the full gate and scoring breakdown for one pair,
// including rejections
func (h *Handler) ExplainMatch(c *gin.Context) {
	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	item, err := h.catalog.Get(c.Request.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found: " + req.ItemID})
			return
		}
		h.logger.Errorw("catalog lookup failed", "itemId", req.ItemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
		return
	}

	explanation, err := h.matcher.Explain(c.Request.Context(), &req.Request, *item)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Errorw("explain failed", "itemId", req.ItemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "explain failed"})
		return
	}

	c.JSON(http.StatusOK, explanation)
}

// UpsertItem inserts or replaces a catalog item
func (h *Handler) UpsertItem(c *gin.Context) {
	var item domain.CatalogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item: " + err.Error()})
		return
	}
	if item.NameRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nameRaw is required"})
		return
	}

	stored, err := h.catalog.Upsert(c.Request.Context(), item)
	if err != nil {
		h.logger.Errorw("catalog upsert failed", "itemId", item.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upsert failed"})
		return
	}

	c.JSON(http.StatusOK, stored)
}

// GetItem returns one catalog item by id
func (h *Handler) GetItem(c *gin.Context) {
	id := c.Param("id")

	item, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found: " + id})
			return
		}
		h.logger.Errorw("catalog lookup failed", "itemId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListItems returns all catalog items
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("catalog listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": items,
	})
}

// ReloadLexicon swaps in freshly loaded lexicon data. On failure the
// previous lexicon keeps serving and the error is reported.
func (h *Handler) ReloadLexicon(c *gin.Context) {
	if err := h.lexicons.Reload(); err != nil {
		h.logger.Errorw("lexicon reload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
