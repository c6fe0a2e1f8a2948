package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/insurebrain/policy-engine/internal/services"
)

// CatalogHandler handles catalog administration
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new catalog handler with service injection
func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GetCatalog returns the current snapshot's version and size
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	snap, err := h.catalogService.Current()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"version":      snap.Version,
		"published_at": snap.PublishedAt,
		"policies":     snap.Size(),
	})
}

// ReloadCatalog re-reads the catalog file and publishes a new snapshot
// (Admin only). In-flight consultations finish on the snapshot they pinned.
func (h *CatalogHandler) ReloadCatalog(c *gin.Context) {
	snap, err := h.catalogService.Reload()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Catalog reloaded",
		"version":   snap.Version,
		"policies":  snap.Size(),
		"timestamp": time.Now(),
	})
}
