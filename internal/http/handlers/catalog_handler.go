// README: Catalog ingestion handler for POST /vectorize.
package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"planpick/internal/modules/catalog"
)

// Ingestor indexes a batch of plans into the vector store.
type Ingestor interface {
	Ingest(ctx context.Context, plans []catalog.Plan) (int, error)
}

type CatalogHandler struct {
	ingestor Ingestor
}

func NewCatalogHandler(ingestor Ingestor) *CatalogHandler {
	return &CatalogHandler{ingestor: ingestor}
}

// Vectorize accepts a JSON array of plans and indexes the whole batch.
func (h *CatalogHandler) Vectorize(c *gin.Context) {
	var plans []catalog.Plan
	if err := c.ShouldBindJSON(&plans); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	n, err := h.ingestor.Ingest(c.Request.Context(), plans)
	if err != nil {
		log.Printf("http: /vectorize: %v", err)
		writeInternalError(c)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok", "inserted": n})
}
