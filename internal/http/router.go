// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planpick/internal/http/handlers"
	"planpick/internal/http/middleware"
)

type RouterDeps struct {
	Recommender handlers.Recommender
	Ingestor    handlers.Ingestor

	// Quota, when set, rate-limits /search per client per day.
	Quota middleware.TurnQuota

	// CORSOrigins overrides the default local-dev origin list.
	CORSOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery(), middleware.CORS(deps.CORSOrigins))

	recommendHandler := handlers.NewRecommendHandler(deps.Recommender)
	if deps.Quota != nil {
		r.POST("/search", middleware.Quota(deps.Quota), recommendHandler.Search)
	} else {
		r.POST("/search", recommendHandler.Search)
	}

	catalogHandler := handlers.NewCatalogHandler(deps.Ingestor)
	r.POST("/vectorize", catalogHandler.Vectorize)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
