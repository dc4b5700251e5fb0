// README: Streaming recommendation handler for POST /search.
package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"planpick/internal/modules/profile"
	"planpick/internal/modules/recommend"
)

// Recommender runs one recommendation turn against a response writer.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request, out io.Writer) error
}

type RecommendHandler struct {
	svc Recommender
}

func NewRecommendHandler(svc Recommender) *RecommendHandler {
	return &RecommendHandler{svc: svc}
}

type searchRequest struct {
	Query          string               `json:"query"`
	UserProfile    *profile.UserProfile `json:"userProfile"`
	AmbiguousCount int                  `json:"ambiguousCount"`
	History        []string             `json:"history"`
}

// Search validates the turn and streams the framed response as text/plain.
// Validation failures answer with a plain JSON body and never start a stream.
func (h *RecommendHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Query == "" || req.UserProfile == nil {
		writeJSON(c, http.StatusOK, gin.H{
			"status":  false,
			"message": "query and userProfile are required",
		})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)

	err := h.svc.Recommend(c.Request.Context(), recommend.Request{
		Query:          req.Query,
		Profile:        req.UserProfile,
		AmbiguousCount: req.AmbiguousCount,
		History:        req.History,
	}, c.Writer)
	if err != nil && !errors.Is(err, context.Canceled) {
		// Headers are already on the wire; nothing left but to log.
		log.Printf("http: /search stream: %v", err)
	}
}
