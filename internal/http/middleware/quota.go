// README: Daily turn-quota middleware for the chat endpoint.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planpick/internal/modules/quota"
)

// TurnQuota counts one chat turn per request; quota.Service satisfies it.
type TurnQuota interface {
	UseTurn(ctx context.Context, clientID string) error
}

func Quota(svc TurnQuota) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.UseTurn(c.Request.Context(), c.ClientIP())
		if errors.Is(err, quota.ErrQuotaExhausted) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "오늘의 질문 횟수를 모두 사용했어요. 내일 다시 시도해 주세요.",
			})
			return
		}
		c.Next()
	}
}
