package quota

import (
	"context"
	"errors"
	"log"
)

// Service orchestrates daily turn-quota logic.
type Service struct {
	store *Store
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// UseTurn counts one chat turn for the client. The quota is advisory: any
// infrastructure failure is logged and the turn is allowed, only a clean
// ErrQuotaExhausted blocks.
func (s *Service) UseTurn(ctx context.Context, clientID string) error {
	err := s.store.UseTurn(ctx, clientID)
	if err == nil || errors.Is(err, ErrQuotaExhausted) {
		return err
	}
	log.Printf("quota: %v", err)
	return nil
}
