// README: Filtered similarity retrieval (embed query, cached, search catalog).
package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"planpick/internal/ai"
)

const (
	embedCachePrefix = "embed:v1:"
	embedCacheTTL    = 24 * time.Hour
)

// Searcher is the catalog-side query contract, implemented by Store.
type Searcher interface {
	Search(ctx context.Context, vector []float32, eligibility []string, limit int) ([]Plan, error)
}

// Retriever embeds a free-text query and runs a filtered similarity search
// against the plan catalog. Query vectors are cached in Redis so repeated
// turns of the same conversation don't re-embed the same text.
type Retriever struct {
	embedder ai.EmbeddingClient
	searcher Searcher
	cache    *redis.Client // nil disables caching
	limit    int
}

// NewRetriever wires the retrieval dependencies. limit is the top-K
// candidate count passed to the catalog search.
func NewRetriever(embedder ai.EmbeddingClient, searcher Searcher, cache *redis.Client, limit int) *Retriever {
	if limit <= 0 {
		limit = 10
	}
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		cache:    cache,
		limit:    limit,
	}
}

// TopK returns the best-matching plans for the query, restricted to the
// given eligibility list. An empty result set is not an error.
func (r *Retriever) TopK(ctx context.Context, query string, eligibility []string) ([]Plan, error) {
	vector, err := r.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retriever: embed query: %w", err)
	}
	plans, err := r.searcher.Search(ctx, vector, eligibility, r.limit)
	if err != nil {
		return nil, fmt.Errorf("retriever: search: %w", err)
	}
	return plans, nil
}

// embedQuery consults the cache first; any cache failure degrades to a
// direct embedding call.
func (r *Retriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	key := embedCacheKey(query)

	if r.cache != nil {
		raw, err := r.cache.Get(ctx, key).Result()
		if err == nil {
			var vector []float32
			if jsonErr := json.Unmarshal([]byte(raw), &vector); jsonErr == nil && len(vector) > 0 {
				return vector, nil
			}
		} else if err != redis.Nil {
			log.Printf("retriever: embed cache get failed: %v", err)
		}
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if raw, err := json.Marshal(vector); err == nil {
			if err := r.cache.Set(ctx, key, raw, embedCacheTTL).Err(); err != nil {
				log.Printf("retriever: embed cache set failed: %v", err)
			}
		}
	}
	return vector, nil
}

func embedCacheKey(query string) string {
	sum := sha1.Sum([]byte(query))
	return embedCachePrefix + hex.EncodeToString(sum[:])
}
