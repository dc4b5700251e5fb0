// README: Catalog ingestion: embed plan descriptors and upsert them.
package catalog

import (
	"context"
	"fmt"

	"planpick/internal/ai"
)

// Upserter stores plans with their vectors. *Store satisfies it.
type Upserter interface {
	Upsert(ctx context.Context, plans []Plan, vectors [][]float32) error
}

// Ingestor embeds each plan's descriptor text and writes the whole batch to
// the vector store. Re-ingesting a plan ID overwrites the previous record.
type Ingestor struct {
	embedder ai.EmbeddingClient
	store    Upserter
}

func NewIngestor(embedder ai.EmbeddingClient, store Upserter) *Ingestor {
	return &Ingestor{embedder: embedder, store: store}
}

// Ingest indexes the given plans and returns how many were written. The
// batch is all-or-nothing: any embedding or storage failure aborts it.
func (ing *Ingestor) Ingest(ctx context.Context, plans []Plan) (int, error) {
	if len(plans) == 0 {
		return 0, nil
	}

	vectors := make([][]float32, 0, len(plans))
	for _, p := range plans {
		vec, err := ing.embedder.Embed(ctx, p.DescriptorText())
		if err != nil {
			return 0, fmt.Errorf("catalog: embed plan %d: %w", p.PlanID, err)
		}
		vectors = append(vectors, vec)
	}

	if err := ing.store.Upsert(ctx, plans, vectors); err != nil {
		return 0, fmt.Errorf("catalog: upsert batch: %w", err)
	}
	return len(plans), nil
}
