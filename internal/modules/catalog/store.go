// README: Plan catalog store backed by Weaviate (schema, upsert, filtered search).
package catalog

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// ClassName is the Weaviate class holding the plan catalog.
const ClassName = "TelecomPlan"

type Store struct {
	client *weaviate.Client
}

func NewStore(client *weaviate.Client) *Store {
	return &Store{client: client}
}

// planSchema returns the catalog class definition. Vectors are supplied by
// the ingestion path, so the class vectorizer is "none".
func planSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:      ClassName,
		Vectorizer: "none",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
		Properties: []*models.Property{
			{Name: "planId", DataType: []string{"int"}, IndexFilterable: indexFilterable},
			{Name: "name", DataType: []string{"text"}, Tokenization: "field"},
			{Name: "baseDataGb", DataType: []string{"text"}},
			{Name: "dailyDataGb", DataType: []string{"text"}},
			{Name: "sharingDataGb", DataType: []string{"text"}},
			{Name: "monthlyFee", DataType: []string{"int"}},
			{Name: "voiceCallPrice", DataType: []string{"text"}},
			{Name: "sms", DataType: []string{"text"}},
			{Name: "throttleSpeedKbps", DataType: []string{"int"}},
			{Name: "eligibility", DataType: []string{"text"}, IndexFilterable: indexFilterable, Tokenization: "field"},
			{Name: "mobileType", DataType: []string{"text"}},
			{Name: "isOnline", DataType: []string{"int"}},
			{Name: "planUrl", DataType: []string{"text"}, Tokenization: "field"},
			{Name: "telecomProvider", DataType: []string{"text"}},
			{Name: "description", DataType: []string{"text"}},
		},
	}
}

// EnsureSchema creates the catalog class if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	exists, err := s.client.Schema().ClassExistenceChecker().WithClassName(ClassName).Do(ctx)
	if err != nil {
		return fmt.Errorf("catalog: check class: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.Schema().ClassCreator().WithClass(planSchema()).Do(ctx); err != nil {
		return fmt.Errorf("catalog: create class: %w", err)
	}
	return nil
}

// ObjectID derives a stable UUID from the plan identifier so re-ingesting
// the same plan overwrites its previous record.
func ObjectID(planID int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("telecom-plan-%d", planID))).String()
}

// Upsert writes plans and their vectors into the catalog in one batch.
// Batch writes are put-by-ID, which gives idempotent overwrite semantics.
func (s *Store) Upsert(ctx context.Context, plans []Plan, vectors [][]float32) error {
	if len(plans) != len(vectors) {
		return fmt.Errorf("catalog: %d plans but %d vectors", len(plans), len(vectors))
	}
	if len(plans) == 0 {
		return nil
	}

	objects := make([]*models.Object, len(plans))
	for i, p := range plans {
		objects[i] = &models.Object{
			Class: ClassName,
			ID:    strfmt.UUID(ObjectID(p.PlanID)),
			Properties: map[string]interface{}{
				"planId":            p.PlanID,
				"name":              p.Name,
				"baseDataGb":        p.BaseDataGb,
				"dailyDataGb":       p.DailyDataGb,
				"sharingDataGb":     p.SharingDataGb,
				"monthlyFee":        p.MonthlyFee,
				"voiceCallPrice":    p.VoiceCallPrice,
				"sms":               p.SMS,
				"throttleSpeedKbps": p.ThrottleSpeedKbps,
				"eligibility":       p.Eligibility,
				"mobileType":        p.MobileType,
				"isOnline":          p.IsOnline,
				"planUrl":           p.PlanURL,
				"telecomProvider":   p.TelecomProvider,
				"description":       p.Description,
			},
			Vector: vectors[i],
		}
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return fmt.Errorf("catalog: batch upsert: %w", err)
	}
	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			return fmt.Errorf("catalog: upsert object %s: %s", obj.ID, obj.Result.Errors.Error[0].Message)
		}
	}
	return nil
}

// Search runs a near-vector query restricted to plans whose eligibility tag
// is a member of the given list. The filter is a hard constraint applied
// before ranking, not a re-rank signal. An empty result is valid.
func (s *Store) Search(ctx context.Context, vector []float32, eligibility []string, limit int) ([]Plan, error) {
	if len(eligibility) == 0 {
		eligibility = []string{"ALL"}
	}

	// Match-any over the eligibility list.
	operands := make([]*filters.WhereBuilder, len(eligibility))
	for i, tag := range eligibility {
		operands[i] = filters.Where().
			WithPath([]string{"eligibility"}).
			WithOperator(filters.Equal).
			WithValueString(tag)
	}
	where := filters.Where().WithOperator(filters.Or).WithOperands(operands)

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	fields := []graphql.Field{
		{Name: "planId"},
		{Name: "name"},
		{Name: "baseDataGb"},
		{Name: "dailyDataGb"},
		{Name: "sharingDataGb"},
		{Name: "monthlyFee"},
		{Name: "voiceCallPrice"},
		{Name: "sms"},
		{Name: "throttleSpeedKbps"},
		{Name: "eligibility"},
		{Name: "mobileType"},
		{Name: "isOnline"},
		{Name: "planUrl"},
		{Name: "telecomProvider"},
		{Name: "description"},
	}

	result, err := s.client.GraphQL().Get().
		WithClassName(ClassName).
		WithFields(fields...).
		WithWhere(where).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("catalog: search: %s", result.Errors[0].Message)
	}

	return parseSearchResults(result.Data)
}

func parseSearchResults(data map[string]models.JSONObject) ([]Plan, error) {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	objects, ok := get[ClassName].([]interface{})
	if !ok {
		return nil, nil
	}

	plans := make([]Plan, 0, len(objects))
	for _, obj := range objects {
		m, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		plans = append(plans, Plan{
			PlanID:            getInt(m, "planId"),
			Name:              getString(m, "name"),
			BaseDataGb:        getString(m, "baseDataGb"),
			DailyDataGb:       getString(m, "dailyDataGb"),
			SharingDataGb:     getString(m, "sharingDataGb"),
			MonthlyFee:        getInt(m, "monthlyFee"),
			VoiceCallPrice:    getString(m, "voiceCallPrice"),
			SMS:               getString(m, "sms"),
			ThrottleSpeedKbps: getInt(m, "throttleSpeedKbps"),
			Eligibility:       getString(m, "eligibility"),
			MobileType:        getString(m, "mobileType"),
			IsOnline:          getInt(m, "isOnline"),
			PlanURL:           getString(m, "planUrl"),
			TelecomProvider:   getString(m, "telecomProvider"),
			Description:       getString(m, "description"),
		})
	}
	return plans, nil
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt handles GraphQL numbers, which arrive as float64.
func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}
