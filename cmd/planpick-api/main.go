// README: Entry point; loads config, wires the recommendation pipeline, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"planpick/internal/ai"
	"planpick/internal/config"
	httptransport "planpick/internal/http"
	"planpick/internal/http/middleware"
	"planpick/internal/infra"
	"planpick/internal/modules/catalog"
	"planpick/internal/modules/profile"
	"planpick/internal/modules/quota"
	"planpick/internal/modules/recommend"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openaiProvider, err := ai.NewOpenAIProvider(cfg.AI.OpenAIKey, ai.OpenAIOptions{
		ChatModel:  cfg.AI.ChatModel,
		EmbedModel: cfg.AI.EmbedModel,
	})
	if err != nil {
		log.Fatalf("openai init: %v", err)
	}

	var chat ai.ChatModel = openaiProvider
	if cfg.AI.Provider == "gemini" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		chat = gemini
	}

	weaviateClient, err := infra.NewWeaviate(cfg.Weaviate.Host, cfg.Weaviate.Scheme)
	if err != nil {
		log.Fatalf("weaviate init: %v", err)
	}

	store := catalog.NewStore(weaviateClient)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("catalog schema: %v", err)
	}

	embedCache := infra.NewRedis(cfg.Redis.Addr)
	if !cfg.Redis.Enabled {
		embedCache = nil
	}

	rules := recommend.DefaultRuleset()
	rules.CandidateLimit = cfg.Pipeline.CandidateLimit
	rules.AmbiguousThreshold = cfg.Pipeline.AmbiguousThreshold

	retriever := catalog.NewRetriever(openaiProvider, store, embedCache, rules.CandidateLimit)
	ingestor := catalog.NewIngestor(openaiProvider, store)
	corrector := profile.NewCorrector(chat, profile.CorrectorOptions{
		AmbiguousThreshold: rules.AmbiguousThreshold,
	})

	recommendSvc := recommend.NewService(corrector, retriever, chat, rules)

	var turnQuota middleware.TurnQuota
	if cfg.Pipeline.DailyTurnLimit > 0 && embedCache != nil {
		turnQuota = quota.NewService(quota.NewStore(embedCache, cfg.Pipeline.DailyTurnLimit))
	}

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Recommender: recommendSvc,
		Ingestor:    ingestor,
		Quota:       turnQuota,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
