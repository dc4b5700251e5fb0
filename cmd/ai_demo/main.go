package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"planpick/internal/ai"
	"planpick/internal/modules/eligibility"
	"planpick/internal/modules/profile"
)

func main() {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	provider, err := ai.NewOpenAIProvider(apiKey, ai.OpenAIOptions{})
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}

	corrector := profile.NewCorrector(provider, profile.CorrectorOptions{})

	userProfile := profile.UserProfile{
		Birthdate:       "1995-03-02",
		TelecomProvider: "SKT",
		PlanName:        "T플랜 에센스",
		FamilyBundle:    "없음",
		Persona:         "데이터 헤비",
	}
	query := "사실 저 KT 쓰고 있는데, 데이터 무제한으로 추천해주세요"
	fmt.Printf("User: %s\n", query)

	result, err := corrector.Correct(ctx, profile.CorrectionInput{
		Query:       query,
		Profile:     userProfile,
		Eligibility: eligibility.Classify(userProfile.Birthdate),
	})
	if err != nil {
		log.Fatalf("Error correcting profile: %v", err)
	}

	if result.Terminal != nil {
		fmt.Printf("Terminal: %s\n", result.Terminal.Message)
		return
	}
	fmt.Printf("Applied: %v\n", result.Applied)
	fmt.Printf("Provider: %s\n", result.Profile.TelecomProvider)
	fmt.Printf("Eligibility: %v\n", result.Eligibility)
}
