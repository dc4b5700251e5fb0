// README: Recommendation result types and the versionable rule set.
package recommend

import (
	"time"

	"planpick/internal/modules/profile"
)

// Item is one recommended plan reference. Link must always be a planUrl
// drawn from the candidate set of the same request.
type Item struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Result is the decision shape the generative model is instructed to emit:
// a terminal refusal (Status false, empty Item) or a recommendation with up
// to three items and a formatted message.
type Result struct {
	Status  bool   `json:"status"`
	Item    []Item `json:"item"`
	Message string `json:"message"`
}

// Header is the first framed line of the streamed response. The optional
// profile fields carry advisory correction output back to the caller.
type Header struct {
	Status          bool                 `json:"status"`
	Item            []Item               `json:"item"`
	UserProfile     *profile.UserProfile `json:"userProfile,omitempty"`
	EligibilityList []string             `json:"eligibilityList,omitempty"`
}

// Ruleset parameterizes one pipeline revision: thresholds, candidate limit,
// refusal texts and output pacing live here instead of being scattered
// across handler copies.
type Ruleset struct {
	// CandidateLimit is the top-K passed to retrieval.
	CandidateLimit int

	// AmbiguousThreshold selects between the two refusal tiers; counts at
	// or above it escalate to the human-agent message.
	AmbiguousThreshold int

	// MaxItems caps how many plans one answer may recommend.
	MaxItems int

	// CharDelay is the inter-character pacing of the message region.
	CharDelay time.Duration

	GreetingMessage string
	FallbackMessage string
	EscalateMessage string
}

// DefaultRuleset returns the canonically deployed rule values.
func DefaultRuleset() Ruleset {
	return Ruleset{
		CandidateLimit:     10,
		AmbiguousThreshold: 3,
		MaxItems:           3,
		CharDelay:          5 * time.Millisecond,
		GreetingMessage:    "안녕하세요! LG U+ 요금제 추천을 도와드릴게요. 원하시는 조건을 말씀해 주세요.",
		FallbackMessage:    "질문을 잘 알아듣지 못했어요.",
		EscalateMessage:    "질문을 잘 알아듣지 못했어요. 고객센터로 연결해드리겠습니다.",
	}
}

// FallbackFor picks the refusal tier for the given ambiguous count.
func (r Ruleset) FallbackFor(ambiguousCount int) string {
	if ambiguousCount >= r.AmbiguousThreshold {
		return r.EscalateMessage
	}
	return r.FallbackMessage
}
