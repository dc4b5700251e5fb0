// README: LLM-mediated profile correction and greeting/noise gate.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"planpick/internal/ai"
	"planpick/internal/modules/eligibility"
)

// Corrector reconciles the stored profile against new conversational
// evidence before any catalog search happens, and short-circuits turns that
// are not recommendation requests at all.
type Corrector struct {
	chat ai.ChatModel

	ambiguousThreshold int
	greetingMessage    string
	fallbackMessage    string
	escalateMessage    string
}

// CorrectorOptions carries the rule-set literals the correction prompt
// embeds. Zero values fall back to the canonical Korean texts.
type CorrectorOptions struct {
	AmbiguousThreshold int
	GreetingMessage    string
	FallbackMessage    string
	EscalateMessage    string
}

func NewCorrector(chat ai.ChatModel, opts CorrectorOptions) *Corrector {
	if opts.AmbiguousThreshold <= 0 {
		opts.AmbiguousThreshold = 3
	}
	if opts.GreetingMessage == "" {
		opts.GreetingMessage = "안녕하세요! LG U+ 요금제 추천을 도와드릴게요. 원하시는 조건을 말씀해 주세요."
	}
	if opts.FallbackMessage == "" {
		opts.FallbackMessage = "질문을 잘 알아듣지 못했어요."
	}
	if opts.EscalateMessage == "" {
		opts.EscalateMessage = "질문을 잘 알아듣지 못했어요. 고객센터로 연결해드리겠습니다."
	}
	return &Corrector{
		chat:               chat,
		ambiguousThreshold: opts.AmbiguousThreshold,
		greetingMessage:    opts.GreetingMessage,
		fallbackMessage:    opts.FallbackMessage,
		escalateMessage:    opts.EscalateMessage,
	}
}

// correctionReply is the union of the two JSON shapes the model may emit:
// a terminal refusal or a continuation payload.
type correctionReply struct {
	Status          *bool        `json:"status"`
	Message         string       `json:"message"`
	UserProfile     *UserProfile `json:"userProfile"`
	EligibilityList []string     `json:"eligibilityList"`
}

// Correct issues one non-streaming generative call and interprets the reply.
// Correction failure is never fatal: any error or unparseable reply degrades
// to the original profile and seed eligibility list.
func (c *Corrector) Correct(ctx context.Context, in CorrectionInput) (Correction, error) {
	passthrough := Correction{
		Profile:     in.Profile,
		Eligibility: eligibility.EnsureAll(in.Eligibility),
	}

	raw, err := c.chat.Complete(ctx, c.buildPrompt(in), in.Query)
	if err != nil {
		log.Printf("corrector: generative call failed, using original profile: %v", err)
		return passthrough, nil
	}

	var reply correctionReply
	if err := json.Unmarshal([]byte(cleanJSONString(raw)), &reply); err != nil {
		log.Printf("corrector: unparseable reply, using original profile: %v", err)
		return passthrough, nil
	}

	if reply.Status != nil && !*reply.Status {
		msg := reply.Message
		if msg == "" {
			msg = c.fallbackMessage
		}
		return Correction{Terminal: &Refusal{Message: msg}}, nil
	}

	corrected := in.Profile
	if reply.UserProfile != nil {
		corrected = mergeProfile(in.Profile, *reply.UserProfile)
	}
	elig := in.Eligibility
	if len(reply.EligibilityList) > 0 {
		elig = reply.EligibilityList
	}

	return Correction{
		Profile: corrected,
		// Never trust the model to keep ALL in the set.
		Eligibility: eligibility.EnsureAll(elig),
		Applied:     reply.UserProfile != nil || len(reply.EligibilityList) > 0,
	}, nil
}

// mergeProfile overlays non-empty corrected fields on the original.
func mergeProfile(original, corrected UserProfile) UserProfile {
	out := original
	if corrected.Birthdate != "" {
		out.Birthdate = corrected.Birthdate
	}
	if corrected.TelecomProvider != "" {
		out.TelecomProvider = corrected.TelecomProvider
	}
	if corrected.PlanName != "" {
		out.PlanName = corrected.PlanName
	}
	if corrected.FamilyBundle != "" {
		out.FamilyBundle = corrected.FamilyBundle
	}
	if corrected.Persona != "" {
		out.Persona = corrected.Persona
	}
	return out
}

func (c *Corrector) buildPrompt(in CorrectionInput) string {
	profileJSON, _ := json.Marshal(in.Profile)
	eligJSON, _ := json.Marshal(eligibility.EnsureAll(in.Eligibility))
	historyJSON, _ := json.Marshal(in.History)

	noiseMessage := c.fallbackMessage
	if in.AmbiguousCount >= c.ambiguousThreshold {
		noiseMessage = c.escalateMessage
	}

	return fmt.Sprintf(`당신은 통신 요금제 추천 챗봇의 사전 분류기이자 사용자 프로필 교정기입니다.
사용자의 입력 메시지를 아래 세 가지 중 하나로 판정하고, 반드시 JSON만 출력하세요.

1. 요금제 추천 요청인 경우:
   - 연령 특화 요청("시니어 요금제", "키즈 요금제" 등)은 프로필에 해당 나이가 없어도 항상 추천 요청으로 판정합니다.
   - 대화나 입력에서 저장된 프로필과 다른 사실(통신사 변경, 가족 결합, 연령대 언급 등)이 드러나면 해당 필드만 고쳐서 출력합니다.
   - 인구집단 언급("시니어", "청소년" 등)이 있으면 eligibilityList에 대응 태그(OLD, BOY, YOUTH, KID)를 추가합니다. "ALL"은 항상 포함합니다.
   - 출력 형식:
   {"userProfile": {"birthdate": "...", "telecomProvider": "...", "planName": "...", "familyBundle": "...", "persona": "..."}, "eligibilityList": ["ALL", ...]}

2. 단순 인사말이나 자기소개 요청인 경우 ("ㅎㅇ", "하이", "hello", "hi", "안녕", "^^", "반가워", "넌 누구야"):
   - 출력 형식:
   {"status": false, "item": [], "message": "%s"}

3. 의미 없는 입력인 경우 (감탄사·추임새만 있는 말: "헐", "하", "ㅋㅋㅋ", "몰라요" / 요금제와 무관한 일상 문장: "배고파요", "날씨 좋다", "심심해" / 무의미한 문자열: "fh", "gd", "ㅇㅇ"):
   - 출력 형식:
   {"status": false, "item": [], "message": "%s"}

현재 저장된 사용자 프로필: %s
현재 eligibilityList: %s
이전 대화 (오래된 것부터): %s
연속으로 알아듣지 못한 횟수: %d

JSON 외의 텍스트, 마크다운, 설명을 절대 출력하지 마세요.`,
		c.greetingMessage, noiseMessage, profileJSON, eligJSON, historyJSON, in.AmbiguousCount)
}

// cleanJSONString removes markdown code fences if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
