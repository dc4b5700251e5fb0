// README: Plan catalog record and its embedding descriptor text.
package catalog

import "fmt"

// Plan is one telecom pricing plan as indexed in the catalog. Records are
// immutable once indexed; only the ingestion path writes them.
type Plan struct {
	PlanID            int    `json:"planId"`
	Name              string `json:"name"`
	BaseDataGb        string `json:"baseDataGb"`
	DailyDataGb       string `json:"dailyDataGb"`
	SharingDataGb     string `json:"sharingDataGb"`
	MonthlyFee        int    `json:"monthlyFee"`
	VoiceCallPrice    string `json:"voiceCallPrice"`
	SMS               string `json:"sms"`
	ThrottleSpeedKbps int    `json:"throttleSpeedKbps"`
	Eligibility       string `json:"eligibility"`
	MobileType        string `json:"mobileType"`
	IsOnline          int    `json:"isOnline"`
	PlanURL           string `json:"planUrl"`
	TelecomProvider   string `json:"telecomProvider"`
	Description       string `json:"description"`
}

// DescriptorText renders the single-line Korean description that gets
// embedded for similarity search. Keeping every tariff figure in the text is
// what lets usage-pattern queries ("유튜브를 자주 봐요") land near
// high-data plans.
func (p Plan) DescriptorText() string {
	return fmt.Sprintf(
		"%s 요금제, 기본 데이터 %sGB, 일일 %sGB, 공유 %sGB, 월 %d원, 통화 %s분, SMS %s건, 속도제한 %dKbps, 대상 %s, 망 %s, 데이터 %d, 설명 %s",
		p.Name, p.BaseDataGb, p.DailyDataGb, p.SharingDataGb, p.MonthlyFee,
		p.VoiceCallPrice, p.SMS, p.ThrottleSpeedKbps, p.Eligibility,
		p.MobileType, p.IsOnline, p.Description,
	)
}
