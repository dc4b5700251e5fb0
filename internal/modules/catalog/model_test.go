package catalog

import (
	"strings"
	"testing"
)

func TestDescriptorTextContainsTariffFigures(t *testing.T) {
	p := Plan{
		PlanID:            7,
		Name:              "5G 청소년 요금제",
		BaseDataGb:        "9",
		DailyDataGb:       "2",
		SharingDataGb:     "1",
		MonthlyFee:        45000,
		VoiceCallPrice:    "무제한",
		SMS:               "기본제공",
		ThrottleSpeedKbps: 1000,
		Eligibility:       "BOY",
		MobileType:        "5G",
		IsOnline:          1,
		Description:       "청소년 전용 데이터 요금제",
	}
	text := p.DescriptorText()
	for _, want := range []string{"5G 청소년 요금제", "기본 데이터 9GB", "월 45000원", "속도제한 1000Kbps", "대상 BOY"} {
		if !strings.Contains(text, want) {
			t.Errorf("DescriptorText() missing %q in %q", want, text)
		}
	}
}

func TestObjectIDIsDeterministic(t *testing.T) {
	if ObjectID(42) != ObjectID(42) {
		t.Error("ObjectID not stable for the same plan id")
	}
	if ObjectID(1) == ObjectID(2) {
		t.Error("ObjectID collision for distinct plan ids")
	}
}
