// README: Eligibility classifier tests (bracket boundaries + defaults).
package eligibility

import (
	"testing"
	"time"
)

func TestClassifyBrackets(t *testing.T) {
	// Fixed "today" so ages are deterministic.
	today := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		birthdate string
		want      []string
	}{
		{"age 12 is KID", "2014-01-01", []string{TagAll, TagKid}},
		{"age 13 is BOY", "2013-01-01", []string{TagAll, TagBoy}},
		{"age 18 is BOY", "2008-01-01", []string{TagAll, TagBoy}},
		{"age 19 is YOUTH", "2007-01-01", []string{TagAll, TagYouth}},
		{"age 34 is YOUTH", "1992-01-01", []string{TagAll, TagYouth}},
		{"age 35 has no bracket", "1991-01-01", []string{TagAll}},
		{"age 64 has no bracket", "1962-01-01", []string{TagAll}},
		{"age 65 is OLD", "1961-01-01", []string{TagAll, TagOld}},
		{"empty date", "", []string{TagAll}},
		{"garbage date", "not-a-date", []string{TagAll}},
		// Birthday later this year: born 2013-12-01, still 12 on 2026-06-15.
		{"pre-birthday decrement", "2013-12-01", []string{TagAll, TagKid}},
		// Birthday exactly today: full 13 years elapsed.
		{"birthday today counts", "2013-06-15", []string{TagAll, TagBoy}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyAt(tc.birthdate, today)
			if len(got) != len(tc.want) {
				t.Fatalf("classifyAt(%q) = %v, want %v", tc.birthdate, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("classifyAt(%q) = %v, want %v", tc.birthdate, got, tc.want)
				}
			}
		})
	}
}

func TestClassifyAlwaysSeedsAll(t *testing.T) {
	for _, birthdate := range []string{"", "2015-01-01", "1950-12-31", "bogus"} {
		got := Classify(birthdate)
		if len(got) == 0 || got[0] != TagAll {
			t.Errorf("Classify(%q) = %v, missing leading %s", birthdate, got, TagAll)
		}
	}
}

func TestEnsureAll(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{TagKid}, []string{TagAll, TagKid}},
		{[]string{TagAll, TagOld}, []string{TagAll, TagOld}},
		{[]string{}, []string{TagAll}},
		{[]string{TagYouth, TagAll}, []string{TagYouth, TagAll}},
	}
	for _, tc := range cases {
		got := EnsureAll(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("EnsureAll(%v) = %v, want %v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("EnsureAll(%v) = %v, want %v", tc.in, got, tc.want)
			}
		}
	}
}
