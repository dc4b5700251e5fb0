// README: Age-bracket eligibility classification from a birthdate.
package eligibility

import "time"

// Eligibility tags gate which catalog plans are visible to a query.
// TagAll is always present; the bracket tags are mutually exclusive.
const (
	TagAll   = "ALL"
	TagKid   = "KID"   // age <= 12
	TagBoy   = "BOY"   // age 13-18
	TagYouth = "YOUTH" // age 19-34
	TagOld   = "OLD"   // age >= 65
)

// Classify maps a birthdate (ISO "2006-01-02") to an eligibility list seeded
// with TagAll. A missing or unparseable date is not an error; the caller just
// gets the unrestricted default.
func Classify(birthdate string) []string {
	return classifyAt(birthdate, time.Now())
}

// classifyAt is the clock-injected form used by tests.
func classifyAt(birthdate string, today time.Time) []string {
	list := []string{TagAll}
	if birthdate == "" {
		return list
	}
	birth, err := time.Parse("2006-01-02", birthdate)
	if err != nil {
		return list
	}

	age := today.Year() - birth.Year()
	// No birthday yet this year.
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}

	switch {
	case age <= 12:
		list = append(list, TagKid)
	case age <= 18:
		list = append(list, TagBoy)
	case age <= 34:
		list = append(list, TagYouth)
	case age >= 65:
		list = append(list, TagOld)
	}
	return list
}

// EnsureAll re-asserts TagAll membership on a list that came from an
// untrusted source, preserving the order of the remaining tags.
func EnsureAll(list []string) []string {
	for _, tag := range list {
		if tag == TagAll {
			return list
		}
	}
	return append([]string{TagAll}, list...)
}
