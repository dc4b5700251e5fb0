// README: User profile model and correction outcome types.
package profile

// UserProfile is the caller-supplied subscriber profile. The core never
// persists it; a corrected copy may be returned to the caller as advisory
// output for the next turn.
type UserProfile struct {
	Birthdate       string `json:"birthdate"`
	TelecomProvider string `json:"telecomProvider"`
	PlanName        string `json:"planName"`
	FamilyBundle    string `json:"familyBundle"`
	Persona         string `json:"persona"`
}

// CorrectionInput bundles everything the corrector sees for one turn.
type CorrectionInput struct {
	Query          string
	History        []string
	Profile        UserProfile
	Eligibility    []string // seed list from the birthdate classifier
	AmbiguousCount int
}

// Correction is the corrector's outcome.
//
// When Terminal is non-nil the turn was a greeting / noise exchange and the
// whole pipeline short-circuits with the terminal message. Otherwise Profile
// and Eligibility carry the (possibly corrected) state to use downstream;
// Applied reports whether the generative correction actually took, so the
// caller knows whether the state is advisory output worth returning.
type Correction struct {
	Terminal    *Refusal
	Profile     UserProfile
	Eligibility []string
	Applied     bool
}

// Refusal is a fixed terminal response that bypasses retrieval.
type Refusal struct {
	Message string
}
