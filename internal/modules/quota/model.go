package quota

import "errors"

// ErrQuotaExhausted is returned when a client has no chat turns remaining for the current day.
var ErrQuotaExhausted = errors.New("quota exhausted")

// DefaultDailyTurns is the number of chat turns granted per client per day.
const DefaultDailyTurns = 100
