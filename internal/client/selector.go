package client

// Reconcile keeps the active household id valid against the current list.
// A still-present selection is stable regardless of where it moved in the
// list; a missing or empty selection falls back to the first household, or
// to "" when none remain. Pure function; the registry re-runs it after
// every operation that can change the list.
func Reconcile(households []Household, activeID string) string {
	if activeID != "" {
		for _, h := range households {
			if h.ID == activeID {
				return activeID
			}
		}
	}
	if len(households) > 0 {
		return households[0].ID
	}
	return ""
}
