package invitation

import (
	"testing"
	"time"
)

func TestExpiredAtBoundary(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if ExpiredAt(deadline, deadline.Add(-time.Millisecond)) {
		t.Error("just before the deadline must not be expired")
	}
	if ExpiredAt(deadline, deadline) {
		t.Error("exactly at the deadline must not be expired")
	}
	if !ExpiredAt(deadline, deadline.Add(time.Millisecond)) {
		t.Error("just past the deadline must be expired")
	}
}

func TestEffectiveStatusDerivesExpiryWithoutMutation(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inv := Invitation{Status: StatusPending, ExpiresAt: deadline}

	if got := inv.EffectiveStatus(deadline.Add(-time.Hour)); got != StatusPending {
		t.Errorf("before expiry: status = %s, want pending", got)
	}
	if got := inv.EffectiveStatus(deadline.Add(time.Hour)); got != StatusExpired {
		t.Errorf("after expiry: status = %s, want expired", got)
	}
	if inv.Status != StatusPending {
		t.Errorf("stored status = %s, deriving expiry must not mutate it", inv.Status)
	}
}

func TestEffectiveStatusLeavesProcessedAlone(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	late := deadline.Add(time.Hour)

	for _, status := range []Status{StatusAccepted, StatusRejected} {
		inv := Invitation{Status: status, ExpiresAt: deadline}
		if got := inv.EffectiveStatus(late); got != status {
			t.Errorf("EffectiveStatus(%s past expiry) = %s, want %s", status, got, status)
		}
	}
}

func TestUsable(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	early := deadline.Add(-time.Hour)
	late := deadline.Add(time.Hour)

	pending := Invitation{Status: StatusPending, ExpiresAt: deadline}
	if !pending.Usable(early) {
		t.Error("fresh pending invitation must be usable")
	}
	if pending.Usable(late) {
		t.Error("expired pending invitation must not be usable")
	}

	accepted := Invitation{Status: StatusAccepted, ExpiresAt: deadline}
	if accepted.Usable(early) {
		t.Error("accepted invitation must not be usable")
	}
}
