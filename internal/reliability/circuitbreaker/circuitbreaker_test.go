package circuitbreaker

import (
	"testing"
	"time"
)

func TestOpensAfterThreshold(t *testing.T) {
	cb := New(3, 1, time.Minute)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
	}
	if cb.GetState() != StateClosed {
		t.Fatal("circuit should stay closed below the threshold")
	}

	cb.RecordFailure()
	if cb.GetState() != StateOpen {
		t.Fatal("circuit should open at the threshold")
	}
	if cb.AllowRequest() {
		t.Fatal("open circuit should reject requests")
	}
}

func TestHalfOpenAfterTimeout(t *testing.T) {
	cb := New(1, 1, 10*time.Millisecond)

	cb.RecordFailure()
	if cb.AllowRequest() {
		t.Fatal("open circuit should reject before the timeout")
	}

	time.Sleep(20 * time.Millisecond)
	if !cb.AllowRequest() {
		t.Fatal("circuit should allow a probe after the timeout")
	}
	if cb.GetState() != StateHalfOpen {
		t.Fatalf("expected half-open, got %v", cb.GetState())
	}
}

func TestHalfOpenClosesOnSuccess(t *testing.T) {
	cb := New(1, 2, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	cb.AllowRequest()

	cb.RecordSuccess()
	if cb.GetState() != StateHalfOpen {
		t.Fatal("circuit should need two successes to close")
	}
	cb.RecordSuccess()
	if cb.GetState() != StateClosed {
		t.Fatal("circuit should close after the success threshold")
	}
}

func TestHalfOpenReopensOnFailure(t *testing.T) {
	cb := New(1, 1, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	cb.AllowRequest()

	cb.RecordFailure()
	if cb.GetState() != StateOpen {
		t.Fatal("failed probe should reopen the circuit")
	}
}

func TestStateChangeCallback(t *testing.T) {
	cb := New(1, 1, time.Minute)

	var transitions []State
	cb.SetStateChangeCallback(func(_, to State) {
		transitions = append(transitions, to)
	})

	cb.RecordFailure()
	if len(transitions) != 1 || transitions[0] != StateOpen {
		t.Fatalf("expected one transition to open, got %v", transitions)
	}
}
