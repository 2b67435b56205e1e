package common

import (
	"errors"
	"testing"
)

func TestGuard(t *testing.T) {
	pauses := NewPauseSet()

	if err := Guard(pauses, "swap"); err != nil {
		t.Fatalf("unpaused module guarded: %v", err)
	}
	pauses.SetPaused("swap", true)
	if err := Guard(pauses, "swap"); !errors.Is(err, ErrModulePaused) {
		t.Fatalf("err = %v, want %v", err, ErrModulePaused)
	}
	if err := Guard(pauses, "other"); err != nil {
		t.Fatalf("unrelated module guarded: %v", err)
	}
	pauses.SetPaused("swap", false)
	if err := Guard(pauses, "swap"); err != nil {
		t.Fatalf("unpause not honoured: %v", err)
	}
}

func TestGuardNilView(t *testing.T) {
	if err := Guard(nil, "swap"); err != nil {
		t.Fatalf("nil view guarded: %v", err)
	}
	if err := Guard(NewPauseSet(), ""); err != nil {
		t.Fatalf("empty module guarded: %v", err)
	}
}
