package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsFindsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("update deal: %w", NotFound("deal not found"))
	if !Is(err, KindNotFound) {
		t.Fatal("expected not found kind in chain")
	}
	if Is(err, KindConflict) {
		t.Fatal("unexpected conflict kind")
	}
	if Is(errors.New("plain"), KindNotFound) {
		t.Fatal("untyped error must not match a kind")
	}
}

func TestDependencyFailureKeepsCause(t *testing.T) {
	cause := errors.New("db down")
	err := DependencyFailure("linked lead was not updated", cause)
	if !Is(err, KindDependency) {
		t.Fatalf("kind = %v", err.Kind)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must stay reachable through Unwrap")
	}
}
