package catalog

import (
	"errors"
	"testing"
)

func TestParseVerdict(t *testing.T) {
	if v, err := ParseVerdict(" Accept "); err != nil || v != VerdictAccept {
		t.Fatalf("ParseVerdict(accept) = %v, %v", v, err)
	}
	if _, err := ParseVerdict("approve"); !errors.Is(err, ErrInvalidVerdict) {
		t.Fatalf("ParseVerdict(approve) error = %v, want ErrInvalidVerdict", err)
	}
}

func TestStatusForVerdict(t *testing.T) {
	if got := StatusForVerdict(VerdictReject, true); got != DecisionRejected {
		t.Fatalf("reject = %v", got)
	}
	if got := StatusForVerdict(VerdictAccept, true); got != DecisionApplied {
		t.Fatalf("accept+apply = %v", got)
	}
	if got := StatusForVerdict(VerdictAccept, false); got != DecisionPending {
		t.Fatalf("accept = %v", got)
	}
}

func TestUndoRevertGuards(t *testing.T) {
	if err := CanUndo(DecisionPending); err != nil {
		t.Fatalf("undo pending: %v", err)
	}
	if err := CanUndo(DecisionRejected); err != nil {
		t.Fatalf("undo rejected: %v", err)
	}
	if err := CanUndo(DecisionApplied); !errors.Is(err, ErrDecisionApplied) {
		t.Fatalf("undo applied error = %v", err)
	}

	if err := CanRevert(DecisionApplied); err != nil {
		t.Fatalf("revert applied: %v", err)
	}
	if err := CanRevert(DecisionPending); !errors.Is(err, ErrDecisionNotApplied) {
		t.Fatalf("revert pending error = %v", err)
	}
}

func TestClassifyScan(t *testing.T) {
	if got := ClassifyScan(false, true); got != ScanNotInMaster {
		t.Fatalf("no snapshot = %v", got)
	}
	if got := ClassifyScan(true, false); got != ScanNeedsReview {
		t.Fatalf("missed targets = %v", got)
	}
	if got := ClassifyScan(true, true); got != ScanOK {
		t.Fatalf("ok = %v", got)
	}
}
