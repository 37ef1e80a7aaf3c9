package catalog

import "strings"

// DecisionStatus is the lifecycle state of an update decision.
type DecisionStatus string

const (
	DecisionPending  DecisionStatus = "pending"
	DecisionApplied  DecisionStatus = "applied"
	DecisionRejected DecisionStatus = "rejected"
)

// Verdict is the operator's call on a review item.
type Verdict string

const (
	VerdictAccept Verdict = "accept"
	VerdictReject Verdict = "reject"
)

// ParseVerdict normalizes an operator-supplied decision value.
func ParseVerdict(raw string) (Verdict, error) {
	switch Verdict(strings.ToLower(strings.TrimSpace(raw))) {
	case VerdictAccept:
		return VerdictAccept, nil
	case VerdictReject:
		return VerdictReject, nil
	default:
		return "", ErrInvalidVerdict
	}
}

// StatusForVerdict maps a verdict to the initial decision status.
func StatusForVerdict(v Verdict, applyNow bool) DecisionStatus {
	if v == VerdictReject {
		return DecisionRejected
	}
	if applyNow {
		return DecisionApplied
	}
	return DecisionPending
}

// CanUndo guards deletion of a decision. Applied decisions keep their audit
// trail and must go through Revert.
func CanUndo(status DecisionStatus) error {
	if status == DecisionApplied {
		return ErrDecisionApplied
	}
	return nil
}

// CanRevert guards revert creation.
func CanRevert(status DecisionStatus) error {
	if status != DecisionApplied {
		return ErrDecisionNotApplied
	}
	return nil
}

// ScanStatus classifies a scan event at submission time.
type ScanStatus string

const (
	ScanOK          ScanStatus = "OK"
	ScanNeedsReview ScanStatus = "NEEDS_REVIEW"
	ScanNotInMaster ScanStatus = "NOT_IN_MASTER"
)

// ClassifyScan derives the scan status from snapshot presence and whether
// the snapshot satisfies the campaign targets.
func ClassifyScan(hasSnapshot bool, meetsTargets bool) ScanStatus {
	switch {
	case !hasSnapshot:
		return ScanNotInMaster
	case !meetsTargets:
		return ScanNeedsReview
	default:
		return ScanOK
	}
}
