package catalog

import "errors"

var (
	ErrInvalidVerdict     = errors.New("decision must be accept or reject")
	ErrDecisionApplied    = errors.New("applied decisions cannot be undone, revert instead")
	ErrDecisionNotApplied = errors.New("only applied decisions can be reverted")
)
