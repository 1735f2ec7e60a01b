// Package validation defines the verifier of the transactions of the ledger
// and the vocabulary of its verdicts.
//
// A verifier never fails because a transaction breaks a rule: the broken rules
// are collected as violations. An error is only returned for a critical fault,
// like a kind without rules or a command the rules do not understand.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"go.dedis.ch/pointers/core/ledger"
)

// ErrUnknownKind is the error returned when a transaction contains an entity
// kind that has no registered contract.
var ErrUnknownKind = errors.New("unknown kind")

// ViolationKind is the category of a broken rule.
type ViolationKind int

const (
	// StructuralViolation is a wrong number of inputs, outputs or commands.
	StructuralViolation ViolationKind = iota

	// FieldInvariantViolation is a field of a state with a forbidden value.
	FieldInvariantViolation

	// SignerViolation is a participant missing from the signers of a
	// command.
	SignerViolation
)

// String implements fmt.Stringer.
func (k ViolationKind) String() string {
	switch k {
	case StructuralViolation:
		return "structural"
	case FieldInvariantViolation:
		return "field invariant"
	case SignerViolation:
		return "signer"
	default:
		return fmt.Sprintf("violation(%d)", int(k))
	}
}

// Violation is a broken rule with a human-readable description.
type Violation struct {
	Kind        ViolationKind
	Description string
}

// String implements fmt.Stringer.
func (v Violation) String() string {
	return fmt.Sprintf("%v: %s", v.Kind, v.Description)
}

// Result is the verdict of a verification.
type Result struct {
	violations []Violation
}

// NewResult returns a verdict with the given violations. It is valid when
// there is none.
func NewResult(violations ...Violation) Result {
	return Result{
		violations: violations,
	}
}

// IsValid returns true if no rule has been broken.
func (r Result) IsValid() bool {
	return len(r.violations) == 0
}

// GetViolations returns the broken rules in the order they were detected.
func (r Result) GetViolations() []Violation {
	return append([]Violation{}, r.violations...)
}

// GetStatus returns true if the transaction is accepted, otherwise false with
// the reason.
func (r Result) GetStatus() (bool, string) {
	if r.IsValid() {
		return true, ""
	}

	descs := make([]string, len(r.violations))
	for i, v := range r.violations {
		descs[i] = v.String()
	}

	return false, strings.Join(descs, "; ")
}

// Contract is the rule set of an entity kind.
type Contract interface {
	// Verify checks the view restricted to the kind of the contract against
	// the single command of this kind. It returns the broken rules, or an
	// error if the command is not recognized.
	Verify(view ledger.View, cmd ledger.Command) ([]Violation, error)
}

// Verifier is the verifier of a whole transaction.
type Verifier interface {
	// Verify returns the verdict of the view, or an error for a critical
	// fault.
	Verify(view ledger.View) (Result, error)
}

// UnrecognizedCommandError is returned by a contract when the command is not
// one of its variants.
type UnrecognizedCommandError struct {
	Kind    ledger.Kind
	Command ledger.CommandData
}

// Error implements error.
func (e *UnrecognizedCommandError) Error() string {
	return fmt.Sprintf("unrecognized command '%T' for kind '%s'", e.Command, e.Kind)
}

// Requirements collects the violations of a contract.
type Requirements struct {
	violations []Violation
}

// Require adds a violation of the given kind with the description when the
// condition is false. It returns the condition.
func (r *Requirements) Require(kind ViolationKind, cond bool, desc string) bool {
	if !cond {
		r.violations = append(r.violations, Violation{Kind: kind, Description: desc})
	}

	return cond
}

// GetViolations returns the collected violations.
func (r *Requirements) GetViolations() []Violation {
	return r.violations
}
