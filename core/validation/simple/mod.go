// Package simple implements a verifier that dispatches the verification of a
// transaction to the contracts of the entity kinds it contains.
package simple

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/pointers"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/validation"
	"golang.org/x/xerrors"
)

var promVerdicts = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "pointers_validation_transactions_total",
	Help: "total number of verified transactions by status",
}, []string{"status"})

func init() {
	pointers.PromCollectors = append(pointers.PromCollectors, promVerdicts)
}

// Service is a verifier holding one contract per entity kind. It is safe for
// concurrent use once the contracts are registered.
//
// - implements validation.Verifier
type Service struct {
	contracts map[ledger.Kind]validation.Contract
}

// NewService returns a new verifier without any contract.
func NewService() *Service {
	return &Service{
		contracts: make(map[ledger.Kind]validation.Contract),
	}
}

// Set registers the contract of the kind. It panics if the kind already has a
// contract.
func (s *Service) Set(kind ledger.Kind, contract validation.Contract) {
	_, found := s.contracts[kind]
	if found {
		panic(fmt.Sprintf("contract for kind '%s' already registered", kind))
	}

	s.contracts[kind] = contract
}

// Verify implements validation.Verifier. It first checks that every kind of the
// view has exactly one command. When this holds, each contract verifies the
// view restricted to its kind, otherwise no contract runs.
func (s *Service) Verify(view ledger.View) (validation.Result, error) {
	kinds := ledger.Kinds(view)

	for _, kind := range kinds {
		if s.contracts[kind] == nil {
			return validation.Result{}, xerrors.Errorf("kind '%s': %w", kind, validation.ErrUnknownKind)
		}
	}

	var violations []validation.Violation

	counts := make(map[ledger.Kind]int)
	for _, cmd := range view.GetCommands() {
		counts[cmd.GetKind()]++
	}

	for _, kind := range kinds {
		if counts[kind] != 1 {
			violations = append(violations, validation.Violation{
				Kind: validation.StructuralViolation,
				Description: fmt.Sprintf("expected exactly one command of kind '%s', got %d",
					kind, counts[kind]),
			})
		}
	}

	if len(violations) > 0 {
		return s.verdict(violations), nil
	}

	for _, kind := range kinds {
		restricted := ledger.Restrict(view, kind)

		res, err := s.contracts[kind].Verify(restricted, restricted.GetCommands()[0])
		if err != nil {
			return validation.Result{}, xerrors.Errorf("contract '%s' failed: %w", kind, err)
		}

		violations = append(violations, res...)
	}

	return s.verdict(violations), nil
}

func (s *Service) verdict(violations []validation.Violation) validation.Result {
	res := validation.NewResult(violations...)

	if res.IsValid() {
		promVerdicts.WithLabelValues("accepted").Inc()
	} else {
		promVerdicts.WithLabelValues("rejected").Inc()

		pointers.Logger.Debug().
			Int("violations", len(violations)).
			Msg("transaction rejected")
	}

	return res
}
