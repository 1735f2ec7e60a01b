package order

import (
	"go.dedis.ch/pointers/contracts/product"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/ledger/tx"
	"go.dedis.ch/pointers/core/validation"
	"go.dedis.ch/pointers/core/validation/simple"
	"go.dedis.ch/pointers/crypto"
	"golang.org/x/xerrors"
)

// RegisterContract registers the order contract to the verifier.
func RegisterContract(srvc *simple.Service, c Contract) {
	srvc.Set(Kind, c)
}

// RegisterFactories registers the order factories so that the transaction
// factory can decode the orders and their commands.
func RegisterFactories(fac tx.TransactionFactory, pubkeyFac crypto.PublicKeyFactory) {
	fac.Register(Kind, NewStateFactory(pubkeyFac), NewCommandFactory())
}

// Contract is the rule set of the orders. The product pointer is not resolved:
// the verification only depends on the transaction.
//
// - implements validation.Contract
type Contract struct{}

// NewContract returns a new order contract.
func NewContract() Contract {
	return Contract{}
}

// Verify implements validation.Contract. It verifies the view restricted to the
// orders according to the command.
func (c Contract) Verify(view ledger.View, cmd ledger.Command) ([]validation.Violation, error) {
	switch cmd.GetData().(type) {
	case Create:
		return c.verifyCreate(view, cmd)
	default:
		return nil, &validation.UnrecognizedCommandError{Kind: Kind, Command: cmd.GetData()}
	}
}

func (c Contract) verifyCreate(view ledger.View, cmd ledger.Command) ([]validation.Violation, error) {
	reqs := validation.Requirements{}

	reqs.Require(validation.StructuralViolation, len(view.GetInputs()) == 0,
		"no input should be consumed when creating an order")

	outputs := view.GetOutputs()

	if reqs.Require(validation.StructuralViolation, len(outputs) == 1,
		"only one output state should be created") {

		output, ok := outputs[0].(Order)
		if !ok {
			return nil, xerrors.Errorf("invalid order of type '%T'", outputs[0])
		}

		reqs.Require(validation.SignerViolation, cmd.IsSignedBy(output.GetParticipants()...),
			"all of the participants must be signers")

		reqs.Require(validation.FieldInvariantViolation,
			output.productPointer.GetKind() == product.Kind,
			"order must point to a product")
	}

	return reqs.GetViolations(), nil
}
