package product

import (
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/ledger/tx"
	"go.dedis.ch/pointers/core/validation"
	"go.dedis.ch/pointers/core/validation/simple"
	"go.dedis.ch/pointers/crypto"
	"golang.org/x/xerrors"
)

// RegisterContract registers the product contract to the verifier.
func RegisterContract(srvc *simple.Service, c Contract) {
	srvc.Set(Kind, c)
}

// RegisterFactories registers the product factories so that the transaction
// factory can decode the products and their commands.
func RegisterFactories(fac tx.TransactionFactory, pubkeyFac crypto.PublicKeyFactory) {
	fac.Register(Kind, NewStateFactory(pubkeyFac), NewCommandFactory())
}

// Contract is the rule set of the products.
//
// - implements validation.Contract
type Contract struct{}

// NewContract returns a new product contract.
func NewContract() Contract {
	return Contract{}
}

// Verify implements validation.Contract. It verifies the view restricted to the
// products according to the command.
func (c Contract) Verify(view ledger.View, cmd ledger.Command) ([]validation.Violation, error) {
	switch cmd.GetData().(type) {
	case Create:
		return c.verifyCreate(view, cmd)
	case UpdatePrice:
		return c.verifyUpdate(view, cmd)
	default:
		return nil, &validation.UnrecognizedCommandError{Kind: Kind, Command: cmd.GetData()}
	}
}

func (c Contract) verifyCreate(view ledger.View, cmd ledger.Command) ([]validation.Violation, error) {
	reqs := validation.Requirements{}

	reqs.Require(validation.StructuralViolation, len(view.GetInputs()) == 0,
		"no inputs should be consumed when creating a product")

	outputs := view.GetOutputs()

	if reqs.Require(validation.StructuralViolation, len(outputs) == 1,
		"only one output state should be created") {

		output, err := asProduct(outputs[0])
		if err != nil {
			return nil, xerrors.Errorf("output: %v", err)
		}

		reqs.Require(validation.SignerViolation, cmd.IsSignedBy(output.GetParticipants()...),
			"all of the participants must be signers")

		reqs.Require(validation.FieldInvariantViolation, output.price.IsPositive(),
			"product's price must be positive")

		reqs.Require(validation.FieldInvariantViolation, output.name != "",
			"product's name must be non-empty")

		reqs.Require(validation.FieldInvariantViolation, output.company != "",
			"product's company must be non-empty")
	}

	return reqs.GetViolations(), nil
}

func (c Contract) verifyUpdate(view ledger.View, cmd ledger.Command) ([]validation.Violation, error) {
	reqs := validation.Requirements{}

	inputs := view.GetInputs()
	outputs := view.GetOutputs()

	hasInput := reqs.Require(validation.StructuralViolation, len(inputs) == 1,
		"only one input should be consumed when updating a product")

	hasOutput := reqs.Require(validation.StructuralViolation, len(outputs) == 1,
		"only one output state should be created")

	if !hasOutput {
		return reqs.GetViolations(), nil
	}

	output, err := asProduct(outputs[0])
	if err != nil {
		return nil, xerrors.Errorf("output: %v", err)
	}

	reqs.Require(validation.SignerViolation, cmd.IsSignedBy(output.GetParticipants()...),
		"all of the participants must be signers")

	reqs.Require(validation.FieldInvariantViolation, output.price.IsPositive(),
		"product's price must be positive")

	if !hasInput {
		return reqs.GetViolations(), nil
	}

	input, err := asProduct(inputs[0].GetState())
	if err != nil {
		return nil, xerrors.Errorf("input: %v", err)
	}

	reqs.Require(validation.FieldInvariantViolation, !input.price.Equal(output.price),
		"product's price in input and output shouldn't be the same")

	reqs.Require(validation.FieldInvariantViolation, input.name == output.name,
		"product's name must be the same in input and output")

	reqs.Require(validation.FieldInvariantViolation, input.company == output.company,
		"product's company must be the same in input and output")

	reqs.Require(validation.FieldInvariantViolation, input.linearID == output.linearID,
		"product's linear id must be the same in input and output")

	return reqs.GetViolations(), nil
}

func asProduct(state ledger.State) (Product, error) {
	p, ok := state.(Product)
	if !ok {
		return Product{}, xerrors.Errorf("invalid product of type '%T'", state)
	}

	return p, nil
}
