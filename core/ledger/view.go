package ledger

// restrictedView is a view that only contains the elements of a single kind.
//
// - implements ledger.View
type restrictedView struct {
	inputs   []StateAndRef
	outputs  []State
	commands []Command
}

// Restrict returns a view that only keeps the inputs, the outputs and the
// commands of the given kind. The order of the elements is preserved.
func Restrict(view View, kind Kind) View {
	res := restrictedView{}

	for _, input := range view.GetInputs() {
		if input.GetState().GetKind() == kind {
			res.inputs = append(res.inputs, input)
		}
	}

	for _, output := range view.GetOutputs() {
		if output.GetKind() == kind {
			res.outputs = append(res.outputs, output)
		}
	}

	for _, cmd := range view.GetCommands() {
		if cmd.GetKind() == kind {
			res.commands = append(res.commands, cmd)
		}
	}

	return res
}

// GetInputs implements ledger.View.
func (v restrictedView) GetInputs() []StateAndRef {
	return append([]StateAndRef{}, v.inputs...)
}

// GetOutputs implements ledger.View.
func (v restrictedView) GetOutputs() []State {
	return append([]State{}, v.outputs...)
}

// GetCommands implements ledger.View.
func (v restrictedView) GetCommands() []Command {
	return append([]Command{}, v.commands...)
}

// Kinds returns the kinds of the inputs, the outputs and the commands of the
// view, in the order they are first seen.
func Kinds(view View) []Kind {
	seen := map[Kind]struct{}{}
	kinds := []Kind{}

	add := func(k Kind) {
		_, found := seen[k]
		if !found {
			seen[k] = struct{}{}
			kinds = append(kinds, k)
		}
	}

	for _, input := range view.GetInputs() {
		add(input.GetState().GetKind())
	}

	for _, output := range view.GetOutputs() {
		add(output.GetKind())
	}

	for _, cmd := range view.GetCommands() {
		add(cmd.GetKind())
	}

	return kinds
}
