package serde

// ContextEngine is the interface to implement to create a context.
type ContextEngine interface {
	// GetFormat returns the name of the format for this context.
	GetFormat() Format

	// Marshal returns the bytes of the message according to the format of the
	// context.
	Marshal(message interface{}) ([]byte, error)

	// Unmarshal populates the message with the data according to the format of
	// the context.
	Unmarshal(data []byte, message interface{}) error
}

// Factories maps the keys of a context to the factories used to decode the
// nested messages, for instance the state factory of each kind of a
// transaction.
type Factories map[interface{}]Factory

// Context is the context passed to the serialization/deserialization requests.
// It is immutable: adding factories returns a new context.
type Context struct {
	ContextEngine

	factories Factories
}

// NewContext returns a new context without any factory.
func NewContext(engine ContextEngine) Context {
	return Context{
		ContextEngine: engine,
		factories:     Factories{},
	}
}

// GetFactory returns the factory associated to the key or nil.
func (ctx Context) GetFactory(key interface{}) Factory {
	return ctx.factories[key]
}

// WithFactory returns a context where the key is associated to the factory.
func WithFactory(ctx Context, key interface{}, f Factory) Context {
	return WithFactories(ctx, Factories{key: f})
}

// WithFactories returns a context holding the factories of the parent context
// and the given ones, which replace the parent's on identical keys. The
// parent context is left unchanged.
func WithFactories(ctx Context, factories Factories) Context {
	if len(factories) == 0 {
		return ctx
	}

	merged := make(Factories, len(ctx.factories)+len(factories))

	for key, f := range ctx.factories {
		merged[key] = f
	}

	for key, f := range factories {
		merged[key] = f
	}

	ctx.factories = merged

	return ctx
}
