package classify

// ErrorType identifies a concrete error type for classification.
// Matches is evaluated against each individual link of a cause chain.
type ErrorType struct {
	Name    string
	Matches func(error) bool
}

// Type builds an ErrorType that matches the concrete type T at a chain link.
func Type[T error](name string) ErrorType {
	return ErrorType{
		Name: name,
		Matches: func(err error) bool {
			_, ok := err.(T)
			return ok
		},
	}
}

// Handler bundles retryable message patterns and error types, optionally
// gated by an environment check (e.g. only active when a client library's
// error types are in play).
type Handler interface {
	// Patterns returns ordered case-insensitive regex patterns matched
	// against error messages.
	Patterns() []string
	// ErrorTypes returns the error-type matchers contributed by this handler.
	ErrorTypes() []ErrorType
	// Applicable reports whether this handler is active in the current
	// environment. Inapplicable handlers contribute nothing.
	Applicable() bool
}

// FuncHandler is a Handler built from plain values.
type FuncHandler struct {
	Name           string
	PatternList    []string
	TypeList       []ErrorType
	ApplicableFunc func() bool
}

func (h FuncHandler) Patterns() []string      { return h.PatternList }
func (h FuncHandler) ErrorTypes() []ErrorType { return h.TypeList }

func (h FuncHandler) Applicable() bool {
	if h.ApplicableFunc == nil {
		return true
	}
	return h.ApplicableFunc()
}
