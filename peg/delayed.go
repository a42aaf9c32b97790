package peg

// DelayedError builds the error for a failure only once the final
// failing cursor is known. Terms record DelayedErrors as failure reasons
// so that nothing is constructed for branches that are rolled back.
type DelayedError interface {
	Create(input string, cursor int) error
}

// DelayedErrorFunc adapts a function to DelayedError.
type DelayedErrorFunc func(input string, cursor int) error

func (f DelayedErrorFunc) Create(input string, cursor int) error {
	return f(input, cursor)
}

// NewDelayedError returns a DelayedError producing a *SyntaxError with
// the given message.
func NewDelayedError(message string) DelayedError {
	return DelayedErrorFunc(func(input string, cursor int) error {
		return &SyntaxError{Input: input, Cursor: cursor, Messages: []string{message}}
	})
}
