package loot

import "fmt"

// Kind classifies loot errors.
type Kind string

const (
	KindConfiguration           Kind = "CONFIGURATION_ERROR"
	KindNoApplicableEnchantment Kind = "NO_APPLICABLE_ENCHANTMENT"
	KindInvariantViolation      Kind = "INVARIANT_VIOLATION"
)

// Error is the error type for every failure raised by the loot engine.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a loot error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrConfiguration           = &Error{Kind: KindConfiguration, Message: "invalid loot configuration"}
	ErrNoApplicableEnchantment = &Error{Kind: KindNoApplicableEnchantment, Message: "no applicable enchantment"}
	ErrInvariantViolation      = &Error{Kind: KindInvariantViolation, Message: "invariant violated"}
)

// ConfigErrorf returns a configuration error with a formatted message.
func ConfigErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NoEnchantmentError reports that nothing in the enchantment metadata applies to name.
func NoEnchantmentError(name string) *Error {
	return &Error{Kind: KindNoApplicableEnchantment, Message: fmt.Sprintf("no enchantment applies to %q", name)}
}

func invariantf(format string, args ...any) *Error {
	return &Error{Kind: KindInvariantViolation, Message: fmt.Sprintf(format, args...)}
}
