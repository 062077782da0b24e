package bobbin

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	breflect "github.com/danpasecinic/bobbin/internal/reflect"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNoSuchBean
	ErrCodeNoUniqueBean
	ErrCodeAmbiguousConstructor
	ErrCodeUnresolvableType
	ErrCodeDuplicateRegistration
	ErrCodeInvalidInjectionTarget
	ErrCodeCircularDependency
	ErrCodeBeanInstantiation
	ErrCodeInvalidDefinition
	ErrCodeChainFrozen
	ErrCodeValidationFailed
	ErrCodeShutdownFailed
	ErrCodeInvalidState
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:                "UNKNOWN",
	ErrCodeNoSuchBean:             "NO_SUCH_BEAN",
	ErrCodeNoUniqueBean:           "NO_UNIQUE_BEAN",
	ErrCodeAmbiguousConstructor:   "AMBIGUOUS_CONSTRUCTOR",
	ErrCodeUnresolvableType:       "UNRESOLVABLE_TYPE",
	ErrCodeDuplicateRegistration:  "DUPLICATE_REGISTRATION",
	ErrCodeInvalidInjectionTarget: "INVALID_INJECTION_TARGET",
	ErrCodeCircularDependency:     "CIRCULAR_DEPENDENCY",
	ErrCodeBeanInstantiation:      "BEAN_INSTANTIATION",
	ErrCodeInvalidDefinition:      "INVALID_DEFINITION",
	ErrCodeChainFrozen:            "CHAIN_FROZEN",
	ErrCodeValidationFailed:       "VALIDATION_FAILED",
	ErrCodeShutdownFailed:         "SHUTDOWN_FAILED",
	ErrCodeInvalidState:           "INVALID_STATE",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is returned by every container operation. Bean names the bean being
// built or looked up, Target the field, method or parameter involved.
type Error struct {
	Code    ErrorCode
	Message string
	Bean    string
	Target  string
	Cause   error
	Stack   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Bean != "" {
		b.WriteString(fmt.Sprintf(" bean=%q", e.Bean))
	}
	if e.Target != "" {
		b.WriteString(fmt.Sprintf(" target=%q", e.Target))
	}
	if e.Bean != "" || e.Target != "" {
		b.WriteString(":")
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so errors.Is(err, &Error{Code: c})
// finds c anywhere in the chain.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithBean(bean string) *Error {
	e.Bean = bean
	return e
}

func (e *Error) WithTarget(target string) *Error {
	e.Target = target
	return e
}

func (e *Error) WithStack(stack []string) *Error {
	e.Stack = stack
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func typeName(t reflect.Type) string {
	return breflect.TypeKey(t)
}

func errNoSuchBean(t reflect.Type, cause error) *Error {
	return newError(
		ErrCodeNoSuchBean,
		fmt.Sprintf("no bean registered for type %s", typeName(t)),
		cause,
	).WithTarget(typeName(t))
}

func errNoSuchBeanNamed(name string) *Error {
	return newError(
		ErrCodeNoSuchBean,
		fmt.Sprintf("no bean named %q", name),
		nil,
	).WithBean(name)
}

func errNoUniqueBean(t reflect.Type, candidates []string) *Error {
	return newError(
		ErrCodeNoUniqueBean,
		fmt.Sprintf(
			"%d beans satisfy %s (%s); bind one or inject by name",
			len(candidates), typeName(t), strings.Join(candidates, ", "),
		),
		nil,
	).WithTarget(typeName(t))
}

func errAmbiguousConstructor(bean string, count int) *Error {
	return newError(
		ErrCodeAmbiguousConstructor,
		fmt.Sprintf("%d constructors declared and no factory method to choose between them", count),
		nil,
	).WithBean(bean)
}

func errUnresolvableType(bean string, t reflect.Type) *Error {
	return newError(
		ErrCodeUnresolvableType,
		fmt.Sprintf("cannot instantiate abstract type %s; register a concrete binding or a factory", typeName(t)),
		nil,
	).WithBean(bean)
}

func errDuplicateRegistration(bean string, cause error) *Error {
	return newError(
		ErrCodeDuplicateRegistration,
		"conflicting bean registration",
		cause,
	).WithBean(bean)
}

func errInvalidInjectionTarget(bean, method, reason string) *Error {
	return newError(
		ErrCodeInvalidInjectionTarget,
		fmt.Sprintf("method %s has an invalid declaration: %s", method, reason),
		nil,
	).WithBean(bean).WithTarget(method)
}

func errCircularDependency(chain []string) *Error {
	return newError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		nil,
	).WithBean(chain[0]).WithStack(chain)
}

func errBeanInstantiation(bean, target string, cause error) *Error {
	msg := "failed to instantiate bean"
	if target != "" {
		msg = "failed to wire " + target
	}
	return newError(ErrCodeBeanInstantiation, msg, cause).WithBean(bean).WithTarget(target)
}

func errInvalidDefinition(t reflect.Type, cause error) *Error {
	return newError(
		ErrCodeInvalidDefinition,
		fmt.Sprintf("invalid definition for %s", typeName(t)),
		cause,
	)
}

func errInvalidProcessor(cause error) *Error {
	return newError(ErrCodeInvalidDefinition, "invalid post-processor", cause)
}

func errInvalidState(op string, state State) *Error {
	return newError(
		ErrCodeInvalidState,
		fmt.Sprintf("container cannot %s from state %s", op, state),
		nil,
	)
}

func errChainFrozen() *Error {
	return newError(
		ErrCodeChainFrozen,
		"post-processors cannot be added once bean creation has started",
		nil,
	)
}

func errValidationFailed(cause error) *Error {
	return newError(ErrCodeValidationFailed, "container validation failed", cause)
}

func errShutdownFailed(cause error) *Error {
	return newError(ErrCodeShutdownFailed, "failed to dispose beans", cause)
}

func hasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &Error{Code: code})
}

func IsNoSuchBean(err error) bool {
	return hasCode(err, ErrCodeNoSuchBean)
}

func IsNoUniqueBean(err error) bool {
	return hasCode(err, ErrCodeNoUniqueBean)
}

func IsAmbiguousConstructor(err error) bool {
	return hasCode(err, ErrCodeAmbiguousConstructor)
}

func IsUnresolvableType(err error) bool {
	return hasCode(err, ErrCodeUnresolvableType)
}

func IsDuplicateRegistration(err error) bool {
	return hasCode(err, ErrCodeDuplicateRegistration)
}

func IsInvalidInjectionTarget(err error) bool {
	return hasCode(err, ErrCodeInvalidInjectionTarget)
}

func IsCircularDependency(err error) bool {
	return hasCode(err, ErrCodeCircularDependency)
}

func IsBeanInstantiation(err error) bool {
	return hasCode(err, ErrCodeBeanInstantiation)
}

func IsInvalidDefinition(err error) bool {
	return hasCode(err, ErrCodeInvalidDefinition)
}

func IsChainFrozen(err error) bool {
	return hasCode(err, ErrCodeChainFrozen)
}

func IsValidationFailed(err error) bool {
	return hasCode(err, ErrCodeValidationFailed)
}

func IsShutdownFailed(err error) bool {
	return hasCode(err, ErrCodeShutdownFailed)
}

func IsInvalidState(err error) bool {
	return hasCode(err, ErrCodeInvalidState)
}
