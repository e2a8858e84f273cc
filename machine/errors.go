package machine

import "fmt"

// Reason enumerates every runtime failure the machine can report.
type Reason int

const (
	ErrUnknown Reason = iota
	ErrUnableToFindMain
	ErrEnvLookupFailed
	ErrHeapLookupFailed
	ErrHeapUpdateHasNoPreviousValue
	ErrUnableToMkPrimInt
	ErrNotEnoughArgsOnStack
	ErrCaseAltsHasNoVariable
	ErrCaseAltsHasMoreThanOneVariable
	ErrCaseAltsOverlappingPatterns
	ErrReturnStackEmpty
	ErrUpdateStackEmpty
	ErrExpectedCaseAltInt
	ErrExpectedCaseAltConstructor
	ErrNoMatchingAltPatternInt
	ErrNoMatchingAltPatternConstructor
	ErrIntrinsicBadArgument
	ErrEnterUpdatableWithArgs
)

var reasonNames = map[Reason]string{
	ErrUnknown:                         "Unknown",
	ErrUnableToFindMain:                "UnableToFindMain",
	ErrEnvLookupFailed:                 "EnvLookupFailed",
	ErrHeapLookupFailed:                "HeapLookupFailed",
	ErrHeapUpdateHasNoPreviousValue:    "HeapUpdateHasNoPreviousValue",
	ErrUnableToMkPrimInt:               "UnableToMkPrimInt",
	ErrNotEnoughArgsOnStack:            "NotEnoughArgsOnStack",
	ErrCaseAltsHasNoVariable:           "CaseAltsHasNoVariable",
	ErrCaseAltsHasMoreThanOneVariable:  "CaseAltsHasMoreThanOneVariable",
	ErrCaseAltsOverlappingPatterns:     "CaseAltsOverlappingPatterns",
	ErrReturnStackEmpty:                "ReturnStackEmpty",
	ErrUpdateStackEmpty:                "UpdateStackEmpty",
	ErrExpectedCaseAltInt:              "ExpectedCaseAltInt",
	ErrExpectedCaseAltConstructor:      "ExpectedCaseAltConstructor",
	ErrNoMatchingAltPatternInt:         "NoMatchingAltPatternInt",
	ErrNoMatchingAltPatternConstructor: "NoMatchingAltPatternConstructor",
	ErrIntrinsicBadArgument:            "IntrinsicBadArgument",
	ErrEnterUpdatableWithArgs:          "EnterUpdatableWithArgs",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Error is the machine's structured runtime error. Internally the
// evaluator panics with *Error; the public Step/Run/Trace/Compile
// boundaries recover it.
type Error struct {
	Reason Reason
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Reason.String()
	}
	return e.Reason.String() + ": " + e.Detail
}

func errorf(reason Reason, format string, args ...interface{}) *Error {
	return &Error{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the machine reason from an error, or ErrUnknown.
func ReasonOf(err error) Reason {
	if mErr, ok := err.(*Error); ok {
		return mErr.Reason
	}
	return ErrUnknown
}
