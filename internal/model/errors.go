package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can pick a message without string matching.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnknownArguments
	KindUnknownCommand
	KindNoDescription
	KindDateFormat
	KindNumberFormat
	KindIndexOutOfRange
	KindEmptyList
	KindPersistence
	KindCorruptRecord
)

var kindNames = map[ErrorKind]string{
	KindUnknown:          "unknown",
	KindUnknownArguments: "unknown arguments",
	KindUnknownCommand:   "unknown command",
	KindNoDescription:    "no description",
	KindDateFormat:       "date format",
	KindNumberFormat:     "number format",
	KindIndexOutOfRange:  "index out of range",
	KindEmptyList:        "empty list",
	KindPersistence:      "persistence",
	KindCorruptRecord:    "corrupt record",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type produced by the parser, the task list and the stores.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: KindEmptyList}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func WrapError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
