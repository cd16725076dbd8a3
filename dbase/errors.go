package dbase

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is against these; Open/Create/ReadRecords/
// AppendRecords wrap them with context via Error.
var (
	ErrUnsupportedVersion    = errors.New("dbase: unsupported file version")
	ErrMissingMemoFile       = errors.New("dbase: memo file is missing")
	ErrDuplicateFieldName    = errors.New("dbase: duplicate field name")
	ErrBadHeaderTerminator   = errors.New("dbase: header terminator not found")
	ErrWrongRecordLength     = errors.New("dbase: record length does not match header")
	ErrUnsupportedFieldType  = errors.New("dbase: unsupported field type")
	ErrUnsupportedEncoding   = errors.New("dbase: unsupported encoding label")
	ErrMemoWriteUnsupported  = errors.New("dbase: writing memo values is not supported")
	ErrMemoReadPastEnd       = errors.New("dbase: memo block read past end of file")
	ErrFieldSizeInvalid      = errors.New("dbase: invalid field size or decimals")
	ErrFieldNameInvalid      = errors.New("dbase: invalid field name")
	ErrClosed                = errors.New("dbase: file is closed")
	ErrMemoFieldNotCreatable = errors.New("dbase: memo fields cannot be created")
)

// Error chains a short operation context onto a wrapped error so callers can
// still unwrap to the sentinel while humans get a readable trail.
type Error struct {
	context string
	err     error
}

func wrap(context string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{context: context, err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("dbase: %s: %v", e.context, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// ValueTypeMismatchError reports that a value handed to AppendRecords does
// not match the Go type its field requires.
type ValueTypeMismatchError struct {
	Field string
	Kind  FieldType
}

func (e *ValueTypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected a %s", e.Field, kindNoun(e.Kind))
}

func kindNoun(t FieldType) string {
	switch t {
	case Character, Memo:
		return "string"
	case Numeric, Float, Double:
		return "number"
	case Integer:
		return "integer"
	case Logical:
		return "boolean"
	case DateField:
		return "date"
	case DateTime:
		return "datetime"
	default:
		return "value"
	}
}

// TextTooLongError reports that a string value has more than 255 characters,
// e.g. "AFCLPD: text is too long (maximum length is 255 chars)". Values within
// that limit but wider than the field once encoded are truncated, not
// rejected.
type TextTooLongError struct {
	Field string
	Max   int
}

func (e *TextTooLongError) Error() string {
	return fmt.Sprintf("%s: text is too long (maximum length is %d chars)", e.Field, e.Max)
}

// DuplicateFieldNameError names the offending field in the field list
// passed to Create.
type DuplicateFieldNameError struct {
	Name string
}

func (e *DuplicateFieldNameError) Error() string {
	return fmt.Sprintf("duplicate field name: %s", e.Name)
}
