package dbase

import (
	"strings"
	"unicode"
)

// FieldDescriptor describes one column of a table: its name, wire type,
// storage width and, for N/F, the number of decimal places.
type FieldDescriptor struct {
	Name     string
	Type     FieldType
	Size     uint8
	Decimals uint8
}

// validateFieldDescriptor enforces the size/decimals rules from the
// field-descriptor table against a single descriptor. version is needed
// because the maximum N/F decimal count depends on the dBase dialect.
func validateFieldDescriptor(f FieldDescriptor, version FileVersion) error {
	if err := validateFieldName(f.Name); err != nil {
		return err
	}
	switch f.Type {
	case Character:
		if f.Size < 1 || f.Size > 255 {
			return wrap("validate field "+f.Name, ErrFieldSizeInvalid)
		}
	case Numeric, Float:
		if f.Size < 1 || f.Size > 20 {
			return wrap("validate field "+f.Name, ErrFieldSizeInvalid)
		}
		if f.Decimals > version.maxDecimals() {
			return wrap("validate field "+f.Name, ErrFieldSizeInvalid)
		}
	case Logical:
		if f.Size != 1 {
			return wrap("validate field "+f.Name, ErrFieldSizeInvalid)
		}
	case DateField:
		if f.Size != 8 {
			return wrap("validate field "+f.Name, ErrFieldSizeInvalid)
		}
	case Integer:
		if f.Size != 4 {
			return wrap("validate field "+f.Name, ErrFieldSizeInvalid)
		}
	case Memo:
		if f.Size != 10 {
			return wrap("validate field "+f.Name, ErrFieldSizeInvalid)
		}
	case DateTime:
		if f.Size != 8 {
			return wrap("validate field "+f.Name, ErrFieldSizeInvalid)
		}
	case Double:
		if f.Size != 8 {
			return wrap("validate field "+f.Name, ErrFieldSizeInvalid)
		}
	default:
		return wrap("validate field "+f.Name, ErrUnsupportedFieldType)
	}
	return nil
}

// validateFieldName enforces the 1-10 printable byte rule (spec §4.2/§3).
func validateFieldName(name string) error {
	if len(name) < 1 || len(name) > 10 {
		return wrap("validate field name "+name, ErrFieldNameInvalid)
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return wrap("validate field name "+name, ErrFieldNameInvalid)
		}
	}
	return nil
}

// validateFieldDescriptors runs validateFieldDescriptor over the whole list
// and additionally enforces name uniqueness and, when creating is true,
// refuses memo fields (memo writes are never supported).
func validateFieldDescriptors(fields []FieldDescriptor, version FileVersion, creating bool) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if err := validateFieldDescriptor(f, version); err != nil {
			return err
		}
		if creating && f.Type == Memo {
			return wrap("validate field "+f.Name, ErrMemoFieldNotCreatable)
		}
		key := strings.ToUpper(f.Name)
		if _, ok := seen[key]; ok {
			return wrap("validate fields", &DuplicateFieldNameError{Name: f.Name})
		}
		seen[key] = struct{}{}
	}
	return nil
}
