package dbase

import "testing"

func TestValidateFieldDescriptor(t *testing.T) {
	cases := []struct {
		name    string
		field   FieldDescriptor
		version FileVersion
		wantErr bool
	}{
		{"character ok", FieldDescriptor{Name: "NAME", Type: Character, Size: 20}, FoxBasePlus, false},
		{"character zero size", FieldDescriptor{Name: "NAME", Type: Character, Size: 0}, FoxBasePlus, true},
		{"numeric ok", FieldDescriptor{Name: "PRICE", Type: Numeric, Size: 10, Decimals: 2}, FoxBasePlus, false},
		{"numeric too many decimals dbase3", FieldDescriptor{Name: "PRICE", Type: Numeric, Size: 10, Decimals: 16}, FoxBasePlus, true},
		{"numeric decimals ok dbase4", FieldDescriptor{Name: "PRICE", Type: Numeric, Size: 10, Decimals: 18}, DBaseIVMemo, false},
		{"logical wrong size", FieldDescriptor{Name: "FLAG", Type: Logical, Size: 2}, FoxBasePlus, true},
		{"date ok", FieldDescriptor{Name: "DOB", Type: DateField, Size: 8}, FoxBasePlus, false},
		{"integer ok", FieldDescriptor{Name: "QTY", Type: Integer, Size: 4}, FoxBasePlus, false},
		{"memo ok", FieldDescriptor{Name: "NOTES", Type: Memo, Size: 10}, FoxBasePlusMemo, false},
		{"unsupported type", FieldDescriptor{Name: "X", Type: FieldType('Z'), Size: 1}, FoxBasePlus, true},
		{"name too long", FieldDescriptor{Name: "TWELVECHARSX", Type: Character, Size: 1}, FoxBasePlus, true},
		{"name empty", FieldDescriptor{Name: "", Type: Character, Size: 1}, FoxBasePlus, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateFieldDescriptor(tc.field, tc.version)
			if (err != nil) != tc.wantErr {
				t.Errorf("validateFieldDescriptor(%+v) error = %v, wantErr %v", tc.field, err, tc.wantErr)
			}
		})
	}
}

func TestValidateFieldDescriptorsDuplicateNames(t *testing.T) {
	fields := []FieldDescriptor{
		{Name: "ID", Type: Integer, Size: 4},
		{Name: "id", Type: Character, Size: 5},
	}
	err := validateFieldDescriptors(fields, FoxBasePlus, true)
	if err == nil {
		t.Fatal("expected duplicate field name error, got nil")
	}
}

func TestValidateFieldDescriptorsRejectsMemoOnCreate(t *testing.T) {
	fields := []FieldDescriptor{
		{Name: "NOTES", Type: Memo, Size: 10},
	}
	err := validateFieldDescriptors(fields, FoxBasePlusMemo, true)
	if err == nil {
		t.Fatal("expected memo field to be rejected on create")
	}
}
