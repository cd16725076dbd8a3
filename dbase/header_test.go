package dbase

import (
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := header{
		version:      FoxBasePlus,
		year:         114, // 2014
		month:        4,
		day:          14,
		recordCount:  45,
		headerLength: 34 + 32*3,
		recordLength: 51,
	}
	raw := encodeHeader(h)
	if len(raw) != headerSize {
		t.Fatalf("encodeHeader length = %d, want %d", len(raw), headerSize)
	}
	got, err := decodeHeader(raw)
	if err != nil {
		t.Fatalf("decodeHeader: %v", err)
	}
	if got != h {
		t.Errorf("header round trip = %+v, want %+v", got, h)
	}
	lastUpdate := got.lastUpdate()
	if lastUpdate.Year() != 2014 || lastUpdate.Month() != 4 || lastUpdate.Day() != 14 {
		t.Errorf("lastUpdate = %v, want 2014-04-14", lastUpdate)
	}
}

func TestFieldDescriptorRoundTrip(t *testing.T) {
	fd := FieldDescriptor{Name: "PRODNAME", Type: Character, Size: 30, Decimals: 0}
	raw, err := encodeFieldDescriptor(fd)
	if err != nil {
		t.Fatalf("encodeFieldDescriptor: %v", err)
	}
	if len(raw) != fieldDescSize {
		t.Fatalf("encodeFieldDescriptor length = %d, want %d", len(raw), fieldDescSize)
	}
	if raw[20] != 1 {
		t.Errorf("work area id byte at offset 0x14 = %d, want 1", raw[20])
	}
	got, err := decodeFieldDescriptor(raw)
	if err != nil {
		t.Fatalf("decodeFieldDescriptor: %v", err)
	}
	if got != fd {
		t.Errorf("field descriptor round trip = %+v, want %+v", got, fd)
	}
}

func TestMemoPathDerivation(t *testing.T) {
	cases := []struct {
		path    string
		version FileVersion
		want    string
		hasMemo bool
	}{
		{"table.dbf", FoxBasePlusMemo, "table.dbt", true},
		{"table.dbf", DBaseIVMemo, "table.dbt", true},
		{"table.dbf", VisualFoxPro, "table.fpt", true},
		{"table.pjx", VisualFoxPro, "table.pjt", true},
		{"table.dbf", FoxBasePlus, "", false},
	}
	for _, tc := range cases {
		got, ok := memoPath(tc.path, tc.version)
		if ok != tc.hasMemo {
			t.Errorf("memoPath(%q, %x) ok = %v, want %v", tc.path, byte(tc.version), ok, tc.hasMemo)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("memoPath(%q, %x) = %q, want %q", tc.path, byte(tc.version), got, tc.want)
		}
	}
}
