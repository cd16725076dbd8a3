package dbase

import "testing"

func newTestFile(t *testing.T, fs *memFS, fields []FieldDescriptor) *File {
	t.Helper()
	f, err := Create("t.dbf", fields, CreateOptions{FileVersion: FoxBasePlus, FileSystem: fs})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return f
}

func TestAppendThenReadRoundTrip(t *testing.T) {
	fs := newMemFS()
	fields := []FieldDescriptor{
		{Name: "ID", Type: Integer, Size: 4},
		{Name: "NAME", Type: Character, Size: 10},
	}
	f := newTestFile(t, fs, fields)

	records := []Record{
		{"ID": int32(1), "NAME": "Alice"},
		{"ID": int32(2), "NAME": "Bob"},
		{"ID": int32(3), "NAME": "Carol"},
	}
	f, err := f.AppendRecords(records...)
	if err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}
	if f.RecordCount() != 3 {
		t.Fatalf("RecordCount = %d, want 3", f.RecordCount())
	}

	opened, err := Open("t.dbf", OpenOptions{FileSystem: fs})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.RecordCount() != 3 {
		t.Fatalf("reopened RecordCount = %d, want 3", opened.RecordCount())
	}

	got, err := opened.ReadRecords(0)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ReadRecords returned %d records, want 3", len(got))
	}
	if got[0]["NAME"] != "Alice" || got[1]["NAME"] != "Bob" || got[2]["NAME"] != "Carol" {
		t.Errorf("unexpected records: %+v", got)
	}
}

func TestReadRecordsCursorAdvancesAndStops(t *testing.T) {
	fs := newMemFS()
	fields := []FieldDescriptor{{Name: "ID", Type: Integer, Size: 4}}
	f := newTestFile(t, fs, fields)

	var records []Record
	for i := int32(0); i < 5; i++ {
		records = append(records, Record{"ID": i})
	}
	f, err := f.AppendRecords(records...)
	if err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}

	first, err := f.ReadRecords(2)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first batch = %d records, want 2", len(first))
	}
	second, err := f.ReadRecords(10)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(second) != 3 {
		t.Fatalf("second batch = %d records, want 3 (remaining)", len(second))
	}
	third, err := f.ReadRecords(10)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(third) != 0 {
		t.Fatalf("third batch = %d records, want 0", len(third))
	}
}

func TestDeletedRecordsFilteredByDefault(t *testing.T) {
	fs := newMemFS()
	fields := []FieldDescriptor{{Name: "ID", Type: Integer, Size: 4}}
	f := newTestFile(t, fs, fields)
	f, err := f.AppendRecords(Record{"ID": int32(1)}, Record{"ID": int32(2)})
	if err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}

	// Hand-flip the first record's deletion flag directly through the
	// backing store, since append-only has no API for it.
	buf := fs.files["t.dbf"]
	recordOffset := int64(f.headerLength)
	buf.data[recordOffset] = byte(markerDeleted)

	live, err := f.ReadRecords(0)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(live) != 1 {
		t.Fatalf("live records = %d, want 1", len(live))
	}

	f.readCursor = 0
	f.includeDel = true
	all, err := f.ReadRecords(0)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all records = %d, want 2", len(all))
	}
	if !all[0].Deleted() {
		t.Error("expected first record to report Deleted()")
	}
}

func TestRecordsIteratorYieldsAllRecords(t *testing.T) {
	fs := newMemFS()
	fields := []FieldDescriptor{{Name: "ID", Type: Integer, Size: 4}}
	f := newTestFile(t, fs, fields)
	var records []Record
	for i := int32(0); i < 250; i++ {
		records = append(records, Record{"ID": i})
	}
	f, err := f.AppendRecords(records...)
	if err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}

	count := 0
	for rec, err := range f.Records(0) {
		if err != nil {
			t.Fatalf("iterator error: %v", err)
		}
		if rec["ID"] != int32(count) {
			t.Errorf("record %d ID = %v, want %d", count, rec["ID"], count)
		}
		count++
	}
	if count != 250 {
		t.Fatalf("iterated %d records, want 250", count)
	}
}
