package dbase

import (
	"time"
)

// OpenOptions configures Open.
type OpenOptions struct {
	ReadMode       ReadMode
	Encoding       Encoding
	IncludeDeleted bool
	FileSystem     FileSystem
	Transcoder     Transcoder
}

// CreateOptions configures Create.
type CreateOptions struct {
	FileVersion FileVersion
	Encoding    Encoding
	FileSystem  FileSystem
	Transcoder  Transcoder
}

// File is the persistent open state for one dBase table: the data file's
// path, its parsed header and field list, an optional open memo file, and
// the read/append cursor state. The data file itself is opened and closed
// by each operation. One File is meant for one logical caller; concurrent
// calls on the same File are not safe.
type File struct {
	path       string
	fs         FileSystem
	memo       *memoReader
	memoPath   string
	version    FileVersion
	readMode   ReadMode
	encoding   Encoding
	transcoder Transcoder
	includeDel bool

	recordCount  int32
	lastUpdate   time.Time
	fields       []FieldDescriptor
	headerLength uint16
	recordLength uint16

	readCursor int64
}

// Path returns the data file's path.
func (f *File) Path() string { return f.path }

// RecordCount returns the number of records the header claims, including
// deleted ones.
func (f *File) RecordCount() int32 { return f.recordCount }

// DateOfLastUpdate returns the header's last-modified date.
func (f *File) DateOfLastUpdate() time.Time { return f.lastUpdate }

// Fields returns a copy of the table's field descriptors in file order.
func (f *File) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(f.fields))
	copy(out, f.fields)
	return out
}

func (f *File) codec() *recordCodec {
	return &recordCodec{
		fields:     f.fields,
		encoding:   f.encoding,
		transcoder: f.transcoder,
		memo:       f.memo,
	}
}

// Close releases the open file handle(s). It does not need to be called
// between ReadRecords/AppendRecords calls, which open and close their own
// scoped handles; it only closes the memo reader kept open across calls.
func (f *File) Close() error {
	if f.memo != nil {
		return f.memo.Close()
	}
	return nil
}

// Open parses an existing dBase file's header and field descriptors and
// returns a File ready for ReadRecords/AppendRecords.
func Open(path string, options OpenOptions) (*File, error) {
	fs := options.FileSystem
	if fs == nil {
		fs = DefaultFileSystem
	}
	transcoder := options.Transcoder
	if transcoder == nil {
		transcoder = stdTranscoder
	}
	enc := options.Encoding
	if enc.Default == "" && enc.Fields == nil {
		enc = NewEncoding("ISO-8859-1")
	}

	h, err := fs.OpenFile(path, false)
	if err != nil {
		return nil, wrap("open "+path, err)
	}
	closeOnErr := func(err error) (*File, error) {
		h.Close()
		return nil, err
	}

	raw := make([]byte, headerSize)
	if _, err := h.ReadAt(raw, 0); err != nil {
		return closeOnErr(wrap("read header", err))
	}
	hdr, err := decodeHeader(raw)
	if err != nil {
		return closeOnErr(err)
	}
	if options.ReadMode == Strict && !hdr.version.known() {
		return closeOnErr(wrap("open "+path, ErrUnsupportedVersion))
	}

	fields, err := readFieldDescriptors(h, hdr, options.ReadMode)
	if err != nil {
		return closeOnErr(err)
	}

	expected := uint16(1)
	for _, fd := range fields {
		expected += uint16(fd.Size)
	}
	recordLength := hdr.recordLength
	if recordLength != expected {
		if options.ReadMode == Strict {
			return closeOnErr(wrap("open "+path, ErrWrongRecordLength))
		}
		recordLength = expected
	}

	var memo *memoReader
	var mPath string
	if hdr.version.hasMemo() {
		candidate, _ := memoPath(path, hdr.version)
		resolved, ok := fs.FindSibling(candidate)
		if !ok {
			if options.ReadMode == Strict {
				return closeOnErr(wrap("open "+path, ErrMissingMemoFile))
			}
		} else {
			mPath = resolved
			memo, err = openMemoReader(fs, resolved, hdr.version)
			if err != nil {
				if options.ReadMode == Strict {
					return closeOnErr(wrap("open memo file", err))
				}
				memo = nil
			}
		}
	}

	if err := h.Close(); err != nil {
		return nil, wrap("close "+path, err)
	}

	debugf("opened %s: version=%x records=%d fields=%d", path, byte(hdr.version), hdr.recordCount, len(fields))

	return &File{
		path:         path,
		fs:           fs,
		memo:         memo,
		memoPath:     mPath,
		version:      hdr.version,
		readMode:     options.ReadMode,
		encoding:     enc,
		transcoder:   transcoder,
		includeDel:   options.IncludeDeleted,
		recordCount:  hdr.recordCount,
		lastUpdate:   hdr.lastUpdate(),
		fields:       fields,
		headerLength: hdr.headerLength,
		recordLength: recordLength,
	}, nil
}

// readFieldDescriptors reads descriptors until the 0x0D terminator or
// header_length is exhausted, validating each in strict mode.
func readFieldDescriptors(h FileHandle, hdr header, mode ReadMode) ([]FieldDescriptor, error) {
	var fields []FieldDescriptor
	offset := int64(headerSize)
	limit := int64(hdr.headerLength)
	buf := make([]byte, fieldDescSize)
	sawTerminator := false
	for offset+1 <= limit {
		var probe [1]byte
		if _, err := h.ReadAt(probe[:], offset); err != nil {
			return nil, wrap("read field descriptor", err)
		}
		if probe[0] == byte(markerColumnEnd) {
			sawTerminator = true
			break
		}
		if _, err := h.ReadAt(buf, offset); err != nil {
			return nil, wrap("read field descriptor", err)
		}
		fd, err := decodeFieldDescriptor(buf)
		if err != nil {
			return nil, err
		}
		if mode == Strict {
			if err := validateFieldDescriptor(fd, hdr.version); err != nil {
				return nil, err
			}
		}
		fields = append(fields, fd)
		offset += fieldDescSize
	}
	if !sawTerminator {
		return nil, wrap("read header", ErrBadHeaderTerminator)
	}
	if mode == Strict {
		seen := make(map[string]struct{}, len(fields))
		for _, fd := range fields {
			key := fd.Name
			if _, ok := seen[key]; ok {
				return nil, wrap("read header", ErrDuplicateFieldName)
			}
			seen[key] = struct{}{}
		}
	}
	return fields, nil
}

// Create writes a new, empty dBase file with the given field list and
// returns a File ready for AppendRecords.
func Create(path string, fields []FieldDescriptor, options CreateOptions) (*File, error) {
	fs := options.FileSystem
	if fs == nil {
		fs = DefaultFileSystem
	}
	transcoder := options.Transcoder
	if transcoder == nil {
		transcoder = stdTranscoder
	}
	enc := options.Encoding
	if enc.Default == "" && enc.Fields == nil {
		enc = NewEncoding("ISO-8859-1")
	}
	version := options.FileVersion
	if version == 0 {
		version = FoxBasePlus
	}
	if !version.known() {
		return nil, wrap("create "+path, ErrUnsupportedVersion)
	}
	if err := validateFieldDescriptors(fields, version, true); err != nil {
		return nil, err
	}

	h, err := fs.OpenFile(path, true)
	if err != nil {
		return nil, wrap("create "+path, err)
	}
	closeOnErr := func(err error) (*File, error) {
		h.Close()
		return nil, err
	}

	recordLength := uint16(1)
	for _, fd := range fields {
		recordLength += uint16(fd.Size)
	}
	headerLength := uint16(34 + 32*len(fields))

	now := time.Now().UTC()
	hdr := header{
		version:      version,
		year:         now.Year() - 1900,
		month:        int(now.Month()),
		day:          now.Day(),
		recordCount:  0,
		headerLength: headerLength,
		recordLength: recordLength,
	}

	if _, err := h.WriteAt(encodeHeader(hdr), 0); err != nil {
		return closeOnErr(wrap("write header", err))
	}
	offset := int64(headerSize)
	for _, fd := range fields {
		raw, err := encodeFieldDescriptor(fd)
		if err != nil {
			return closeOnErr(err)
		}
		if _, err := h.WriteAt(raw, offset); err != nil {
			return closeOnErr(wrap("write field descriptor", err))
		}
		offset += fieldDescSize
	}
	trailer := []byte{byte(markerColumnEnd), 0x00, byte(markerEOF)}
	if _, err := h.WriteAt(trailer, offset); err != nil {
		return closeOnErr(wrap("write header trailer", err))
	}
	if err := h.Close(); err != nil {
		return nil, wrap("close "+path, err)
	}

	debugf("created %s: version=%x fields=%d header_length=%d record_length=%d", path, byte(version), len(fields), headerLength, recordLength)

	return &File{
		path:         path,
		fs:           fs,
		version:      version,
		readMode:     Strict,
		encoding:     enc,
		transcoder:   transcoder,
		recordCount:  0,
		lastUpdate:   now,
		fields:       fields,
		headerLength: headerLength,
		recordLength: recordLength,
	}, nil
}
