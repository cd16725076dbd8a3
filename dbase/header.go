package dbase

import (
	"encoding/binary"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// header mirrors the fixed 32-byte prelude of a dBase file.
type header struct {
	version      FileVersion
	year         int // offset+1900, stored verbatim
	month        int // accepted 0..12 verbatim, written 1-based
	day          int
	recordCount  int32
	headerLength uint16
	recordLength uint16
}

// lastUpdate returns the header's last-modified date using the
// always-1900-based year convention spec pins for this format.
func (h header) lastUpdate() time.Time {
	return time.Date(1900+h.year, time.Month(h.month), h.day, 0, 0, 0, 0, time.UTC)
}

func decodeHeader(raw []byte) (header, error) {
	if len(raw) < headerSize {
		return header{}, wrap("decode header", ErrBadHeaderTerminator)
	}
	h := header{
		version:      FileVersion(raw[0]),
		year:         int(raw[1]),
		month:        int(raw[2]),
		day:          int(raw[3]),
		recordCount:  int32(binary.LittleEndian.Uint32(raw[4:8])),
		headerLength: binary.LittleEndian.Uint16(raw[8:10]),
		recordLength: binary.LittleEndian.Uint16(raw[10:12]),
	}
	return h, nil
}

func encodeHeader(h header) []byte {
	raw := make([]byte, headerSize)
	raw[0] = byte(h.version)
	raw[1] = byte(h.year)
	raw[2] = byte(h.month)
	raw[3] = byte(h.day)
	binary.LittleEndian.PutUint32(raw[4:8], uint32(h.recordCount))
	binary.LittleEndian.PutUint16(raw[8:10], h.headerLength)
	binary.LittleEndian.PutUint16(raw[10:12], h.recordLength)
	return raw
}

// decodeFieldDescriptor parses one 32-byte field descriptor. Field names
// are always ISO-8859-1 regardless of the file's data encoding.
func decodeFieldDescriptor(raw []byte) (FieldDescriptor, error) {
	if len(raw) < fieldDescSize {
		return FieldDescriptor{}, wrap("decode field descriptor", ErrBadHeaderTerminator)
	}
	nameEnd := 0
	for nameEnd < 11 && raw[nameEnd] != 0x00 {
		nameEnd++
	}
	name, err := charmap.ISO8859_1.NewDecoder().String(string(raw[0:nameEnd]))
	if err != nil {
		return FieldDescriptor{}, wrap("decode field name", err)
	}
	return FieldDescriptor{
		Name:     name,
		Type:     FieldType(raw[11]),
		Size:     raw[16],
		Decimals: raw[17],
	}, nil
}

func encodeFieldDescriptor(f FieldDescriptor) ([]byte, error) {
	raw := make([]byte, fieldDescSize)
	nameBytes, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(f.Name))
	if err != nil {
		return nil, wrap("encode field name "+f.Name, err)
	}
	copy(raw[0:11], nameBytes)
	raw[11] = byte(f.Type)
	raw[16] = f.Size
	raw[17] = f.Decimals
	raw[20] = 1 // work area id
	return raw, nil
}

// memoPath derives the companion memo file path for a data file path and
// version, per the extension-substitution rules in the header codec
// contract. It does not check existence; callers resolve case with
// FileSystem.FindSibling.
func memoPath(dataPath string, version FileVersion) (string, bool) {
	if !version.hasMemo() {
		return "", false
	}
	ext := extOf(dataPath)
	base := dataPath[:len(dataPath)-len(ext)]
	if version == VisualFoxPro {
		if strings.EqualFold(ext, ".dbf") {
			return base + ".fpt", true
		}
		if len(ext) >= 2 {
			return base + ext[:len(ext)-1] + "t", true
		}
		return base + ".fpt", true
	}
	return base + ".dbt", true
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/' && path[i] != '\\'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}
