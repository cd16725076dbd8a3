package dbase

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Record maps a field name to a decoded value: string, float64, bool,
// time.Time (date or datetime), int32, or nil.
type Record map[string]any

// deletedKey is the marker key added to a Record decoded from a deleted
// frame. It is namespaced with a NUL prefix so it can never collide with a
// real field name (names are limited to printable ASCII, §4.2).
const deletedKey = "\x00DELETED"

// Deleted reports whether r was decoded from a deleted record frame.
func (r Record) Deleted() bool {
	_, ok := r[deletedKey]
	return ok
}

// recordCodec holds the per-open state the record codec needs to decode or
// encode field values: the field list, an encoding resolver, the
// transcoder capability, and an optional memo reader (nil if the file has
// no memo or none was opened).
type recordCodec struct {
	fields     []FieldDescriptor
	encoding   Encoding
	transcoder Transcoder
	memo       *memoReader
}

// decodeFrame turns one record_length-byte frame (including its leading
// deletion-flag byte) into a Record. includeDeleted controls whether a
// deleted frame is decoded at all (nil, false is returned if not).
func (c *recordCodec) decodeFrame(frame []byte, includeDeleted bool) (Record, bool, error) {
	deleted := frame[0] == byte(markerDeleted)
	if deleted && !includeDeleted {
		return nil, false, nil
	}
	rec := make(Record, len(c.fields)+1)
	if deleted {
		rec[deletedKey] = true
	}
	offset := 1
	for _, f := range c.fields {
		raw := frame[offset : offset+int(f.Size)]
		offset += int(f.Size)
		if !f.Type.known() {
			continue
		}
		v, err := c.decodeField(f, raw)
		if err != nil {
			return nil, false, wrap("decode field "+f.Name, err)
		}
		rec[f.Name] = v
	}
	return rec, true, nil
}

func (c *recordCodec) decodeField(f FieldDescriptor, raw []byte) (any, error) {
	switch f.Type {
	case Character:
		trimmed := trimTrailing(raw, byte(markerBlank))
		return c.transcoder.Decode(trimmed, c.encoding.For(f.Name))
	case Numeric, Float:
		s := strings.TrimLeft(string(raw), " ")
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, wrap("parse numeric", err)
		}
		return v, nil
	case Logical:
		switch raw[0] {
		case 'T', 't', 'Y', 'y':
			return true, nil
		case 'F', 'f', 'N', 'n':
			return false, nil
		default:
			return nil, nil
		}
	case DateField:
		t, ok := decodeDate(raw)
		if !ok {
			return nil, nil
		}
		return t, nil
	case DateTime:
		if raw[0] == byte(markerBlank) {
			return nil, nil
		}
		jd := int32(binary.LittleEndian.Uint32(raw[0:4]))
		ms := int32(binary.LittleEndian.Uint32(raw[4:8]))
		return decodeDateTime(jd, ms), nil
	case Double:
		bits := binary.LittleEndian.Uint64(raw)
		return math.Float64frombits(bits), nil
	case Integer:
		return int32(binary.LittleEndian.Uint32(raw)), nil
	case Memo:
		index, ok := c.decodeMemoIndex(raw)
		if !ok {
			return nil, nil
		}
		if c.memo == nil {
			return nil, nil
		}
		data, err := c.memo.read(index)
		if err != nil {
			return nil, err
		}
		return c.transcoder.Decode(data, c.encoding.For(f.Name))
	default:
		return nil, wrap("decode field", ErrUnsupportedFieldType)
	}
}

func (c *recordCodec) decodeMemoIndex(raw []byte) (int64, bool) {
	if len(raw) == 4 {
		v := int32(binary.LittleEndian.Uint32(raw))
		if v == 0 {
			return 0, false
		}
		return int64(v), true
	}
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// encodeFrame encodes one live record into a record_length-byte frame,
// including the leading 0x20 deletion-flag byte.
func (c *recordCodec) encodeFrame(values Record, frameLen int) ([]byte, error) {
	frame := make([]byte, frameLen)
	frame[0] = byte(markerActive)
	offset := 1
	for _, f := range c.fields {
		raw, err := c.encodeField(f, values[f.Name])
		if err != nil {
			return nil, err
		}
		copy(frame[offset:offset+int(f.Size)], raw)
		offset += int(f.Size)
	}
	return frame, nil
}

func (c *recordCodec) encodeField(f FieldDescriptor, v any) ([]byte, error) {
	switch f.Type {
	case Character:
		buf := make([]byte, f.Size)
		for i := range buf {
			buf[i] = byte(markerBlank)
		}
		if v == nil {
			return buf, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, &ValueTypeMismatchError{Field: f.Name, Kind: f.Type}
		}
		if utf8.RuneCountInString(s) > 255 {
			return nil, &TextTooLongError{Field: f.Name, Max: 255}
		}
		encoded, err := c.transcoder.Encode(s, c.encoding.For(f.Name))
		if err != nil {
			return nil, wrap("encode field "+f.Name, err)
		}
		n := len(encoded)
		if n > int(f.Size) {
			n = int(f.Size)
		}
		copy(buf, encoded[:n])
		return buf, nil
	case Numeric, Float:
		buf := make([]byte, f.Size)
		for i := range buf {
			buf[i] = byte(markerBlank)
		}
		if v == nil {
			return buf, nil
		}
		num, ok := asFloat64(v)
		if !ok {
			return nil, &ValueTypeMismatchError{Field: f.Name, Kind: f.Type}
		}
		s := strconv.FormatFloat(num, 'f', int(f.Decimals), 64)
		if len(s) > int(f.Size) {
			s = s[:f.Size]
		}
		copy(buf[int(f.Size)-len(s):], s)
		return buf, nil
	case Logical:
		if v == nil {
			return []byte{byte(markerBlank)}, nil
		}
		b, ok := v.(bool)
		if !ok {
			return nil, &ValueTypeMismatchError{Field: f.Name, Kind: f.Type}
		}
		if b {
			return []byte{'T'}, nil
		}
		return []byte{'F'}, nil
	case DateField:
		if v == nil {
			return []byte("        "), nil
		}
		t, ok := v.(time.Time)
		if !ok {
			return nil, &ValueTypeMismatchError{Field: f.Name, Kind: f.Type}
		}
		return encodeDate(t), nil
	case DateTime:
		if v == nil {
			return make([]byte, 8), nil
		}
		t, ok := v.(time.Time)
		if !ok {
			return nil, &ValueTypeMismatchError{Field: f.Name, Kind: f.Type}
		}
		jd, ms := encodeDateTime(t)
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(jd))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(ms))
		return buf, nil
	case Double:
		buf := make([]byte, 8)
		if v == nil {
			return buf, nil
		}
		num, ok := asFloat64(v)
		if !ok {
			return nil, &ValueTypeMismatchError{Field: f.Name, Kind: f.Type}
		}
		binary.LittleEndian.PutUint64(buf, math.Float64bits(num))
		return buf, nil
	case Integer:
		buf := make([]byte, 4)
		if v == nil {
			return buf, nil
		}
		switch n := v.(type) {
		case int32:
			binary.LittleEndian.PutUint32(buf, uint32(n))
		case int:
			binary.LittleEndian.PutUint32(buf, uint32(int32(n)))
		default:
			return nil, &ValueTypeMismatchError{Field: f.Name, Kind: f.Type}
		}
		return buf, nil
	case Memo:
		return nil, wrap("encode field "+f.Name, ErrMemoWriteUnsupported)
	default:
		return nil, wrap("encode field "+f.Name, ErrUnsupportedFieldType)
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func trimTrailing(b []byte, c byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == c {
		end--
	}
	return b[:end]
}
