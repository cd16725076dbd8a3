package dbase

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Transcoder is the external capability this package relies on for
// converting between raw field bytes and text: "given an encoding label,
// decode a byte slice to text and encode text back to bytes".
type Transcoder interface {
	Decode(data []byte, label string) (string, error)
	Encode(text string, label string) ([]byte, error)
}

// Encoding selects a character encoding per field, falling back to a
// default label when no field-specific override exists. A zero value
// resolves every field to ISO-8859-1, the dBase III-era default.
type Encoding struct {
	Default string
	Fields  map[string]string
}

// NewEncoding builds a single-label Encoding applied uniformly to all
// fields.
func NewEncoding(label string) Encoding {
	return Encoding{Default: label}
}

// For resolves the encoding label to use for a named field: the field's
// override if present, else the default, else ISO-8859-1.
func (e Encoding) For(field string) string {
	if e.Fields != nil {
		if label, ok := e.Fields[field]; ok {
			return label
		}
	}
	if e.Default == "" {
		return "ISO-8859-1"
	}
	return e.Default
}

// defaultTranscoder is the package's out-of-the-box Transcoder, built on
// golang.org/x/text. It is used whenever OpenOptions/CreateOptions leaves
// Transcoder nil.
type defaultTranscoder struct{}

var stdTranscoder Transcoder = defaultTranscoder{}

func resolveEncoding(label string) (encoding.Encoding, error) {
	norm := strings.ToLower(strings.TrimSpace(label))
	switch norm {
	case "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "gb2312", "gbk":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	case "tis620", "tis-620", "windows-874":
		return charmap.Windows874, nil
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return enc, nil
	}
	return nil, wrap("resolve encoding "+label, ErrUnsupportedEncoding)
}

func (defaultTranscoder) Decode(data []byte, label string) (string, error) {
	enc, err := resolveEncoding(label)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", wrap("decode text", err)
	}
	return string(out), nil
}

func (defaultTranscoder) Encode(text string, label string) ([]byte, error) {
	enc, err := resolveEncoding(label)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, wrap("encode text", err)
	}
	return out, nil
}
