package fs

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/scribe/pkg/core"
)

// Serializer defines how to read and write a specific file format.
type Serializer interface {
	// Decode parses raw file bytes into a Record.
	// Failures wrap core.ErrMalformedRecord.
	Decode(data []byte) (core.Record, error)
	// Encode converts the Record to bytes such that Decode reproduces its
	// name and content exactly.
	Encode(r core.Record) ([]byte, error)
}

// DefaultExtension is the extension of record files written by the repository.
const DefaultExtension = ".xml"

// DefaultSerializers returns the standard set of serializers.
// Only the XML one is used for writing; the others allow importing notes
// kept in other formats.
func DefaultSerializers() map[string]Serializer {
	md := NewMarkdownSerializer()
	yml := NewYAMLSerializer()
	return map[string]Serializer{
		".xml":  NewXMLSerializer(),
		".json": NewJSONSerializer(),
		".yaml": yml,
		".yml":  yml,
		".md":   md,
		".txt":  md,
	}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrMalformedRecord, fmt.Sprintf(format, args...))
}

// --- XML Serializer ---

const encodingBase64 = "base64"

// XMLSerializer reads and writes the native record format:
//
//	<entity><name>…</name><content>…</content></entity>
//
// Text that XML 1.0 cannot carry (NUL and most other control characters,
// invalid UTF-8) is stored base64-encoded with encoding="base64".
type XMLSerializer struct{}

// NewXMLSerializer creates a new XML serializer.
func NewXMLSerializer() *XMLSerializer {
	return &XMLSerializer{}
}

type xmlEntity struct {
	XMLName xml.Name `xml:"entity"`
	Name    *xmlText `xml:"name"`
	Content xmlText  `xml:"content"`
}

type xmlText struct {
	Encoding string `xml:"encoding,attr,omitempty"`
	Text     string `xml:",chardata"`
}

func newXMLText(s string) xmlText {
	if representable(s) {
		return xmlText{Text: s}
	}
	return xmlText{Encoding: encodingBase64, Text: base64.StdEncoding.EncodeToString([]byte(s))}
}

func (t xmlText) value() (string, error) {
	switch t.Encoding {
	case "":
		return t.Text, nil
	case encodingBase64:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(t.Text))
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown encoding %q", t.Encoding)
	}
}

// representable reports whether s survives an XML 1.0 round trip as-is.
func representable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

func (s *XMLSerializer) Decode(data []byte) (core.Record, error) {
	if !utf8.Valid(data) {
		return core.Record{}, malformed("not valid UTF-8")
	}

	var e xmlEntity
	if err := xml.Unmarshal(data, &e); err != nil {
		return core.Record{}, malformed("invalid xml: %v", err)
	}
	if e.Name == nil {
		return core.Record{}, malformed("missing name element")
	}

	name, err := e.Name.value()
	if err != nil {
		return core.Record{}, malformed("name: %v", err)
	}
	if name == "" {
		return core.Record{}, malformed("empty name")
	}
	content, err := e.Content.value()
	if err != nil {
		return core.Record{}, malformed("content: %v", err)
	}

	return core.NewRecord(name, content), nil
}

func (s *XMLSerializer) Encode(r core.Record) ([]byte, error) {
	name := newXMLText(r.Name)
	e := xmlEntity{
		Name:    &name,
		Content: newXMLText(r.Content),
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// --- JSON Serializer ---

type jsonRecord struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Content string `json:"content" yaml:"content"`
}

// JSONSerializer handles {"name": …, "content": …} documents.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Decode(data []byte) (core.Record, error) {
	var payload jsonRecord
	if err := json.Unmarshal(data, &payload); err != nil {
		return core.Record{}, malformed("invalid json: %v", err)
	}
	return core.NewRecord(payload.Name, payload.Content), nil
}

func (s *JSONSerializer) Encode(r core.Record) ([]byte, error) {
	return json.MarshalIndent(jsonRecord{Name: r.Name, Content: r.Content}, "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer handles name/content mappings.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Decode(data []byte) (core.Record, error) {
	var payload jsonRecord
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return core.Record{}, malformed("invalid yaml: %v", err)
	}
	return core.NewRecord(payload.Name, payload.Content), nil
}

func (s *YAMLSerializer) Encode(r core.Record) ([]byte, error) {
	return yaml.Marshal(jsonRecord{Name: r.Name, Content: r.Content})
}

// --- Markdown Serializer ---

// MarkdownSerializer reads plain text with an optional YAML frontmatter.
// The frontmatter may carry a "name" key; everything after it is content.
type MarkdownSerializer struct{}

// NewMarkdownSerializer creates a new Markdown serializer.
func NewMarkdownSerializer() *MarkdownSerializer {
	return &MarkdownSerializer{}
}

func (s *MarkdownSerializer) Decode(data []byte) (core.Record, error) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return core.NewRecord("", string(data)), nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return core.Record{}, malformed("frontmatter started but no closing delimiter found")
	}

	var meta map[string]any
	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return core.Record{}, malformed("failed to parse frontmatter: %v", err)
	}

	content := strings.TrimPrefix(string(parts[1]), "\r\n")
	content = strings.TrimPrefix(content, "\n")

	var name string
	if v, ok := meta["name"]; ok && v != nil {
		name = fmt.Sprint(v)
	}
	return core.NewRecord(name, content), nil
}

func (s *MarkdownSerializer) Encode(r core.Record) ([]byte, error) {
	var buf bytes.Buffer
	if r.Name != "" {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(map[string]string{"name": r.Name}); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	}
	buf.WriteString(r.Content)
	return buf.Bytes(), nil
}

var errNoSerializer = errors.New("no serializer registered")
