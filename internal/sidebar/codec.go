package sidebar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// The external shape is {"<sidebar id>": {"<label>": ["<doc id>", ...], ...}}.
// Go maps lose key order, so both codecs walk tokens/nodes by hand.

var (
	// ErrDuplicateLabel is returned when a category label appears twice in one sidebar.
	ErrDuplicateLabel = errors.New("duplicate category label")
	// ErrSidebarCount is returned when a document does not hold exactly one sidebar.
	ErrSidebarCount = errors.New("expected exactly one sidebar")
)

// MarshalJSON encodes m preserving category order.
func (m Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	id, err := json.Marshal(m.ID)
	if err != nil {
		return nil, err
	}
	buf.WriteByte('{')
	buf.Write(id)
	buf.WriteString(":{")
	for i, c := range m.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(c.Label)
		if err != nil {
			return nil, err
		}
		items := c.Items
		if items == nil {
			items = []string{}
		}
		ids, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(ids)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a single sidebar, keeping category order and
// rejecting duplicate labels.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	if !dec.More() {
		return fmt.Errorf("%w: document is empty", ErrSidebarCount)
	}
	id, err := stringToken(dec)
	if err != nil {
		return err
	}
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("sidebar %q: %w", id, err)
	}

	out := Manifest{ID: id, Categories: []Category{}}
	seen := make(map[string]struct{})
	for dec.More() {
		label, err := stringToken(dec)
		if err != nil {
			return fmt.Errorf("sidebar %q: %w", id, err)
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("sidebar %q: %w: %q", id, ErrDuplicateLabel, label)
		}
		seen[label] = struct{}{}

		var raw []*string
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("sidebar %q category %q: %w", id, label, err)
		}
		if raw == nil {
			return fmt.Errorf("sidebar %q category %q must be a list of document ids", id, label)
		}
		items := make([]string, 0, len(raw))
		for _, item := range raw {
			if item == nil {
				return fmt.Errorf("sidebar %q category %q: document id must be a string", id, label)
			}
			items = append(items, *item)
		}
		out.Categories = append(out.Categories, Category{Label: label, Items: items})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("%w: found another sidebar after %q", ErrSidebarCount, id)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	*m = out
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read sidebar: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("read sidebar: expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("read sidebar: %w", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("read sidebar: expected object key, got %v", tok)
	}
	return s, nil
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// MarshalYAML encodes m as an ordered mapping.
func (m Manifest) MarshalYAML() (any, error) {
	cats := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range m.Categories {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, id := range c.Items {
			seq.Content = append(seq.Content, strNode(id))
		}
		cats.Content = append(cats.Content, strNode(c.Label), seq)
	}
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{strNode(m.ID), cats}}, nil
}

// UnmarshalYAML decodes a single sidebar from an ordered mapping.
func (m *Manifest) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: sidebar document must be a mapping", value.Line)
	}
	if len(value.Content) != 2 {
		return fmt.Errorf("line %d: %w, got %d", value.Line, ErrSidebarCount, len(value.Content)/2)
	}

	var id string
	if err := value.Content[0].Decode(&id); err != nil {
		return fmt.Errorf("line %d: sidebar id: %w", value.Content[0].Line, err)
	}
	cats := value.Content[1]
	if cats.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: sidebar %q must map labels to documents", cats.Line, id)
	}

	out := Manifest{ID: id, Categories: []Category{}}
	seen := make(map[string]struct{})
	for i := 0; i+1 < len(cats.Content); i += 2 {
		keyNode, itemsNode := cats.Content[i], cats.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: category label must be a string", keyNode.Line)
		}
		label := keyNode.Value
		if _, dup := seen[label]; dup {
			return fmt.Errorf("line %d: sidebar %q: %w: %q", keyNode.Line, id, ErrDuplicateLabel, label)
		}
		seen[label] = struct{}{}

		if itemsNode.Kind != yaml.SequenceNode {
			return fmt.Errorf("line %d: category %q must be a list of document ids", itemsNode.Line, label)
		}
		items := make([]string, 0, len(itemsNode.Content))
		for _, n := range itemsNode.Content {
			if n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
				return fmt.Errorf("line %d: category %q: document id must be a string", n.Line, label)
			}
			items = append(items, n.Value)
		}
		out.Categories = append(out.Categories, Category{Label: label, Items: items})
	}
	*m = out
	return nil
}

// EncodeJSON renders m as indented JSON.
func EncodeJSON(m Manifest) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode sidebar: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("encode sidebar: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// DecodeJSON parses a manifest from JSON.
func DecodeJSON(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode sidebar: %w", err)
	}
	return m, nil
}

// EncodeYAML renders m as YAML.
func EncodeYAML(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode sidebar: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode sidebar: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeYAML parses a manifest from YAML. An empty document holds no sidebar
// and fails like an empty JSON object.
func DecodeYAML(data []byte) (Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Manifest{}, fmt.Errorf("decode sidebar: %w", err)
	}
	if len(doc.Content) == 0 {
		return Manifest{}, fmt.Errorf("decode sidebar: %w: document is empty", ErrSidebarCount)
	}
	var m Manifest
	if err := doc.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode sidebar: %w", err)
	}
	return m, nil
}
