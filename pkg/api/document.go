package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Object is a JSON object that keeps its keys in insertion order, so a
// rendered document is byte-stable across runs.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Document is a rendered state machine: {"StartAt": ..., "States": {...}}
// plus optional top-level fields.
type Document struct {
	root *Object
}

// NewDocument wraps a rendered root object.
func NewDocument(root *Object) *Document {
	return &Document{root: root}
}

// Root returns the underlying ordered object.
func (d *Document) Root() *Object {
	return d.root
}

// StartAt returns the name of the entry state.
func (d *Document) StartAt() string {
	v, _ := d.root.Get("StartAt")
	s, _ := v.(string)
	return s
}

// StateNames returns the top-level state names in emission order.
func (d *Document) StateNames() []string {
	v, ok := d.root.Get("States")
	if !ok {
		return nil
	}
	states, ok := v.(*Object)
	if !ok {
		return nil
	}
	names := make([]string, 0, states.Len())
	for pair := states.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// State returns the rendered fragment of the top-level state called name.
func (d *Document) State(name string) (*Object, bool) {
	v, ok := d.root.Get("States")
	if !ok {
		return nil, false
	}
	states, ok := v.(*Object)
	if !ok {
		return nil, false
	}
	sv, ok := states.Get(name)
	if !ok {
		return nil, false
	}
	obj, ok := sv.(*Object)
	return obj, ok
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.root.MarshalJSON()
}

// JSON returns the compact JSON encoding.
func (d *Document) JSON() (string, error) {
	b, err := d.root.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IndentedJSON returns the JSON encoding indented with indent.
func (d *Document) IndentedJSON(indent string) (string, error) {
	b, err := d.root.MarshalJSON()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", indent); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fingerprint returns the hex SHA-256 of the compact JSON encoding. Two
// documents with the same fingerprint are byte-identical.
func (d *Document) Fingerprint() (string, error) {
	s, err := d.JSON()
	if err != nil {
		return "", err
	}
	return FingerprintOf(s), nil
}

// FingerprintOf hashes an already rendered document.
func FingerprintOf(doc string) string {
	sum := sha256.Sum256([]byte(doc))
	return hex.EncodeToString(sum[:])
}

// YAML returns the document as YAML, keeping the key order of the JSON form.
func (d *Document) YAML() (string, error) {
	node, err := toYAMLNode(d.root)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toYAMLNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			child, err := toYAMLNode(pair.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pair.Key, err)
			}
			n.Content = append(n.Content, yamlString(pair.Key), child)
		}
		return n, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			child, err := toYAMLNode(val[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			n.Content = append(n.Content, yamlString(k), child)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range val {
			child, err := toYAMLNode(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(val); err != nil {
			return nil, err
		}
		return n, nil
	}
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
