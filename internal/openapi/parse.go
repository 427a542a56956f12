package openapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

// ParseJSON decodes a JSON document into an ordered tree.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected end of JSON input")
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := domain.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("invalid object key %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		// string, bool or nil
		return t, nil
	}
}

// ParseYAML decodes a YAML document into an ordered tree.
func ParseYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty YAML document")
	}
	return convertYAMLNode(doc.Content[0])
}

func convertYAMLNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj := domain.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			val, err := convertYAMLNode(valNode)
			if err != nil {
				return nil, err
			}
			if keyNode.ShortTag() == "!!merge" {
				mergeInto(obj, val)
				continue
			}
			obj.Set(keyNode.Value, val)
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := convertYAMLNode(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil

	case yaml.AliasNode:
		return convertYAMLNode(n.Alias)

	case yaml.ScalarNode:
		return convertYAMLScalar(n)

	default:
		return nil, fmt.Errorf("unsupported YAML node at line %d", n.Line)
	}
}

func convertYAMLScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return nil, err
			}
			return f, nil
		}
		return i, nil
	case "!!float":
		var f float64
		err := n.Decode(&f)
		return f, err
	default:
		return n.Value, nil
	}
}

// mergeInto applies a YAML merge key; explicit keys win over merged ones.
func mergeInto(dst *domain.Object, src any) {
	switch s := src.(type) {
	case *domain.Object:
		for _, k := range s.Keys() {
			if !dst.Has(k) {
				v, _ := s.Get(k)
				dst.Set(k, v)
			}
		}
	case []any:
		for _, item := range s {
			mergeInto(dst, item)
		}
	}
}
