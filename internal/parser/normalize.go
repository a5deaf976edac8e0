package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Normalize rewrites OpenAPI 3.1 constructs into the equivalent 3.0 forms
// the document model understands, so one internal representation serves
// both versions:
//
//   - type: [T, "null"]            → type: T plus nullable: true
//   - exclusiveMinimum: <number>   → minimum: <number> plus exclusiveMinimum: true
//   - exclusiveMaximum: <number>   → maximum: <number> plus exclusiveMaximum: true
//
// Input that is already 3.0 passes through unchanged apart from YAML
// re-serialization; the loader consumes the result immediately, so the
// original bytes are never written back out.
func Normalize(data []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	normalizeNode(&root)
	out, err := yaml.Marshal(&root)
	if err != nil {
		return nil, fmt.Errorf("re-serialize normalized document: %w", err)
	}
	return out, nil
}

func normalizeNode(n *yaml.Node) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			normalizeNode(c)
		}
	case yaml.MappingNode:
		normalizeMapping(n)
		for _, c := range n.Content {
			normalizeNode(c)
		}
	}
}

func normalizeMapping(n *yaml.Node) {
	typeIdx := -1
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "type":
			if value.Kind == yaml.SequenceNode {
				typeIdx = i
			}
		case "exclusiveMinimum", "exclusiveMaximum":
			normalizeExclusiveBound(n, i)
		}
	}
	if typeIdx >= 0 {
		normalizeTypeArray(n, typeIdx)
	}
}

// normalizeTypeArray rewrites a 3.1 type array. A two-element array with
// "null" collapses to the scalar type plus nullable; a singleton array
// collapses to the scalar. Larger unions are left for the support prober
// to reject.
func normalizeTypeArray(n *yaml.Node, idx int) {
	value := n.Content[idx+1]
	var nonNull []*yaml.Node
	sawNull := false
	for _, el := range value.Content {
		if el.Value == "null" {
			sawNull = true
		} else {
			nonNull = append(nonNull, el)
		}
	}
	if len(nonNull) != 1 {
		return
	}
	n.Content[idx+1] = nonNull[0]
	if sawNull {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "nullable"},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"},
		)
	}
}

// normalizeExclusiveBound rewrites the 3.1 numeric exclusive bounds to the
// 3.0 boolean-plus-bound form.
func normalizeExclusiveBound(n *yaml.Node, idx int) {
	key, value := n.Content[idx], n.Content[idx+1]
	if value.Tag != "!!int" && value.Tag != "!!float" {
		return
	}
	bound := "minimum"
	if key.Value == "exclusiveMaximum" {
		bound = "maximum"
	}
	n.Content = append(n.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: bound},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: value.Tag, Value: value.Value},
	)
	n.Content[idx+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"}
}
