package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// fileSchema mirrors the on-disk YAML layout. The mapping sections decode
// into ordered entry slices so declaration order survives the load.
type fileSchema struct {
	Impacts         impactEntries `yaml:"impacts"`
	FunctionalUnits unitEntries   `yaml:"functional_units"`
	Parameters      paramEntries  `yaml:"parameters"`
	Axes            []string      `yaml:"axes"`
}

// impactEntry is one impacts mapping entry. Two value forms are accepted:
// the compact triple `[method, category, indicator]` and the full mapping
// `{method, category, indicator, unit}`.
type impactEntry struct {
	Key       string `yaml:"-"`
	Method    string `yaml:"method"`
	Category  string `yaml:"category"`
	Indicator string `yaml:"indicator"`
	Unit      string `yaml:"unit"`
}

type impactEntries []impactEntry

func (e *impactEntries) UnmarshalYAML(node *yaml.Node) error {
	return eachMappingEntry(node, "impacts", func(key string, value *yaml.Node) error {
		entry := impactEntry{Key: key}
		if value.Kind == yaml.SequenceNode {
			var triple []string
			if err := value.Decode(&triple); err != nil {
				return fmt.Errorf("impacts %q: %w", key, err)
			}
			if len(triple) != 3 {
				return fmt.Errorf("impacts %q: expected [method, category, indicator], got %d elements", key, len(triple))
			}
			entry.Method, entry.Category, entry.Indicator = triple[0], triple[1], triple[2]
		} else if err := value.Decode(&entry); err != nil {
			return fmt.Errorf("impacts %q: %w", key, err)
		}
		*e = append(*e, entry)
		return nil
	})
}

// unitEntry is one functional_units mapping entry.
type unitEntry struct {
	Key     string `yaml:"-"`
	Formula string `yaml:"formula"`
	Unit    string `yaml:"unit"`
}

type unitEntries []unitEntry

func (e *unitEntries) UnmarshalYAML(node *yaml.Node) error {
	return eachMappingEntry(node, "functional_units", func(key string, value *yaml.Node) error {
		entry := unitEntry{Key: key}
		if err := value.Decode(&entry); err != nil {
			return fmt.Errorf("functional_units %q: %w", key, err)
		}
		*e = append(*e, entry)
		return nil
	})
}

// paramEntry is one parameters mapping entry. Min and Max are pointers so
// "no declared range" is distinguishable from a range bound of zero.
type paramEntry struct {
	Key     string   `yaml:"-"`
	Default float64  `yaml:"default"`
	Unit    string   `yaml:"unit"`
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
}

type paramEntries []paramEntry

func (e *paramEntries) UnmarshalYAML(node *yaml.Node) error {
	return eachMappingEntry(node, "parameters", func(key string, value *yaml.Node) error {
		entry := paramEntry{Key: key}
		if err := value.Decode(&entry); err != nil {
			return fmt.Errorf("parameters %q: %w", key, err)
		}
		*e = append(*e, entry)
		return nil
	})
}

// eachMappingEntry walks a YAML mapping node in document order, calling fn
// for each key/value pair. YAML allows duplicate keys in a mapping, so the
// walk rejects them here; registry construction rejects them again for
// programmatic callers.
func eachMappingEntry(node *yaml.Node, section string, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: expected a mapping, got %s", section, nodeKind(node))
	}
	seen := make(map[string]struct{})
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("%s: invalid key at line %d: %w", section, keyNode.Line, err)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%s: duplicate key %q at line %d", section, key, keyNode.Line)
		}
		seen[key] = struct{}{}
		if err := fn(key, valueNode); err != nil {
			return err
		}
	}
	return nil
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.MappingNode:
		return "a mapping"
	default:
		return "an unsupported node"
	}
}
