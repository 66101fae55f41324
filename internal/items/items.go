// Package items loads the text shown in the list.
//
// A YAML items file is either a sequence of strings or a mapping with an
// "items" sequence. Any other file is plain text, one item per paragraph
// (items are separated by blank lines, so an item may span several lines).
package items

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCount is the number of generated items when no file is configured.
const DefaultCount = 40

// ErrEmpty is returned when an items file contains no items.
var ErrEmpty = errors.New("items file has no items")

// Defaults returns "Item 1" through "Item n".
func Defaults(n int) []string {
	out := make([]string, n)
	for i := range n {
		out[i] = fmt.Sprintf("Item %d", i+1)
	}
	return out
}

// Load reads items from path. An empty path yields Defaults(DefaultCount).
func Load(path string) ([]string, error) {
	if path == "" {
		return Defaults(DefaultCount), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return nil, fmt.Errorf("reading items file: %w", err)
	}

	var out []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		out, err = parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing items file %s: %w", path, err)
		}
	default:
		out = parseText(string(data))
	}

	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

type itemsDoc struct {
	Items []string `yaml:"items"`
}

func parseYAML(data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	var out []string
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&out); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var doc itemsDoc
		if err := root.Decode(&doc); err != nil {
			return nil, err
		}
		out = doc.Items
	default:
		return nil, fmt.Errorf("expected a list or an items key, got %s", kindName(root.Kind))
	}

	kept := out[:0]
	for _, item := range out {
		if item = strings.TrimRight(item, "\n"); strings.TrimSpace(item) != "" {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

func parseText(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, strings.TrimRight(line, " \t"))
	}
	flush()
	return out
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
