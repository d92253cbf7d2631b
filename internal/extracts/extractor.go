package extracts

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Regular expressions for GoldenGate parameter text. A TABLE statement may
// appear anywhere inside a larger free-text blob, not only at line start.
var (
	reTableStmt = regexp.MustCompile(`(?i)TABLE\s+[\w.*]+[^\n]*`)
	reTableName = regexp.MustCompile(`(?i)TABLE\s+([\w.]+)`)
)

// unnamedExtract labels declarations whose extract entry carries no name.
const unnamedExtract = "UNKNOWN"

// TableDeclaration is one TABLE statement located in an extract's config,
// together with the full string blob it appeared in. COLEXC statements for
// the table may sit anywhere in that same blob, so the context travels with
// the match.
type TableDeclaration struct {
	Extract   string
	Statement string
	Context   string
}

// FindTableDeclarations walks every entry of the document's top-level
// extracts list and collects TABLE statements from all string values nested
// under the entry's config, regardless of key or depth.
func FindTableDeclarations(doc *yaml.Node) []TableDeclaration {
	var decls []TableDeclaration

	for _, entry := range extractEntries(doc) {
		name := mappingString(entry, "name")
		if name == "" {
			name = unnamedExtract
		}
		cfg := mappingValue(entry, "config")
		if cfg == nil {
			log.Debug().Str("extract", name).Msg("extract has no config")
			continue
		}
		walkStrings(cfg, func(s string) {
			for _, m := range reTableStmt.FindAllString(s, -1) {
				decls = append(decls, TableDeclaration{
					Extract:   name,
					Statement: strings.TrimSpace(m),
					Context:   s,
				})
			}
		})
	}

	log.Info().Int("count", len(decls)).Msg("TABLE statements found across all extracts")
	for _, d := range decls {
		log.Info().Str("extract", d.Extract).Str("statement", preview(d.Statement)).Msg("found TABLE statement")
	}
	return decls
}

// extractEntries returns the entry nodes of the top-level extracts list.
func extractEntries(doc *yaml.Node) []*yaml.Node {
	root := doc
	if root != nil && root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	list := mappingValue(root, "extracts")
	if list == nil || list.Kind != yaml.SequenceNode {
		return nil
	}
	return list.Content
}

// walkStrings visits every string scalar reachable from n, depth-first.
// Mapping keys are skipped — only values carry parameter text.
func walkStrings(n *yaml.Node, visit func(string)) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			visit(n.Value)
		}
	case yaml.SequenceNode, yaml.DocumentNode:
		for _, c := range n.Content {
			walkStrings(c, visit)
		}
	case yaml.MappingNode:
		// Content holds alternating key and value nodes.
		for i := 1; i < len(n.Content); i += 2 {
			walkStrings(n.Content[i], visit)
		}
	}
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// mappingString returns the scalar value for key in a mapping node, or "".
func mappingString(n *yaml.Node, key string) string {
	v := mappingValue(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

// preview truncates a statement for log output.
func preview(s string) string {
	if len(s) <= 60 {
		return s
	}
	return s[:60] + "..."
}
