package models

import "github.com/voltway/weaver/pkg/jsontree"

// Config value variant kinds. Mentions and literals are tagged maps embedded
// anywhere inside a node's config; everything else is treated as a plain value.
const (
	ValueKindMention = "mention"
	ValueKindLiteral = "literal"
)

// Mention is an embedded reference from one node's configuration to another
// node's (possibly nested) output value: "take Path from node NodeID's output".
// The wire shape inside config is {"kind":"mention","nodeId":...,"path":...}.
type Mention struct {
	NodeID string `json:"nodeId"`
	Path   string `json:"path"`
}

// MentionFromValue extracts a mention from a config value if the value is a
// tagged mention map.
func MentionFromValue(v any) (Mention, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Mention{}, false
	}

	if kind, _ := m["kind"].(string); kind != ValueKindMention {
		return Mention{}, false
	}

	nodeID, _ := m["nodeId"].(string)
	path, _ := m["path"].(string)

	return Mention{NodeID: nodeID, Path: path}, nodeID != ""
}

// LiteralFromValue unwraps a tagged literal map to its value.
func LiteralFromValue(v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	if kind, _ := m["kind"].(string); kind != ValueKindLiteral {
		return nil, false
	}

	value, ok := m["value"]
	if !ok {
		value = m["text"]
	}

	return value, true
}

// CollectMentions returns every mention embedded anywhere in the given config
// tree. Used by the validator to check mention ancestry before any run starts.
func CollectMentions(config map[string]any) []Mention {
	var mentions []Mention

	jsontree.Walk(config, func(v any) bool {
		if m, ok := MentionFromValue(v); ok {
			mentions = append(mentions, m)

			return false
		}

		return true
	})

	return mentions
}
