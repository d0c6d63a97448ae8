// Package resolver resolves mention expressions embedded in node
// configuration against the current run's recorded node outputs. Resolution is
// purely structural: the value a mention yields is exactly the value a direct
// lookup on the upstream output would find, with no coercion.
package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/voltway/weaver/pkg/jsontree"
	"github.com/voltway/weaver/pkg/models"
)

var (
	// ErrUnknownNode is returned when a mention targets a node id absent
	// from the run state.
	ErrUnknownNode = errors.New("mention references unknown node")

	// ErrUpstreamNotReady is returned when the referenced node has not
	// completed. Scheduling order makes this unreachable for valid graphs;
	// seeing it indicates an engine bug, not a user error.
	ErrUpstreamNotReady = errors.New("mention references node that has not completed")

	// ErrPathNotFound is returned when the mention path does not exist in
	// the resolved upstream output.
	ErrPathNotFound = errors.New("mention path not found in upstream output")
)

// ResolutionError wraps a resolution failure with the mention that caused it.
type ResolutionError struct {
	NodeID string
	Path   string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving mention {%s %s}: %v", e.NodeID, e.Path, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolve looks up a single mention against the run's node results.
func Resolve(mention models.Mention, results map[string]*models.NodeResult) (any, error) {
	result, ok := results[mention.NodeID]
	if !ok {
		return nil, &ResolutionError{NodeID: mention.NodeID, Path: mention.Path, Err: ErrUnknownNode}
	}

	if result.Status != models.NodeStatusCompleted {
		return nil, &ResolutionError{NodeID: mention.NodeID, Path: mention.Path, Err: ErrUpstreamNotReady}
	}

	value, err := walkPath(any(result.Output), mention.Path)
	if err != nil {
		return nil, &ResolutionError{NodeID: mention.NodeID, Path: mention.Path, Err: err}
	}

	return value, nil
}

// ResolveConfig deep-copies a node's configuration with every mention replaced
// by its resolved value and every tagged literal unwrapped. Arrays and nested
// objects are fully traversed, not substituted at the top level only.
func ResolveConfig(config map[string]any, results map[string]*models.NodeResult) (map[string]any, error) {
	var firstErr error

	resolved := jsontree.Map(config, func(v any) (any, bool) {
		if mention, ok := models.MentionFromValue(v); ok {
			value, err := Resolve(mention, results)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}

				return nil, true
			}

			return value, true
		}

		if value, ok := models.LiteralFromValue(v); ok {
			return value, true
		}

		return nil, false
	})

	if firstErr != nil {
		return nil, firstErr
	}

	out, ok := resolved.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}

	return out, nil
}

// RenderValue stringifies a resolved value for interpolation into prompt text.
// Strings pass through untouched; everything else uses its canonical Go
// formatting to stay predictable for template authors.
func RenderValue(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(tv)
	default:
		return fmt.Sprintf("%v", tv)
	}
}

// walkPath descends into a JSON-like structure following dot-separated
// segments with optional array indices: "choices[0].text". An empty path
// yields the value itself.
func walkPath(v any, path string) (any, error) {
	if path == "" {
		return v, nil
	}

	current := v

	for _, segment := range strings.Split(path, ".") {
		key, indices, err := splitSegment(segment)
		if err != nil {
			return nil, err
		}

		if key != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, ErrPathNotFound
			}

			current, ok = m[key]
			if !ok {
				return nil, ErrPathNotFound
			}
		}

		for _, idx := range indices {
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, ErrPathNotFound
			}

			current = arr[idx]
		}
	}

	return current, nil
}

// splitSegment parses one path segment into a key and trailing indices:
// "items[2][0]" -> ("items", [2, 0]).
func splitSegment(segment string) (string, []int, error) {
	open := strings.IndexByte(segment, '[')
	if open < 0 {
		return segment, nil, nil
	}

	key := segment[:open]
	rest := segment[open:]

	var indices []int

	for rest != "" {
		if rest[0] != '[' {
			return "", nil, ErrPathNotFound
		}

		closing := strings.IndexByte(rest, ']')
		if closing < 0 {
			return "", nil, ErrPathNotFound
		}

		idx, err := strconv.Atoi(rest[1:closing])
		if err != nil {
			return "", nil, ErrPathNotFound
		}

		indices = append(indices, idx)
		rest = rest[closing+1:]
	}

	return key, indices, nil
}
