// Package conditional provides the branching node: it evaluates a condition
// over resolved values and reports which outgoing branch stays selected.
// Downstream edge selection keys off the "branch" output value.
package conditional

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/voltway/weaver/pkg/models"
)

type ConditionalNode struct {
	id        string
	value     any
	operator  string
	compareTo any
}

func NewConditionalNode(id string, config map[string]any) (*ConditionalNode, error) {
	node := &ConditionalNode{id: id}

	value, ok := config["value"]
	if !ok {
		condition, hasCondition := config["condition"].(map[string]any)
		if !hasCondition {
			return nil, errors.New("conditional node requires a 'value' or 'condition' entry")
		}

		node.value = condition["left"]
		node.operator, _ = condition["operator"].(string)
		node.compareTo = condition["right"]

		return node, nil
	}

	node.value = value
	node.operator, _ = config["operator"].(string)
	node.compareTo = config["compare_to"]

	return node, nil
}

func (n *ConditionalNode) Execute(_ context.Context, _ models.ExecutionContext) (map[string]any, error) {
	result, err := n.evaluate()
	if err != nil {
		return nil, &models.ErrorInfo{Name: "BehaviorError", Message: err.Error()}
	}

	branch := "false"
	if result {
		branch = "true"
	}

	return map[string]any{
		"result": result,
		"branch": branch,
	}, nil
}

func (n *ConditionalNode) evaluate() (bool, error) {
	if n.operator == "" {
		return truthy(n.value), nil
	}

	switch n.operator {
	case "eq", "==":
		return equalValues(n.value, n.compareTo), nil
	case "ne", "!=":
		return !equalValues(n.value, n.compareTo), nil
	case "gt", ">":
		return compareNumeric(n.value, n.compareTo, func(a, b float64) bool { return a > b })
	case "gte", ">=":
		return compareNumeric(n.value, n.compareTo, func(a, b float64) bool { return a >= b })
	case "lt", "<":
		return compareNumeric(n.value, n.compareTo, func(a, b float64) bool { return a < b })
	case "lte", "<=":
		return compareNumeric(n.value, n.compareTo, func(a, b float64) bool { return a <= b })
	case "contains":
		return strings.Contains(stringify(n.value), stringify(n.compareTo)), nil
	default:
		return false, fmt.Errorf("unknown conditional operator: %s", n.operator)
	}
}

// truthy mirrors the usual scripting-language semantics: nil, false, zero,
// empty string and empty collections select the false branch.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && !strings.EqualFold(v, "false")
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func equalValues(left, right any) bool {
	if lf, lok := asFloat(left); lok {
		if rf, rok := asFloat(right); rok {
			return lf == rf
		}
	}

	return stringify(left) == stringify(right)
}

func compareNumeric(left, right any, cmp func(a, b float64) bool) (bool, error) {
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)

	if !lok || !rok {
		return false, fmt.Errorf("numeric comparison requires numeric operands, got %T and %T", left, right)
	}

	return cmp(lf, rf), nil
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)

		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}
