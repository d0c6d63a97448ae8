// Package input provides the entry node of a workflow graph: it turns the
// run's initial query payload into the first node output, optionally validated
// against a declared JSON schema.
package input

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/voltway/weaver/pkg/models"
)

type InputNode struct {
	id     string
	schema map[string]any
}

func NewInputNode(id string, config map[string]any) (*InputNode, error) {
	schema, _ := config["schema"].(map[string]any)

	return &InputNode{id: id, schema: schema}, nil
}

// Execute validates the run's query payload against the declared schema and
// passes it through unchanged.
func (n *InputNode) Execute(_ context.Context, execCtx models.ExecutionContext) (map[string]any, error) {
	payload := execCtx.Query
	if payload == nil {
		payload = map[string]any{}
	}

	if len(n.schema) > 0 {
		if err := validatePayload(payload, n.schema); err != nil {
			return nil, err
		}
	}

	return payload, nil
}

func validatePayload(payload, schema map[string]any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(payload))
	if err != nil {
		return &models.ErrorInfo{Name: "SchemaValidationError", Message: err.Error()}
	}

	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}

		return &models.ErrorInfo{
			Name:    "SchemaValidationError",
			Message: fmt.Sprintf("query payload does not match input schema: %s", strings.Join(descriptions, "; ")),
		}
	}

	return nil
}
