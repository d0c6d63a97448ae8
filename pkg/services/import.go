package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/voltway/weaver/pkg/jsontree"
	"github.com/voltway/weaver/pkg/models"
)

// TemplateVersion is the only template format currently understood by the
// importer.
const TemplateVersion = "1"

// WorkflowTemplate is the importable workflow document. Node and edge ids in
// a template are placeholder ids scoped to the document; import regenerates
// all of them.
type WorkflowTemplate struct {
	Version  string           `json:"version"  validate:"required"`
	Workflow TemplateMetadata `json:"workflow" validate:"required"`
	Nodes    []*models.Node   `json:"nodes"    validate:"required,min=1,dive,required"`
	Edges    []*models.Edge   `json:"edges"    validate:"dive,required"`
}

// TemplateMetadata is the workflow-level portion of a template.
type TemplateMetadata struct {
	Name        string         `json:"name" validate:"required,min=3"`
	Description string         `json:"description,omitempty"`
	Variables   map[string]any `json:"variables,omitempty"`
}

// Importer turns workflow templates into stored workflows with fresh ids.
type Importer struct {
	workflows *Workflow
	validator *validator.Validate
}

func NewImporter(workflows *Workflow) *Importer {
	return &Importer{
		workflows: workflows,
		validator: validator.New(),
	}
}

// Import validates a template, regenerates every node and edge id, rewrites
// all internal cross-references consistently and persists the resulting
// workflow. Template ids never collide with existing workflows because none
// of them survive the import.
func (i *Importer) Import(ctx context.Context, template *WorkflowTemplate, owner string) (*models.Workflow, error) {
	if template == nil {
		return nil, &ServiceError{Op: "Import", Err: ErrInvalidRequest, Message: "template cannot be nil"}
	}

	if err := i.validator.Struct(template); err != nil {
		return nil, &ServiceError{Op: "Import", Err: ErrInvalidRequest, Message: err.Error()}
	}

	if template.Version != TemplateVersion {
		return nil, &ServiceError{
			Op:      "Import",
			Err:     ErrUnsupportedTemplateVersion,
			Message: fmt.Sprintf("template version %q is not supported", template.Version),
		}
	}

	idMap := make(map[string]string, len(template.Nodes))
	for _, node := range template.Nodes {
		idMap[node.ID] = uuid.New().String()
	}

	workflow := &models.Workflow{
		ID:          uuid.New().String(),
		Name:        template.Workflow.Name,
		Description: template.Workflow.Description,
		Variables:   template.Workflow.Variables,
		Owner:       owner,
		Nodes:       make([]*models.Node, 0, len(template.Nodes)),
		Edges:       make([]*models.Edge, 0, len(template.Edges)),
	}

	for _, node := range template.Nodes {
		workflow.Nodes = append(workflow.Nodes, &models.Node{
			ID:           idMap[node.ID],
			Kind:         node.Kind,
			Name:         node.Name,
			Description:  node.Description,
			Config:       remapMentions(node.Config, idMap),
			OutputSchema: node.OutputSchema,
		})
	}

	for _, edge := range template.Edges {
		source, sourceOK := idMap[edge.Source]
		target, targetOK := idMap[edge.Target]

		if !sourceOK || !targetOK {
			return nil, &ServiceError{
				Op:      "Import",
				Err:     ErrInvalidRequest,
				Message: fmt.Sprintf("edge %s references a node outside the template", edge.ID),
			}
		}

		workflow.Edges = append(workflow.Edges, &models.Edge{
			ID:           uuid.New().String(),
			Source:       source,
			Target:       target,
			SourceHandle: edge.SourceHandle,
		})
	}

	return i.workflows.CreateWorkflow(ctx, workflow)
}

// remapMentions deep-rewrites mention references inside a config tree to the
// regenerated node ids. Mentions targeting ids outside the template pass
// through untouched and fail graph validation afterwards.
func remapMentions(config map[string]any, idMap map[string]string) map[string]any {
	if config == nil {
		return nil
	}

	remapped := jsontree.Map(config, func(v any) (any, bool) {
		mention, ok := models.MentionFromValue(v)
		if !ok {
			return nil, false
		}

		newID, ok := idMap[mention.NodeID]
		if !ok {
			return nil, false
		}

		return map[string]any{
			"kind":   models.ValueKindMention,
			"nodeId": newID,
			"path":   mention.Path,
		}, true
	})

	out, ok := remapped.(map[string]any)
	if !ok {
		return config
	}

	return out
}
