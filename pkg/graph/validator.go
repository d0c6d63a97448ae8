// Package graph validates workflow structures before execution and produces
// the precomputed adjacency and ancestry data the engine schedules from.
// Validation is a pure function over the given structure: no side effects,
// same result every time.
package graph

import "github.com/voltway/weaver/pkg/models"

var knownKinds = map[models.NodeKind]bool{
	models.NodeKindInput:       true,
	models.NodeKindOutput:      true,
	models.NodeKindLLM:         true,
	models.NodeKindTool:        true,
	models.NodeKindConditional: true,
}

// ValidatedGraph is the immutable result of a successful validation. The
// engine copies InDegrees before mutating its own view.
type ValidatedGraph struct {
	Workflow *models.Workflow

	NodesByID    map[string]*models.Node
	Successors   map[string][]string
	Predecessors map[string][]string
	InDegrees    map[string]int

	// Ancestors maps each node to the set of nodes with an edge path
	// reaching it. Mentions may only target members of this set.
	Ancestors map[string]map[string]bool

	// Order is a topological order of all node ids.
	Order []string

	InputNodeID   string
	OutputNodeIDs []string

	// BranchEdges lists, per conditional node, its outgoing edges that
	// carry a branch handle.
	BranchEdges map[string][]*models.Edge
}

// Validate checks that the workflow is a single connected DAG with the
// expected input/output conventions and no dangling references.
func Validate(wf *models.Workflow) (*ValidatedGraph, error) {
	vg := &ValidatedGraph{
		Workflow:     wf,
		NodesByID:    make(map[string]*models.Node, len(wf.Nodes)),
		Successors:   make(map[string][]string, len(wf.Nodes)),
		Predecessors: make(map[string][]string, len(wf.Nodes)),
		InDegrees:    make(map[string]int, len(wf.Nodes)),
		Ancestors:    make(map[string]map[string]bool, len(wf.Nodes)),
		BranchEdges:  make(map[string][]*models.Edge),
	}

	for _, node := range wf.Nodes {
		if _, exists := vg.NodesByID[node.ID]; exists {
			return nil, &ValidationError{NodeID: node.ID, Err: ErrDuplicateNodeID}
		}

		if !knownKinds[node.Kind] {
			return nil, &ValidationError{NodeID: node.ID, Err: ErrUnknownNodeKind}
		}

		vg.NodesByID[node.ID] = node
		vg.InDegrees[node.ID] = 0
	}

	for _, edge := range wf.Edges {
		source, sourceOK := vg.NodesByID[edge.Source]
		_, targetOK := vg.NodesByID[edge.Target]

		if !sourceOK || !targetOK {
			return nil, &ValidationError{EdgeID: edge.ID, Err: ErrDanglingEdge}
		}

		vg.Successors[edge.Source] = append(vg.Successors[edge.Source], edge.Target)
		vg.Predecessors[edge.Target] = append(vg.Predecessors[edge.Target], edge.Source)
		vg.InDegrees[edge.Target]++

		if source.Kind == models.NodeKindConditional && edge.SourceHandle != "" {
			vg.BranchEdges[edge.Source] = append(vg.BranchEdges[edge.Source], edge)
		}
	}

	if err := vg.checkEntryAndExit(); err != nil {
		return nil, err
	}

	if err := vg.topologicalSort(); err != nil {
		return nil, err
	}

	if err := vg.checkConnectivity(); err != nil {
		return nil, err
	}

	vg.computeAncestors()

	if err := vg.checkMentions(); err != nil {
		return nil, err
	}

	return vg, nil
}

func (vg *ValidatedGraph) checkEntryAndExit() error {
	var inputs, outputs []string

	for id, node := range vg.NodesByID {
		switch node.Kind {
		case models.NodeKindInput:
			inputs = append(inputs, id)
		case models.NodeKindOutput:
			outputs = append(outputs, id)
		}
	}

	// Exactly one input node, and it must be a source: reachable from no
	// other node.
	if len(inputs) != 1 || vg.InDegrees[inputs[0]] != 0 {
		return &ValidationError{Err: ErrMissingInputNode}
	}

	if len(outputs) == 0 {
		return &ValidationError{Err: ErrMissingOutputNode}
	}

	vg.InputNodeID = inputs[0]
	vg.OutputNodeIDs = outputs

	return nil
}

// topologicalSort runs Kahn's algorithm; any node left unordered sits on a
// cycle.
func (vg *ValidatedGraph) topologicalSort() error {
	indeg := make(map[string]int, len(vg.InDegrees))
	for id, d := range vg.InDegrees {
		indeg[id] = d
	}

	var queue []string

	// Iterate workflow order rather than map order for a stable result.
	for _, node := range vg.Workflow.Nodes {
		if indeg[node.ID] == 0 {
			queue = append(queue, node.ID)
		}
	}

	order := make([]string, 0, len(vg.NodesByID))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, succ := range vg.Successors[id] {
			indeg[succ]--
			if indeg[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(vg.NodesByID) {
		return &ValidationError{Err: ErrCycleDetected}
	}

	vg.Order = order

	return nil
}

// checkConnectivity requires the graph to be a single weakly connected
// component rooted at the input node.
func (vg *ValidatedGraph) checkConnectivity() error {
	if len(vg.NodesByID) == 1 {
		return nil
	}

	seen := map[string]bool{vg.InputNodeID: true}
	queue := []string{vg.InputNodeID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, next := range vg.Successors[id] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}

		for _, next := range vg.Predecessors[id] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	for id := range vg.NodesByID {
		if !seen[id] {
			return &ValidationError{NodeID: id, Err: ErrDisconnectedGraph}
		}
	}

	return nil
}

// computeAncestors accumulates ancestor sets along the topological order:
// ancestors(n) = union over predecessors p of ancestors(p) + {p}.
func (vg *ValidatedGraph) computeAncestors() {
	for _, id := range vg.Order {
		anc := make(map[string]bool)

		for _, pred := range vg.Predecessors[id] {
			anc[pred] = true
			for a := range vg.Ancestors[pred] {
				anc[a] = true
			}
		}

		vg.Ancestors[id] = anc
	}
}

// checkMentions rejects mentions that target anything but a strict ancestor,
// which covers forward references, self-references and unknown node ids alike.
func (vg *ValidatedGraph) checkMentions() error {
	for _, node := range vg.Workflow.Nodes {
		for _, mention := range models.CollectMentions(node.Config) {
			if !vg.Ancestors[node.ID][mention.NodeID] {
				return &ValidationError{NodeID: node.ID, Err: ErrInvalidMentionTarget}
			}
		}
	}

	return nil
}
