package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/workflowwiz/wizard/pkg/models"
)

// Replan produces a repaired revision of a rejected workflow. The prior
// workflow is never mutated; node ids survive every repair so the attempt
// trail stays comparable across revisions.
func (s *Stage) Replan(_ context.Context, intent *models.Intent, prior *models.Workflow, violations []models.Violation) (*models.Workflow, error) {
	workflow := prior.Clone()
	workflow.Revision = prior.Revision + 1
	workflow.Status = models.WorkflowStatusDraft
	workflow.UpdatedAt = time.Now().UTC()

	for _, violation := range violations {
		switch violation.Code {
		case models.ViolationNoTrigger:
			s.repairMissingTrigger(workflow, intent)
		case models.ViolationMultipleTriggers:
			s.repairExtraTrigger(workflow, violation.NodeID)
		case models.ViolationUnknownEndpoint:
			markEdgeRemoved(workflow, violation.EdgeIndex)
		case models.ViolationCycle:
			s.repairCycle(workflow)
		case models.ViolationUnreachable:
			s.repairUnreachable(workflow, violation.NodeID)
		case models.ViolationUnknownTool, models.ViolationUnknownAction:
			s.repairUnknownBinding(workflow, violation.NodeID)
		case models.ViolationMissingParameter:
			s.repairParameters(workflow, violation.NodeID)
		case models.ViolationInvalidSchedule:
			s.repairSchedule(workflow, violation.NodeID, intent)
		case models.ViolationDeadEnd:
			s.repairDeadEnd(workflow, violation.NodeID)
		}
	}

	compactEdges(workflow)

	s.logger.Debug("Repaired workflow",
		"workflow_id", workflow.ID,
		"revision", workflow.Revision,
		"violations", len(violations),
	)

	return workflow, nil
}

func (s *Stage) repairMissingTrigger(workflow *models.Workflow, intent *models.Intent) {
	trigger := &models.WorkflowNode{
		ID:         nextNodeID(workflow),
		Kind:       models.NodeKindTrigger,
		Name:       triggerName(intent.Trigger.Type),
		Tool:       models.ToolNone,
		Action:     string(intent.Trigger.Type),
		Parameters: intent.Trigger.Parameters,
	}

	workflow.Nodes = append([]*models.WorkflowNode{trigger}, workflow.Nodes...)

	// Root the existing graph at the new trigger.
	if len(workflow.Nodes) > 1 {
		workflow.Edges = append(workflow.Edges, &models.Edge{From: trigger.ID, To: workflow.Nodes[1].ID})
	}
}

// repairExtraTrigger drops a surplus trigger node, re-rooting its outgoing
// edges at the remaining primary trigger.
func (s *Stage) repairExtraTrigger(workflow *models.Workflow, nodeID string) {
	triggers := workflow.TriggerNodes()
	if len(triggers) < 2 {
		return
	}

	primary := triggers[0]
	if primary.ID == nodeID {
		primary = triggers[1]
	}

	removeNode(workflow, nodeID, primary.ID)
}

func (s *Stage) repairCycle(workflow *models.Workflow) {
	if !workflow.HasCycle() {
		return
	}

	// Drop the latest edge whose removal breaks the cycle.
	for i := len(workflow.Edges) - 1; i >= 0; i-- {
		candidate := workflow.Edges[i]
		if candidate == nil {
			continue
		}

		workflow.Edges[i] = nil

		if !workflow.HasCycle() {
			return
		}

		workflow.Edges[i] = candidate
	}
}

func (s *Stage) repairUnreachable(workflow *models.Workflow, nodeID string) {
	triggers := workflow.TriggerNodes()
	if len(triggers) == 0 || workflow.Node(nodeID) == nil {
		return
	}

	reached := workflow.ReachableFrom(triggers[0].ID)
	if reached[nodeID] {
		return
	}

	// Attach the stranded node to the tail of the reachable chain.
	tail := triggers[0].ID

	ids := make([]string, 0, len(reached))
	for id := range reached {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		if workflow.OutDegree(id) == 0 {
			tail = id

			break
		}
	}

	workflow.Edges = append(workflow.Edges, &models.Edge{From: tail, To: nodeID})
}

// repairUnknownBinding removes a node the registry cannot satisfy and
// stitches its predecessors to its successors.
func (s *Stage) repairUnknownBinding(workflow *models.Workflow, nodeID string) {
	node := workflow.Node(nodeID)
	if node == nil || node.IsTriggerNode() {
		return
	}

	var successors []string

	for _, edge := range workflow.Edges {
		if edge != nil && edge.From == nodeID {
			successors = append(successors, edge.To)
		}
	}

	var predecessors []string

	for _, edge := range workflow.Edges {
		if edge != nil && edge.To == nodeID {
			predecessors = append(predecessors, edge.From)
		}
	}

	removeNode(workflow, nodeID, "")

	for _, from := range predecessors {
		for _, to := range successors {
			workflow.Edges = append(workflow.Edges, &models.Edge{From: from, To: to})
		}
	}
}

// repairParameters refills schema defaults for every required parameter the
// node is missing. Parameters with no default stay absent; the workflow
// then remains invalid and the repair budget eventually runs out.
func (s *Stage) repairParameters(workflow *models.Workflow, nodeID string) {
	node := workflow.Node(nodeID)
	if node == nil || node.IsTriggerNode() {
		return
	}

	descriptor, ok := s.tools.Get(node.Tool)
	if !ok {
		return
	}

	capability, ok := descriptor.Capability(node.Action)
	if !ok || capability.Parameters == nil {
		return
	}

	if node.Parameters == nil {
		node.Parameters = make(map[string]any)
	}

	for _, required := range capability.Parameters.Required {
		if _, present := node.Parameters[required]; present {
			continue
		}

		if property, ok := capability.Parameters.Properties[required]; ok && property.Default != nil {
			node.Parameters[required] = property.Default
		}
	}
}

func (s *Stage) repairSchedule(workflow *models.Workflow, nodeID string, intent *models.Intent) {
	node := workflow.Node(nodeID)
	if node == nil || !node.IsTriggerNode() {
		return
	}

	if node.Parameters == nil {
		node.Parameters = make(map[string]any)
	}

	if cron, ok := intent.Trigger.Parameters["cron"].(string); ok && cron != "" {
		node.Parameters["cron"] = cron

		return
	}

	// Fall back to a daily schedule when the intent carries no usable
	// expression.
	node.Parameters["cron"] = "0 9 * * *"
}

// repairDeadEnd links a non-terminal leaf to a terminal-capable node when
// one exists, keeping the graph acyclic.
func (s *Stage) repairDeadEnd(workflow *models.Workflow, nodeID string) {
	node := workflow.Node(nodeID)
	if node == nil || workflow.OutDegree(nodeID) > 0 {
		return
	}

	for _, candidate := range workflow.Nodes {
		if candidate.ID == nodeID || candidate.IsTriggerNode() {
			continue
		}

		descriptor, ok := s.tools.Get(candidate.Tool)
		if !ok {
			continue
		}

		capability, ok := descriptor.Capability(candidate.Action)
		if !ok || !capability.Terminal {
			continue
		}

		edge := &models.Edge{From: nodeID, To: candidate.ID}
		workflow.Edges = append(workflow.Edges, edge)

		if workflow.HasCycle() {
			workflow.Edges = workflow.Edges[:len(workflow.Edges)-1]

			continue
		}

		return
	}
}

// removeNode drops a node; edges from it are re-sourced to replacementFrom
// when given, otherwise removed along with edges pointing at it. An edge
// into the replacement node is removed rather than turned into a self-loop.
func removeNode(workflow *models.Workflow, nodeID, replacementFrom string) {
	nodes := workflow.Nodes[:0]

	for _, node := range workflow.Nodes {
		if node.ID != nodeID {
			nodes = append(nodes, node)
		}
	}

	workflow.Nodes = nodes

	for i, edge := range workflow.Edges {
		if edge == nil {
			continue
		}

		switch {
		case edge.From == nodeID && replacementFrom != "" && edge.To != replacementFrom:
			edge.From = replacementFrom
		case edge.From == nodeID || edge.To == nodeID:
			workflow.Edges[i] = nil
		}
	}
}

func markEdgeRemoved(workflow *models.Workflow, index int) {
	if index >= 0 && index < len(workflow.Edges) {
		workflow.Edges[index] = nil
	}
}

// compactEdges drops removed and duplicate edges while preserving order.
func compactEdges(workflow *models.Workflow) {
	seen := make(map[string]bool, len(workflow.Edges))
	edges := workflow.Edges[:0]

	for _, edge := range workflow.Edges {
		if edge == nil {
			continue
		}

		key := edge.From + "->" + edge.To
		if seen[key] {
			continue
		}

		seen[key] = true

		edges = append(edges, edge)
	}

	workflow.Edges = edges
}

// nextNodeID continues the monotonic id sequence past the highest id already
// present, so repair-added nodes never collide with planned ones.
func nextNodeID(workflow *models.Workflow) string {
	seq := newIDSequence()

	for _, node := range workflow.Nodes {
		var n int
		if _, err := fmt.Sscanf(node.ID, "node-%d", &n); err == nil && n > seq.counter {
			seq.counter = n
		}
	}

	return seq.next()
}
