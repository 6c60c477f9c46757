// Package pipeline implements the client pipeline workflow engine: the
// stage state machine, the per-role capability matrix, the blocking
// subsystem, the action completion protocol, and the transition
// authorizer that composes them.
package pipeline

import (
	"github.com/jonathan/staffing-console/internal/types"
)

// stageGraph is the fixed directed graph of structurally legal
// transitions. Terminal stages have no outbound edges.
var stageGraph = map[types.Stage]map[types.Stage]bool{
	types.StageSales: {
		types.StageResume:    true,
		types.StageBackedOut: true,
		types.StageOnHold:    true,
	},
	types.StageResume: {
		types.StageMarketing: true,
		types.StageBackedOut: true,
		types.StageOnHold:    true,
	},
	types.StageMarketing: {
		types.StageCompleted:   true,
		types.StageBackedOut:   true,
		types.StageRemarketing: true,
		types.StageOnHold:      true,
	},
	types.StageRemarketing: {
		types.StageCompleted: true,
		types.StageBackedOut: true,
		types.StageOnHold:    true,
	},
	types.StageOnHold: {
		types.StageResume:      true,
		types.StageMarketing:   true,
		types.StageRemarketing: true,
		types.StageBackedOut:   true,
	},
	types.StageCompleted: {},
	types.StageBackedOut: {},
}

// EdgeExists reports whether (from, to) appears in the fixed stage graph.
func EdgeExists(from, to types.Stage) bool {
	targets, ok := stageGraph[from]
	if !ok {
		return false
	}
	return targets[to]
}

// LegalTargets returns the stages reachable from the given stage in the
// fixed graph. Returns nil for terminal or unknown stages.
func LegalTargets(from types.Stage) []types.Stage {
	targets := stageGraph[from]
	if len(targets) == 0 {
		return nil
	}
	out := make([]types.Stage, 0, len(targets))
	for _, stage := range types.AllStages {
		if targets[stage] {
			out = append(out, stage)
		}
	}
	return out
}

// structuralTarget checks the graph edge plus the on-hold origin rule:
// a client leaving on-hold returns to the stage it was held from, or
// backs out. A client whose snapshot predates held-from tracking (empty
// HeldFromStage) may take any edge the graph lists.
func structuralTarget(client *types.PipelineClient, to types.Stage) bool {
	if !EdgeExists(client.Status, to) {
		return false
	}
	if client.Status != types.StageOnHold || to == types.StageBackedOut {
		return true
	}
	if client.HeldFromStage == "" {
		return true
	}
	return to == client.HeldFromStage
}
