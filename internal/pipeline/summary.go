package pipeline

import (
	"github.com/jonathan/staffing-console/internal/types"
)

// Summarize derives pipeline statistics from a client collection. Pure
// function over an immutable snapshot: no locks, no mutation, safe for
// any number of concurrent readers. Rates are zero for an empty input.
func Summarize(clients []types.PipelineClient) types.PipelineSummary {
	summary := types.PipelineSummary{
		Total:   len(clients),
		ByStage: make(map[types.Stage]int, len(types.AllStages)),
	}

	active := 0
	completed := 0
	for i := range clients {
		client := &clients[i]
		summary.ByStage[client.Status]++
		if client.Blocked {
			summary.Blocked++
		}
		if !client.Status.IsTerminal() {
			active++
		}
		if client.Status == types.StageCompleted {
			completed++
		}
	}

	if summary.Total > 0 {
		summary.ActiveRate = float64(active) / float64(summary.Total)
		summary.ConversionRate = float64(completed) / float64(summary.Total)
	}
	return summary
}
