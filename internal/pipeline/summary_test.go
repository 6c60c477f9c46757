package pipeline

import (
	"testing"
	"time"

	"github.com/jonathan/staffing-console/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestSummarize_EmptyCollection(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.Total)
	assert.Zero(t, summary.ActiveRate)
	assert.Zero(t, summary.ConversionRate)
	assert.Empty(t, summary.ByStage)
}

func TestSummarize_CountsAndRates(t *testing.T) {
	now := time.Now()
	mk := func(stage types.Stage, blocked bool) types.PipelineClient {
		client := types.NewPipelineClient("client", types.RoleAdmin, now)
		client.Status = stage
		client.Blocked = blocked
		return *client
	}

	clients := []types.PipelineClient{
		mk(types.StageSales, false),
		mk(types.StageResume, true),
		mk(types.StageMarketing, false),
		mk(types.StageCompleted, false),
		mk(types.StageCompleted, false),
		mk(types.StageBackedOut, true),
	}

	summary := Summarize(clients)

	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 1, summary.ByStage[types.StageSales])
	assert.Equal(t, 2, summary.ByStage[types.StageCompleted])
	assert.Equal(t, 1, summary.ByStage[types.StageBackedOut])
	assert.Equal(t, 2, summary.Blocked)
	// 3 of 6 are in non-terminal stages; 2 of 6 completed.
	assert.InDelta(t, 0.5, summary.ActiveRate, 1e-9)
	assert.InDelta(t, 2.0/6.0, summary.ConversionRate, 1e-9)
}
