package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/staffing-console/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMatrixFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "permissions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMatrix_Valid(t *testing.T) {
	path := writeMatrixFile(t, `{
		"roles": {
			"Recruiter": {
				"transition_targets": ["completed", "backed-out", "on-hold"],
				"can_assign_recruiter": true,
				"can_perform_action": true
			},
			"Sales_Executive": {
				"transition_targets": ["resume"],
				"block_stages": ["sales"],
				"can_perform_action": true
			}
		}
	}`)

	matrix, err := LoadMatrix(path)
	require.NoError(t, err)

	assert.True(t, matrix.CanTransition(types.RoleRecruiter, types.StageMarketing, types.StageCompleted))
	assert.True(t, matrix.CanTransition(types.RoleSalesExecutive, types.StageSales, types.StageResume))
	assert.True(t, matrix.CanBlock(types.RoleSalesExecutive, types.StageSales))
	assert.False(t, matrix.CanBlock(types.RoleSalesExecutive, types.StageMarketing))
	// Roles absent from the file hold nothing.
	assert.False(t, matrix.CanTransition(types.RoleAdmin, types.StageSales, types.StageResume))
}

func TestLoadMatrix_RejectsUnknownStage(t *testing.T) {
	path := writeMatrixFile(t, `{
		"roles": {
			"Recruiter": {
				"transition_targets": ["negotiation"]
			}
		}
	}`)

	_, err := LoadMatrix(path)
	assert.Error(t, err)
}

func TestLoadMatrix_RejectsUnknownKeys(t *testing.T) {
	path := writeMatrixFile(t, `{
		"roles": {
			"Recruiter": {
				"transition_targets": ["completed"],
				"can_delete_clients": true
			}
		}
	}`)

	_, err := LoadMatrix(path)
	assert.Error(t, err)
}

func TestLoadMatrix_ConfigCannotEscapeGraph(t *testing.T) {
	// Granting "sales" as a transition target yields no rights: the
	// graph has no inbound edge to sales.
	path := writeMatrixFile(t, `{
		"roles": {
			"Admin": {
				"transition_targets": ["sales"]
			}
		}
	}`)

	matrix, err := LoadMatrix(path)
	require.NoError(t, err)
	for _, from := range types.AllStages {
		assert.False(t, matrix.CanTransition(types.RoleAdmin, from, types.StageSales))
	}
}
