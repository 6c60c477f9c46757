package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/staffing-console/internal/schemas"
	"github.com/jonathan/staffing-console/internal/types"
)

// matrixFile mirrors the permission matrix JSON layout described by
// schemas/permission_matrix.schema.json.
type matrixFile struct {
	Roles map[string]roleSpecFile `json:"roles"`
}

type roleSpecFile struct {
	TransitionTargets  []string `json:"transition_targets,omitempty"`
	BlockStages        []string `json:"block_stages,omitempty"`
	UnblockStages      []string `json:"unblock_stages,omitempty"`
	CanAssignRecruiter bool     `json:"can_assign_recruiter,omitempty"`
	CanPerformAction   bool     `json:"can_perform_action,omitempty"`
}

// LoadMatrix reads a permission matrix JSON file, validates it against
// the permission matrix schema, and builds a Matrix from it. Role rights
// are intersected with the stage graph the same way the built-in matrix
// is, so a config file cannot grant a structurally illegal edge.
func LoadMatrix(path string) (*Matrix, error) {
	schemaPath := schemas.ResolveSchemaPath(schemas.PermissionMatrixSchema)
	if schemaPath == "" {
		return nil, fmt.Errorf("permission matrix schema not found: %s", schemas.PermissionMatrixSchema)
	}
	if err := schemas.ValidateJSON(schemaPath, path); err != nil {
		return nil, fmt.Errorf("permission matrix %s rejected: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read permission matrix %s: %w", path, err)
	}
	var file matrixFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse permission matrix %s: %w", path, err)
	}
	return matrixFromFile(&file)
}

func matrixFromFile(file *matrixFile) (*Matrix, error) {
	specs := make(map[types.Role]RoleSpec, len(file.Roles))
	for name, spec := range file.Roles {
		role := types.ParseRole(name)
		if role == types.RoleDefault && name != types.RoleDefault.String() {
			return nil, fmt.Errorf("unknown role %q in permission matrix", name)
		}
		targets, err := parseStages(name, spec.TransitionTargets)
		if err != nil {
			return nil, err
		}
		blockStages, err := parseStages(name, spec.BlockStages)
		if err != nil {
			return nil, err
		}
		var unblockStages []types.Stage
		if spec.UnblockStages != nil {
			if unblockStages, err = parseStages(name, spec.UnblockStages); err != nil {
				return nil, err
			}
		}
		specs[role] = RoleSpec{
			TransitionTargets:  targets,
			BlockStages:        blockStages,
			UnblockStages:      unblockStages,
			CanAssignRecruiter: spec.CanAssignRecruiter,
			CanPerformAction:   spec.CanPerformAction,
		}
	}
	return NewMatrix(specs), nil
}

func parseStages(role string, names []string) ([]types.Stage, error) {
	if names == nil {
		return nil, nil
	}
	stages := make([]types.Stage, 0, len(names))
	for _, name := range names {
		stage, ok := types.ParseStage(name)
		if !ok {
			return nil, fmt.Errorf("unknown stage %q for role %q in permission matrix", name, role)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}
