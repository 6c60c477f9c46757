package pipeline

import (
	"github.com/jonathan/staffing-console/internal/types"
)

// RoleSpec declares a role's rights as configuration data. Transition
// rights are expressed as target stages; the matrix intersects them with
// the stage graph at construction, so a role can never hold a right the
// graph does not permit.
type RoleSpec struct {
	TransitionTargets []types.Stage
	BlockStages       []types.Stage
	// UnblockStages defaults to BlockStages when nil.
	UnblockStages      []types.Stage
	CanAssignRecruiter bool
	CanPerformAction   bool
}

type edge struct {
	from, to types.Stage
}

type capability struct {
	transitions        map[edge]bool
	blockScope         map[types.Stage]bool
	unblockScope       map[types.Stage]bool
	canAssignRecruiter bool
	canPerformAction   bool
}

// Matrix is the process-wide, read-only role capability table. It is
// built once at startup; changing it requires a redeploy, never a data
// write.
type Matrix struct {
	roles map[types.Role]capability
}

// NewMatrix builds a capability matrix from per-role specs. Roles absent
// from specs fall through to the empty default capability (no rights).
func NewMatrix(specs map[types.Role]RoleSpec) *Matrix {
	m := &Matrix{roles: make(map[types.Role]capability, len(specs))}
	for role, spec := range specs {
		row := capability{
			transitions:        make(map[edge]bool),
			blockScope:         stageSet(spec.BlockStages),
			canAssignRecruiter: spec.CanAssignRecruiter,
			canPerformAction:   spec.CanPerformAction,
		}
		if spec.UnblockStages != nil {
			row.unblockScope = stageSet(spec.UnblockStages)
		} else {
			row.unblockScope = row.blockScope
		}
		for _, to := range spec.TransitionTargets {
			for _, from := range types.AllStages {
				if EdgeExists(from, to) {
					row.transitions[edge{from: from, to: to}] = true
				}
			}
		}
		m.roles[role] = row
	}
	return m
}

func stageSet(stages []types.Stage) map[types.Stage]bool {
	set := make(map[types.Stage]bool, len(stages))
	for _, stage := range stages {
		set[stage] = true
	}
	return set
}

func allStagesExcept(excluded ...types.Stage) []types.Stage {
	skip := stageSet(excluded)
	out := make([]types.Stage, 0, len(types.AllStages))
	for _, stage := range types.AllStages {
		if !skip[stage] {
			out = append(out, stage)
		}
	}
	return out
}

// DefaultMatrix returns the built-in capability table. Unlisted roles
// (including types.RoleDefault) hold no rights at all.
func DefaultMatrix() *Matrix {
	return NewMatrix(map[types.Role]RoleSpec{
		types.RoleAdmin: {
			TransitionTargets: []types.Stage{
				types.StageResume, types.StageMarketing, types.StageCompleted,
				types.StageBackedOut, types.StageRemarketing, types.StageOnHold,
			},
			BlockStages:        allStagesExcept(),
			CanAssignRecruiter: true,
			CanPerformAction:   true,
		},
		types.RoleSalesExecutive: {
			TransitionTargets: []types.Stage{
				types.StageResume, types.StageBackedOut, types.StageOnHold,
			},
			BlockStages:      []types.Stage{types.StageSales},
			CanPerformAction: true,
		},
		types.RoleResumeWriter: {
			TransitionTargets: []types.Stage{
				types.StageMarketing, types.StageBackedOut, types.StageOnHold,
			},
			BlockStages:      []types.Stage{types.StageResume},
			CanPerformAction: true,
		},
		types.RoleRecruiter: {
			TransitionTargets: []types.Stage{
				types.StageCompleted, types.StageBackedOut, types.StageOnHold,
			},
			BlockStages:        nil,
			CanAssignRecruiter: true,
			CanPerformAction:   true,
		},
		types.RoleSeniorRecruiter: {
			TransitionTargets: []types.Stage{
				types.StageCompleted, types.StageBackedOut, types.StageOnHold,
			},
			BlockStages:        []types.Stage{types.StageMarketing, types.StageRemarketing},
			CanAssignRecruiter: true,
			CanPerformAction:   true,
		},
		types.RoleMarketingManager: {
			TransitionTargets: []types.Stage{
				types.StageCompleted, types.StageBackedOut, types.StageRemarketing, types.StageOnHold,
			},
			BlockStages:        allStagesExcept(types.StageSales, types.StageResume),
			CanAssignRecruiter: true,
			CanPerformAction:   true,
		},
	})
}

// lookup returns the capability row for a role. Unknown roles get the
// zero capability, which denies everything.
func (m *Matrix) lookup(role types.Role) capability {
	return m.roles[role]
}

// CanTransition reports whether the role holds the (from, to) transition
// right.
func (m *Matrix) CanTransition(role types.Role, from, to types.Stage) bool {
	return m.lookup(role).transitions[edge{from: from, to: to}]
}

// CanBlock reports whether the role may block a client in the given stage.
func (m *Matrix) CanBlock(role types.Role, stage types.Stage) bool {
	return m.lookup(role).blockScope[stage]
}

// CanUnblock reports whether the role may unblock a client in the given
// stage.
func (m *Matrix) CanUnblock(role types.Role, stage types.Stage) bool {
	return m.lookup(role).unblockScope[stage]
}

// CanAssignRecruiter reports whether the role may assign recruiters.
func (m *Matrix) CanAssignRecruiter(role types.Role) bool {
	return m.lookup(role).canAssignRecruiter
}

// CanPerformAction reports whether the role may complete workflow actions.
func (m *Matrix) CanPerformAction(role types.Role) bool {
	return m.lookup(role).canPerformAction
}
