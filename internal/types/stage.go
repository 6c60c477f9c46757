// Package types provides type definitions for structured data used throughout the staffing-console system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Stage represents a client's position in the recruiting pipeline.
type Stage string

// Pipeline stages. Completed and BackedOut are terminal.
const (
	StageSales       Stage = "sales"
	StageResume      Stage = "resume"
	StageMarketing   Stage = "marketing"
	StageRemarketing Stage = "remarketing"
	StageOnHold      Stage = "on-hold"
	StageCompleted   Stage = "completed"
	StageBackedOut   Stage = "backed-out"
)

// AllStages lists every valid pipeline stage.
var AllStages = []Stage{
	StageSales,
	StageResume,
	StageMarketing,
	StageRemarketing,
	StageOnHold,
	StageCompleted,
	StageBackedOut,
}

// ParseStage converts a string to a Stage.
// Returns false if the string is not a known stage.
func ParseStage(s string) (Stage, bool) {
	stage := Stage(s)
	for _, known := range AllStages {
		if stage == known {
			return stage, true
		}
	}
	return "", false
}

// IsValid reports whether the stage is one of the known pipeline stages.
func (s Stage) IsValid() bool {
	_, ok := ParseStage(string(s))
	return ok
}

// IsTerminal reports whether the stage has no outbound transitions.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageBackedOut
}

// String returns the stage's wire representation.
func (s Stage) String() string {
	return string(s)
}
