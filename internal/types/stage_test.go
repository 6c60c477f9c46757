//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStage(t *testing.T) {
	stage, ok := ParseStage("marketing")
	assert.True(t, ok)
	assert.Equal(t, StageMarketing, stage)

	_, ok = ParseStage("negotiation")
	assert.False(t, ok)

	_, ok = ParseStage("")
	assert.False(t, ok)
}

func TestStage_IsTerminal(t *testing.T) {
	assert.True(t, StageCompleted.IsTerminal())
	assert.True(t, StageBackedOut.IsTerminal())

	for _, stage := range []Stage{StageSales, StageResume, StageMarketing, StageRemarketing, StageOnHold} {
		assert.False(t, stage.IsTerminal(), "stage %s should not be terminal", stage)
	}
}

func TestParseRole_UnknownFallsClosed(t *testing.T) {
	assert.Equal(t, RoleSalesExecutive, ParseRole("Sales_Executive"))
	assert.Equal(t, RoleAdmin, ParseRole("Admin"))

	// Unknown and empty role strings must map to the restrictive default.
	assert.Equal(t, RoleDefault, ParseRole("Intern"))
	assert.Equal(t, RoleDefault, ParseRole(""))
	assert.Equal(t, RoleDefault, ParseRole("admin"))
}
