package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"}
	},
	"required": ["name"],
	"additionalProperties": false
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"name": "pipeline"}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_FieldErrors(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"name": 7, "extra": true}`)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Error(), "name")
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 42}`, `{}`)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestResolveSchemaPath_Missing(t *testing.T) {
	assert.Empty(t, ResolveSchemaPath("schemas/does_not_exist.schema.json"))
}

func TestResolveSchemaPath_FindsRepoSchema(t *testing.T) {
	// Running from internal/schemas, the repo schema sits two levels up.
	path := ResolveSchemaPath(PermissionMatrixSchema)
	assert.NotEmpty(t, path)
}
