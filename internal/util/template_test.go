package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplateFastPath(t *testing.T) {
	out, err := RenderTemplate("no markers here", nil)
	require.NoError(t, err)
	assert.Equal(t, "no markers here", out)
}

func TestRenderTemplateVariables(t *testing.T) {
	out, err := RenderTemplate("hello {{.name}}", map[string]any{"name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestRenderTemplateHelpers(t *testing.T) {
	out, err := RenderTemplate(`{{upper .name}} {{default "fallback" .missing}}`, map[string]any{"name": "go"})
	require.NoError(t, err)
	assert.Equal(t, "GO fallback", out)
}

func TestRenderTemplateParseError(t *testing.T) {
	_, err := RenderTemplate("{{.broken", nil)
	assert.Error(t, err)
}

func TestValidateParameters(t *testing.T) {
	type vars struct {
		Name  string `json:"name"`
		Count int    `json:"count,omitempty"`
	}

	schema := CreateSchema(vars{})

	assert.Error(t, ValidateParameters(map[string]any{}, schema))
	assert.NoError(t, ValidateParameters(map[string]any{"name": "x"}, schema))
	assert.Error(t, ValidateParameters(map[string]any{"name": 1}, schema))
	assert.NoError(t, ValidateParameters(map[string]any{"name": "x", "count": 2}, schema))
}
