package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRoleRequest struct {
	Code     string   `json:"code" validate:"required,role_code"`
	Name     string   `json:"name" validate:"required"`
	Patterns []string `json:"patterns" validate:"required,min=1,dive,permission"`
}

func TestValidateCreateRole(t *testing.T) {
	v := New()

	ok := createRoleRequest{Code: "FIELD_ENGINEER", Name: "Field Engineer", Patterns: []string{"drawing.read", "simulation.*"}}
	assert.NoError(t, v.Validate(ok))

	tests := []struct {
		name  string
		req   createRoleRequest
		field string
	}{
		{
			"lowercase role code",
			createRoleRequest{Code: "field_engineer", Name: "x", Patterns: []string{"drawing.read"}},
			"code",
		},
		{
			"empty pattern list",
			createRoleRequest{Code: "VIEWER2", Name: "x", Patterns: []string{}},
			"patterns",
		},
		{
			"pattern with whitespace",
			createRoleRequest{Code: "VIEWER2", Name: "x", Patterns: []string{"drawing read"}},
			"patterns[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := v.ValidateWithLang(tt.req, LangEN)
			require.True(t, verr.HasErrors())
			assert.Contains(t, verr.ByField(), tt.field)
		})
	}
}

func TestValidateWithLangTranslates(t *testing.T) {
	v := New()
	req := createRoleRequest{Code: "viewer", Name: "x", Patterns: []string{"drawing.read"}}

	en := v.ValidateWithLang(req, LangEN)
	require.Equal(t, 1, en.Count())
	assert.Equal(t, "code must be an uppercase role code", en.First())

	zh := v.ValidateWithLang(req, LangZH)
	require.Equal(t, 1, zh.Count())
	assert.Contains(t, zh.First(), "角色编码")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, Var("drawing.*", "permission"))
	assert.Error(t, Var("", "required"))
	assert.Error(t, Var("drawing read", "permission"))
}
