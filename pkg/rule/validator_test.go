package rule_test

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/rule"
)

type tagRequest struct {
	Name  string `json:"name"  rule:"required"`
	Value string `json:"value" rule:"required,uppercase"`
}

func TestEngine(t *testing.T) {
	require.NotNil(t, rule.Engine())
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, rule.ValidateStruct(tagRequest{Name: "rock", Value: "ROCK"}))
	assert.Error(t, rule.ValidateStruct(tagRequest{Value: "ROCK"}))
	assert.Error(t, rule.ValidateStruct(tagRequest{Name: "rock", Value: "rock"}))
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	err := rule.ValidateStruct(tagRequest{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "name", verrs[0].Field())
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, rule.ValidateVar("test@example.com", "required,email"))
	assert.Error(t, rule.ValidateVar("invalid-email", "required,email"))
	assert.NoError(t, rule.ValidateVar("NY", "usstate"))
	assert.Error(t, rule.ValidateVar("XX", "usstate"))
}

func TestEngineSharedWithGinBinding(t *testing.T) {
	rule.Init()

	assert.Same(t, rule.Engine(), binding.Validator.Engine())
}

type configLike struct {
	Port int `mapstructure:"port" rule:"min=1"`
}

func TestValidateStruct_UsesMapstructureNames(t *testing.T) {
	err := rule.ValidateStruct(configLike{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "port", verrs[0].Field())
}
