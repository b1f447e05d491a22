package costing

import (
	"testing"

	"recipe-costing/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLinesAcceptsUniqueIngredients(t *testing.T) {
	lines := []common.RecipeLine{
		{IngredientID: "i1", Quantity: 1},
		{IngredientID: "i2", Quantity: 2},
	}
	assert.NoError(t, ValidateLines(lines))
}

func TestValidateLinesRejectsDuplicates(t *testing.T) {
	lines := []common.RecipeLine{
		{IngredientID: "i1", Quantity: 1},
		{IngredientID: "i2", Quantity: 2},
		{IngredientID: "i1", Quantity: 3},
	}
	err := ValidateLines(lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i1")
}

func TestValidateLinesEmpty(t *testing.T) {
	assert.NoError(t, ValidateLines(nil))
	assert.NoError(t, ValidateLines([]common.RecipeLine{}))
}
