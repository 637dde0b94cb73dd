package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

func TestValidateGenesis(t *testing.T) {
	good := `{
	  "project": "examplecoin",
	  "has_premine": true,
	  "genesis_date": "2024-01-01",
	  "total_genesis_allocation_pct": 20,
	  "available_for_mining_genesis_pct": 80,
	  "allocation_tiers": {"core": {"total_pct": 20, "buckets": [{"name": "team", "pct": 20, "cliff_months": 12}]}}
	}`
	findings, err := Validate(Genesis, []byte(good))
	require.NoError(t, err)
	assert.Empty(t, findings)

	bad := `{
	  "project": "examplecoin",
	  "has_premine": "yes",
	  "genesis_date": "2024-01-01",
	  "total_genesis_allocation_pct": 20,
	  "allocation_tiers": {"core": {"buckets": [{"pct": 20, "cliff_months": -1}]}}
	}`
	findings, err = Validate(Genesis, []byte(bad))
	require.NoError(t, err)
	require.Len(t, findings, 3)
	for _, f := range findings {
		assert.Equal(t, types.CodeSchema, f.Code)
		assert.NotEmpty(t, f.Hint)
	}
	assert.Contains(t, findings[0].Message, "allocation_tiers.core.buckets.0")
}

func TestValidateProjectMissingFields(t *testing.T) {
	findings, err := Validate(Project, []byte(`{"project": "examplecoin", "supply": {}}`))
	require.NoError(t, err)
	require.NotEmpty(t, findings)

	var messages []string
	for _, f := range findings {
		messages = append(messages, f.Message)
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "ticker")
	assert.Contains(t, joined, "supply")
}

func TestValidateRejectsBadInput(t *testing.T) {
	_, err := Validate(Project, []byte("{"))
	require.Error(t, err)

	_, err = Validate(Name("nope.json"), []byte("{}"))
	require.Error(t, err)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "(root)", Path(""))
	assert.Equal(t, "(root)", Path("/"))
	assert.Equal(t, "supply.max_supply", Path("/supply/max_supply"))
	assert.Equal(t, "data_sources.a/b", Path("#/data_sources/a~1b"))
}
