package master

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesynth/salesynth/internal/generate"
	"github.com/salesynth/salesynth/internal/table"
)

var asOf = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{Customers: 20, Materials: 10, AsOf: asOf, Seed: 42}
}

func rowsOf(t *table.Table) [][]string {
	columns := t.Columns()
	out := make([][]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = table.FormatValue(col.Kind, t.Row(i)[j])
		}
		out[i] = row
	}
	return out
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := Generate(testConfig())
	require.NoError(t, err)
	second, err := Generate(testConfig())
	require.NoError(t, err)

	firstTables := first.Tables()
	secondTables := second.Tables()
	require.Len(t, secondTables, len(firstTables))
	for i := range firstTables {
		assert.Equal(t, rowsOf(firstTables[i]), rowsOf(secondTables[i]),
			firstTables[i].Identity().String())
	}
}

func TestGenerateCounts(t *testing.T) {
	set, err := Generate(testConfig())
	require.NoError(t, err)

	assert.Equal(t, 3, set.CompanyCodes.Len())
	assert.Equal(t, 3, set.SalesOrgs.Len())
	assert.Equal(t, 20, set.Customers.Len())
	assert.Equal(t, 20*len(partnerRoles), set.PartnerFunctions.Len())
	assert.Equal(t, 10, set.Materials.Len())
	assert.Equal(t, 10, set.MaterialDescriptions.Len())
}

func TestEveryCustomerHasAllPartnerRoles(t *testing.T) {
	set, err := Generate(testConfig())
	require.NoError(t, err)

	roles := make(map[string]map[string]bool)
	for i := 0; i < set.PartnerFunctions.Len(); i++ {
		customer, _ := set.PartnerFunctions.Value(i, "customer_id")
		role, _ := set.PartnerFunctions.Value(i, "role")
		partner, _ := set.PartnerFunctions.Value(i, "partner_customer_id")
		require.Equal(t, customer, partner)
		if roles[customer.(string)] == nil {
			roles[customer.(string)] = make(map[string]bool)
		}
		roles[customer.(string)][role.(string)] = true
	}
	require.Len(t, roles, 20)
	for customer, have := range roles {
		for _, role := range partnerRoles {
			assert.True(t, have[role], "customer %s missing role %s", customer, role)
		}
	}
}

func TestMaterialDescriptionsCoverAllMaterials(t *testing.T) {
	set, err := Generate(testConfig())
	require.NoError(t, err)

	materials := set.Materials.KeySet("material_id")
	for i := 0; i < set.MaterialDescriptions.Len(); i++ {
		id, _ := set.MaterialDescriptions.Value(i, "material_id")
		_, ok := materials[id.(string)]
		require.True(t, ok)
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Customers = 0
	_, err := Generate(cfg)
	require.ErrorIs(t, err, generate.ErrConfiguration)

	cfg = testConfig()
	cfg.Materials = -1
	_, err = Generate(cfg)
	require.ErrorIs(t, err, generate.ErrConfiguration)

	cfg = testConfig()
	cfg.AsOf = time.Time{}
	_, err = Generate(cfg)
	require.ErrorIs(t, err, generate.ErrConfiguration)
}
