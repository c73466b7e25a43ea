package crm

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesynth/salesynth/internal/generate"
	"github.com/salesynth/salesynth/internal/table"
)

var asOf = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{Accounts: 50, AsOf: asOf, Seed: 9}
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

func TestEveryAccountHasContacts(t *testing.T) {
	set, err := Generate(testConfig())
	require.NoError(t, err)

	accounts := set.Accounts.KeySet("id")
	covered := make(map[string]bool)
	for i := 0; i < set.Contacts.Len(); i++ {
		account, _ := set.Contacts.Value(i, "account_id")
		_, ok := accounts[account.(string)]
		require.True(t, ok)
		covered[account.(string)] = true
	}
	assert.Len(t, covered, set.Accounts.Len())
}

func TestOpportunityFlagsMatchStage(t *testing.T) {
	set, err := Generate(testConfig())
	require.NoError(t, err)
	require.Positive(t, set.Opportunities.Len())

	for i := 0; i < set.Opportunities.Len(); i++ {
		stage, _ := set.Opportunities.Value(i, "stage")
		probability, _ := set.Opportunities.Value(i, "probability")
		isClosed, _ := set.Opportunities.Value(i, "is_closed")
		isWon, _ := set.Opportunities.Value(i, "is_won")
		closeDate, _ := set.Opportunities.Value(i, "close_date")

		require.Equal(t, stageProbability[stage.(string)], probability)
		require.Equal(t, stage == StageWon || stage == stageLost, isClosed)
		require.Equal(t, stage == StageWon, isWon)
		if isClosed.(bool) {
			require.True(t, closeDate.(time.Time).Before(asOf))
		} else {
			require.True(t, closeDate.(time.Time).After(asOf))
		}
	}
}

func TestQuoteStatusFollowsOpportunityOutcome(t *testing.T) {
	set, err := Generate(testConfig())
	require.NoError(t, err)
	require.Positive(t, set.Quotes.Len())

	stageByOpp := make(map[string]string)
	for i := 0; i < set.Opportunities.Len(); i++ {
		id, _ := set.Opportunities.Value(i, "id")
		stage, _ := set.Opportunities.Value(i, "stage")
		stageByOpp[id.(string)] = stage.(string)
	}

	for i := 0; i < set.Quotes.Len(); i++ {
		opp, _ := set.Quotes.Value(i, "opportunity_id")
		status, _ := set.Quotes.Value(i, "status")
		stage := stageByOpp[opp.(string)]
		require.True(t, quoteStage(stage), "quote for stage %s", stage)
		switch stage {
		case StageWon:
			require.Equal(t, "Accepted", status)
		case stageLost:
			require.Equal(t, "Denied", status)
		default:
			require.Contains(t, []string{"Draft", "Presented"}, status)
		}
	}
}

func TestQuoteTotalsAddUp(t *testing.T) {
	set, err := Generate(testConfig())
	require.NoError(t, err)

	for i := 0; i < set.Quotes.Len(); i++ {
		subtotal, _ := set.Quotes.Value(i, "subtotal")
		discount, _ := set.Quotes.Value(i, "discount")
		tax, _ := set.Quotes.Value(i, "tax")
		total, _ := set.Quotes.Value(i, "total_price")
		expected := subtotal.(decimal.Decimal).Sub(discount.(decimal.Decimal)).Add(tax.(decimal.Decimal))
		require.True(t, total.(decimal.Decimal).Equal(expected))
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Accounts = 0
	_, err := Generate(cfg)
	require.ErrorIs(t, err, generate.ErrConfiguration)
}
