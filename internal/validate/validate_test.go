package validate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

var day = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

func testGraph(t *testing.T) *schema.Graph {
	t.Helper()
	g := schema.NewGraph()
	g.AddTable(schema.TableCustomers)
	g.AddTable(schema.TableOrders)
	g.AddTable(schema.TableOrderItems)
	require.NoError(t, g.AddEdge(schema.Edge{
		ChildTable: schema.TableOrders, ChildColumn: "customer_id",
		ParentTable: schema.TableCustomers, ParentColumn: "customer_id",
	}))
	require.NoError(t, g.AddEdge(schema.Edge{
		ChildTable: schema.TableOrderItems, ChildColumn: "doc_number",
		ParentTable: schema.TableOrders, ParentColumn: "doc_number",
	}))
	g.AddRule(schema.ConsistencyRule{
		Name:             "item_currency_matches_header",
		ChildTable:       schema.TableOrderItems,
		ChildColumn:      "currency",
		ParentTable:      schema.TableOrders,
		ParentColumn:     "currency",
		JoinChildColumn:  "doc_number",
		JoinParentColumn: "doc_number",
	})
	return g
}

func newTable(t *testing.T, name string) *table.Table {
	t.Helper()
	def, ok := schema.Lookup(name)
	require.True(t, ok)
	return def.NewTable()
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testTables(t *testing.T) map[string]*table.Table {
	t.Helper()
	customers := newTable(t, schema.TableCustomers)
	require.NoError(t, customers.Append("CU00000001", "Apex Industries", "US", nil, nil, nil, "0001", nil, day))

	orders := newTable(t, schema.TableOrders)
	require.NoError(t, orders.Append("SO00000001", day, "09:00:00", "OR", "1000", "10", "00",
		"CU00000001", "USD", money("100.00"), "open"))

	items := newTable(t, schema.TableOrderItems)
	require.NoError(t, items.Append("SO00000001", "000010", "MA00000001", nil,
		decimal.NewFromInt(2), "EA", money("50.00"), money("100.00"), "USD", "1000"))

	return map[string]*table.Table{
		schema.TableCustomers:  customers,
		schema.TableOrders:     orders,
		schema.TableOrderItems: items,
	}
}

func TestCleanDatasetPasses(t *testing.T) {
	report := Validate(testTables(t), testGraph(t))
	assert.True(t, report.Passed())
	assert.Zero(t, report.ReferentialViolationCount())
	assert.Empty(t, report.Warnings)
	assert.Len(t, report.Completeness, 3)
}

func TestDetectsOrphanedChildValues(t *testing.T) {
	tables := testTables(t)
	orders := tables[schema.TableOrders]
	require.NoError(t, orders.Append("SO00000002", day, "10:00:00", "OR", "1000", "10", "00",
		"CU99999999", "USD", money("50.00"), "open"))

	report := Validate(tables, testGraph(t))
	assert.False(t, report.Passed())
	require.Len(t, report.Referential, 1)
	assert.Equal(t, 1, report.Referential[0].Orphans)
	assert.Equal(t, []string{"CU99999999"}, report.Referential[0].Samples)
	assert.Equal(t, 1, report.ReferentialViolationCount())
}

func TestDetectsMissingTable(t *testing.T) {
	tables := testTables(t)
	delete(tables, schema.TableOrderItems)

	report := Validate(tables, testGraph(t))
	assert.False(t, report.Passed())
	assert.Equal(t, []string{schema.TableOrderItems}, report.MissingTables())
	// Edges touching the missing table are skipped, not violated.
	assert.Zero(t, report.ReferentialViolationCount())
}

func TestDetectsCurrencyMismatchAsWarning(t *testing.T) {
	tables := testTables(t)
	items := tables[schema.TableOrderItems]
	require.NoError(t, items.Append("SO00000001", "000020", "MA00000001", nil,
		decimal.NewFromInt(1), "EA", money("10.00"), money("10.00"), "EUR", "1000"))

	report := Validate(tables, testGraph(t))
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "item_currency_matches_header", report.Warnings[0].Rule)
	assert.Equal(t, 1, report.Warnings[0].Rows)
	// Warnings alone do not fail validation.
	assert.True(t, report.Passed())
}

func TestValidateDoesNotMutateTables(t *testing.T) {
	tables := testTables(t)
	before := tables[schema.TableOrders].Len()
	_ = Validate(tables, testGraph(t))
	assert.Equal(t, before, tables[schema.TableOrders].Len())
}
