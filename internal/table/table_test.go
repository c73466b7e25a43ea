package table

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	return New(
		Identity{Category: "transactional", Subcategory: "sales_orders", Name: "orders"},
		[]Column{
			{Name: "doc_number", Kind: KindID, Required: true},
			{Name: "net_value", Kind: KindMoney, Required: true},
			{Name: "created_date", Kind: KindDate, Required: true},
			{Name: "note", Kind: KindText},
		},
	)
}

func TestAppendValidRow(t *testing.T) {
	tbl := testTable(t)
	err := tbl.Append("SO00000001", decimal.NewFromInt(100), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	value, ok := tbl.Value(0, "doc_number")
	require.True(t, ok)
	assert.Equal(t, "SO00000001", value)
}

func TestAppendRejectsArityMismatch(t *testing.T) {
	tbl := testTable(t)
	err := tbl.Append("SO00000001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 values")
}

func TestAppendRejectsWrongKind(t *testing.T) {
	tbl := testTable(t)
	err := tbl.Append("SO00000001", 100.0, time.Now(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "net_value")
}

func TestAppendRejectsNullInRequiredColumn(t *testing.T) {
	tbl := testTable(t)
	err := tbl.Append(nil, decimal.NewFromInt(1), time.Now(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be null")
}

func TestKeySetSkipsNulls(t *testing.T) {
	tbl := testTable(t)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.Append("SO00000001", decimal.NewFromInt(1), date, "a"))
	require.NoError(t, tbl.Append("SO00000002", decimal.NewFromInt(2), date, nil))

	keys := tbl.KeySet("doc_number")
	assert.Len(t, keys, 2)
	notes := tbl.KeySet("note")
	assert.Len(t, notes, 1)
}

func TestFormatAndParseValue(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-15", FormatValue(KindDate, date))
	assert.Equal(t, "12.50", FormatValue(KindMoney, decimal.RequireFromString("12.5")))
	assert.Equal(t, "3.000", FormatValue(KindQuantity, decimal.NewFromInt(3)))
	assert.Equal(t, "", FormatValue(KindText, nil))

	parsed, err := ParseValue(KindDate, "2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, date, parsed)

	money, err := ParseValue(KindMoney, "12.50")
	require.NoError(t, err)
	assert.True(t, money.(decimal.Decimal).Equal(decimal.RequireFromString("12.5")))

	null, err := ParseValue(KindInteger, "")
	require.NoError(t, err)
	assert.Nil(t, null)

	_, err = ParseValue(KindInteger, "abc")
	assert.Error(t, err)
}
