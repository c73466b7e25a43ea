package codec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

var day = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

func ordersFixture(t *testing.T) (*table.Table, schema.TableDef) {
	t.Helper()
	def, ok := schema.Lookup(schema.TableOrders)
	require.True(t, ok)
	orders := def.NewTable()
	require.NoError(t, orders.Append("SO00000001", day, "09:00:00", "OR", "1000", "10", "00",
		"CU00000001", "USD", decimal.RequireFromString("1234.50"), "open"))
	require.NoError(t, orders.Append("SO00000002", day, "10:30:00", "OR", "2000", "20", "01",
		"CU00000002", "EUR", decimal.RequireFromString("99.99"), "completed"))
	return orders, def
}

func TestLayoutPathFollowsIdentity(t *testing.T) {
	layout := Layout{Root: "/data"}
	id := table.Identity{Category: "master", Subcategory: "customer", Name: "customers"}
	assert.Equal(t, filepath.Join("/data", "master", "customer", "customers.csv"), layout.Path(id))
}

func TestWriteReadRoundTrip(t *testing.T) {
	layout := Layout{Root: t.TempDir()}
	orders, def := ordersFixture(t)

	written, err := layout.WriteCSV(orders)
	require.NoError(t, err)
	assert.Positive(t, written)

	loaded, err := layout.ReadCSV(def)
	require.NoError(t, err)
	require.Equal(t, orders.Len(), loaded.Len())

	columns := orders.Columns()
	for i := 0; i < orders.Len(); i++ {
		for j, col := range columns {
			want := table.FormatValue(col.Kind, orders.Row(i)[j])
			got := table.FormatValue(col.Kind, loaded.Row(i)[j])
			assert.Equal(t, want, got, "row %d column %s", i, col.Name)
		}
	}
}

func TestWriteLeavesNoTempFilesBehind(t *testing.T) {
	root := t.TempDir()
	layout := Layout{Root: root}
	orders, _ := ordersFixture(t)

	_, err := layout.WriteCSV(orders)
	require.NoError(t, err)

	dir := filepath.Dir(layout.Path(orders.Identity()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "orders.csv", entries[0].Name())
}

func TestReadRejectsHeaderMismatch(t *testing.T) {
	layout := Layout{Root: t.TempDir()}
	orders, def := ordersFixture(t)
	_, err := layout.WriteCSV(orders)
	require.NoError(t, err)

	path := layout.Path(def.ID)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	mangled := append([]byte("renamed_column"), data[len("doc_number"):]...)
	require.NoError(t, os.WriteFile(path, mangled, 0o644))

	_, err = layout.ReadCSV(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestReadMissingFileFails(t *testing.T) {
	layout := Layout{Root: t.TempDir()}
	def, ok := schema.Lookup(schema.TableOrders)
	require.True(t, ok)
	_, err := layout.ReadCSV(def)
	require.Error(t, err)
}
