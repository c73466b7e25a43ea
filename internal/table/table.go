package table

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind represents the semantic type of a column.
type Kind string

const (
	KindID       Kind = "id"
	KindEnum     Kind = "enum"
	KindMoney    Kind = "money"
	KindDate     Kind = "date"
	KindQuantity Kind = "quantity"
	KindText     Kind = "text"
	KindInteger  Kind = "integer"
	KindBoolean  Kind = "boolean"
)

// Column declares a named, typed column. Required columns reject nil values
// on append and are the source of the validator's null checks.
type Column struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Required bool   `json:"required"`
}

// Identity names a table by its (category, subcategory, entity) triple,
// independent of any file path.
type Identity struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Name        string `json:"name"`
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s/%s", id.Category, id.Subcategory, id.Name)
}

// Table is an ordered collection of homogeneous records. Rows are validated
// against the declared column set when appended and never mutated afterwards.
type Table struct {
	id      Identity
	columns []Column
	index   map[string]int
	rows    [][]any
}

// New creates an empty table with the given identity and column set.
func New(id Identity, columns []Column) *Table {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	index := make(map[string]int, len(cols))
	for i, col := range cols {
		index[col.Name] = i
	}
	return &Table{id: id, columns: cols, index: index}
}

// Identity returns the table's (category, subcategory, entity) triple.
func (t *Table) Identity() Identity { return t.id }

// Columns returns a defensive copy of the declared columns in order.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Append validates one record against the declared column set and adds it.
// Values must be given in declaration order; nil is only legal for columns
// that are not required.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("table %s: expected %d values, got %d", t.id, len(t.columns), len(values))
	}
	row := make([]any, len(values))
	for i, value := range values {
		col := t.columns[i]
		if value == nil {
			if col.Required {
				return fmt.Errorf("table %s: column %s must not be null", t.id, col.Name)
			}
			continue
		}
		if err := checkKind(col.Kind, value); err != nil {
			return fmt.Errorf("table %s: column %s: %w", t.id, col.Name, err)
		}
		row[i] = value
	}
	t.rows = append(t.rows, row)
	return nil
}

// Row returns the values of row i in column order. The returned slice must
// not be modified.
func (t *Table) Row(i int) []any { return t.rows[i] }

// ColumnIndex resolves a column name to its position.
func (t *Table) ColumnIndex(name string) (int, bool) {
	idx, ok := t.index[name]
	return idx, ok
}

// Value returns the value at (row, column name).
func (t *Table) Value(row int, column string) (any, bool) {
	idx, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return nil, false
	}
	return t.rows[row][idx], true
}

// ColumnValues returns all values of the named column in row order.
func (t *Table) ColumnValues(name string) []any {
	idx, ok := t.index[name]
	if !ok {
		return nil
	}
	values := make([]any, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values
}

// KeySet collects the formatted non-null values of a column, typically a key
// column used for referential-closure checks.
func (t *Table) KeySet(name string) map[string]struct{} {
	idx, ok := t.index[name]
	if !ok {
		return map[string]struct{}{}
	}
	set := make(map[string]struct{}, len(t.rows))
	for _, row := range t.rows {
		if row[idx] == nil {
			continue
		}
		set[FormatValue(t.columns[idx].Kind, row[idx])] = struct{}{}
	}
	return set
}

func checkKind(kind Kind, value any) error {
	switch kind {
	case KindID, KindEnum, KindText:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string for kind %s, got %T", kind, value)
		}
	case KindMoney, KindQuantity:
		if _, ok := value.(decimal.Decimal); !ok {
			return fmt.Errorf("expected decimal for kind %s, got %T", kind, value)
		}
	case KindDate:
		if _, ok := value.(time.Time); !ok {
			return fmt.Errorf("expected time for kind %s, got %T", kind, value)
		}
	case KindInteger:
		if _, ok := value.(int); !ok {
			return fmt.Errorf("expected int for kind %s, got %T", kind, value)
		}
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected bool for kind %s, got %T", kind, value)
		}
	default:
		return fmt.Errorf("unknown column kind %s", kind)
	}
	return nil
}
