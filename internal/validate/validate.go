// Package validate checks a generated dataset against its declared schema:
// table completeness, referential closure along every declared edge, null
// checks on required columns and cross-table consistency rules. Findings
// are structured data; the validator never raises an error for bad data
// and never mutates the tables it inspects.
package validate

import (
	"fmt"

	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

// sampleLimit caps how many offending keys a finding carries. Counts are
// always exact; samples exist for diagnosis.
const sampleLimit = 5

// TableStatus reports presence and size of one declared table.
type TableStatus struct {
	Table   string
	Present bool
	Rows    int
}

// ReferentialViolation reports orphaned child values along one declared
// foreign-key edge.
type ReferentialViolation struct {
	Edge    schema.Edge
	Orphans int
	Samples []string
}

// NullViolation reports null values in a required column.
type NullViolation struct {
	Table  string
	Column string
	Nulls  int
}

// ConsistencyWarning reports rows violating a declared cross-table
// consistency rule. Warnings do not fail validation.
type ConsistencyWarning struct {
	Rule    string
	Rows    int
	Samples []string
}

// Report is the full validation result.
type Report struct {
	Completeness []TableStatus
	Referential  []ReferentialViolation
	Nulls        []NullViolation
	Warnings     []ConsistencyWarning
}

// ReferentialViolationCount returns the total number of orphaned values.
func (r *Report) ReferentialViolationCount() int {
	total := 0
	for _, v := range r.Referential {
		total += v.Orphans
	}
	return total
}

// MissingTables returns the declared tables absent from the dataset.
func (r *Report) MissingTables() []string {
	var missing []string
	for _, s := range r.Completeness {
		if !s.Present {
			missing = append(missing, s.Table)
		}
	}
	return missing
}

// NullViolationCount returns the total number of nulls in required columns.
func (r *Report) NullViolationCount() int {
	total := 0
	for _, v := range r.Nulls {
		total += v.Nulls
	}
	return total
}

// Passed reports whether the dataset is referentially closed, complete and
// free of nulls in required columns. Consistency warnings do not count.
func (r *Report) Passed() bool {
	return r.ReferentialViolationCount() == 0 &&
		r.NullViolationCount() == 0 &&
		len(r.MissingTables()) == 0
}

// Validate checks the given tables against the declared graph. Tables are
// keyed by declared table name; a missing entry is reported, not an error.
func Validate(tables map[string]*table.Table, g *schema.Graph) *Report {
	report := &Report{}
	checkCompleteness(report, tables, g)
	checkReferential(report, tables, g)
	checkNulls(report, tables, g)
	checkConsistency(report, tables, g)
	return report
}

func checkCompleteness(report *Report, tables map[string]*table.Table, g *schema.Graph) {
	for _, name := range g.Tables() {
		t, ok := tables[name]
		status := TableStatus{Table: name, Present: ok}
		if ok {
			status.Rows = t.Len()
		}
		report.Completeness = append(report.Completeness, status)
	}
}

func checkReferential(report *Report, tables map[string]*table.Table, g *schema.Graph) {
	for _, edge := range g.Edges() {
		child, okChild := tables[edge.ChildTable]
		parent, okParent := tables[edge.ParentTable]
		if !okChild || !okParent {
			continue
		}
		childIdx, ok := child.ColumnIndex(edge.ChildColumn)
		if !ok {
			continue
		}
		kind := child.Columns()[childIdx].Kind
		parentKeys := parent.KeySet(edge.ParentColumn)

		violation := ReferentialViolation{Edge: edge}
		seen := make(map[string]struct{})
		for i := 0; i < child.Len(); i++ {
			value := child.Row(i)[childIdx]
			if value == nil {
				continue
			}
			key := table.FormatValue(kind, value)
			if _, ok := parentKeys[key]; ok {
				continue
			}
			violation.Orphans++
			if _, dup := seen[key]; !dup && len(violation.Samples) < sampleLimit {
				violation.Samples = append(violation.Samples, key)
				seen[key] = struct{}{}
			}
		}
		if violation.Orphans > 0 {
			report.Referential = append(report.Referential, violation)
		}
	}
}

func checkNulls(report *Report, tables map[string]*table.Table, g *schema.Graph) {
	for _, name := range g.Tables() {
		t, ok := tables[name]
		if !ok {
			continue
		}
		for idx, col := range t.Columns() {
			if !col.Required {
				continue
			}
			nulls := 0
			for i := 0; i < t.Len(); i++ {
				if t.Row(i)[idx] == nil {
					nulls++
				}
			}
			if nulls > 0 {
				report.Nulls = append(report.Nulls, NullViolation{
					Table:  name,
					Column: col.Name,
					Nulls:  nulls,
				})
			}
		}
	}
}

func checkConsistency(report *Report, tables map[string]*table.Table, g *schema.Graph) {
	for _, rule := range g.Rules() {
		child, okChild := tables[rule.ChildTable]
		parent, okParent := tables[rule.ParentTable]
		if !okChild || !okParent {
			continue
		}
		childJoin, ok1 := child.ColumnIndex(rule.JoinChildColumn)
		childCol, ok2 := child.ColumnIndex(rule.ChildColumn)
		parentJoin, ok3 := parent.ColumnIndex(rule.JoinParentColumn)
		parentCol, ok4 := parent.ColumnIndex(rule.ParentColumn)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		joinKind := parent.Columns()[parentJoin].Kind
		valueKind := parent.Columns()[parentCol].Kind

		parentValues := make(map[string]string, parent.Len())
		for i := 0; i < parent.Len(); i++ {
			row := parent.Row(i)
			if row[parentJoin] == nil || row[parentCol] == nil {
				continue
			}
			key := table.FormatValue(joinKind, row[parentJoin])
			parentValues[key] = table.FormatValue(valueKind, row[parentCol])
		}

		childJoinKind := child.Columns()[childJoin].Kind
		childValueKind := child.Columns()[childCol].Kind
		warning := ConsistencyWarning{Rule: rule.Name}
		for i := 0; i < child.Len(); i++ {
			row := child.Row(i)
			if row[childJoin] == nil || row[childCol] == nil {
				continue
			}
			key := table.FormatValue(childJoinKind, row[childJoin])
			expected, ok := parentValues[key]
			if !ok {
				// Orphaned join keys are the referential check's finding.
				continue
			}
			actual := table.FormatValue(childValueKind, row[childCol])
			if actual == expected {
				continue
			}
			warning.Rows++
			if len(warning.Samples) < sampleLimit {
				warning.Samples = append(warning.Samples,
					fmt.Sprintf("%s: %s != %s", key, actual, expected))
			}
		}
		if warning.Rows > 0 {
			report.Warnings = append(report.Warnings, warning)
		}
	}
}
