package schema

import (
	"fmt"

	"github.com/salesynth/salesynth/internal/table"
)

// Edge declares a foreign-key relationship from a child column to a parent
// key column. After generation every non-null child value must resolve to
// exactly one parent row.
type Edge struct {
	ChildTable   string `json:"child_table"`
	ChildColumn  string `json:"child_column"`
	ParentTable  string `json:"parent_table"`
	ParentColumn string `json:"parent_column"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", e.ChildTable, e.ChildColumn, e.ParentTable, e.ParentColumn)
}

// ConsistencyRule declares a cross-table agreement check outside strict
// foreign keys: the child's column must equal the parent's column for the
// parent row resolved through the join columns. Violations are warnings,
// not structural breakage.
type ConsistencyRule struct {
	Name             string `json:"name"`
	ChildTable       string `json:"child_table"`
	ChildColumn      string `json:"child_column"`
	ParentTable      string `json:"parent_table"`
	ParentColumn     string `json:"parent_column"`
	JoinChildColumn  string `json:"join_child_column"`
	JoinParentColumn string `json:"join_parent_column"`
}

// Graph declares the tables of a dataset, their foreign-key edges and their
// consistency rules. The legal generation order is derived from the edges,
// never hand-maintained.
type Graph struct {
	tables []string
	known  map[string]struct{}
	edges  []Edge
	rules  []ConsistencyRule
}

// NewGraph creates an empty schema graph.
func NewGraph() *Graph {
	return &Graph{known: make(map[string]struct{})}
}

// AddTable declares a table. Declaring the same table twice is a no-op.
func (g *Graph) AddTable(name string) {
	if _, ok := g.known[name]; ok {
		return
	}
	g.known[name] = struct{}{}
	g.tables = append(g.tables, name)
}

// AddEdge declares a foreign-key edge. Both endpoints must be declared
// tables.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.known[e.ChildTable]; !ok {
		return fmt.Errorf("edge %s: unknown child table %s", e, e.ChildTable)
	}
	if _, ok := g.known[e.ParentTable]; !ok {
		return fmt.Errorf("edge %s: unknown parent table %s", e, e.ParentTable)
	}
	g.edges = append(g.edges, e)
	return nil
}

// AddRule declares a consistency rule.
func (g *Graph) AddRule(r ConsistencyRule) {
	g.rules = append(g.rules, r)
}

// Tables returns the declared tables in declaration order.
func (g *Graph) Tables() []string {
	out := make([]string, len(g.tables))
	copy(out, g.tables)
	return out
}

// Edges returns the declared foreign-key edges in declaration order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Rules returns the declared consistency rules in declaration order.
func (g *Graph) Rules() []ConsistencyRule {
	out := make([]ConsistencyRule, len(g.rules))
	copy(out, g.rules)
	return out
}

// EdgesInto returns the edges whose child is the named table.
func (g *Graph) EdgesInto(child string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.ChildTable == child {
			out = append(out, e)
		}
	}
	return out
}

// GenerationOrder returns a topological ordering of the declared tables in
// which every parent precedes its children. Ties are broken by declaration
// order so the result is stable. A cycle among the edges is an error.
func (g *Graph) GenerationOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.tables))
	children := make(map[string][]string, len(g.tables))
	for _, name := range g.tables {
		indegree[name] = 0
	}
	seen := make(map[[2]string]struct{})
	for _, e := range g.edges {
		if e.ChildTable == e.ParentTable {
			continue // self references do not constrain ordering
		}
		key := [2]string{e.ParentTable, e.ChildTable}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		children[e.ParentTable] = append(children[e.ParentTable], e.ChildTable)
		indegree[e.ChildTable]++
	}

	order := make([]string, 0, len(g.tables))
	ready := make([]string, 0, len(g.tables))
	for _, name := range g.tables {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, child := range children[next] {
			indegree[child]--
			if indegree[child] == 0 {
				// Re-insert in declaration order to keep the result stable.
				ready = insertByDeclaration(ready, child, g.tables)
			}
		}
	}
	if len(order) != len(g.tables) {
		return nil, fmt.Errorf("schema graph contains a cycle among %d tables", len(g.tables)-len(order))
	}
	return order, nil
}

// OrderTables arranges the given tables into the graph's generation order,
// parents before children. Tables the graph declares but the caller does not
// provide are skipped; a provided table the graph does not declare is an
// error, so a table cannot bypass the declared schema.
func (g *Graph) OrderTables(tables []*table.Table) ([]*table.Table, error) {
	order, err := g.GenerationOrder()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*table.Table, len(tables))
	for _, t := range tables {
		name := t.Identity().Name
		if _, ok := g.known[name]; !ok {
			return nil, fmt.Errorf("table %s is not declared in the schema graph", name)
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("table %s provided twice", name)
		}
		byName[name] = t
	}
	out := make([]*table.Table, 0, len(tables))
	for _, name := range order {
		if t, ok := byName[name]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func insertByDeclaration(ready []string, name string, declared []string) []string {
	pos := make(map[string]int, len(declared))
	for i, t := range declared {
		pos[t] = i
	}
	idx := len(ready)
	for i, existing := range ready {
		if pos[name] < pos[existing] {
			idx = i
			break
		}
	}
	ready = append(ready, "")
	copy(ready[idx+1:], ready[idx:])
	ready[idx] = name
	return ready
}
