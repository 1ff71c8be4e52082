// model.go
//
// In-memory DMN model: decision tables, literal decisions and business
// knowledge models. Everything here is built once at load time — FEEL
// cells are pre-compiled where possible so the parse cost is paid once —
// and is immutable afterwards, which makes concurrent evaluation safe
// without locking.
package dmn

import (
	feel "github.com/omnixs/orion"
)

// HitPolicy selects how multiple matching rules resolve into one result.
type HitPolicy uint8

const (
	HitFirst HitPolicy = iota
	HitUnique
	HitPriority
	HitAny
	HitCollect
	HitRuleOrder
	HitOutputOrder
)

func (h HitPolicy) String() string {
	switch h {
	case HitFirst:
		return "FIRST"
	case HitUnique:
		return "UNIQUE"
	case HitPriority:
		return "PRIORITY"
	case HitAny:
		return "ANY"
	case HitCollect:
		return "COLLECT"
	case HitRuleOrder:
		return "RULE_ORDER"
	case HitOutputOrder:
		return "OUTPUT_ORDER"
	}
	return "FIRST"
}

// Aggregation applies to COLLECT results.
type Aggregation uint8

const (
	AggNone Aggregation = iota
	AggSum
	AggCount
	AggMin
	AggMax
)

// InputClause is one input column: the expression naming the context value
// and an optional allowed-values list that every supplied input must
// satisfy.
type InputClause struct {
	Label         string
	TypeRef       string
	AllowedValues []string
}

// OutputClause is one output column. Values lists the permitted outputs in
// priority order (earlier = higher) for the PRIORITY and OUTPUT_ORDER
// policies.
type OutputClause struct {
	Label   string
	TypeRef string
	Values  []string
}

// Cell is one rule entry: the raw text plus, when the text parses as a
// full FEEL expression, its pre-compiled AST. Unary-test shapes (ranges,
// comparisons, the wildcard) keep AST nil and are matched textually.
type Cell struct {
	Text string
	AST  feel.Node
}

// Rule pairs input cells with output cells. len(Inputs) always equals the
// table's input clause count.
type Rule struct {
	Inputs  []Cell
	Outputs []Cell
}

// DecisionTable is a fully parsed, evaluation-ready table.
type DecisionTable struct {
	ID          string
	Name        string
	Policy      HitPolicy
	Aggregation Aggregation
	Inputs      []InputClause
	Outputs     []OutputClause
	Rules       []Rule
}

// LiteralDecision is a named FEEL expression evaluated against the
// context.
type LiteralDecision struct {
	Name       string
	Expression string
	AST        feel.Node
}

// BKM is a named, parameterized, reusable FEEL function.
type BKM struct {
	Name       string
	Parameters []string
	Expression string
	AST        feel.Node
}

// Model is the parsed content of one DMN document.
type Model struct {
	Name      string
	Decisions []Decision
	BKMs      []*BKM
}

// Decision carries whichever representation the document declared; a
// decision may hold both a table and a literal expression.
type Decision struct {
	ID         string
	Name       string
	Table      *DecisionTable
	Expression string
	AST        feel.Node
}
