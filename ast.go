// ast.go
//
// Typed FEEL syntax tree. The node set is closed: the evaluator switches
// exhaustively over these types and treats anything else as a structural
// error. Nodes own their children exclusively and are immutable after the
// parse, so one tree may be evaluated concurrently from many goroutines.
package feel

// Node is implemented by every AST node.
type Node interface {
	nodeKind() string
}

// NumberNode is a numeric literal. The boolean and null keywords also parse
// to literal nodes (BoolNode/NullNode below) so the evaluator never sees
// raw keyword text.
type NumberNode struct {
	Value float64
}

type StringNode struct {
	Value string
}

type BoolNode struct {
	Value bool
}

type NullNode struct{}

// ListNode is a bracketed list literal.
type ListNode struct {
	Items []Node
}

// VarNode references a context variable by (possibly spaced) name.
type VarNode struct {
	Name string
}

// BinaryNode covers + - * / ** < > <= >= = != and or.
type BinaryNode struct {
	Op    string
	Left  Node
	Right Node
}

// UnaryNode is currently only unary minus.
type UnaryNode struct {
	Op      string
	Operand Node
}

// Param is one actual parameter of a call. An empty Name means positional;
// the parser rejects calls mixing named and positional styles.
type Param struct {
	Name  string
	Value Node
}

// CallNode invokes a builtin or BKM by name.
type CallNode struct {
	Name   string
	Params []Param
}

// PropertyNode accesses one property of an object expression. Chains
// (a.b.c) nest left-associatively: ((a).b).c.
type PropertyNode struct {
	Object   Node
	Property string
}

// IfNode is the conditional expression; only the selected branch is
// evaluated.
type IfNode struct {
	Cond Node
	Then Node
	Else Node
}

func (*NumberNode) nodeKind() string   { return "number" }
func (*StringNode) nodeKind() string   { return "string" }
func (*BoolNode) nodeKind() string     { return "boolean" }
func (*NullNode) nodeKind() string     { return "null" }
func (*ListNode) nodeKind() string     { return "list" }
func (*VarNode) nodeKind() string      { return "variable" }
func (*BinaryNode) nodeKind() string   { return "binary" }
func (*UnaryNode) nodeKind() string    { return "unary" }
func (*CallNode) nodeKind() string     { return "call" }
func (*PropertyNode) nodeKind() string { return "property" }
func (*IfNode) nodeKind() string       { return "if" }
