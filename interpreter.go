// interpreter.go
//
// Tree-walking FEEL evaluator. An Interp carries no per-evaluation state:
// the context is threaded explicitly through every call, so one Interp and
// one parsed tree may be used from many goroutines at once.
//
// Failure handling follows DMN's two-class rule. Structural problems
// (undefined variable, property access on a non-object, unknown function)
// return an *EvalError. Semantic problems (type mismatches inside
// operators, division by zero, invalid call arguments) return Null with a
// nil error and propagate silently.
package feel

import (
	"math"
	"strings"
	"sync"
	"unicode"
)

// ExternalFunc resolves calls to names the builtin registry does not know,
// typically business knowledge models. It reports whether it handled the
// name; an unhandled unknown name becomes an EvalError.
type ExternalFunc func(name string, args []Value, ctx Context) (Value, bool, error)

// Interp evaluates parsed FEEL expressions.
type Interp struct {
	reg      *Registry
	external ExternalFunc
}

// NewInterp returns an evaluator over the given signature registry; nil
// selects the shared default registry.
func NewInterp(reg *Registry) *Interp {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Interp{reg: reg}
}

// SetExternal installs the resolver for non-builtin function calls.
func (ip *Interp) SetExternal(fn ExternalFunc) { ip.external = fn }

// EvalExpression tokenizes, parses and evaluates src in one step using the
// default registry.
func EvalExpression(src string, ctx Context) (Value, error) {
	node, err := ParseExpression(src)
	if err != nil {
		return Null, err
	}
	return NewInterp(nil).Eval(node, ctx)
}

// Eval walks the tree against ctx.
func (ip *Interp) Eval(n Node, ctx Context) (Value, error) {
	switch n := n.(type) {
	case *NumberNode:
		return Num(n.Value), nil
	case *StringNode:
		return Str(n.Value), nil
	case *BoolNode:
		return Bool(n.Value), nil
	case *NullNode:
		return Null, nil

	case *ListNode:
		items := make([]Value, len(n.Items))
		for i, item := range n.Items {
			v, err := ip.Eval(item, ctx)
			if err != nil {
				return Null, err
			}
			items[i] = v
		}
		return List(items), nil

	case *VarNode:
		return resolveVariable(ctx, n.Name)

	case *UnaryNode:
		return ip.evalUnary(n, ctx)

	case *BinaryNode:
		return ip.evalBinary(n, ctx)

	case *PropertyNode:
		return ip.evalProperty(n, ctx)

	case *IfNode:
		return ip.evalIf(n, ctx)

	case *CallNode:
		return ip.evalCall(n, ctx)
	}
	return Null, evalErrf("unknown AST node %T", n)
}

// Resolve looks name up in ctx with the evaluator's fallback chain and
// reports whether any spelling was present. Decision-table input columns
// use this to fetch the candidate value for a label.
func Resolve(ctx Context, name string) (Value, bool) {
	v, err := resolveVariable(ctx, name)
	return v, err == nil
}

// resolveVariable tries the exact name, then progressively normalized
// spellings, so "Full Name" finds context keys full_name, fullname etc.
func resolveVariable(ctx Context, name string) (Value, error) {
	if v, ok := ctx[name]; ok {
		return v, nil
	}
	for _, alt := range []string{
		strings.ReplaceAll(name, " ", "_"),
		strings.ToLower(name),
		strings.ToLower(strings.ReplaceAll(name, " ", "_")),
		strings.ReplaceAll(name, " ", ""),
	} {
		if v, ok := ctx[alt]; ok {
			return v, nil
		}
	}
	return Null, evalErrf("undefined variable '%s'", name)
}

func (ip *Interp) evalUnary(n *UnaryNode, ctx Context) (Value, error) {
	v, err := ip.Eval(n.Operand, ctx)
	if err != nil {
		return Null, err
	}
	if v.IsNull() {
		return Null, nil
	}
	f, ok := ToNumber(v)
	if !ok {
		return Null, nil
	}
	return Num(-f), nil
}

func (ip *Interp) evalIf(n *IfNode, ctx Context) (Value, error) {
	cond, err := ip.Eval(n.Cond, ctx)
	if err != nil {
		return Null, err
	}
	if cond.IsNull() {
		return ip.Eval(n.Else, ctx)
	}
	b, ok := cond.AsBool()
	if !ok {
		// a non-boolean, non-null condition is undefined, not an error
		return Null, nil
	}
	if b {
		return ip.Eval(n.Then, ctx)
	}
	return ip.Eval(n.Else, ctx)
}

func (ip *Interp) evalBinary(n *BinaryNode, ctx Context) (Value, error) {
	switch n.Op {
	case "and":
		return ip.evalAnd(n, ctx)
	case "or":
		return ip.evalOr(n, ctx)
	}

	left, err := ip.Eval(n.Left, ctx)
	if err != nil {
		return Null, err
	}
	right, err := ip.Eval(n.Right, ctx)
	if err != nil {
		return Null, err
	}

	switch n.Op {
	case "+":
		// concatenation wins over null propagation when a string is involved
		if left.Tag == VTStr || right.Tag == VTStr {
			return Str(FormatValue(left) + FormatValue(right)), nil
		}
		return numericOp(left, right, func(a, b float64) Value { return Num(a + b) })
	case "-":
		return numericOp(left, right, func(a, b float64) Value { return Num(a - b) })
	case "*":
		return numericOp(left, right, func(a, b float64) Value { return Num(a * b) })
	case "**":
		return numericOp(left, right, func(a, b float64) Value { return Num(math.Pow(a, b)) })
	case "/":
		return numericOp(left, right, func(a, b float64) Value {
			if b == 0 {
				return Null
			}
			return Num(a / b)
		})
	case "<", ">", "<=", ">=":
		return compareOp(n.Op, left, right)
	case "=":
		return Bool(Equal(left, right)), nil
	case "!=":
		return Bool(!Equal(left, right)), nil
	}
	return Null, evalErrf("unknown operator '%s'", n.Op)
}

func numericOp(left, right Value, fn func(a, b float64) Value) (Value, error) {
	if left.IsNull() || right.IsNull() {
		return Null, nil
	}
	a, ok := ToNumber(left)
	if !ok {
		return Null, nil
	}
	b, ok := ToNumber(right)
	if !ok {
		return Null, nil
	}
	return fn(a, b), nil
}

func compareOp(op string, left, right Value) (Value, error) {
	if left.IsNull() || right.IsNull() {
		return Null, nil
	}
	if ls, ok := left.AsStr(); ok {
		if rs, ok := right.AsStr(); ok {
			return Bool(cmpHolds(op, strings.Compare(ls, rs))), nil
		}
	}
	a, ok := ToNumber(left)
	if !ok {
		return Null, nil
	}
	b, ok := ToNumber(right)
	if !ok {
		return Null, nil
	}
	switch {
	case a < b:
		return Bool(cmpHolds(op, -1)), nil
	case a > b:
		return Bool(cmpHolds(op, 1)), nil
	}
	return Bool(cmpHolds(op, 0)), nil
}

func cmpHolds(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case ">":
		return c > 0
	case "<=":
		return c <= 0
	case ">=":
		return c >= 0
	}
	return false
}

// evalAnd implements the ternary truth table with short-circuiting:
// false and anything is false even when the other side is null or fails.
func (ip *Interp) evalAnd(n *BinaryNode, ctx Context) (Value, error) {
	left, err := ip.Eval(n.Left, ctx)
	if err != nil {
		return Null, err
	}
	if !left.IsNull() && !ToBoolean(left) {
		return False, nil
	}
	right, err := ip.Eval(n.Right, ctx)
	if err != nil {
		return Null, err
	}
	if !right.IsNull() && !ToBoolean(right) {
		return False, nil
	}
	if left.IsNull() || right.IsNull() {
		return Null, nil
	}
	return True, nil
}

func (ip *Interp) evalOr(n *BinaryNode, ctx Context) (Value, error) {
	left, err := ip.Eval(n.Left, ctx)
	if err != nil {
		return Null, err
	}
	if !left.IsNull() && ToBoolean(left) {
		return True, nil
	}
	right, err := ip.Eval(n.Right, ctx)
	if err != nil {
		return Null, err
	}
	if !right.IsNull() && ToBoolean(right) {
		return True, nil
	}
	if left.IsNull() || right.IsNull() {
		return Null, nil
	}
	return False, nil
}

func (ip *Interp) evalProperty(n *PropertyNode, ctx Context) (Value, error) {
	obj, err := ip.Eval(n.Object, ctx)
	if err != nil {
		return Null, err
	}
	if obj.IsNull() {
		return Null, nil
	}
	m, ok := obj.AsObj()
	if !ok {
		return Null, evalErrf("cannot access property '%s' on %s value", n.Property, obj.Tag)
	}
	return lookupProperty(m, n.Property)
}

// lookupProperty mirrors resolveVariable's tolerance for naming styles:
// exact, spaces to underscores, camelCase to snake_case, lowercase.
func lookupProperty(m map[string]Value, name string) (Value, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	for _, alt := range []string{
		strings.ReplaceAll(name, " ", "_"),
		camelToSnake(name),
		strings.ToLower(name),
	} {
		if v, ok := m[alt]; ok {
			return v, nil
		}
	}
	return Null, evalErrf("property '%s' not found", name)
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (ip *Interp) evalCall(n *CallNode, ctx Context) (Value, error) {
	args, err := ip.bindParameters(n.Name, n.Params, ctx)
	if err != nil {
		// invalid call arguments evaluate to null per DMN
		return Null, nil
	}
	if fn, ok := builtinTable()[n.Name]; ok {
		return fn(args), nil
	}
	if ip.external != nil {
		v, handled, err := ip.external(n.Name, args, ctx)
		if err != nil {
			return Null, err
		}
		if handled {
			return v, nil
		}
	}
	return Null, evalErrf("unknown function '%s'", n.Name)
}

type builtinFn func(args []Value) Value

var builtinTable = sync.OnceValue(func() map[string]builtinFn {
	m := make(map[string]builtinFn, 96)
	registerCoreBuiltins(m)
	registerStringBuiltins(m)
	registerListBuiltins(m)
	registerContextBuiltins(m)
	registerTemporalBuiltins(m)
	registerRangeBuiltins(m)
	return m
})
