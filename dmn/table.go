// table.go
//
// Decision-table evaluation: match rules cell by cell, then resolve the
// hit policy over the fully matched set. A rule never applies partially —
// every input cell must match or the rule is skipped.
package dmn

import (
	"fmt"
	"sort"
	"strings"

	feel "github.com/omnixs/orion"
)

// Evaluate runs the table against ctx. Allowed-value violations are hard
// errors; everything else follows DMN null semantics. With no matching
// rule the result is an empty object.
func (t *DecisionTable) Evaluate(ip *feel.Interp, ctx feel.Context) (feel.Value, error) {
	if err := t.validateInputs(ctx); err != nil {
		return feel.Null, err
	}

	earlyExit := t.Policy == HitFirst || t.Policy == HitUnique || t.Policy == HitAny

	var matches []feel.Value
	for _, rule := range t.Rules {
		if !t.ruleMatches(ip, rule, ctx) {
			continue
		}
		matches = append(matches, t.ruleOutput(ip, rule, ctx))
		if earlyExit {
			break
		}
	}
	if len(matches) == 0 {
		return feel.Obj(map[string]feel.Value{}), nil
	}

	switch t.Policy {
	case HitFirst, HitUnique, HitAny:
		return matches[0], nil
	case HitRuleOrder:
		return feel.List(matches), nil
	case HitOutputOrder:
		return t.resolveOutputOrder(matches), nil
	case HitPriority:
		return t.resolvePriority(matches), nil
	case HitCollect:
		return t.resolveCollect(matches), nil
	}
	return matches[0], nil
}

// validateInputs checks every supplied input value against its column's
// allowed-values list. A violation is a structural error, not a Null.
func (t *DecisionTable) validateInputs(ctx feel.Context) error {
	for _, clause := range t.Inputs {
		if len(clause.AllowedValues) == 0 {
			continue
		}
		v, ok := resolveLabel(ctx, clause.Label)
		if !ok || v.IsNull() {
			continue
		}
		rendered := feel.FormatValue(v)
		allowed := false
		for _, a := range clause.AllowedValues {
			if rendered == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("dmn: table '%s' input '%s': value %q not in allowed values %v",
				t.Name, clause.Label, rendered, clause.AllowedValues)
		}
	}
	return nil
}

// ruleMatches tests every input cell. A pre-compiled cell matches when its
// evaluated result equals the candidate value; on evaluation failure the
// textual unary-test matcher decides instead.
func (t *DecisionTable) ruleMatches(ip *feel.Interp, rule Rule, ctx feel.Context) bool {
	for i, cell := range rule.Inputs {
		candidate := feel.Null
		if i < len(t.Inputs) {
			if v, ok := resolveLabel(ctx, t.Inputs[i].Label); ok {
				candidate = v
			}
		}
		if cell.AST != nil {
			if result, err := ip.Eval(cell.AST, ctx); err == nil {
				if !equalsCandidate(result, candidate) {
					return false
				}
				continue
			}
		}
		if !feel.UnaryTestMatches(cell.Text, candidate) {
			return false
		}
	}
	return true
}

// equalsCandidate compares an evaluated cell result to the input value; a
// list-valued input matches when any element equals the result.
func equalsCandidate(result, candidate feel.Value) bool {
	if feel.Equal(result, candidate) {
		return true
	}
	if items, ok := candidate.AsList(); ok {
		for _, item := range items {
			if feel.Equal(result, item) {
				return true
			}
		}
	}
	return false
}

// resolveLabel looks up an input-clause label in the context. A dotted
// label such as "applicant.age" traverses nested objects segment by
// segment; a context key containing the full dotted name still wins.
func resolveLabel(ctx feel.Context, label string) (feel.Value, bool) {
	if v, ok := feel.Resolve(ctx, label); ok {
		return v, true
	}
	parts := strings.Split(label, ".")
	if len(parts) < 2 {
		return feel.Null, false
	}
	v, ok := feel.Resolve(ctx, parts[0])
	if !ok {
		return feel.Null, false
	}
	for _, part := range parts[1:] {
		obj, isObj := v.AsObj()
		if !isObj {
			return feel.Null, false
		}
		if v, ok = feel.Resolve(feel.Context(obj), part); !ok {
			return feel.Null, false
		}
	}
	return v, true
}

// ruleOutput computes a matched rule's result: multi-output tables yield
// an object keyed by output label, single-output tables yield the bare
// value.
func (t *DecisionTable) ruleOutput(ip *feel.Interp, rule Rule, ctx feel.Context) feel.Value {
	if len(t.Outputs) > 1 {
		out := make(map[string]feel.Value, len(t.Outputs))
		for i, clause := range t.Outputs {
			if i < len(rule.Outputs) {
				out[clause.Label] = t.evalOutputCell(ip, rule.Outputs[i], ctx)
			}
		}
		return feel.Obj(out)
	}
	if len(rule.Outputs) == 0 {
		return feel.Null
	}
	return t.evalOutputCell(ip, rule.Outputs[0], ctx)
}

// evalOutputCell evaluates an output entry as FEEL; text that neither
// pre-compiled nor parses at evaluation time is taken as a literal string.
func (t *DecisionTable) evalOutputCell(ip *feel.Interp, cell Cell, ctx feel.Context) feel.Value {
	if cell.Text == "" {
		return feel.Null
	}
	node := cell.AST
	if node == nil {
		parsed, err := feel.ParseExpression(cell.Text)
		if err != nil {
			return feel.Str(cell.Text)
		}
		node = parsed
	}
	v, err := ip.Eval(node, ctx)
	if err != nil {
		return feel.Str(cell.Text)
	}
	return v
}

// columnValue extracts the value a match produced for output column c.
func (t *DecisionTable) columnValue(match feel.Value, c int) feel.Value {
	if len(t.Outputs) <= 1 {
		return match
	}
	if obj, ok := match.AsObj(); ok && c < len(t.Outputs) {
		return obj[t.Outputs[c].Label]
	}
	return feel.Null
}

// priorityIndex is the position of a match's column value in the column's
// declared value list; earlier means higher priority, absent means lowest.
func (t *DecisionTable) priorityIndex(match feel.Value, c int) int {
	clause := t.Outputs[c]
	rendered := feel.FormatValue(t.columnValue(match, c))
	for i, v := range clause.Values {
		if rendered == v {
			return i
		}
	}
	return len(clause.Values)
}

// resolvePriority picks the single match whose column-wise priority index
// vector is lexicographically smallest; rule order breaks exact ties.
func (t *DecisionTable) resolvePriority(matches []feel.Value) feel.Value {
	best := 0
	for i := 1; i < len(matches); i++ {
		for c := range t.Outputs {
			if len(t.Outputs[c].Values) == 0 {
				continue
			}
			pi, pb := t.priorityIndex(matches[i], c), t.priorityIndex(matches[best], c)
			if pi < pb {
				best = i
			}
			if pi != pb {
				break
			}
		}
	}
	return matches[best]
}

// resolveOutputOrder sorts all matches: by declared output priority when
// the first output column has a value list, otherwise by natural
// numeric/string order of the first column.
func (t *DecisionTable) resolveOutputOrder(matches []feel.Value) feel.Value {
	sorted := make([]feel.Value, len(matches))
	copy(sorted, matches)
	byPriority := len(t.Outputs) > 0 && len(t.Outputs[0].Values) > 0
	sort.SliceStable(sorted, func(i, j int) bool {
		if byPriority {
			return t.priorityIndex(sorted[i], 0) < t.priorityIndex(sorted[j], 0)
		}
		a, b := t.columnValue(sorted[i], 0), t.columnValue(sorted[j], 0)
		if af, ok := a.AsNum(); ok {
			if bf, ok := b.AsNum(); ok {
				return af < bf
			}
		}
		return feel.FormatValue(a) < feel.FormatValue(b)
	})
	return feel.List(sorted)
}

// resolveCollect applies the COLLECT aggregation. Non-numeric matches are
// skipped by SUM/MIN/MAX; COUNT counts every match.
func (t *DecisionTable) resolveCollect(matches []feel.Value) feel.Value {
	if t.Aggregation == AggNone {
		return feel.List(matches)
	}
	if t.Aggregation == AggCount {
		return feel.Num(float64(len(matches)))
	}
	var nums []float64
	for _, m := range matches {
		if f, ok := feel.ToNumber(m); ok && !m.IsNull() {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return feel.Null
	}
	switch t.Aggregation {
	case AggSum:
		total := 0.0
		for _, f := range nums {
			total += f
		}
		return feel.Num(total)
	case AggMin:
		best := nums[0]
		for _, f := range nums[1:] {
			if f < best {
				best = f
			}
		}
		return feel.Num(best)
	case AggMax:
		best := nums[0]
		for _, f := range nums[1:] {
			if f > best {
				best = f
			}
		}
		return feel.Num(best)
	}
	return feel.List(matches)
}
