// parser.go
//
// DMN XML document loading. This is a plain tree-walk over encoding/xml:
// local element names only, so the usual namespace prefixes in exported
// models are irrelevant. Cell texts are pre-compiled to FEEL ASTs here so
// the per-evaluation cost is matching only.
package dmn

import (
	"encoding/xml"
	"fmt"
	"strings"

	feel "github.com/omnixs/orion"
)

type xmlText struct {
	Text string `xml:"text"`
}

type xmlDefinitions struct {
	Name      string        `xml:"name,attr"`
	Decisions []xmlDecision `xml:"decision"`
	BKMs      []xmlBKM      `xml:"businessKnowledgeModel"`
}

type xmlDecision struct {
	ID      string      `xml:"id,attr"`
	Name    string      `xml:"name,attr"`
	Table   *xmlTable   `xml:"decisionTable"`
	Literal *xmlText    `xml:"literalExpression"`
}

type xmlTable struct {
	HitPolicy   string      `xml:"hitPolicy,attr"`
	Aggregation string      `xml:"aggregation,attr"`
	Inputs      []xmlInput  `xml:"input"`
	Outputs     []xmlOutput `xml:"output"`
	Rules       []xmlRule   `xml:"rule"`
}

type xmlInput struct {
	Expression struct {
		TypeRef string `xml:"typeRef,attr"`
		Text    string `xml:"text"`
	} `xml:"inputExpression"`
	Values *xmlText `xml:"inputValues"`
}

type xmlOutput struct {
	Name    string   `xml:"name,attr"`
	TypeRef string   `xml:"typeRef,attr"`
	Values  *xmlText `xml:"outputValues"`
}

type xmlRule struct {
	InputEntries  []xmlText `xml:"inputEntry"`
	OutputEntries []xmlText `xml:"outputEntry"`
}

type xmlBKM struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Logic struct {
		Parameters []struct {
			Name string `xml:"name,attr"`
		} `xml:"formalParameter"`
		Literal xmlText `xml:"literalExpression"`
	} `xml:"encapsulatedLogic"`
}

// ParseModel decodes a DMN document into an evaluation-ready Model.
func ParseModel(data []byte) (*Model, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("dmn: empty document")
	}
	var doc xmlDefinitions
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("dmn: %w", err)
	}

	model := &Model{Name: doc.Name}
	for _, d := range doc.Decisions {
		dec := Decision{ID: d.ID, Name: d.Name}
		if dec.Name == "" {
			dec.Name = d.ID
		}
		if d.Table != nil {
			table, err := buildTable(dec, d.Table)
			if err != nil {
				return nil, err
			}
			dec.Table = table
		}
		if d.Literal != nil {
			dec.Expression = strings.TrimSpace(d.Literal.Text)
			dec.AST = compileOrNil(dec.Expression)
		}
		model.Decisions = append(model.Decisions, dec)
	}
	for _, b := range doc.BKMs {
		name := b.Name
		if name == "" {
			name = b.ID
		}
		bkm := &BKM{Name: name, Expression: strings.TrimSpace(b.Logic.Literal.Text)}
		for _, p := range b.Logic.Parameters {
			bkm.Parameters = append(bkm.Parameters, p.Name)
		}
		bkm.AST = compileOrNil(bkm.Expression)
		model.BKMs = append(model.BKMs, bkm)
	}
	return model, nil
}

func buildTable(dec Decision, xt *xmlTable) (*DecisionTable, error) {
	table := &DecisionTable{
		ID:     dec.ID,
		Name:   dec.Name,
		Policy: parseHitPolicy(xt.HitPolicy, xt.Aggregation),
	}
	table.Aggregation = parseAggregation(xt.HitPolicy, xt.Aggregation)

	for _, in := range xt.Inputs {
		clause := InputClause{
			Label:   strings.TrimSpace(in.Expression.Text),
			TypeRef: in.Expression.TypeRef,
		}
		if in.Values != nil {
			clause.AllowedValues = parseQuotedList(in.Values.Text)
		}
		table.Inputs = append(table.Inputs, clause)
	}
	for _, out := range xt.Outputs {
		clause := OutputClause{Label: out.Name, TypeRef: out.TypeRef}
		if out.Values != nil {
			clause.Values = parseQuotedList(out.Values.Text)
		}
		table.Outputs = append(table.Outputs, clause)
	}
	for ri, r := range xt.Rules {
		if len(r.InputEntries) != len(table.Inputs) {
			return nil, fmt.Errorf("dmn: table '%s' rule %d has %d input entries, want %d",
				table.Name, ri+1, len(r.InputEntries), len(table.Inputs))
		}
		rule := Rule{}
		for _, e := range r.InputEntries {
			text := strings.TrimSpace(e.Text)
			if text == "" {
				text = "-"
			}
			rule.Inputs = append(rule.Inputs, Cell{Text: text, AST: tryCompile(text)})
		}
		for _, e := range r.OutputEntries {
			text := strings.TrimSpace(e.Text)
			rule.Outputs = append(rule.Outputs, Cell{Text: text, AST: tryCompile(text)})
		}
		table.Rules = append(table.Rules, rule)
	}
	return table, nil
}

func parseHitPolicy(hp, _ string) HitPolicy {
	switch strings.TrimSpace(hp) {
	case "", "FIRST", "F":
		return HitFirst
	case "UNIQUE", "U":
		return HitUnique
	case "PRIORITY", "P":
		return HitPriority
	case "ANY", "A":
		return HitAny
	case "RULE_ORDER", "RULE ORDER", "R":
		return HitRuleOrder
	case "OUTPUT_ORDER", "OUTPUT ORDER", "O":
		return HitOutputOrder
	case "COLLECT", "C", "C+", "C#", "C<", "C>":
		return HitCollect
	}
	return HitFirst
}

// parseAggregation reads either the shorthand hit policy ("C+") or the
// separate aggregation attribute used by exported DMN XML.
func parseAggregation(hp, agg string) Aggregation {
	switch strings.TrimSpace(hp) {
	case "C+":
		return AggSum
	case "C#":
		return AggCount
	case "C<":
		return AggMin
	case "C>":
		return AggMax
	}
	switch strings.TrimSpace(agg) {
	case "SUM":
		return AggSum
	case "COUNT":
		return AggCount
	case "MIN":
		return AggMin
	case "MAX":
		return AggMax
	}
	return AggNone
}

// parseQuotedList extracts the quoted items of an outputValues/inputValues
// text such as `"Approved", "Declined"`.
func parseQuotedList(text string) []string {
	var values []string
	inQuote := false
	var current strings.Builder
	for _, r := range text {
		switch {
		case r == '"':
			if inQuote {
				values = append(values, current.String())
				current.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			current.WriteRune(r)
		}
	}
	return values
}

// compileOrNil pre-parses a full FEEL expression (literal decisions, BKM
// bodies). A parse failure leaves AST nil; evaluation re-parses and turns
// the failure into a structural error then.
func compileOrNil(text string) feel.Node {
	if text == "" {
		return nil
	}
	node, err := feel.ParseExpression(text)
	if err != nil {
		return nil
	}
	return node
}

// tryCompile pre-parses a cell as a full FEEL expression. Unary-test
// shapes (wildcard, comparisons, ranges, anything with parentheses or
// brackets) are left to the textual matcher.
func tryCompile(text string) feel.Node {
	if text == "" || text == "-" {
		return nil
	}
	for _, marker := range []string{">=", "<=", "..", "[", "("} {
		if strings.Contains(text, marker) {
			return nil
		}
	}
	node, err := feel.ParseExpression(text)
	if err != nil {
		return nil
	}
	return node
}
