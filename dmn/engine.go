// engine.go
//
// Public facade: owns the decision tables, literal decisions and BKMs
// loaded from DMN documents and evaluates them all against a context.
package dmn

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	feel "github.com/omnixs/orion"
)

// Engine evaluates loaded DMN models. Loading and evaluation may happen
// concurrently; every evaluation works on an immutable snapshot of the
// loaded components.
type Engine struct {
	mu       sync.RWMutex
	tables   map[string]*DecisionTable
	literals map[string]*LiteralDecision
	bkms     *BKMManager
	log      *zap.Logger
	maxDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger installs a structured logger; the default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMaxBKMDepth overrides the BKM recursion limit.
func WithMaxBKMDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		tables:   make(map[string]*DecisionTable),
		literals: make(map[string]*LiteralDecision),
		bkms:     NewBKMManager(),
		log:      zap.NewNop(),
		maxDepth: DefaultMaxBKMDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadModel parses a DMN document and registers its decisions and BKMs.
// Components keep their names; loading a second model with overlapping
// names replaces the earlier components.
func (e *Engine) LoadModel(data []byte) error {
	model, err := ParseModel(data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range model.Decisions {
		dec := model.Decisions[i]
		if dec.Table != nil {
			e.tables[dec.Name] = dec.Table
		}
		if dec.Expression != "" {
			e.literals[dec.Name] = &LiteralDecision{
				Name:       dec.Name,
				Expression: dec.Expression,
				AST:        dec.AST,
			}
		}
	}
	for _, bkm := range model.BKMs {
		if err := e.bkms.Add(bkm); err != nil {
			return err
		}
	}
	e.log.Debug("model loaded",
		zap.String("model", model.Name),
		zap.Int("decisions", len(model.Decisions)),
		zap.Int("bkms", len(model.BKMs)))
	return nil
}

// Evaluate runs every loaded decision against ctx and returns an object
// keyed by decision name. Decision-table structural errors (allowed-value
// violations) abort the evaluation; a failing literal decision contributes
// Null instead.
func (e *Engine) Evaluate(ctx feel.Context) (feel.Value, error) {
	e.mu.RLock()
	tables := make(map[string]*DecisionTable, len(e.tables))
	for k, v := range e.tables {
		tables[k] = v
	}
	literals := make(map[string]*LiteralDecision, len(e.literals))
	for k, v := range e.literals {
		literals[k] = v
	}
	e.mu.RUnlock()

	evalID := uuid.NewString()
	inv := newInvoker(e.bkms.Snapshot(), e.maxDepth, e.log)
	results := make(map[string]feel.Value, len(tables)+len(literals))

	for _, name := range sortedKeys(tables) {
		v, err := tables[name].Evaluate(inv.ip, ctx)
		if err != nil {
			e.log.Error("decision table failed",
				zap.String("evaluation_id", evalID),
				zap.String("decision", name),
				zap.Error(err))
			return feel.Null, err
		}
		results[name] = v
	}
	for _, name := range sortedKeys(literals) {
		v, err := literals[name].Evaluate(inv.ip, ctx)
		if err != nil {
			e.log.Warn("literal decision failed",
				zap.String("evaluation_id", evalID),
				zap.String("decision", name),
				zap.Error(err))
			v = feel.Null
		}
		results[name] = v
	}

	e.log.Debug("evaluation complete",
		zap.String("evaluation_id", evalID),
		zap.Int("decisions", len(results)))
	return feel.Obj(results), nil
}

// EvaluateJSON decodes a JSON context, evaluates, and re-encodes the
// result object.
func (e *Engine) EvaluateJSON(data []byte) ([]byte, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("dmn: invalid context JSON: %w", err)
	}
	result, err := e.Evaluate(feel.ContextFromAny(raw))
	if err != nil {
		return nil, err
	}
	return json.Marshal(feel.ToAny(result))
}

func (e *Engine) DecisionTableNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedKeys(e.tables)
}

func (e *Engine) LiteralDecisionNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedKeys(e.literals)
}

func (e *Engine) BKMNames() []string { return e.bkms.Names() }

func (e *Engine) RemoveDecisionTable(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.tables[name]
	delete(e.tables, name)
	return ok
}

func (e *Engine) RemoveLiteralDecision(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.literals[name]
	delete(e.literals, name)
	return ok
}

func (e *Engine) RemoveBKM(name string) bool { return e.bkms.Remove(name) }

// Clear drops every loaded component.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.tables = make(map[string]*DecisionTable)
	e.literals = make(map[string]*LiteralDecision)
	e.mu.Unlock()
	e.bkms.Clear()
}

// Evaluate runs a literal decision; with no expression the result is Null.
func (d *LiteralDecision) Evaluate(ip *feel.Interp, ctx feel.Context) (feel.Value, error) {
	if d.Expression == "" {
		return feel.Null, nil
	}
	node := d.AST
	if node == nil {
		parsed, err := feel.ParseExpression(d.Expression)
		if err != nil {
			return feel.Null, fmt.Errorf("dmn: decision '%s': %w", d.Name, err)
		}
		node = parsed
	}
	return ip.Eval(node, ctx)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
