// bkm.go
//
// Business knowledge model management and invocation. A BKM is a named
// FEEL expression with formal parameters; calls bind positional arguments
// into a copy of the caller's context and re-enter the evaluator with
// every sibling BKM still visible, so BKMs may call each other.
//
// BKM-to-BKM recursion is bounded by an explicit depth limit rather than
// left to exhaust the stack; exceeding it is a structural error.
package dmn

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	feel "github.com/omnixs/orion"
)

// DefaultMaxBKMDepth bounds nested BKM invocations per evaluation.
const DefaultMaxBKMDepth = 64

// BKMManager owns a set of BKMs keyed by name. Registration is guarded so
// models can be loaded while evaluations run; each evaluation works on a
// snapshot.
type BKMManager struct {
	mu   sync.RWMutex
	bkms map[string]*BKM
}

func NewBKMManager() *BKMManager {
	return &BKMManager{bkms: make(map[string]*BKM)}
}

// Add validates and registers a BKM; a later Add with the same name
// replaces the earlier one.
func (m *BKMManager) Add(b *BKM) error {
	if b == nil || b.Name == "" {
		return fmt.Errorf("dmn: BKM name cannot be empty")
	}
	if b.Expression == "" {
		return fmt.Errorf("dmn: BKM '%s' has an empty expression", b.Name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bkms[b.Name] = b
	return nil
}

func (m *BKMManager) Get(name string) (*BKM, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bkms[name]
	return b, ok
}

func (m *BKMManager) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

func (m *BKMManager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.bkms[name]
	delete(m.bkms, name)
	return ok
}

func (m *BKMManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bkms = make(map[string]*BKM)
}

func (m *BKMManager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.bkms))
	for n := range m.bkms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the current BKM map for one evaluation.
func (m *BKMManager) Snapshot() map[string]*BKM {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*BKM, len(m.bkms))
	for k, v := range m.bkms {
		out[k] = v
	}
	return out
}

// bkmInvoker is the per-evaluation call dispatcher. One invoker serves one
// Evaluate call, so the depth counter needs no synchronization.
type bkmInvoker struct {
	bkms     map[string]*BKM
	ip       *feel.Interp
	depth    int
	maxDepth int
	log      *zap.Logger
}

// newInvoker wires a fresh evaluator whose unknown-function calls resolve
// against the given BKM set.
func newInvoker(bkms map[string]*BKM, maxDepth int, log *zap.Logger) *bkmInvoker {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxBKMDepth
	}
	if log == nil {
		log = zap.NewNop()
	}
	inv := &bkmInvoker{bkms: bkms, ip: feel.NewInterp(nil), maxDepth: maxDepth, log: log}
	inv.ip.SetExternal(inv.resolve)
	return inv
}

func (inv *bkmInvoker) resolve(name string, args []feel.Value, ctx feel.Context) (feel.Value, bool, error) {
	bkm, ok := inv.bkms[name]
	if !ok {
		return feel.Null, false, nil
	}
	v, err := inv.invoke(bkm, args, ctx)
	return v, true, err
}

// invoke binds args to the BKM's parameters by index into a copy of ctx
// and evaluates the body. An argument-count mismatch is tolerated with a
// warning: missing parameters stay unbound, extras are dropped.
func (inv *bkmInvoker) invoke(bkm *BKM, args []feel.Value, ctx feel.Context) (feel.Value, error) {
	if bkm.Name == "" {
		return feel.Null, fmt.Errorf("dmn: BKM name cannot be empty")
	}
	if bkm.Expression == "" {
		return feel.Null, fmt.Errorf("dmn: BKM '%s' has an empty expression", bkm.Name)
	}
	if inv.depth >= inv.maxDepth {
		return feel.Null, fmt.Errorf("dmn: BKM '%s' exceeded invocation depth %d", bkm.Name, inv.maxDepth)
	}

	if len(args) != len(bkm.Parameters) {
		inv.log.Warn("BKM argument count mismatch",
			zap.String("bkm", bkm.Name),
			zap.Int("args", len(args)),
			zap.Int("params", len(bkm.Parameters)))
	}
	scope := ctx.Clone()
	for i, p := range bkm.Parameters {
		if i >= len(args) {
			break
		}
		scope[p] = args[i]
	}

	node := bkm.AST
	if node == nil {
		parsed, err := feel.ParseExpression(bkm.Expression)
		if err != nil {
			return feel.Null, fmt.Errorf("dmn: BKM '%s': %w", bkm.Name, err)
		}
		node = parsed
	}

	inv.depth++
	defer func() { inv.depth-- }()
	return inv.ip.Eval(node, scope)
}

// InvokeBKM evaluates one BKM against positional args with the given
// sibling set visible for nested calls.
func InvokeBKM(bkm *BKM, args []feel.Value, ctx feel.Context, available map[string]*BKM) (feel.Value, error) {
	return newInvoker(available, 0, nil).invoke(bkm, args, ctx)
}
