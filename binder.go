// binder.go
//
// Parameter binding: resolves the actual parameters of a call (positional
// or named) against a registry signature into an ordered argument vector.
// Binding failures are ordinary errors here; the call site in the
// evaluator maps them to Null per DMN's invalid-call rule.
package feel

import "fmt"

// bindParameters evaluates the call's actual parameters and arranges them
// into formal-parameter order. For a function unknown to the registry the
// arguments are evaluated naively in positional order, which lets external
// functions (BKMs) be called without a declared signature.
func (ip *Interp) bindParameters(name string, params []Param, ctx Context) ([]Value, error) {
	sig, known := ip.reg.Lookup(name)
	if !known {
		args := make([]Value, 0, len(params))
		for _, p := range params {
			v, err := ip.Eval(p.Value, ctx)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return args, nil
	}

	named := false
	positional := false
	for _, p := range params {
		if p.Name != "" {
			named = true
		} else {
			positional = true
		}
	}
	if named && positional {
		return nil, fmt.Errorf("cannot mix named and positional parameters in call to '%s'", name)
	}
	if named {
		return ip.bindNamed(sig, params, ctx)
	}
	return ip.bindPositional(sig, params, ctx)
}

func (ip *Interp) bindPositional(sig Signature, params []Param, ctx Context) ([]Value, error) {
	if len(params) > len(sig.Params) && !sig.Variadic {
		return nil, fmt.Errorf("too many arguments for '%s': got %d, want at most %d",
			sig.Name, len(params), len(sig.Params))
	}
	args := make([]Value, 0, len(params))
	for i, formal := range sig.Params {
		if i < len(params) {
			v, err := ip.Eval(params[i].Value, ctx)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			continue
		}
		if !formal.Optional {
			return nil, fmt.Errorf("missing required parameter '%s' in call to '%s'", formal.Name, sig.Name)
		}
		args = append(args, Null)
	}
	for i := len(sig.Params); i < len(params); i++ {
		v, err := ip.Eval(params[i].Value, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (ip *Interp) bindNamed(sig Signature, params []Param, ctx Context) ([]Value, error) {
	used := make([]bool, len(params))
	args := make([]Value, 0, len(sig.Params))
	for _, formal := range sig.Params {
		found := false
		for i, p := range params {
			if used[i] || p.Name != formal.Name {
				continue
			}
			v, err := ip.Eval(p.Value, ctx)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			used[i] = true
			found = true
			break
		}
		if found {
			continue
		}
		if !formal.Optional {
			return nil, fmt.Errorf("missing required parameter '%s' in call to '%s'", formal.Name, sig.Name)
		}
		args = append(args, Null)
	}
	for i, p := range params {
		if used[i] {
			continue
		}
		if !sig.Variadic {
			return nil, fmt.Errorf("unknown parameter '%s' in call to '%s'", p.Name, sig.Name)
		}
		v, err := ip.Eval(p.Value, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}
