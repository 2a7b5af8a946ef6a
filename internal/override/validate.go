package override

import (
	"supra/internal/ast"
	"supra/internal/behaviour"
	"supra/internal/defs"
	"supra/internal/source"
)

// Request is one defoverridable statement.
type Request struct {
	Subject ast.SubjectKind
	Pairs   []defs.Key
	Module  string
	Raw     string
	Span    source.Span
}

// RequestFrom converts a parsed statement into a Request.
func RequestFrom(st *ast.OverridableStmt, strings *source.Interner) Request {
	req := Request{Subject: st.Subject, Raw: st.Raw, Span: st.Span}
	switch st.Subject {
	case ast.SubjectPairs:
		req.Pairs = make([]defs.Key, 0, len(st.Pairs))
		for _, p := range st.Pairs {
			req.Pairs = append(req.Pairs, defs.Key{Name: p.Name, Arity: p.Arity})
		}
	case ast.SubjectModule:
		req.Module, _ = strings.Lookup(st.Module)
	}
	return req
}

// Validator checks defoverridable requests against the definitions recorded
// so far and turns them into the set of keys to mark.
type Validator struct {
	table    *defs.Table
	strings  *source.Interner
	resolver behaviour.Resolver
	declared map[string]bool
}

// NewValidator creates a validator. resolver answers module subjects.
func NewValidator(table *defs.Table, strings *source.Interner, resolver behaviour.Resolver) *Validator {
	return &Validator{
		table:    table,
		strings:  strings,
		resolver: resolver,
		declared: make(map[string]bool),
	}
}

// DeclareBehaviour records a `behaviour M` statement of the unit.
func (v *Validator) DeclareBehaviour(module string) { v.declared[module] = true }

// HasBehaviour reports whether the unit declared module as its behaviour.
func (v *Validator) HasBehaviour(module string) bool { return v.declared[module] }

// Validate returns the effective keys of req. Callbacks of a module subject
// that have no definition yet are skipped without error.
func (v *Validator) Validate(req Request) ([]defs.Key, error) {
	switch req.Subject {
	case ast.SubjectPairs:
		for _, k := range req.Pairs {
			if _, ok := v.table.Snapshot(k); !ok {
				return nil, undefinedTarget(req.Span, k.Display(v.strings))
			}
		}
		return dedupKeys(req.Pairs), nil
	case ast.SubjectModule:
		return v.validateModule(req)
	}
	return nil, invalidSubject(req.Span, req.Raw)
}

func (v *Validator) validateModule(req Request) ([]defs.Key, error) {
	var contract behaviour.Contract
	ok := false
	if v.resolver != nil {
		contract, ok = v.resolver.Contract(req.Module)
	}
	if !ok {
		return nil, moduleNotCompiled(req.Span, req.Module)
	}
	if !v.HasBehaviour(req.Module) {
		return nil, missingBehaviour(req.Span, req.Module)
	}
	if len(contract.Callbacks) == 0 {
		return nil, noCallbacks(req.Span, req.Module)
	}
	keys := make([]defs.Key, 0, len(contract.Callbacks))
	for _, cb := range contract.Callbacks {
		name, found := v.strings.Find(cb.Name)
		if !found {
			continue
		}
		k := defs.Key{Name: name, Arity: cb.Arity}
		kind, defined := v.table.Kind(k)
		if !defined || kind.IsMacro() != cb.Macro {
			continue
		}
		keys = append(keys, k)
	}
	return dedupKeys(keys), nil
}

func dedupKeys(keys []defs.Key) []defs.Key {
	seen := make(map[defs.Key]struct{}, len(keys))
	out := keys[:0:0]
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
