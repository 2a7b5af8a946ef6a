// Package session builds many units together: it parses every file, orders
// units so behaviours come first and compiles independent units in parallel.
package session

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"supra/internal/ast"
	"supra/internal/behaviour"
	"supra/internal/cache"
	"supra/internal/diag"
	"supra/internal/observ"
	"supra/internal/parser"
	"supra/internal/project"
	"supra/internal/project/dag"
	"supra/internal/source"
	"supra/internal/trace"
	"supra/internal/unit"
)

// Options configures a build.
type Options struct {
	MaxDiagnostics int
	Jobs           int
	// Cache, when set, answers behaviours missing from the session and
	// receives the metadata of every unit compiled successfully.
	Cache   *cache.Disk
	OnEvent func(Event)
	Timer   *observ.Timer
}

// UnitResult is the outcome for one file.
type UnitResult struct {
	Path   string
	File   source.FileID
	Name   string
	Bag    *diag.Bag
	Module *unit.Module

	parsed   *ast.Unit
	reporter diag.Reporter
}

// Result is the outcome of a build.
type Result struct {
	FileSet *source.FileSet
	Strings *source.Interner
	Units   []*UnitResult
	modules map[string]*unit.Module
}

// Unit returns the finalized module called name.
func (r *Result) Unit(name string) (*unit.Module, bool) {
	mod, ok := r.modules[name]
	return mod, ok
}

// Modules lists finalized modules sorted by name.
func (r *Result) Modules() []*unit.Module {
	out := make([]*unit.Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *unit.Module) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// HasErrors reports whether any unit produced an error.
func (r *Result) HasErrors() bool {
	for _, u := range r.Units {
		if u.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Bag merges the diagnostics of every unit, ordered by file and position.
func (r *Result) Bag() *diag.Bag {
	all := diag.NewBag(1)
	for _, u := range r.Units {
		all.Merge(u.Bag)
	}
	all.Sort()
	return all
}

// Diagnostics collects every diagnostic, ordered by file and position.
func (r *Result) Diagnostics() []*diag.Diagnostic { return r.Bag().Items() }

// Build loads paths from disk and builds them.
func Build(ctx context.Context, paths []string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	files := make([]source.FileID, 0, len(paths))
	loadErrs := make(map[int]error)
	for i, p := range paths {
		id, err := fs.Load(p)
		if err != nil {
			loadErrs[i] = err
			files = append(files, fs.AddVirtual(p, nil))
			continue
		}
		files = append(files, id)
	}
	res := newResult(fs, files, opts)
	for i, err := range loadErrs {
		res.Units[i].Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: files[i]},
			"failed to load file: "+err.Error()))
	}
	return res, build(ctx, res, opts)
}

// BuildFiles builds files already present in fs.
func BuildFiles(ctx context.Context, fs *source.FileSet, files []source.FileID, opts Options) (*Result, error) {
	res := newResult(fs, files, opts)
	return res, build(ctx, res, opts)
}

func newResult(fs *source.FileSet, files []source.FileID, opts Options) *Result {
	res := &Result{
		FileSet: fs,
		Strings: source.NewInterner(),
		Units:   make([]*UnitResult, len(files)),
		modules: make(map[string]*unit.Module),
	}
	for i, id := range files {
		res.Units[i] = &UnitResult{Path: fs.Get(id).Path, File: id, Bag: diag.NewBag(opts.MaxDiagnostics)}
	}
	return res
}

func build(ctx context.Context, res *Result, opts Options) error {
	span := trace.Begin(ctx, trace.ScopeSession, "build")
	ctx = trace.WithSpan(ctx, span)
	defer span.End(fmt.Sprintf("%d units", len(res.Units)))

	nodes := parseAll(ctx, res, opts)

	done := opts.Timer.Track("plan")
	metas := make([]project.UnitMeta, 0, len(nodes))
	for _, n := range nodes {
		metas = append(metas, n.Meta)
	}
	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, slots, topo)
	done(fmt.Sprintf("%d batches", len(topo.Batches)))

	byName := make(map[string]*UnitResult, len(res.Units))
	for _, u := range res.Units {
		if u.parsed == nil || u.Name == "" {
			continue
		}
		if _, dup := byName[u.Name]; dup {
			emit(opts, u, EventError)
			continue
		}
		byName[u.Name] = u
	}
	for _, id := range topo.Cycles {
		if u := byName[idx.IDToName[int(id)]]; u != nil {
			emit(opts, u, EventSkipped)
		}
	}

	var fallback behaviour.Resolver
	if opts.Cache != nil {
		fallback = opts.Cache
	}
	store := behaviour.NewStore(fallback)
	for i := range slots {
		if slots[i].Present {
			store.Reserve(slots[i].Meta.Name)
		}
	}

	done = opts.Timer.Track("compile")
	defer func() { done(fmt.Sprintf("%d modules", len(res.modules))) }()
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	keys := make(map[string]project.Digest, len(slots))
	for i, batch := range topo.Batches {
		trace.Point(ctx, trace.ScopeSession, "batch", fmt.Sprintf("#%d: %d units", i, len(batch)))
		mods := make([]*unit.Module, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(batch)))
		for j, id := range batch {
			slot := &slots[int(id)]
			u := byName[slot.Meta.Name]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				mods[j] = compileSlot(gctx, res, u, slot, slots, idx, store, opts)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for j, mod := range mods {
			if mod == nil {
				continue
			}
			res.modules[mod.Name] = mod
			key := buildKey(slots[int(batch[j])].Meta, keys)
			keys[mod.Name] = key
			if opts.Cache != nil {
				if err := opts.Cache.Put(cache.MetaFromModule(mod, key)); err != nil {
					trace.Fail(ctx, trace.ScopeSession, "cache", err.Error())
				}
			}
		}
	}
	return nil
}

// buildKey identifies a compiled unit by its content and the keys of the
// in-session units it was compiled against. keys only holds units of
// earlier batches.
func buildKey(meta project.UnitMeta, keys map[string]project.Digest) project.Digest {
	reqs := meta.Requires()
	deps := make([]project.Digest, 0, len(reqs))
	for _, b := range reqs {
		if k, ok := keys[b.Name]; ok {
			deps = append(deps, k)
		}
	}
	return project.Combine(meta.ContentHash, deps...)
}

func parseAll(ctx context.Context, res *Result, opts Options) []dag.UnitNode {
	done := opts.Timer.Track("parse")
	nodes := make([]dag.UnitNode, 0, len(res.Units))
	for _, u := range res.Units {
		emit(opts, u, EventQueued)
		if u.Bag.HasErrors() {
			emit(opts, u, EventError)
			continue
		}
		reporter := diag.NewDedupReporter(diag.BagReporter{Bag: u.Bag})
		u.reporter = reporter
		parsed := parser.ParseFile(res.FileSet, u.File, res.Strings, parser.Options{
			Reporter:  reporter,
			MaxErrors: uint(max(opts.MaxDiagnostics, 0)),
		})
		meta := project.MetaFromUnit(parsed.Unit, res.Strings, res.FileSet.Get(u.File).Content)
		u.Name = meta.Name
		if meta.Name == "" {
			emit(opts, u, EventError)
			continue
		}
		nodes = append(nodes, dag.UnitNode{
			Meta:     meta,
			Reporter: reporter,
			Broken:   u.Bag.HasErrors(),
			FirstErr: u.Bag.First(),
		})
		u.parsed = parsed.Unit
		trace.Point(ctx, trace.ScopeUnit, "parsed", meta.Name)
	}
	done(fmt.Sprintf("%d files", len(res.Units)))
	return nodes
}

func compileSlot(ctx context.Context, res *Result, u *UnitResult, slot *dag.UnitSlot, slots []dag.UnitSlot, idx dag.Index, store *behaviour.Store, opts Options) *unit.Module {
	if u == nil {
		return nil
	}
	if slot.Broken {
		emit(opts, u, EventError)
		return nil
	}
	for _, b := range slot.Meta.Behaviours {
		id, ok := idx.NameToID[b.Name]
		if !ok {
			continue
		}
		if dep := &slots[int(id)]; dep.Present && dep.Broken {
			dag.ReportBrokenDep(slot, b, dep)
			slot.Broken = true
			slot.FirstErr = u.Bag.First()
			emit(opts, u, EventError)
			return nil
		}
	}

	emit(opts, u, EventWorking)
	mod, err := unit.Compile(ctx, u.parsed, res.Strings, unit.Options{Reporter: u.reporter, Resolver: store})
	if err != nil {
		slot.Broken = true
		slot.FirstErr = u.Bag.First()
		emit(opts, u, EventError)
		return nil
	}
	store.Publish(mod.Contract())
	u.Module = mod
	emit(opts, u, EventDone)
	return mod
}

func emit(opts Options, u *UnitResult, kind EventKind) {
	if opts.OnEvent == nil {
		return
	}
	opts.OnEvent(Event{Unit: u.Name, Path: u.Path, Kind: kind})
}
