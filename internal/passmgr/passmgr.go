// Package passmgr runs an ordered pipeline of IR-to-IR transform
// passes over a module, tracking whether each pass modified anything
// and collecting per-pass statistics. Grounded on the teacher's
// OptimizationPass/OptimizationPipeline pattern
// (internal/ir/optimizations.go: Name/Apply/Description, AddPass,
// Run), generalized here to function-scoped passes, a typed
// Success/Failure result instead of a bare bool, and an analysis
// cache passes can invalidate after mutating the IR.
package passmgr

import (
	"fmt"
	"time"

	"abcdec/internal/ir"
)

// Result is the outcome of running one pass over one function.
type Result struct {
	Modified bool
	Reason   string
	Cause    error
}

// Success reports a pass that completed, optionally having modified
// the function.
func Success(modified bool) Result { return Result{Modified: modified} }

// Failure reports a pass that could not complete; the pipeline records
// it and goes on with the next pass. Changes the pass made to the IR
// before failing are not rolled back.
func Failure(reason string, cause error) Result {
	return Result{Reason: reason, Cause: cause}
}

func (r Result) Failed() bool { return r.Reason != "" || r.Cause != nil }

// FunctionPass transforms a single function in place.
type FunctionPass interface {
	Name() string
	Description() string
	RunOnFunction(fn *ir.Function, cache *AnalysisCache) Result
}

// ModulePass transforms a whole module in place (global-table rewrites,
// cross-function inlining decisions, etc.). PassManager has no way to
// register or run one: AddPass, RunFunction and RunModule take and run
// FunctionPasses only.
type ModulePass interface {
	Name() string
	Description() string
	RunOnModule(m *ir.Module, cache *AnalysisCache) Result
}

// AnalysisCache memoizes derived analyses (e.g. a function's
// reverse-postorder) keyed by an arbitrary id, so passes that each need
// the same analysis don't recompute it; any pass that mutates control
// flow or the use-def graph must invalidate the ids it may have
// invalidated.
type AnalysisCache struct {
	entries map[string]interface{}
}

func NewAnalysisCache() *AnalysisCache {
	return &AnalysisCache{entries: make(map[string]interface{})}
}

func (c *AnalysisCache) Get(id string) (interface{}, bool) {
	v, ok := c.entries[id]
	return v, ok
}

func (c *AnalysisCache) Put(id string, v interface{}) {
	c.entries[id] = v
}

func (c *AnalysisCache) Invalidate(id string) {
	delete(c.entries, id)
}

func (c *AnalysisCache) InvalidateAll() {
	c.entries = make(map[string]interface{})
}

// PassStats accumulates run-count, total elapsed time, and the number
// of runs that actually modified the function, per pass name.
type PassStats struct {
	Runs     int
	Modified int
	Elapsed  time.Duration
	Failures int
}

// PassManager runs an ordered list of function passes to a fixed point
// or until an iteration cap, over every function in a module.
type PassManager struct {
	passes       []FunctionPass
	statsEnabled bool
	stats        map[string]*PassStats
	cache        *AnalysisCache
	MaxIterations int
}

func New() *PassManager {
	return &PassManager{
		stats:         make(map[string]*PassStats),
		cache:         NewAnalysisCache(),
		MaxIterations: 8,
	}
}

// EnableStats turns on per-pass statistics collection; disabled by
// default so a one-shot CLI run doesn't pay the bookkeeping cost.
func (pm *PassManager) EnableStats(enabled bool) { pm.statsEnabled = enabled }

func (pm *PassManager) AddPass(p FunctionPass) { pm.passes = append(pm.passes, p) }

func (pm *PassManager) Stats() map[string]PassStats {
	out := make(map[string]PassStats, len(pm.stats))
	for k, v := range pm.stats {
		out[k] = *v
	}
	return out
}

// RunFunction runs every registered pass over fn once, in registration
// order, returning the number of passes that modified it and the
// failures (if any) collected along the way. A failing pass never
// aborts the pipeline; its Result.Cause is recorded and the next pass
// still runs against the function as last left by the prior pass.
func (pm *PassManager) RunFunction(fn *ir.Function) (modifiedCount int, failures []error) {
	for _, p := range pm.passes {
		start := time.Now()
		res := p.RunOnFunction(fn, pm.cache)
		elapsed := time.Since(start)

		if pm.statsEnabled {
			st := pm.statFor(p.Name())
			st.Runs++
			st.Elapsed += elapsed
			if res.Modified {
				st.Modified++
			}
			if res.Failed() {
				st.Failures++
			}
		}

		if res.Failed() {
			failures = append(failures, fmt.Errorf("%s: %s: %w", p.Name(), res.Reason, res.Cause))
			continue
		}
		if res.Modified {
			modifiedCount++
			pm.cache.InvalidateAll()
		}
	}
	return modifiedCount, failures
}

// RunModule runs the full pipeline over every function in m, iterating
// up to MaxIterations times per function or until a pass iteration
// makes no further changes (the fixed-point policy every pass in this
// package is required to support, since each is idempotent per run).
func (pm *PassManager) RunModule(m *ir.Module) []error {
	var allFailures []error
	for _, fn := range m.Functions() {
		for i := 0; i < pm.MaxIterations; i++ {
			modified, failures := pm.RunFunction(fn)
			allFailures = append(allFailures, failures...)
			if modified == 0 {
				break
			}
		}
	}
	return allFailures
}

func (pm *PassManager) statFor(name string) *PassStats {
	st, ok := pm.stats[name]
	if !ok {
		st = &PassStats{}
		pm.stats[name] = st
	}
	return st
}
