package passmgr

import (
	"errors"
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type onceModifyPass struct{ ran bool }

func (p *onceModifyPass) Name() string        { return "once" }
func (p *onceModifyPass) Description() string { return "modifies exactly once then stops" }
func (p *onceModifyPass) RunOnFunction(fn *ir.Function, cache *AnalysisCache) Result {
	if p.ran {
		return Success(false)
	}
	p.ran = true
	return Success(true)
}

type failingPass struct{}

func (failingPass) Name() string        { return "failing" }
func (failingPass) Description() string { return "always fails" }
func (failingPass) RunOnFunction(fn *ir.Function, cache *AnalysisCache) Result {
	return Failure("boom", errors.New("bad state"))
}

func newTrivialFunction() *ir.Function {
	fn := ir.NewFunction("f", nil)
	entry := fn.NewBlock("entry")
	entry.Append(ir.NewRetVoid())
	return fn
}

func TestRunFunctionIteratesToFixedPoint(t *testing.T) {
	fn := newTrivialFunction()
	pm := New()
	p := &onceModifyPass{}
	pm.AddPass(p)

	m := ir.NewModule("m")
	m.AddFunction(fn)
	failures := pm.RunModule(m)
	assert.Empty(t, failures)
	assert.True(t, p.ran)
}

func TestFailingPassDoesNotAbortPipeline(t *testing.T) {
	fn := newTrivialFunction()
	pm := New()
	pm.AddPass(failingPass{})
	pm.AddPass(&onceModifyPass{})

	modified, failures := pm.RunFunction(fn)
	require.Len(t, failures, 1)
	assert.Equal(t, 1, modified)
}

func TestStatsTrackRunsAndModifications(t *testing.T) {
	fn := newTrivialFunction()
	pm := New()
	pm.EnableStats(true)
	pm.AddPass(&onceModifyPass{})

	pm.RunFunction(fn)
	pm.RunFunction(fn)

	stats := pm.Stats()["once"]
	assert.Equal(t, 2, stats.Runs)
	assert.Equal(t, 1, stats.Modified)
}

func TestAnalysisCachePutGetInvalidate(t *testing.T) {
	c := NewAnalysisCache()
	c.Put("rpo", []int{1, 2, 3})
	v, ok := c.Get("rpo")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, v)

	c.Invalidate("rpo")
	_, ok = c.Get("rpo")
	assert.False(t, ok)
}
