package session

import (
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/pharmacist"
	"github.com/warp/bonus-engine/sales"
)

// Engine carries the role processors. It holds no session data, so one
// Engine serves any number of States.
type Engine struct {
	processors generic.Processors
}

// NewEngine wires the sales and pharmacist processors. A nil catalog uses
// the defaults.
func NewEngine(catalog *generic.Catalog) *Engine {
	return &Engine{
		processors: generic.NewProcessors(sales.New(catalog), pharmacist.New()),
	}
}

// Processor returns the processor for an eligible role.
func (e *Engine) Processor(role generic.Role) (generic.StageProcessor, bool) {
	return e.processors.Lookup(role)
}

// =============================================================================
// BUNDLE CONSTRUCTION
// =============================================================================

// groupByPerson indexes batch positions by sales person, keeping batch
// order inside each group. Rows without a person belong to nobody.
func groupByPerson(batch []generic.Record) map[string][]int {
	groups := make(map[string][]int)
	for i, rec := range batch {
		p := rec.Str(generic.ColSalesPerson)
		if p == "" {
			continue
		}
		groups[p] = append(groups[p], i)
	}
	return groups
}

// buildBundle runs all three stages for one person. ok is false for roles
// without a processor (NO_BONUS).
func (e *Engine) buildBundle(person string, role generic.Role, batch []generic.Record, indices []int, ref *generic.ReferenceData) (*generic.PersonBundle, bool) {
	p, ok := e.processors.Lookup(role)
	if !ok {
		return nil, false
	}
	records := make([]generic.Record, 0, len(indices))
	for _, i := range indices {
		records = append(records, batch[i])
	}
	return &generic.PersonBundle{
		Role:   role,
		Stage1: generic.BuildStage1(p, batch, indices, ref),
		Stage2: p.BuildRewards(person, records, ref),
		Stage3: p.Summarize(person, records),
	}, true
}
