/*
processor.go - Per-role stage processing capability

PURPOSE:
  Each bonus-eligible role computes its tables differently: which records
  qualify, how points are derived, how rewards are collected. Instead of
  role checks scattered through every function, a role is one
  StageProcessor implementation, selected once per person.

HOW IT WORKS:
  1. Role packages (sales/, pharmacist/) implement StageProcessor
  2. The session builds a Processors set at startup
  3. Stage builders and the edit layer look the processor up by role

  NO_BONUS has no processor: persons with that role never get a bundle.

USAGE:
  procs := generic.NewProcessors(sales.New(cat), pharmacist.New())
  p, ok := procs.Lookup(generic.RolePharmacist)
  rows := generic.BuildStage1(p, batch, indices, ref)

SEE ALSO:
  - stage.go: Builders that drive a processor
  - points.go: Recalculate, the single point entry point
  - sales/processor.go, pharmacist/processor.go: Implementations
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STAGE PROCESSOR
// =============================================================================

// PointInput is everything point derivation may depend on besides the role.
type PointInput struct {
	Original decimal.Decimal
	Category string
	Quantity decimal.Decimal
	Status   Status
}

// StageProcessor is the role-specific half of the pipeline.
type StageProcessor interface {
	// Role returns the role this processor serves.
	Role() Role

	// Classify applies the role's inclusion gates to a record that already
	// passed the common gates, and assigns its category.
	Classify(rec Record, ref *ReferenceData) (category string, ok bool)

	// ComputePoints derives points for a row whose status is not DELETE.
	ComputePoints(in PointInput) decimal.Decimal

	// Priority is the stage 1 sort priority of a category.
	Priority(category string) int

	// BuildRewards produces the stage 2 rows for one person's records.
	BuildRewards(person string, records []Record, ref *ReferenceData) []Stage2Row

	// Summarize produces the stage 3 summary for one person's records.
	Summarize(person string, records []Record) Stage3Summary
}

// =============================================================================
// PROCESSOR SET
// =============================================================================

// Processors maps roles to their processor.
type Processors map[Role]StageProcessor

// NewProcessors indexes processors by their role. A later processor for
// the same role replaces the earlier one.
func NewProcessors(ps ...StageProcessor) Processors {
	set := make(Processors, len(ps))
	for _, p := range ps {
		set[p.Role()] = p
	}
	return set
}

// Lookup finds the processor of a role.
func (s Processors) Lookup(role Role) (StageProcessor, bool) {
	p, ok := s[role]
	return p, ok
}

// MustLookup finds a processor or panics.
// Use in tests or when the role is known to be eligible.
func (s Processors) MustLookup(role Role) StageProcessor {
	p, ok := s.Lookup(role)
	if !ok {
		panic(fmt.Sprintf("no stage processor for role %s", role))
	}
	return p
}
