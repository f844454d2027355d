package services

import (
	"context"

	"github.com/username/oaharvest/src/models"
)

// HarvestOptions select the optional behaviours of a harvest run.
type HarvestOptions struct {
	// ArchivePages stores every raw OAI response page in the harvest archive.
	ArchivePages bool
	// PrintRecordLinks logs a GetRecord link for every harvested record,
	// useful for inspecting the original data.
	PrintRecordLinks bool
	// ValidateOnly skips reconciliation and only reports schema validation
	// results per record.
	ValidateOnly bool
}

// HarvestResult aggregates the outcome of harvesting one source.
type HarvestResult struct {
	RecordsHarvested int
	Publications     []*models.PublicationRecord

	// RunID identifies the archived harvest run; 0 when pages were not
	// archived.
	RunID int64

	// Validation counts, populated in ValidateOnly mode.
	ValidRecords   int
	InvalidRecords int
}

// Harvester defines the interface for the core harvest-and-reconcile logic.
type Harvester interface {
	Harvest(ctx context.Context, source HarvestSource, opts HarvestOptions) (*HarvestResult, error)
}

// ValidationResult is the diagnostic outcome of validating one record
// payload.
type ValidationResult struct {
	OK         bool
	Diagnostic string
}

// SchemaValidator checks one openCost payload against the schema. Full XSD
// enforcement is an external concern; implementations may be as thin as a
// well-formedness check.
type SchemaValidator interface {
	Validate(content []byte) ValidationResult
}
