package processors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/models"
	"github.com/username/oaharvest/src/parsers/oai"
	"github.com/username/oaharvest/src/parsers/opencost"
	"github.com/username/oaharvest/src/utils"
)

var (
	processingRegex = regexp.MustCompile(`'(\w*?)':'(.*?)'`)
	variableRegex   = regexp.MustCompile(`%(\w*?)%`)
)

// ProcessingInstructions describe an optional per-source derived field: a
// template string with %variable% placeholders filled from already-extracted
// field values.
type ProcessingInstructions struct {
	Target    string
	Generator string
	Variables []string
}

// ParseProcessingInstructions parses the 'target':'generator' notation used
// in the harvest source list.
func ParseProcessingInstructions(raw string) (*ProcessingInstructions, error) {
	match := processingRegex.FindStringSubmatch(raw)
	if match == nil {
		return nil, fmt.Errorf("unable to parse processing instruction %q", raw)
	}
	instructions := &ProcessingInstructions{Target: match[1], Generator: match[2]}
	for _, variable := range variableRegex.FindAllStringSubmatch(match[2], -1) {
		instructions.Variables = append(instructions.Variables, variable[1])
	}
	return instructions, nil
}

// Reconciler drives cost resolution over a batch of harvested records and
// assembles the final normalized publication list.
type Reconciler struct {
	publications *PublicationResolver
	contracts    *ContractResolver
}

func NewReconciler(converter *Converter) *Reconciler {
	extractor := NewInvoiceExtractor(converter)
	return &Reconciler{
		publications: NewPublicationResolver(extractor),
		contracts:    NewContractResolver(extractor),
	}
}

// ProcessRecords reconciles one batch of harvested OAI records. Per-record
// failures produce an all-empty placeholder row and processing continues; a
// duplicate contract invoice_id aborts the batch.
func (r *Reconciler) ProcessRecords(records []oai.Record, instructions *ProcessingInstructions) ([]*models.PublicationRecord, error) {
	var extracted []*models.PublicationRecord
	var invoices []models.ContractInvoice

	for _, record := range records {
		if record.Deleted() {
			logger.L.Debug("Skipping deleted record", "identifier", record.Header.Identifier)
			continue
		}
		data := record.Metadata.Data
		if data == nil {
			continue
		}

		for _, publication := range data.Publications {
			rec := r.extractPublication(publication)
			rec.Identifier = record.Header.Identifier
			extracted = append(extracted, rec)
		}

		for _, contract := range data.Contracts {
			contractInvoices, err := r.contracts.Resolve(contract.CostData)
			if err != nil {
				logger.L.Error("Contract cost data could not be resolved", "error", err)
				continue
			}
			invoices = append(invoices, contractInvoices...)
		}
	}

	if err := DistributeContractCosts(extracted, invoices); err != nil {
		return nil, err
	}

	var final []*models.PublicationRecord
	for _, rec := range extracted {
		if instructions != nil {
			applyInstructions(rec, instructions)
		}

		if utils.HasValue(rec.DOI) {
			if normalized, ok := utils.NormalizeDOI(rec.DOI); ok {
				rec.DOI = normalized
			} else {
				rec.DOI = "NA"
			}
		}

		if !utils.HasValue(rec.Euro) {
			logger.L.Warn("Article skipped, no APC amount found", "identifier", rec.Identifier)
			continue
		}
		euro, ok := utils.ParseAmount(rec.Euro)
		if !ok || euro <= 0 {
			logger.L.Warn("Article skipped, non-positive APC amount found",
				"identifier", rec.Identifier, "euro", rec.Euro)
			continue
		}
		final = append(final, rec)
	}

	return final, nil
}

// extractPublication maps one publication element to a record and fills its
// cost fields. On resolution failure the record is replaced by an all-empty
// placeholder so one malformed publication never blocks the batch.
func (r *Reconciler) extractPublication(publication opencost.Publication) *models.PublicationRecord {
	rec := models.NewPublicationRecord()
	if ror := publication.Institution.ID("ror"); ror != "" {
		rec.InstitutionROR = ror
	}
	if name := publication.Institution.Name("short"); name != "" {
		rec.Institution = name
	}
	if doi := publication.PrimaryIdentifier.DOI; doi != "" {
		rec.DOI = doi
	}
	if pubType := publication.PublicationType; pubType != "" {
		rec.Type = pubType
	}

	costs, err := r.publications.Resolve(publication.CostData)
	if err != nil {
		logger.L.Error("Publication cost data could not be resolved", "doi", rec.DOI, "error", err)
		return models.NewPlaceholderRecord()
	}

	if costs.ContractPrimaryIdentifier != "" {
		rec.ContractPrimaryIdentifier = costs.ContractPrimaryIdentifier
	}
	if costs.ContractInvoiceID != "" {
		rec.ContractInvoiceID = costs.ContractInvoiceID
	}
	if costs.HasEuro {
		rec.Euro = utils.FormatAmount(costs.Euro)
	}
	if costs.IsHybrid != "" {
		rec.IsHybrid = costs.IsHybrid
	}
	if costs.Period != "" {
		rec.Period = costs.Period
	}
	for costType, amount := range costs.Costs {
		name := string(costType)
		if _, known := rec.Field(name); known {
			rec.SetField(name, utils.FormatAmount(amount))
		}
	}
	return rec
}

// applyInstructions fills the configured target field from the generator
// template. Unknown variables substitute as empty with a warning.
func applyInstructions(rec *models.PublicationRecord, instructions *ProcessingInstructions) {
	value := instructions.Generator
	for _, variable := range instructions.Variables {
		substitute, ok := rec.Field(variable)
		if !ok {
			logger.L.Warn("Processing instruction references an unknown field", "field", variable)
		}
		value = strings.ReplaceAll(value, "%"+variable+"%", substitute)
	}
	if !rec.SetField(instructions.Target, value) {
		logger.L.Warn("Processing instruction target is not a known field", "field", instructions.Target)
	}
}
