package processors

import (
	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/models"
	"github.com/username/oaharvest/src/parsers/opencost"
)

// PublicationCosts is the final cost decision for one publication: either a
// resolved (euro, period, hybrid) triple, or a contract reference whose
// costs are filled in later by the distributor.
type PublicationCosts struct {
	ContractPrimaryIdentifier string
	ContractInvoiceID         string

	Euro     float64
	HasEuro  bool
	IsHybrid string // "TRUE", "FALSE" or "" when undecided
	Period   string

	Costs map[models.CostType]float64
}

// PublicationResolver merges the invoice extracts of a single publication
// into a final cost decision.
type PublicationResolver struct {
	extractor *InvoiceExtractor
}

func NewPublicationResolver(extractor *InvoiceExtractor) *PublicationResolver {
	return &PublicationResolver{extractor: extractor}
}

// Resolve processes a publication cost_data element. Invoices are extracted
// with the strict VAT policy and merged pairwise: monetary fields sum, date
// fields resolve to the earliest year on mismatch. A publication billed
// under a contract defers its cost and period fields to the distributor, so
// a missing date is not an error in that case.
func (r *PublicationResolver) Resolve(costData *opencost.CostData) (*PublicationCosts, error) {
	result := &PublicationCosts{Costs: make(map[models.CostType]float64)}

	var merged models.ResolvedInvoice
	if costData != nil {
		if ref := costData.PartOfContract; ref != nil {
			result.ContractPrimaryIdentifier = ref.PrimaryIdentifier.Value
			result.ContractInvoiceID = ref.InvoiceID
		}

		merged = models.NewResolvedInvoice()
		for _, invoiceElement := range costData.Invoices {
			extracted, err := r.extractor.Extract(invoiceElement, true)
			if err != nil {
				return nil, err
			}
			mergeInvoice(&merged, extracted)
		}
		result.Costs = merged.Costs
	}

	// Final consistency checks + hybrid status extraction.
	gold, hasGold := result.Costs[models.CostGoldOA]
	hybrid, hasHybrid := result.Costs[models.CostHybridOA]
	if hasGold && hasHybrid {
		return nil, &GoldHybridConflictError{}
	}
	vat := result.Costs[models.CostVAT]
	if hasGold {
		result.Euro = gold + vat
		result.HasEuro = true
		result.IsHybrid = "FALSE"
	}
	if hasHybrid {
		result.Euro = hybrid + vat
		result.HasEuro = true
		result.IsHybrid = "TRUE"
	}

	switch {
	case merged.DatePaid != "":
		result.Period = merged.DatePaid
	case merged.DateInvoice != "":
		result.Period = merged.DateInvoice
	case result.ContractInvoiceID == "":
		return nil, &MissingPeriodError{}
	}

	return result, nil
}

// mergeInvoice folds one invoice extract into the accumulated publication
// data: costs sum, conflicting dates resolve to the earliest value.
func mergeInvoice(merged *models.ResolvedInvoice, next models.ResolvedInvoice) {
	merged.DatePaid = earliestDate("date_paid", merged.DatePaid, next.DatePaid)
	merged.DateInvoice = earliestDate("date_invoice", merged.DateInvoice, next.DateInvoice)

	for costType, amount := range next.Costs {
		if previous, exists := merged.Costs[costType]; exists {
			logger.L.Info("Cost type occurs in more than one invoice, adding amounts",
				"costType", costType, "previous", previous, "added", amount, "sum", previous+amount)
			amount += previous
		}
		merged.Costs[costType] = amount
	}
}

func earliestDate(field, current, next string) string {
	if next == "" {
		return current
	}
	if current == "" {
		return next
	}
	if next != current {
		logger.L.Info("Multiple date elements encountered with differing content, using the earliest date",
			"field", field, "a", current, "b", next)
		if next < current {
			return next
		}
	}
	return current
}
