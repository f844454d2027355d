package processors

import (
	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/models"
	"github.com/username/oaharvest/src/parsers/opencost"
	"github.com/username/oaharvest/src/utils"
)

// InvoiceExtractor reduces one invoice element to a ResolvedInvoice: a
// period candidate per date kind and EUR amounts per cost type.
type InvoiceExtractor struct {
	converter *Converter
}

func NewInvoiceExtractor(converter *Converter) *InvoiceExtractor {
	return &InvoiceExtractor{converter: converter}
}

// Extract processes dates first (they may be needed for currency
// conversion), then the typed amounts. strictVAT selects the
// publication-level policy where a second vat amount within one invoice is
// an error; contract-level extraction sums vat like any other cost type.
func (e *InvoiceExtractor) Extract(invoice opencost.Invoice, strictVAT bool) (models.ResolvedInvoice, error) {
	resolved := models.NewResolvedInvoice()

	if invoice.Dates.Paid != "" {
		resolved.DatePaid = utils.TruncateToYear(invoice.Dates.Paid)
	}
	if invoice.Dates.Invoice != "" {
		resolved.DateInvoice = utils.TruncateToYear(invoice.Dates.Invoice)
	}

	for _, paid := range invoice.AmountsPaid {
		amount, ok := utils.ParseAmount(paid.Amount)
		if !ok {
			// Unparsable amounts are treated as absent, not as zero.
			continue
		}
		if paid.Currency != "EUR" {
			period := resolved.DatePaid
			if period == "" {
				period = resolved.DateInvoice
			}
			if period == "" {
				return models.ResolvedInvoice{}, &NoConversionPeriodError{Currency: paid.Currency}
			}
			converted, err := e.converter.ToEUR(amount, paid.Currency, period)
			if err != nil {
				return models.ResolvedInvoice{}, err
			}
			amount = converted
		}

		costType := models.CostType(paid.CostType)
		if previous, exists := resolved.Costs[costType]; exists {
			if costType == models.CostVAT && strictVAT {
				return models.ResolvedInvoice{}, &AmbiguousVATError{}
			}
			logger.L.Info("Cost type occurs more than once in the same invoice, adding amounts",
				"costType", costType, "previous", previous, "added", amount, "sum", previous+amount)
			amount += previous
		}
		resolved.Costs[costType] = amount
	}

	return resolved, nil
}
