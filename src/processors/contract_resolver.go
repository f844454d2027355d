package processors

import (
	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/models"
	"github.com/username/oaharvest/src/parsers/opencost"
	"github.com/username/oaharvest/src/utils"
)

// ContractResolver reduces a contract cost_data element to the list of
// invoices issued under that contract, each with its EUR total and period.
type ContractResolver struct {
	extractor *InvoiceExtractor
}

func NewContractResolver(extractor *InvoiceExtractor) *ContractResolver {
	return &ContractResolver{extractor: extractor}
}

// Resolve extracts every invoice with the lenient VAT policy, combines it
// with the invoice metadata and derives the invoice period. The period must
// come from matching from/to bounds; falling back to the invoice date works
// but is flagged as less reliable. A missing invoice_id aborts the contract.
func (r *ContractResolver) Resolve(costData *opencost.CostData) ([]models.ContractInvoice, error) {
	var invoices []models.ContractInvoice
	if costData == nil {
		return invoices, nil
	}

	for _, invoiceElement := range costData.Invoices {
		extracted, err := r.extractor.Extract(invoiceElement, false)
		if err != nil {
			return nil, err
		}

		if invoiceElement.InvoiceID == "" {
			return nil, &MissingInvoiceIDError{Invoice: extracted}
		}
		invoice := models.ContractInvoice{InvoiceID: invoiceElement.InvoiceID}

		for _, costType := range models.ContractTotalTypes {
			invoice.Total += extracted.Costs[costType]
		}

		// The date_invoice element takes precedence over the generic
		// invoice date for period inference.
		dateInvoice := extracted.DateInvoice
		if invoiceElement.Dates.DateInvoice != "" {
			dateInvoice = utils.TruncateToYear(invoiceElement.Dates.DateInvoice)
		}

		var from, to string
		if period := invoiceElement.InvoicePeriod; period != nil {
			if period.From != "" {
				from = utils.TruncateToYear(period.From)
			}
			if period.To != "" {
				to = utils.TruncateToYear(period.To)
			}
		}

		switch {
		case from != "" && to != "":
			if from != to {
				return nil, &InconsistentInvoicePeriodError{InvoiceID: invoice.InvoiceID, From: from, To: to}
			}
			invoice.Period = from
		case dateInvoice != "":
			logger.L.Warn("Invoice period could only be inferred from the date_invoice element, which might be inaccurate",
				"invoiceID", invoice.InvoiceID, "period", dateInvoice)
			invoice.Period = dateInvoice
			invoice.PeriodFromDateInvoice = true
		default:
			return nil, &MissingInvoicePeriodError{InvoiceID: invoice.InvoiceID}
		}

		invoices = append(invoices, invoice)
	}

	return invoices, nil
}
