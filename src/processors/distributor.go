package processors

import (
	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/models"
	"github.com/username/oaharvest/src/utils"
)

// DistributeContractCosts assigns contract invoice totals to the
// publication records billed under them. For each invoice, every record
// referencing its invoice_id receives an even share of the invoice total,
// the invoice period, and hybrid status. Records that already carry a
// nonzero direct gold-oa/hybrid-oa cost keep it and are excluded from the
// share denominator. A duplicate invoice_id across contracts aborts the
// whole batch.
func DistributeContractCosts(records []*models.PublicationRecord, invoices []models.ContractInvoice) error {
	byID := make(map[string]models.ContractInvoice, len(invoices))
	for _, invoice := range invoices {
		if _, exists := byID[invoice.InvoiceID]; exists {
			return &DuplicateInvoiceIDError{InvoiceID: invoice.InvoiceID}
		}
		byID[invoice.InvoiceID] = invoice
	}

	for _, invoice := range invoices {
		var matched []*models.PublicationRecord
		for _, record := range records {
			if !utils.HasValue(record.ContractInvoiceID) || record.ContractInvoiceID != invoice.InvoiceID {
				continue
			}
			if costType, ok := directCostType(record); ok {
				logger.L.Warn("Record has assigned non-zero direct costs but is also linked to a contract, keeping record cost data",
					"doi", record.DOI, "costType", costType, "amount", record.Costs[costType], "invoiceID", invoice.InvoiceID)
				continue
			}
			matched = append(matched, record)
		}

		if len(matched) == 0 {
			logger.L.Warn("No records were found matching the contract invoice_id", "invoiceID", invoice.InvoiceID)
			continue
		}

		share := utils.RoundFloat(invoice.Total/float64(len(matched)), 2)
		logger.L.Info("Distributing contract invoice total over linked records",
			"records", len(matched), "invoiceID", invoice.InvoiceID,
			"invoiceTotal", invoice.Total, "share", share)
		for _, record := range matched {
			record.Euro = utils.FormatAmount(share)
			record.Period = invoice.Period
			// Transformative agreements currently all map to hybrid.
			record.IsHybrid = "TRUE"
		}
	}

	return nil
}

// directCostType reports whether a record carries its own nonzero gold-oa or
// hybrid-oa amount.
func directCostType(record *models.PublicationRecord) (models.CostType, bool) {
	for _, costType := range []models.CostType{models.CostGoldOA, models.CostHybridOA} {
		value := record.Costs[costType]
		if !utils.HasValue(value) {
			continue
		}
		if amount, ok := utils.ParseAmount(value); ok && amount > 0 {
			return costType, true
		}
	}
	return "", false
}
