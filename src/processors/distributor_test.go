package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/oaharvest/src/models"
)

func contractRecord(invoiceID string) *models.PublicationRecord {
	rec := models.NewPublicationRecord()
	rec.ContractInvoiceID = invoiceID
	return rec
}

func TestDistributeEvenShares(t *testing.T) {
	records := []*models.PublicationRecord{
		contractRecord("INV-1"),
		contractRecord("INV-1"),
		contractRecord("INV-1"),
	}
	invoices := []models.ContractInvoice{
		{InvoiceID: "INV-1", Total: 300.00, Period: "2021"},
	}

	require.NoError(t, DistributeContractCosts(records, invoices))
	for _, rec := range records {
		assert.Equal(t, "100.00", rec.Euro)
		assert.Equal(t, "2021", rec.Period)
		assert.Equal(t, "TRUE", rec.IsHybrid)
	}
}

func TestDistributeLeavesUnmatchedRecordsUntouched(t *testing.T) {
	stranger := contractRecord("INV-DOES-NOT-EXIST")
	records := []*models.PublicationRecord{contractRecord("INV-1"), stranger}
	invoices := []models.ContractInvoice{
		{InvoiceID: "INV-1", Total: 100.00, Period: "2021"},
	}

	require.NoError(t, DistributeContractCosts(records, invoices))
	assert.Equal(t, "NA", stranger.Euro)
	assert.Equal(t, "NA", stranger.Period)
}

func TestDistributeSkipsInvoiceWithoutRecords(t *testing.T) {
	records := []*models.PublicationRecord{contractRecord("INV-OTHER")}
	invoices := []models.ContractInvoice{
		{InvoiceID: "INV-EMPTY", Total: 500.00, Period: "2021"},
	}

	// An invoice matching no records is a warning, not an error.
	require.NoError(t, DistributeContractCosts(records, invoices))
	assert.Equal(t, "NA", records[0].Euro)
}

func TestDistributeExcludesDirectlyPricedRecordsFromDenominator(t *testing.T) {
	direct := contractRecord("INV-1")
	direct.Costs[models.CostGoldOA] = "1200.00"
	direct.Euro = "1200.00"
	records := []*models.PublicationRecord{
		direct,
		contractRecord("INV-1"),
		contractRecord("INV-1"),
	}
	invoices := []models.ContractInvoice{
		{InvoiceID: "INV-1", Total: 300.00, Period: "2022"},
	}

	require.NoError(t, DistributeContractCosts(records, invoices))
	// The directly priced record keeps its own costs and does not count
	// towards the share denominator: 300 / 2, not 300 / 3.
	assert.Equal(t, "1200.00", direct.Euro)
	assert.Equal(t, "150.00", records[1].Euro)
	assert.Equal(t, "150.00", records[2].Euro)
}

func TestDistributeRoundsShares(t *testing.T) {
	records := []*models.PublicationRecord{
		contractRecord("INV-1"),
		contractRecord("INV-1"),
		contractRecord("INV-1"),
	}
	invoices := []models.ContractInvoice{
		{InvoiceID: "INV-1", Total: 100.00, Period: "2021"},
	}

	require.NoError(t, DistributeContractCosts(records, invoices))
	assert.Equal(t, "33.33", records[0].Euro)
}

func TestDistributeDuplicateInvoiceIDIsFatal(t *testing.T) {
	invoices := []models.ContractInvoice{
		{InvoiceID: "INV-1", Total: 100.00, Period: "2021"},
		{InvoiceID: "INV-1", Total: 200.00, Period: "2022"},
	}

	err := DistributeContractCosts(nil, invoices)
	var duplicate *DuplicateInvoiceIDError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "INV-1", duplicate.InvoiceID)
}
