package opencost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataElement = `<data xmlns="https://opencost.de">
  <publication>
    <institution>
      <id><type>ror</type><value>https://ror.org/01abcde22</value></id>
      <id><type>isni</type><value>0000 0001 2345 6789</value></id>
      <name><type>short</type><value>Test U</value></name>
      <name><type>full</type><value>Test University</value></name>
    </institution>
    <primary_identifier><doi>10.1000/xyz</doi></primary_identifier>
    <publication_type>journal article</publication_type>
    <cost_data>
      <part_of_contract>
        <primary_identifier><value>deal-x</value></primary_identifier>
        <invoice_id>INV-2021-1</invoice_id>
      </part_of_contract>
      <invoice>
        <dates>
          <paid>2021-03-01</paid>
          <invoice>2021-02-15</invoice>
        </dates>
        <amounts_paid>
          <amount_paid><currency>EUR</currency><cost_type>gold-oa</cost_type><amount>1500.00</amount></amount_paid>
          <amount_paid><currency>EUR</currency><cost_type>vat</cost_type><amount>285.00</amount></amount_paid>
        </amounts_paid>
      </invoice>
    </cost_data>
  </publication>
  <contract>
    <cost_data>
      <invoice>
        <invoice_id>INV-2021-1</invoice_id>
        <invoice_period><from>2021-01-01</from><to>2021-12-31</to></invoice_period>
        <amounts_paid>
          <amount_paid><currency>EUR</currency><cost_type>read</cost_type><amount>10000.00</amount></amount_paid>
        </amounts_paid>
      </invoice>
    </cost_data>
  </contract>
</data>`

func TestParseData(t *testing.T) {
	data, err := ParseData([]byte(dataElement))
	require.NoError(t, err)
	require.Len(t, data.Publications, 1)
	require.Len(t, data.Contracts, 1)

	pub := data.Publications[0]
	assert.Equal(t, "https://ror.org/01abcde22", pub.Institution.ID("ror"))
	assert.Equal(t, "", pub.Institution.ID("wikidata"))
	assert.Equal(t, "Test U", pub.Institution.Name("short"))
	assert.Equal(t, "Test University", pub.Institution.Name("full"))
	assert.Equal(t, "10.1000/xyz", pub.PrimaryIdentifier.DOI)
	assert.Equal(t, "journal article", pub.PublicationType)

	require.NotNil(t, pub.CostData)
	require.NotNil(t, pub.CostData.PartOfContract)
	assert.Equal(t, "deal-x", pub.CostData.PartOfContract.PrimaryIdentifier.Value)
	assert.Equal(t, "INV-2021-1", pub.CostData.PartOfContract.InvoiceID)

	require.Len(t, pub.CostData.Invoices, 1)
	invoice := pub.CostData.Invoices[0]
	assert.Equal(t, "2021-03-01", invoice.Dates.Paid)
	assert.Equal(t, "2021-02-15", invoice.Dates.Invoice)
	require.Len(t, invoice.AmountsPaid, 2)
	assert.Equal(t, AmountPaid{Currency: "EUR", CostType: "gold-oa", Amount: "1500.00"}, invoice.AmountsPaid[0])

	contractInvoice := data.Contracts[0].CostData.Invoices[0]
	assert.Equal(t, "INV-2021-1", contractInvoice.InvoiceID)
	require.NotNil(t, contractInvoice.InvoicePeriod)
	assert.Equal(t, "2021-01-01", contractInvoice.InvoicePeriod.From)
	assert.Equal(t, "2021-12-31", contractInvoice.InvoicePeriod.To)
}

func TestParseDataMalformed(t *testing.T) {
	_, err := ParseData([]byte("<data><publication></data>"))
	assert.Error(t, err)
}
