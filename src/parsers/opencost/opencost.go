package opencost

import (
	"encoding/xml"
	"fmt"
)

// --- XML Data Structures ---

// Data is the root element of an openCost metadata payload. A payload may
// carry publications, contracts, or both.
type Data struct {
	XMLName      xml.Name      `xml:"data"`
	Publications []Publication `xml:"publication"`
	Contracts    []Contract    `xml:"contract"`
}

// Publication describes a single priced publication.
type Publication struct {
	Institution       Institution `xml:"institution"`
	PrimaryIdentifier struct {
		DOI string `xml:"doi"`
	} `xml:"primary_identifier"`
	PublicationType string    `xml:"publication_type"`
	CostData        *CostData `xml:"cost_data"`
}

// Contract describes an institutional publishing agreement.
type Contract struct {
	CostData *CostData `xml:"cost_data"`
}

// Institution carries typed identifiers and names.
type Institution struct {
	IDs   []TypedValue `xml:"id"`
	Names []TypedValue `xml:"name"`
}

// TypedValue is the openCost pattern of a value qualified by a type child
// element, e.g. <id><type>ror</type><value>…</value></id>.
type TypedValue struct {
	Type  string `xml:"type"`
	Value string `xml:"value"`
}

// ID returns the institution identifier of the given type ("ror", …).
func (i Institution) ID(idType string) string {
	for _, id := range i.IDs {
		if id.Type == idType {
			return id.Value
		}
	}
	return ""
}

// Name returns the institution name of the given type ("short", "full").
func (i Institution) Name(nameType string) string {
	for _, name := range i.Names {
		if name.Type == nameType {
			return name.Value
		}
	}
	return ""
}

// CostData holds the invoices priced against a publication or contract,
// plus an optional reference to a contract the publication is billed under.
type CostData struct {
	PartOfContract *PartOfContract `xml:"part_of_contract"`
	Invoices       []Invoice       `xml:"invoice"`
}

// PartOfContract links a publication to the contract invoice it is billed
// under instead of carrying its own price.
type PartOfContract struct {
	PrimaryIdentifier struct {
		Value string `xml:"value"`
	} `xml:"primary_identifier"`
	InvoiceID string `xml:"invoice_id"`
}

// Invoice is one invoice-like element. Publication-level invoices carry
// dates and amounts; contract-level invoices additionally carry an
// invoice_id and an invoice_period.
type Invoice struct {
	InvoiceID     string         `xml:"invoice_id"`
	Dates         InvoiceDates   `xml:"dates"`
	InvoicePeriod *InvoicePeriod `xml:"invoice_period"`
	AmountsPaid   []AmountPaid   `xml:"amounts_paid>amount_paid"`
}

// InvoiceDates holds the date variants an invoice may carry.
type InvoiceDates struct {
	Paid        string `xml:"paid"`
	Invoice     string `xml:"invoice"`
	DateInvoice string `xml:"date_invoice"`
}

// InvoicePeriod bounds the period a contract invoice covers.
type InvoicePeriod struct {
	From string `xml:"from"`
	To   string `xml:"to"`
}

// AmountPaid is a single typed monetary amount.
type AmountPaid struct {
	Currency string `xml:"currency"`
	CostType string `xml:"cost_type"`
	Amount   string `xml:"amount"`
}

// ParseData decodes one openCost data element.
func ParseData(content []byte) (*Data, error) {
	var data Data
	if err := xml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("opencost parser: failed to decode XML: %w", err)
	}
	return &data, nil
}
