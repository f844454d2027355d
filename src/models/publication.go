package models

// Field names of the normalized publication schema, in output order.
const (
	FieldInstitutionROR            = "institution_ror"
	FieldInstitution               = "institution"
	FieldPeriod                    = "period"
	FieldEuro                      = "euro"
	FieldDOI                       = "doi"
	FieldIsHybrid                  = "is_hybrid"
	FieldType                      = "type"
	FieldContractPrimaryIdentifier = "contract_primary_identifier"
	FieldContractInvoiceID         = "contract_invoice_id"
	FieldURL                       = "url"
	FieldIdentifier                = "identifier"
)

// CostColumns are the named cost-type columns of the publication schema, in
// output order.
var CostColumns = []CostType{
	CostGoldOA,
	CostVAT,
	CostColourCharge,
	CostCoverCharge,
	CostHybridOA,
	CostOther,
	CostPageCharge,
	CostPermission,
	CostPublicationCharge,
	CostReprint,
	CostSubmissionFee,
	CostPaymentFee,
}

// FieldOrder is the fixed column order of the persisted dataset.
var FieldOrder = buildFieldOrder()

func buildFieldOrder() []string {
	fields := []string{
		FieldInstitutionROR,
		FieldInstitution,
		FieldPeriod,
		FieldEuro,
		FieldDOI,
		FieldIsHybrid,
		FieldType,
		FieldContractPrimaryIdentifier,
		FieldContractInvoiceID,
	}
	for _, ct := range CostColumns {
		fields = append(fields, string(ct))
	}
	return append(fields, FieldURL)
}

// quotedFields are the columns wrapped in quotes when the dataset is
// written. Period and all cost columns stay unquoted.
var quotedFields = map[string]bool{
	FieldInstitutionROR:            true,
	FieldInstitution:               true,
	FieldDOI:                       true,
	FieldIsHybrid:                  true,
	FieldType:                      true,
	FieldContractPrimaryIdentifier: true,
	FieldContractInvoiceID:         true,
}

// QuoteField reports whether a dataset column is force-quoted on write.
func QuoteField(name string) bool {
	return quotedFields[name]
}

// PublicationRecord is the normalized per-publication output unit. All
// values are strings as they appear in the persisted dataset; "NA" marks an
// absent value, and a record with every field empty is a placeholder for a
// publication whose cost data could not be resolved.
type PublicationRecord struct {
	InstitutionROR            string
	Institution               string
	Period                    string
	Euro                      string
	DOI                       string
	IsHybrid                  string
	Type                      string
	ContractPrimaryIdentifier string
	ContractInvoiceID         string
	Costs                     map[CostType]string
	URL                       string

	// Identifier is the OAI record identifier (the harvest PID). It is not
	// part of the dataset column set but travels with the record.
	Identifier string
}

// NewPublicationRecord returns a record with every field set to "NA".
func NewPublicationRecord() *PublicationRecord {
	rec := &PublicationRecord{Costs: make(map[CostType]string, len(CostColumns))}
	for _, name := range FieldOrder {
		rec.setField(name, "NA")
	}
	rec.Identifier = "NA"
	return rec
}

// NewPlaceholderRecord returns an all-empty record, emitted in place of a
// publication whose cost data failed to resolve.
func NewPlaceholderRecord() *PublicationRecord {
	rec := &PublicationRecord{Costs: make(map[CostType]string, len(CostColumns))}
	for _, name := range FieldOrder {
		rec.setField(name, "")
	}
	return rec
}

func (r *PublicationRecord) isCostColumn(name string) bool {
	for _, ct := range CostColumns {
		if string(ct) == name {
			return true
		}
	}
	return false
}

// Field returns a field value by its schema name.
func (r *PublicationRecord) Field(name string) (string, bool) {
	switch name {
	case FieldInstitutionROR:
		return r.InstitutionROR, true
	case FieldInstitution:
		return r.Institution, true
	case FieldPeriod:
		return r.Period, true
	case FieldEuro:
		return r.Euro, true
	case FieldDOI:
		return r.DOI, true
	case FieldIsHybrid:
		return r.IsHybrid, true
	case FieldType:
		return r.Type, true
	case FieldContractPrimaryIdentifier:
		return r.ContractPrimaryIdentifier, true
	case FieldContractInvoiceID:
		return r.ContractInvoiceID, true
	case FieldURL:
		return r.URL, true
	case FieldIdentifier:
		return r.Identifier, true
	}
	if r.isCostColumn(name) {
		return r.Costs[CostType(name)], true
	}
	return "", false
}

// SetField assigns a field value by its schema name, reporting whether the
// name is part of the schema.
func (r *PublicationRecord) SetField(name, value string) bool {
	return r.setField(name, value)
}

func (r *PublicationRecord) setField(name, value string) bool {
	switch name {
	case FieldInstitutionROR:
		r.InstitutionROR = value
	case FieldInstitution:
		r.Institution = value
	case FieldPeriod:
		r.Period = value
	case FieldEuro:
		r.Euro = value
	case FieldDOI:
		r.DOI = value
	case FieldIsHybrid:
		r.IsHybrid = value
	case FieldType:
		r.Type = value
	case FieldContractPrimaryIdentifier:
		r.ContractPrimaryIdentifier = value
	case FieldContractInvoiceID:
		r.ContractInvoiceID = value
	case FieldURL:
		r.URL = value
	case FieldIdentifier:
		r.Identifier = value
	default:
		if !r.isCostColumn(name) {
			return false
		}
		r.Costs[CostType(name)] = value
	}
	return true
}

// Row renders the record in the fixed dataset column order.
func (r *PublicationRecord) Row() []string {
	row := make([]string, 0, len(FieldOrder))
	for _, name := range FieldOrder {
		value, _ := r.Field(name)
		row = append(row, value)
	}
	return row
}
