package models

// CostType identifies one of the typed cost buckets an openCost invoice may
// split its amounts into.
type CostType string

const (
	CostGoldOA            CostType = "gold-oa"
	CostHybridOA          CostType = "hybrid-oa"
	CostVAT               CostType = "vat"
	CostRead              CostType = "read"
	CostPublishing        CostType = "publishing"
	CostColourCharge      CostType = "colour charge"
	CostCoverCharge       CostType = "cover charge"
	CostOther             CostType = "other"
	CostPageCharge        CostType = "page charge"
	CostPermission        CostType = "permission"
	CostPublicationCharge CostType = "publication charge"
	CostReprint           CostType = "reprint"
	CostSubmissionFee     CostType = "submission fee"
	CostPaymentFee        CostType = "payment fee"
)

// ContractTotalTypes are the cost types that add up to a contract invoice
// total.
var ContractTotalTypes = []CostType{CostRead, CostPublishing, CostVAT}

// ResolvedInvoice is the typed result of extracting one invoice element:
// period candidates as 4-digit year strings (or verbatim text if the source
// date did not look like a date) and EUR amounts per cost type.
type ResolvedInvoice struct {
	DatePaid    string
	DateInvoice string
	Costs       map[CostType]float64
}

func NewResolvedInvoice() ResolvedInvoice {
	return ResolvedInvoice{Costs: make(map[CostType]float64)}
}

// ContractInvoice is one invoice issued under an institutional publishing
// contract, reduced to the data needed for distributing its total across the
// publications that reference it.
type ContractInvoice struct {
	InvoiceID string
	// Total is the EUR sum of the read, publishing and vat amounts.
	Total float64
	// Period is a single 4-digit year.
	Period string
	// PeriodFromDateInvoice marks a period that could only be inferred from
	// the date_invoice element instead of the invoice_period bounds, which
	// is less reliable.
	PeriodFromDateInvoice bool
}
