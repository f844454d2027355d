package processors

import (
	"errors"
	"fmt"

	"github.com/username/oaharvest/src/models"
)

// Error categories. Every typed reconciliation error unwraps to one of
// these, so callers can group failures with errors.Is.
var (
	ErrConversion  = errors.New("currency conversion failed")
	ErrAmbiguity   = errors.New("ambiguous cost data")
	ErrConsistency = errors.New("inconsistent cost data")
	ErrMissingData = errors.New("missing cost data")
)

// NoConversionPeriodError: a non-EUR amount was found but the invoice
// carries no date to pick an annual exchange rate with.
type NoConversionPeriodError struct {
	Currency string
}

func (e *NoConversionPeriodError) Error() string {
	return fmt.Sprintf("automated conversion to EUR failed - no period value found (currency %s)", e.Currency)
}

func (e *NoConversionPeriodError) Unwrap() error { return ErrConversion }

// NoExchangeRateError: no annual exchange rate is available for the
// currency/period combination.
type NoExchangeRateError struct {
	Currency string
	Period   string
}

func (e *NoExchangeRateError) Error() string {
	return fmt.Sprintf("automated conversion to EUR failed - no annual exchange rate available for currency %s and period %s", e.Currency, e.Period)
}

func (e *NoExchangeRateError) Unwrap() error { return ErrConversion }

// RateLookupError: the rate provider failed for the currency as a whole
// (unknown currency, transport failure).
type RateLookupError struct {
	Currency string
	Err      error
}

func (e *RateLookupError) Error() string {
	return fmt.Sprintf("automated conversion to EUR failed - rate lookup for currency %s: %v", e.Currency, e.Err)
}

func (e *RateLookupError) Unwrap() error { return ErrConversion }

// AmbiguousVATError: more than one vat amount in a strict-mode invoice.
type AmbiguousVATError struct{}

func (e *AmbiguousVATError) Error() string {
	return `encountered more than one cost_type "vat", data might be ambiguous`
}

func (e *AmbiguousVATError) Unwrap() error { return ErrAmbiguity }

// GoldHybridConflictError: a publication carries both gold-oa and hybrid-oa
// amounts.
type GoldHybridConflictError struct{}

func (e *GoldHybridConflictError) Error() string {
	return `encountered cost types "gold-oa" and "hybrid-oa" for the same publication`
}

func (e *GoldHybridConflictError) Unwrap() error { return ErrAmbiguity }

// MissingPeriodError: no date value found and the publication is not billed
// under a contract.
type MissingPeriodError struct{}

func (e *MissingPeriodError) Error() string {
	return "no date value found and the publication is not part of any contract"
}

func (e *MissingPeriodError) Unwrap() error { return ErrMissingData }

// InconsistentInvoicePeriodError: the from and to bounds of a contract
// invoice name different years.
type InconsistentInvoicePeriodError struct {
	InvoiceID string
	From      string
	To        string
}

func (e *InconsistentInvoicePeriodError) Error() string {
	return fmt.Sprintf("invoice '%s': different period values in 'from' and 'to' fields, could not determine an invoice period (%s vs %s)", e.InvoiceID, e.From, e.To)
}

func (e *InconsistentInvoicePeriodError) Unwrap() error { return ErrConsistency }

// MissingInvoicePeriodError: a contract invoice carries neither period
// bounds nor an invoice date.
type MissingInvoicePeriodError struct {
	InvoiceID string
}

func (e *MissingInvoicePeriodError) Error() string {
	return fmt.Sprintf("invoice '%s': the 'from' or 'to' element is missing (or both)", e.InvoiceID)
}

func (e *MissingInvoicePeriodError) Unwrap() error { return ErrMissingData }

// MissingInvoiceIDError: a contract invoice has no invoice_id.
type MissingInvoiceIDError struct {
	Invoice models.ResolvedInvoice
}

func (e *MissingInvoiceIDError) Error() string {
	return fmt.Sprintf("a contract invoice has no invoice_id (data dump: %+v)", e.Invoice)
}

func (e *MissingInvoiceIDError) Unwrap() error { return ErrMissingData }

// DuplicateInvoiceIDError: the same invoice_id appears under more than one
// contract. This is the only batch-aborting condition.
type DuplicateInvoiceIDError struct {
	InvoiceID string
}

func (e *DuplicateInvoiceIDError) Error() string {
	return fmt.Sprintf("invoice_id '%s' occurs more than once", e.InvoiceID)
}

func (e *DuplicateInvoiceIDError) Unwrap() error { return ErrConsistency }
