package processors

import (
	"fmt"

	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/parsers/opencost"
)

func init() {
	logger.InitLogger("error", "text")
}

// stubRateSource serves fixed annual rates and counts lookups per currency.
type stubRateSource struct {
	rates map[string]map[string]float64
	calls map[string]int
}

func newStubRateSource() *stubRateSource {
	return &stubRateSource{
		rates: map[string]map[string]float64{
			"USD": {"2020": 1.1422, "2021": 1.1827},
			"GBP": {"2021": 0.8596},
		},
		calls: map[string]int{},
	}
}

func (s *stubRateSource) AnnualRates(currency string) (map[string]float64, error) {
	s.calls[currency]++
	annual, ok := s.rates[currency]
	if !ok {
		return nil, fmt.Errorf("no annual exchange rates found for currency %s", currency)
	}
	return annual, nil
}

func amount(currency, costType, value string) opencost.AmountPaid {
	return opencost.AmountPaid{Currency: currency, CostType: costType, Amount: value}
}

func invoice(datePaid, dateInvoice string, amounts ...opencost.AmountPaid) opencost.Invoice {
	return opencost.Invoice{
		Dates:       opencost.InvoiceDates{Paid: datePaid, Invoice: dateInvoice},
		AmountsPaid: amounts,
	}
}

func testConverter() (*Converter, *stubRateSource) {
	source := newStubRateSource()
	return NewConverter(source), source
}
