package processors

import (
	"github.com/patrickmn/go-cache"
	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/utils"
)

// RateSource provides annual EUR reference rates for a currency, keyed by
// 4-digit year. Implementations live in the services package (ECB API,
// historical rates file).
type RateSource interface {
	AnnualRates(currency string) (map[string]float64, error)
}

// Converter turns foreign-currency amounts into EUR. Rates are fetched
// lazily per currency and cached for the lifetime of the converter, so one
// batch run hits the rate source at most once per currency.
type Converter struct {
	source RateSource
	rates  *cache.Cache
}

func NewConverter(source RateSource) *Converter {
	return &Converter{
		source: source,
		rates:  cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// Rate returns the annual EUR exchange rate for a currency and period.
func (c *Converter) Rate(currency, period string) (float64, error) {
	var annual map[string]float64
	if cached, found := c.rates.Get(currency); found {
		annual = cached.(map[string]float64)
	} else {
		fetched, err := c.source.AnnualRates(currency)
		if err != nil {
			return 0, &RateLookupError{Currency: currency, Err: err}
		}
		c.rates.Set(currency, fetched, cache.NoExpiration)
		annual = fetched
	}
	rate, ok := annual[period]
	if !ok {
		return 0, &NoExchangeRateError{Currency: currency, Period: period}
	}
	return rate, nil
}

// ToEUR converts an amount to EUR using the annual rate for the given
// period, rounded to two decimals.
func (c *Converter) ToEUR(amount float64, currency, period string) (float64, error) {
	if currency == "EUR" {
		return amount, nil
	}
	rate, err := c.Rate(currency, period)
	if err != nil {
		return 0, err
	}
	converted := utils.RoundFloat(amount/rate, 2)
	logger.L.Info("Automated currency conversion",
		"amount", amount, "currency", currency, "eur", converted, "period", period)
	return converted, nil
}
