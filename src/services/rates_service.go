package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/models"
	"github.com/username/oaharvest/src/processors"
	"golang.org/x/net/publicsuffix"
)

// ecbRateSource fetches annual EUR reference rates from the ECB data portal
// (SDMX REST API, csvdata format). It implements processors.RateSource.
type ecbRateSource struct {
	httpClient http.Client
	baseURL    string
}

// NewECBRateSource creates a rate source backed by the ECB data portal.
func NewECBRateSource(baseURL string, timeout time.Duration) processors.RateSource {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}
	return &ecbRateSource{
		httpClient: http.Client{Jar: jar, Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// AnnualRates returns the annual EUR exchange rates for a currency, keyed by
// 4-digit year.
func (s *ecbRateSource) AnnualRates(currency string) (map[string]float64, error) {
	// Series key: annual frequency, currency vs EUR, spot reference rate.
	url := fmt.Sprintf("%s/A.%s.EUR.SP00.A?format=csvdata", s.baseURL, strings.ToUpper(currency))
	logger.L.Info("Fetching annual exchange rates", "currency", currency, "url", url)

	resp, err := s.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching ECB rates for %s: %w", currency, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching ECB rates for %s: unexpected status %s", currency, resp.Status)
	}

	rates, err := parseECBCSV(resp.Body, currency)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no annual exchange rates found for currency %s", currency)
	}
	return rates, nil
}

// parseECBCSV extracts (TIME_PERIOD, OBS_VALUE) pairs from an SDMX csvdata
// response.
func parseECBCSV(r io.Reader, currency string) (map[string]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading ECB csvdata header for %s: %w", currency, err)
	}
	periodCol, valueCol := -1, -1
	for i, name := range header {
		switch name {
		case "TIME_PERIOD":
			periodCol = i
		case "OBS_VALUE":
			valueCol = i
		}
	}
	if periodCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("ECB csvdata for %s is missing TIME_PERIOD or OBS_VALUE columns", currency)
	}

	rates := make(map[string]float64)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ECB csvdata for %s: %w", currency, err)
		}
		if periodCol >= len(row) || valueCol >= len(row) {
			continue
		}
		rate, err := strconv.ParseFloat(row[valueCol], 64)
		if err != nil {
			logger.L.Warn("Invalid exchange rate value in ECB data",
				"currency", currency, "period", row[periodCol], "value", row[valueCol])
			continue
		}
		rates[row[periodCol]] = rate
	}
	return rates, nil
}

// fileRateSource serves annual rates computed from a historical daily rates
// JSON file, for offline runs. The annual rate is the mean of the daily
// observations of that year.
type fileRateSource struct {
	rates models.HistoricalRates
}

// NewFileRateSource loads the historical exchange rate file.
func NewFileRateSource(filePath string) (processors.RateSource, error) {
	logger.L.Info("Loading historical exchange rates", "path", filePath)
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading historical exchange rate file '%s': %w", filePath, err)
	}
	var rates models.HistoricalRates
	if err := json.Unmarshal(content, &rates); err != nil {
		return nil, fmt.Errorf("error unmarshalling historical exchange rates from '%s': %w", filePath, err)
	}
	logger.L.Info("Historical exchange rates loaded successfully.",
		"path", filePath, "observationCount", len(rates.Root.Obs))
	return &fileRateSource{rates: rates}, nil
}

func (s *fileRateSource) AnnualRates(currency string) (map[string]float64, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, obs := range s.rates.Root.Obs {
		if obs.Ccy != currency || len(obs.TimePeriod) < 4 {
			continue
		}
		value, err := strconv.ParseFloat(obs.ObsValue, 64)
		if err != nil {
			logger.L.Warn("Invalid exchange rate value in historical data",
				"currency", currency, "date", obs.TimePeriod, "value", obs.ObsValue)
			continue
		}
		year := obs.TimePeriod[:4]
		sums[year] += value
		counts[year]++
	}
	if len(sums) == 0 {
		return nil, fmt.Errorf("no historical exchange rates found for currency %s", currency)
	}
	annual := make(map[string]float64, len(sums))
	for year, sum := range sums {
		annual[year] = sum / float64(counts[year])
	}
	return annual, nil
}
