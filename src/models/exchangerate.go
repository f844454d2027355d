package models

// HistoricalRates represents the structure of the historical exchange rate
// JSON file used by the file-backed rate provider. Observations are daily
// ECB reference rates.
type HistoricalRates struct {
	Root struct {
		Obs []struct {
			TimePeriod string `json:"_TIME_PERIOD"`
			ObsValue   string `json:"_OBS_VALUE"`
			Ccy        string `json:"_CCY"`
		} `json:"Obs"`
	} `json:"root"`
}
