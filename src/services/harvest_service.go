package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/username/oaharvest/src/database"
	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/parsers/oai"
	"github.com/username/oaharvest/src/processors"
	"golang.org/x/time/rate"
)

// HarvestSource is one row of the harvest source list.
type HarvestSource struct {
	BasicURL       string
	MetadataPrefix string
	OAISet         string
	Processing     string
	Directory      string
	Type           string
	Active         bool
}

// LoadSourceList reads the harvest source list CSV.
func LoadSourceList(path string) ([]HarvestSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open harvest list %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read harvest list %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("harvest list %s has no header", path)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var sources []HarvestSource
	for _, row := range rows[1:] {
		sources = append(sources, HarvestSource{
			BasicURL:       field(row, "basic_url"),
			MetadataPrefix: field(row, "metadata_prefix"),
			OAISet:         field(row, "oai_set"),
			Processing:     field(row, "processing"),
			Directory:      field(row, "directory"),
			Type:           field(row, "type"),
			Active:         field(row, "active") == "TRUE",
		})
	}
	return sources, nil
}

type harvestServiceImpl struct {
	httpClient http.Client
	limiter    *rate.Limiter
	userAgent  string
	reconciler *processors.Reconciler
	validator  SchemaValidator
}

// NewHarvestService creates the OAI-PMH harvester. Outgoing page requests
// are rate limited to stay polite towards the repositories.
func NewHarvestService(
	reconciler *processors.Reconciler,
	validator SchemaValidator,
	timeout time.Duration,
	requestInterval time.Duration,
	requestBurst int,
	userAgent string,
) Harvester {
	return &harvestServiceImpl{
		httpClient: http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(requestInterval), requestBurst),
		userAgent:  userAgent,
		reconciler: reconciler,
		validator:  validator,
	}
}

// Harvest pages through a source's ListRecords responses, then either
// validates or reconciles the collected records.
func (s *harvestServiceImpl) Harvest(ctx context.Context, source HarvestSource, opts HarvestOptions) (*HarvestResult, error) {
	listURL := source.BasicURL + "?verb=ListRecords"
	if source.MetadataPrefix != "" {
		listURL += "&metadataPrefix=" + url.QueryEscape(source.MetadataPrefix)
	}
	if source.OAISet != "" {
		listURL += "&set=" + url.QueryEscape(source.OAISet)
	}
	logger.L.Info("Harvesting via OAI-PMH", "url", listURL)

	var runID int64
	if opts.ArchivePages && database.DB != nil {
		id, err := database.StartRun(source.BasicURL)
		if err != nil {
			logger.L.Error("Failed to record harvest run, raw pages will not be archived", "error", err)
		} else {
			runID = id
		}
	}

	var records []oai.Record
	pageNo := 0
	nextURL := listURL
	for nextURL != "" {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		pageNo++
		content, err := s.fetchPage(ctx, nextURL)
		if err != nil {
			return nil, err
		}
		if runID > 0 {
			if err := database.SavePage(runID, pageNo, content); err != nil {
				logger.L.Error("Failed to archive raw page", "runID", runID, "page", pageNo, "error", err)
			}
		}
		response, err := oai.ParseResponse(content)
		if err != nil {
			return nil, err
		}
		records = append(records, response.ListRecords.Records...)
		nextURL = ""
		if token := response.ListRecords.ResumptionToken; token != "" {
			nextURL = source.BasicURL + "?verb=ListRecords&resumptionToken=" + url.QueryEscape(token)
		}
	}
	logger.L.Info("Harvest fetch finished", "records", len(records), "pages", pageNo)

	result := &HarvestResult{RecordsHarvested: len(records), RunID: runID}

	if opts.PrintRecordLinks {
		s.printRecordLinks(source, records)
	}

	if opts.ValidateOnly {
		for _, record := range records {
			validation := s.validator.Validate(record.Metadata.Raw)
			if validation.OK {
				logger.L.Info("Record validates against the openCost schema",
					"identifier", record.Header.Identifier)
				result.ValidRecords++
			} else {
				logger.L.Error("Record does not validate against the openCost schema",
					"identifier", record.Header.Identifier, "diagnostic", validation.Diagnostic)
				result.InvalidRecords++
			}
		}
		logger.L.Info("Validation run finished",
			"valid", result.ValidRecords, "invalid", result.InvalidRecords)
		return result, nil
	}

	var instructions *processors.ProcessingInstructions
	if source.Processing != "" {
		parsed, err := processors.ParseProcessingInstructions(source.Processing)
		if err != nil {
			logger.L.Error("Unable to parse processing instruction", "error", err)
		} else {
			instructions = parsed
		}
	}

	publications, err := s.reconciler.ProcessRecords(records, instructions)
	if err != nil {
		return nil, err
	}
	result.Publications = publications
	return result, nil
}

func (s *harvestServiceImpl) fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching OAI page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching OAI page %s: unexpected status %s", pageURL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (s *harvestServiceImpl) printRecordLinks(source HarvestSource, records []oai.Record) {
	recordURL := source.BasicURL + "?verb=GetRecord"
	if source.MetadataPrefix != "" {
		recordURL += "&metadataPrefix=" + url.QueryEscape(source.MetadataPrefix)
	}
	for _, record := range records {
		logger.L.Info("Record link",
			"url", recordURL+"&identifier="+url.QueryEscape(record.Header.Identifier))
	}
}
