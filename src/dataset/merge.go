package dataset

import (
	"os"

	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/models"
	"github.com/username/oaharvest/src/utils"
)

// Columns that are filled by manual enrichment and must survive a merge
// into the enriched dataset variant.
var enrichedBlacklist = []string{
	"institution", "publisher", "journal_full_title", "issn", "license_ref", "pmid",
}

type mergeMessages struct {
	start      string
	lineChange string
	remove     string
}

var wetMessages = mergeMessages{
	start:      "Integrating changes in harvest data into existing file",
	lineChange: "Updating value in column",
	remove:     "PID no longer found in harvest data, removing article",
}

var dryMessages = mergeMessages{
	start:      "Dry run: comparing harvest data to existing file",
	lineChange: "Change in column",
	remove:     "PID no longer found in harvest data, article would be removed",
}

// IntegrateChanges folds newly harvested records into a previously persisted
// dataset file, matching rows on the record URL (the harvest PID).
//
// Existing rows without an institution value are placeholders and pass
// through unchanged. Matched rows take the incoming field values, except
// blacklisted columns when merging the enriched variant and except a euro
// value that is numerically equal to the existing one. Existing rows whose
// PID no longer appears in the harvest are stale and dropped. Incoming field
// names absent from the existing header are reported once as a schema
// mismatch.
//
// The reduced list of incoming records that matched no existing row is
// returned in input order. With dryRun the full diff is reported but the
// file is left untouched.
func IntegrateChanges(records []*models.PublicationRecord, filePath string, enrichedFile, dryRun bool) ([]*models.PublicationRecord, error) {
	if _, err := os.Stat(filePath); err != nil {
		// No previously persisted dataset: every record is new.
		return records, nil
	}

	messages := wetMessages
	if dryRun {
		messages = dryMessages
	}

	pending := make(map[string]*models.PublicationRecord)
	var pendingOrder []string
	for _, record := range records {
		// Harvested articles use OAI record IDs in the url field as PID.
		if utils.HasValue(record.URL) {
			if _, seen := pending[record.URL]; !seen {
				pendingOrder = append(pendingOrder, record.URL)
			}
			pending[record.URL] = record
		}
	}

	table, err := ReadTable(filePath)
	if err != nil {
		return nil, err
	}
	urlCol, ok := table.Column(models.FieldURL)
	if !ok {
		return records, nil
	}
	institutionCol, _ := table.Column(models.FieldInstitution)

	logger.L.Info(messages.start, "file", filePath)

	mergeFields := append([]string{}, models.FieldOrder...)
	mergeFields = append(mergeFields, models.FieldIdentifier)

	var updatedRows [][]string
	var unmatchedKeys []string
	for i, row := range table.Rows {
		lineNum := i + 2 // header is line 1
		url := cell(row, urlCol)
		if !utils.HasValue(cell(row, institutionCol)) {
			// Do not change placeholder lines.
			updatedRows = append(updatedRows, row)
			continue
		}
		record, matched := pending[url]
		if !matched {
			logger.L.Error(messages.remove, "pid", url)
			continue
		}
		for _, key := range mergeFields {
			value, _ := record.Field(key)
			col, exists := table.Column(key)
			if !exists {
				if !contains(unmatchedKeys, key) {
					unmatchedKeys = append(unmatchedKeys, key)
				}
				continue
			}
			if enrichedFile && contains(enrichedBlacklist, key) {
				continue
			}
			if key == models.FieldEuro {
				// Compare as numbers to avoid spurious diffs from formatting.
				oldEuro, oldOK := utils.ParseAmount(cell(row, col))
				newEuro, newOK := utils.ParseAmount(value)
				if oldOK && newOK && oldEuro == newEuro {
					continue
				}
			}
			if value != cell(row, col) {
				logger.L.Info(messages.lineChange,
					"line", lineNum, "pid", url, "column", key,
					"old", cell(row, col), "new", value)
				row[col] = value
			}
		}
		delete(pending, url)
		updatedRows = append(updatedRows, row)
	}

	if len(unmatchedKeys) > 0 {
		logger.L.Warn("There were unmatched keys in the harvested data which do not exist in the dataset file. "+
			"This might occur if the repo switched to another data format; in this case delete the old dataset files and start new ones.",
			"keys", unmatchedKeys)
	}

	if !dryRun {
		table.Rows = updatedRows
		if err := WriteTable(filePath, table); err != nil {
			return nil, err
		}
	}

	var remaining []*models.PublicationRecord
	for _, url := range pendingOrder {
		if record, ok := pending[url]; ok {
			remaining = append(remaining, record)
		}
	}
	return remaining, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func contains(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}
