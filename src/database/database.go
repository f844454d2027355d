package database

import (
	"database/sql"
	stdlog "log"
	"time"

	"github.com/username/oaharvest/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the harvest archive database and creates its schema. The
// archive keeps raw OAI response pages and per-run summaries so a harvest
// can be inspected or replayed without re-fetching.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Initializing harvest archive schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Initializing harvest archive schema for:", databasePath)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS harvest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_url TEXT NOT NULL,
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP,
		records_harvested INTEGER DEFAULT 0,
		new_records INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS raw_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		page_no INTEGER NOT NULL,
		content BLOB NOT NULL,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(run_id) REFERENCES harvest_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_raw_pages_run ON raw_pages(run_id);
	`
	if _, err := DB.Exec(createTableStatement); err != nil {
		stdlog.Fatalf("failed to create harvest archive tables: %v", err)
	}
}

// StartRun records the start of a harvest against one source.
func StartRun(sourceURL string) (int64, error) {
	result, err := DB.Exec(`INSERT INTO harvest_runs (source_url) VALUES (?)`, sourceURL)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// FinishRun closes out a harvest run with its record counts.
func FinishRun(runID int64, harvested, newRecords int) error {
	_, err := DB.Exec(
		`UPDATE harvest_runs SET finished_at = ?, records_harvested = ?, new_records = ? WHERE id = ?`,
		time.Now().UTC(), harvested, newRecords, runID)
	return err
}

// SavePage archives one raw OAI response page for a run.
func SavePage(runID int64, pageNo int, content []byte) error {
	_, err := DB.Exec(
		`INSERT INTO raw_pages (run_id, page_no, content) VALUES (?, ?, ?)`,
		runID, pageNo, content)
	return err
}
