package dataset

import "github.com/username/oaharvest/src/models"

// WriteNewArticles writes the records that found no match during a merge as
// a standalone dataset file with the standard field order.
func WriteNewArticles(path string, records []*models.PublicationRecord) error {
	table := &Table{Header: append([]string{}, models.FieldOrder...)}
	for _, record := range records {
		table.Rows = append(table.Rows, record.Row())
	}
	return WriteTable(path, table)
}
