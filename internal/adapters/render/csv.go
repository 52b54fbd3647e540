package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mikey/job-tracker/internal/core"
)

// CSVHeader is the first row of an export
var CSVHeader = []string{"company", "position", "status", "email_ids", "email_count"}

// WriteCSV writes one row per record. Email ids are joined with ";".
func WriteCSV(w io.Writer, records []core.ApplicationRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		company := r.Company
		if r.Unresolved {
			company = UnresolvedLabel
		}
		row := []string{
			company,
			r.Position,
			string(r.Status),
			strings.Join(r.EmailIDs, ";"),
			strconv.Itoa(r.Count),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes records to path, creating parent directories
func ExportCSV(path string, records []core.ApplicationRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return f.Close()
}
