package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// utf8BOM makes spreadsheet software detect the encoding.
const utf8BOM = "\uFEFF"

// CSVExporter writes UTF-8 CSV with a byte order mark.
type CSVExporter struct{}

var _ port.ApplicationExporter = CSVExporter{}

func (CSVExporter) ContentType() string   { return "text/csv; charset=utf-8" }
func (CSVExporter) FileExtension() string { return "csv" }

// Write emits the header row followed by one row per application.
func (CSVExporter) Write(w io.Writer, apps []*entity.Application) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	for _, app := range apps {
		if err := cw.Write(row(app)); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
