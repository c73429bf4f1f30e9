// Package directory reads employee directory exports (XLSX or CSV) for the
// login allow-list.
package directory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// Format names accepted by Read.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// columnAliases maps normalised header names to Employee fields.
var columnAliases = map[string]string{
	"employee_number": "employee_number",
	"社員番号":            "employee_number",
	"name":            "name",
	"氏名":              "name",
	"department":      "department",
	"部署":              "department",
	"role":            "role",
	"役職":              "role",
	"tmg_email":       "company_email",
	"company_email":   "company_email",
	"社用メール":           "company_email",
	"google_email":    "google_email",
	"gmail":           "google_email",
	"googleメール":       "google_email",
}

// Read parses an employee export. The first row is the header; rows
// without a google email are skipped.
func Read(r io.Reader, format string) ([]*entity.Employee, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(format) {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported employee file format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("employee file is empty")
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		if field, ok := columnAliases[key]; ok {
			index[field] = i
		}
	}
	if _, ok := index["google_email"]; !ok {
		return nil, fmt.Errorf("employee file has no google_email column")
	}

	employees := make([]*entity.Employee, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		email := get("google_email")
		if email == "" {
			continue
		}
		employees = append(employees, &entity.Employee{
			EmployeeNumber: get("employee_number"),
			Name:           get("name"),
			Department:     get("department"),
			Role:           get("role"),
			CompanyEmail:   get("company_email"),
			GoogleEmail:    email,
		})
	}
	return employees, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// readXLSX reads the first sheet.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}
