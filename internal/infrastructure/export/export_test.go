package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

func sampleApps() []*entity.Application {
	return []*entity.Application{
		{
			ApplicationID:     "APP-1",
			ApplicationDate:   "2024-05-02",
			EmployeeNumber:    "001",
			EmployeeName:      "山田太郎",
			Location:          "天神",
			Tool:              "ChatGPT Plus",
			Amount:            3000,
			TargetMonth:       "2024-05",
			Purpose:           `資料作成, "議事録"`,
			AIRiskLevel:       entity.RiskOK,
			CheckStatus:       "経理承認済",
			AccountingChecker: "経理担当者",
		},
	}
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVExporter{}.Write(&buf, sampleApps()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, utf8BOM))

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Headers, records[0])
	assert.Len(t, records[0], 15)
	assert.Equal(t, "APP-1", records[1][0])
	assert.Equal(t, "3000", records[1][6])
	assert.Equal(t, `資料作成, "議事録"`, records[1][8])
	assert.Equal(t, "OK", records[1][9])
}

func TestCSVExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVExporter{}.Write(&buf, nil))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(buf.String(), utf8BOM)), "\n")
	assert.Len(t, lines, 1)
}

func TestXLSXExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSXExporter{}.Write(&buf, sampleApps()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, "山田太郎", rows[1][3])
	assert.Equal(t, "3000", rows[1][6])
}
