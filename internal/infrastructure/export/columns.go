// Package export renders application lists for download.
package export

import (
	"strconv"

	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// Headers are the column titles shared by every export format.
var Headers = []string{
	"申請ID",
	"申請日",
	"社員番号",
	"氏名",
	"拠点",
	"ツール",
	"金額",
	"対象月",
	"使用目的",
	"AI判定",
	"チェックステータス",
	"経理担当",
	"経理コメント",
	"役員",
	"役員コメント",
}

func row(app *entity.Application) []string {
	return []string{
		app.ApplicationID,
		app.ApplicationDate,
		app.EmployeeNumber,
		app.EmployeeName,
		app.Location,
		app.Tool,
		strconv.FormatInt(app.Amount, 10),
		app.TargetMonth,
		app.Purpose,
		string(app.AIRiskLevel),
		app.CheckStatus,
		app.AccountingChecker,
		app.AccountingComment,
		app.ExecutiveApprover,
		app.ExecutiveComment,
	}
}
