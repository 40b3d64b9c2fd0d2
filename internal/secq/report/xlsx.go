package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kart-io/logger"
	"github.com/xuri/excelize/v2"

	"github.com/kart-io/secq/internal/secq/model"
	secqerrors "github.com/kart-io/secq/pkg/errors"
)

// SheetName 导出表格的工作表名称。
const SheetName = "Report"

var header = []interface{}{"ID", "Question", "Guidance", "Response"}

// XLSXFileName 返回 now 对应的表格文件名 report_YYYYMMDD_HHMMSS.xlsx。
func XLSXFileName(now time.Time) string {
	return strings.TrimSuffix(FileName(now), ".html") + ".xlsx"
}

// WriteXLSX 将问题与回答写入表格，每个问题一行，风险概览（如有）在最后一行。
func WriteXLSX(path string, data *Data) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return secqerrors.ErrReportWrite.WithCause(err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return secqerrors.ErrReportWrite.WithCause(err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return secqerrors.ErrReportWrite.WithCause(err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return secqerrors.ErrReportWrite.WithCause(err)
	}

	rows := make([]*model.Question, 0, len(data.Questions)+1)
	rows = append(rows, data.Questions...)
	if data.RiskOverview != nil {
		rows = append(rows, data.RiskOverview)
	}

	for i, q := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return secqerrors.ErrReportWrite.WithCause(err)
		}
		row := []interface{}{q.IDOrIndex(i), q.Text, q.Guidance, q.LLMResponse}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return secqerrors.ErrReportWrite.WithCause(fmt.Errorf("row %d: %w", i+2, err))
		}
	}

	_ = f.SetColWidth(SheetName, "B", "B", 60)
	_ = f.SetColWidth(SheetName, "D", "D", 80)

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		logger.Errorw("Failed to write spreadsheet", "path", path, "error", err.Error())
		return secqerrors.ErrReportWrite.WithCause(err)
	}
	logger.Infow("Spreadsheet generated successfully", "path", path, "rows", len(rows))
	return nil
}
