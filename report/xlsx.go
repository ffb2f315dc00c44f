/*
xlsx.go - XLSX report encoding

Mirrors the CSV layout in a spreadsheet: header block, statistics block,
then the detail table. HR teams import this directly instead of parsing
the CSV.
*/
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Report"

// RenderXLSX produces the XLSX encoding of the report.
func RenderXLSX(data Data) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, renderErr(fmt.Sprintf("rename sheet: %v", err))
	}

	row := 1
	set := func(values ...any) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(xlsxSheet, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	writeAll := func() error {
		// Header block
		if err := set("Incapacity Report"); err != nil {
			return err
		}
		if err := set("Company", data.Company.Name); err != nil {
			return err
		}
		if err := set("Period", fmt.Sprintf("%s to %s", data.Period.Start, data.Period.End)); err != nil {
			return err
		}
		row++ // blank separator row

		// Statistics block
		if err := set("STATISTICS SUMMARY"); err != nil {
			return err
		}
		if err := set("Total Incapacities", data.Stats.Total); err != nil {
			return err
		}
		if err := set("Approved", data.Stats.Approved); err != nil {
			return err
		}
		if err := set("Rejected", data.Stats.Rejected); err != nil {
			return err
		}
		if err := set("Pending", data.Stats.Pending); err != nil {
			return err
		}
		if err := set("Total Approved Amount", data.Stats.TotalApprovedAmount.InexactFloat64()); err != nil {
			return err
		}
		row++

		// Detail block
		if err := set("INCAPACITY DETAIL"); err != nil {
			return err
		}
		if err := set("Employee", "Reason", "Start", "End", "Days", "Status", "Amount", "DocumentURL"); err != nil {
			return err
		}
		if len(data.Rows) == 0 {
			return set("No incapacities in the selected period")
		}
		for _, r := range data.Rows {
			doc := r.DocumentURL
			if doc == "" {
				doc = "No document"
			}
			if err := set(r.Employee, r.Reason, r.PeriodStart, r.PeriodEnd, r.Days, r.Status, r.Amount.InexactFloat64(), doc); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeAll(); err != nil {
		return nil, renderErr(fmt.Sprintf("write xlsx: %v", err))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, renderErr(fmt.Sprintf("encode xlsx: %v", err))
	}
	return buf.Bytes(), nil
}
