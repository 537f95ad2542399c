package records

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// ExportWaitlist renders the waitlist as a spreadsheet.
func ExportWaitlist(entries []WaitlistDTO) ([]byte, error) {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{e.FirstName, e.LastName, e.Email, e.Phone, e.Timestamp.Format("2006-01-02 15:04:05")})
	}
	return renderSheet([]string{"First Name", "Last Name", "Email", "Phone", "Date"}, rows)
}

// ExportOrders renders the captured orders as a spreadsheet.
func ExportOrders(orders []OrderDTO) ([]byte, error) {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []any{
			o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.CustomerAddress,
			o.Items, o.Total, o.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}
	return renderSheet([]string{"Customer Name", "Email", "Phone", "Address", "Items", "Total", "Date"}, rows)
}

func renderSheet(header []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("rendering workbook: %w", err)
	}
	return buf.Bytes(), nil
}
