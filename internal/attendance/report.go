package attendance

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
)

// ReportRow is one employee's line on the attendance report.
type ReportRow struct {
	EmployeeID uuid.UUID
	Name       string
	Department string
	Counts     Counts
	Hours      decimal.Decimal
	Rate       float64
}

type Report struct {
	Range       dates.Range
	Department  string
	GeneratedAt time.Time
	Rows        []ReportRow
	Overall     Counts
}

// BuildReport groups records per employee, ordered by department then name.
func BuildReport(items []Attendance, r dates.Range, department string, generatedAt time.Time) *Report {
	byEmployee := map[uuid.UUID]*ReportRow{}
	var order []uuid.UUID
	var overall Counts

	for _, a := range items {
		row, ok := byEmployee[a.EmployeeID]
		if !ok {
			row = &ReportRow{EmployeeID: a.EmployeeID, Hours: decimal.Zero}
			if a.Employee != nil {
				row.Name = a.Employee.Name
				if a.Employee.Department != nil {
					row.Department = *a.Employee.Department
				}
			}
			byEmployee[a.EmployeeID] = row
			order = append(order, a.EmployeeID)
		}
		row.Counts.Add(a.Status, 1)
		overall.Add(a.Status, 1)
		if a.HoursWorked.Valid {
			row.Hours = row.Hours.Add(a.HoursWorked.Decimal)
		}
	}

	rows := make([]ReportRow, 0, len(order))
	for _, id := range order {
		row := byEmployee[id]
		row.Rate = row.Counts.Rate()
		rows = append(rows, *row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Department != rows[j].Department {
			return rows[i].Department < rows[j].Department
		}
		return rows[i].Name < rows[j].Name
	})

	return &Report{
		Range:       r,
		Department:  department,
		GeneratedAt: generatedAt,
		Rows:        rows,
		Overall:     overall,
	}
}

var reportColumns = []struct {
	title string
	width float64
	align string
}{
	{"Employee", 50, "L"},
	{"Department", 35, "L"},
	{"Present", 18, "R"},
	{"Late", 15, "R"},
	{"Absent", 17, "R"},
	{"Leave", 15, "R"},
	{"Hours", 20, "R"},
	{"Rate %", 20, "R"},
}

// WritePDF renders the report as an A4 table.
func (rep *Report) WritePDF(w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Attendance Report", false)
	pdf.SetCreator("StaffSync", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Attendance Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	scope := "All departments"
	if rep.Department != "" {
		scope = "Department: " + rep.Department
	}
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s    %s",
		rep.Range.Start.Format(dates.DateLayout), rep.Range.End.Format(dates.DateLayout), scope))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", rep.GeneratedAt.UTC().Format(time.RFC1123)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range reportColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rep.Rows {
		cells := []string{
			row.Name,
			row.Department,
			fmt.Sprintf("%d", row.Counts.Present),
			fmt.Sprintf("%d", row.Counts.Late),
			fmt.Sprintf("%d", row.Counts.Absent),
			fmt.Sprintf("%d", row.Counts.OnLeave),
			row.Hours.StringFixed(2),
			fmt.Sprintf("%.1f", row.Rate),
		}
		for i, col := range reportColumns {
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Employees: %d    Records: %d    Overall rate: %.1f%%",
		len(rep.Rows), rep.Overall.Total(), rep.Overall.Rate()))

	return pdf.Output(w)
}
