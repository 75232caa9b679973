package salary

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type slipLine struct {
	label  string
	amount decimal.Decimal
}

func renderSlipPDF(companyName string, period time.Time, s *SalaryStructure) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Salary Slip", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Salary Slip for "+period.Format("January 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	name := s.Employee.FullName()
	if name == "" {
		name = s.EmployeeID.String()
	}
	pdf.Cell(0, 7, "Employee: "+name)
	pdf.Ln(6)
	if s.Employee != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Designation: %s    Department: %s", s.Employee.Designation, s.Employee.Department))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, "Effective from: "+s.EffectiveFrom.Format("2006-01-02"))
	pdf.Ln(10)

	writeSection(pdf, "Earnings", []slipLine{
		{"Basic Salary", s.BasicSalary},
		{"HRA", s.HRA},
		{"DA", s.DA},
		{"Medical Allowance", s.MedicalAllowance},
		{"Performance Bonus", s.PerformanceBonus},
		{"Other Allowances", s.OtherAllowances},
	}, slipLine{"Gross Salary", s.GrossSalary})

	writeSection(pdf, "Deductions", []slipLine{
		{"Provident Fund", s.ProvidentFund},
		{"Professional Tax", s.ProfessionalTax},
		{"Income Tax", s.IncomeTax},
		{"Other Deductions", s.OtherDeductions},
	}, slipLine{"Total Deductions", s.TotalDeductions()})

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(120, 9, "Net Salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, s.NetSalary.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, title string, lines []slipLine, total slipLine) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		pdf.CellFormat(120, 7, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, l.amount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 7, total.label, "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, total.amount.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.Ln(6)
}
