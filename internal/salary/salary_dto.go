package salary

import "github.com/shopspring/decimal"

type Components struct {
	BasicSalary      *decimal.Decimal `json:"basic_salary"`
	HRA              *decimal.Decimal `json:"hra"`
	DA               *decimal.Decimal `json:"da"`
	MedicalAllowance *decimal.Decimal `json:"medical_allowance"`
	PerformanceBonus *decimal.Decimal `json:"performance_bonus"`
	OtherAllowances  *decimal.Decimal `json:"other_allowances"`
}

type Deductions struct {
	ProvidentFund   *decimal.Decimal `json:"provident_fund"`
	ProfessionalTax *decimal.Decimal `json:"professional_tax"`
	IncomeTax       *decimal.Decimal `json:"income_tax"`
	OtherDeductions *decimal.Decimal `json:"other_deductions"`
}

type CreateSalaryRequest struct {
	EmployeeID      string      `json:"employee_id" binding:"required,uuid"`
	SalaryStructure *Components `json:"salary_structure" binding:"required"`
	Deductions      *Deductions `json:"deductions"`
	EffectiveFrom   string      `json:"effective_from"`
}

type UpdateSalaryRequest struct {
	SalaryStructure *Components `json:"salary_structure"`
	Deductions      *Deductions `json:"deductions"`
}

type ComponentsResponse struct {
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	HRA              decimal.Decimal `json:"hra"`
	DA               decimal.Decimal `json:"da"`
	MedicalAllowance decimal.Decimal `json:"medical_allowance"`
	PerformanceBonus decimal.Decimal `json:"performance_bonus"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
}

type DeductionsResponse struct {
	ProvidentFund   decimal.Decimal `json:"provident_fund"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
}

type SalaryResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employee_id"`
	EmployeeName    string             `json:"employee_name,omitempty"`
	SalaryStructure ComponentsResponse `json:"salary_structure"`
	Deductions      DeductionsResponse `json:"deductions"`
	TotalAllowances decimal.Decimal    `json:"total_allowances"`
	TotalDeductions decimal.Decimal    `json:"total_deductions"`
	GrossSalary     decimal.Decimal    `json:"gross_salary"`
	NetSalary       decimal.Decimal    `json:"net_salary"`
	EffectiveFrom   string             `json:"effective_from"`
	LastUpdatedBy   *string            `json:"last_updated_by,omitempty"`
}

type SlipFile struct {
	FileName string
	Content  []byte
}
