package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SalaryStructure struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID       uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_salary_employee"`
	BasicSalary      decimal.Decimal `gorm:"column:basic_salary;type:numeric(12,2);not null"`
	HRA              decimal.Decimal `gorm:"column:hra;type:numeric(12,2);not null;default:0"`
	DA               decimal.Decimal `gorm:"column:da;type:numeric(12,2);not null;default:0"`
	MedicalAllowance decimal.Decimal `gorm:"column:medical_allowance;type:numeric(12,2);not null;default:0"`
	PerformanceBonus decimal.Decimal `gorm:"column:performance_bonus;type:numeric(12,2);not null;default:0"`
	OtherAllowances  decimal.Decimal `gorm:"column:other_allowances;type:numeric(12,2);not null;default:0"`
	ProvidentFund    decimal.Decimal `gorm:"column:provident_fund;type:numeric(12,2);not null;default:0"`
	ProfessionalTax  decimal.Decimal `gorm:"column:professional_tax;type:numeric(12,2);not null;default:0"`
	IncomeTax        decimal.Decimal `gorm:"column:income_tax;type:numeric(12,2);not null;default:0"`
	OtherDeductions  decimal.Decimal `gorm:"column:other_deductions;type:numeric(12,2);not null;default:0"`
	GrossSalary      decimal.Decimal `gorm:"column:gross_salary;type:numeric(12,2);not null"`
	NetSalary        decimal.Decimal `gorm:"column:net_salary;type:numeric(12,2);not null"`
	EffectiveFrom    time.Time       `gorm:"column:effective_from;type:date;not null"`
	LastUpdatedBy    *uuid.UUID      `gorm:"column:last_updated_by;type:uuid"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
	Employee         *EmployeeRef    `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (SalaryStructure) TableName() string {
	return "salary_structures"
}

type EmployeeRef struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName   string    `gorm:"column:first_name"`
	LastName    string    `gorm:"column:last_name"`
	Designation string    `gorm:"column:designation"`
	Department  string    `gorm:"column:department"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func (e *EmployeeRef) FullName() string {
	if e == nil {
		return ""
	}
	if e.FirstName == e.LastName {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

func (s *SalaryStructure) TotalAllowances() decimal.Decimal {
	return decimal.Sum(s.BasicSalary, s.HRA, s.DA, s.MedicalAllowance, s.PerformanceBonus, s.OtherAllowances)
}

func (s *SalaryStructure) TotalDeductions() decimal.Decimal {
	return decimal.Sum(s.ProvidentFund, s.ProfessionalTax, s.IncomeTax, s.OtherDeductions)
}

// Recompute refreshes gross and net from the components. It must run
// before every save.
func (s *SalaryStructure) Recompute() {
	s.GrossSalary = s.TotalAllowances()
	s.NetSalary = s.GrossSalary.Sub(s.TotalDeductions())
}

func (s *SalaryStructure) amounts() []decimal.Decimal {
	return []decimal.Decimal{
		s.BasicSalary, s.HRA, s.DA, s.MedicalAllowance, s.PerformanceBonus, s.OtherAllowances,
		s.ProvidentFund, s.ProfessionalTax, s.IncomeTax, s.OtherDeductions,
	}
}

func (s *SalaryStructure) hasNegative() bool {
	for _, v := range s.amounts() {
		if v.IsNegative() {
			return true
		}
	}
	return false
}

// apply merges the provided fields and leaves the rest untouched.
func (s *SalaryStructure) apply(c *Components, d *Deductions) {
	if c != nil {
		set(&s.BasicSalary, c.BasicSalary)
		set(&s.HRA, c.HRA)
		set(&s.DA, c.DA)
		set(&s.MedicalAllowance, c.MedicalAllowance)
		set(&s.PerformanceBonus, c.PerformanceBonus)
		set(&s.OtherAllowances, c.OtherAllowances)
	}
	if d != nil {
		set(&s.ProvidentFund, d.ProvidentFund)
		set(&s.ProfessionalTax, d.ProfessionalTax)
		set(&s.IncomeTax, d.IncomeTax)
		set(&s.OtherDeductions, d.OtherDeductions)
	}
}

func set(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}
