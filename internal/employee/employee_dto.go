package employee

type CreateEmployeeRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       string  `json:"phone" binding:"required,max=32"`
	Role        string  `json:"role" binding:"required,oneof=employee hr admin"`
	Designation string  `json:"designation" binding:"required,max=100"`
	Department  string  `json:"department" binding:"required,max=100"`
	JoiningDate string  `json:"joining_date"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	CompanyName string  `json:"company_name" binding:"omitempty,max=255"`
}

// UpdateEmployeeRequest is a partial update; nil fields are left alone.
type UpdateEmployeeRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,min=1,max=32"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Designation *string `json:"designation" binding:"omitempty,max=100"`
	Department  *string `json:"department" binding:"omitempty,max=100"`
	JoiningDate *string `json:"joining_date"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (r UpdateEmployeeRequest) touchesJobFields() bool {
	return r.FirstName != nil || r.LastName != nil || r.Designation != nil ||
		r.Department != nil || r.JoiningDate != nil || r.Status != nil
}

type ListQuery struct {
	Search     string `form:"search" binding:"omitempty,max=100"`
	Department string `form:"department" binding:"omitempty,max=100"`
	Status     string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
}

type LeaveBalanceResponse struct {
	PaidLeave   int `json:"paid_leave"`
	SickLeave   int `json:"sick_leave"`
	UnpaidLeave int `json:"unpaid_leave"`
}

type EmployeeResponse struct {
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	FirstName    string               `json:"first_name"`
	LastName     string               `json:"last_name"`
	FullName     string               `json:"full_name"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	Designation  string               `json:"designation"`
	Department   string               `json:"department"`
	JoiningDate  string               `json:"joining_date"`
	CompanyName  string               `json:"company_name"`
	Address      *string              `json:"address,omitempty"`
	Status       string               `json:"status"`
	LeaveBalance LeaveBalanceResponse `json:"leave_balance"`
}

type EmployeeOption struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type LoginCredentials struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
	Message  string `json:"message"`
}

type CreateEmployeeResult struct {
	Employee         EmployeeResponse `json:"employee"`
	LoginCredentials LoginCredentials `json:"login_credentials"`
}

type ListResult struct {
	Items []EmployeeResponse
	Total int64
	Page  int
	Limit int
}
