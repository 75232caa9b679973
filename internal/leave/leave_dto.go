package leave

type CreateLeaveRequest struct {
	LeaveType  string  `json:"leave_type" binding:"required,oneof=paid sick unpaid casual"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	Reason     string  `json:"reason" binding:"required,min=10"`
	Attachment *string `json:"attachment" binding:"omitempty,max=1024"`
}

type DecisionRequest struct {
	Comments string `json:"comments" binding:"max=1000"`
}

type ListQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	LeaveType  string `form:"leave_type" binding:"omitempty,oneof=paid sick unpaid casual"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	LeaveType    string  `json:"leave_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	NumberOfDays int     `json:"number_of_days"`
	Reason       string  `json:"reason"`
	Attachment   *string `json:"attachment,omitempty"`
	Status       string  `json:"status"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovedDate *string `json:"approved_date,omitempty"`
	Comments     *string `json:"comments,omitempty"`
	AppliedDate  string  `json:"applied_date"`
}

type BalanceResponse struct {
	EmployeeID  string `json:"employee_id"`
	PaidLeave   int    `json:"paid_leave"`
	SickLeave   int    `json:"sick_leave"`
	UnpaidLeave int    `json:"unpaid_leave"`
}

type ApproveResult struct {
	Leave               LeaveResponse   `json:"leave"`
	UpdatedLeaveBalance BalanceResponse `json:"updated_leave_balance"`
}

const (
	msgLeaveSubmitted = "Leave request submitted successfully"
	msgLeaveApproved  = "Leave approved successfully"
	msgLeaveRejected  = "Leave rejected successfully"
	msgLeaveDeleted   = "Leave request deleted successfully"
)

type LeaveMessageResponse struct {
	Leave   LeaveResponse `json:"leave"`
	Message string        `json:"message"`
}

type ApproveMessageResponse struct {
	Leave               LeaveResponse   `json:"leave"`
	UpdatedLeaveBalance BalanceResponse `json:"updated_leave_balance"`
	Message             string          `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ListResult struct {
	Items []LeaveResponse
	Total int64
	Page  int
	Limit int
}
