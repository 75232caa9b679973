package attendance

type CheckInRequest struct {
	Remarks *string `json:"remarks" binding:"omitempty,max=500"`
}

type CheckOutRequest struct {
	Remarks *string `json:"remarks" binding:"omitempty,max=500"`
}

type MarkAttendanceRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required"`
	Status     string  `json:"status" binding:"required,oneof=present absent half-day leave"`
	Remarks    *string `json:"remarks" binding:"omitempty,max=500"`
}

type ListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	From       string `form:"from"`
	To         string `form:"to"`
	Status     string `form:"status" binding:"omitempty,oneof=present absent half-day leave"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   string   `json:"employee_name,omitempty"`
	AttendanceDate string   `json:"attendance_date"`
	Status         string   `json:"status"`
	CheckIn        *string  `json:"check_in,omitempty"`
	CheckOut       *string  `json:"check_out,omitempty"`
	WorkHours      *float64 `json:"work_hours,omitempty"`
	Remarks        *string  `json:"remarks,omitempty"`
	MarkedBy       *string  `json:"marked_by,omitempty"`
}

type Summary struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	HalfDay int64 `json:"half_day"`
	Leave   int64 `json:"leave"`
}

type ListResult struct {
	Items   []AttendanceResponse
	Summary Summary
	Total   int64
	Page    int
	Limit   int
}
