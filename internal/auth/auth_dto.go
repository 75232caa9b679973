package auth

// LoginRequest accepts either the generated login id or the email address.
type LoginRequest struct {
	Identifier string `json:"login_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

type AuthResponse struct {
	ID                     string `json:"id"`
	EmployeeID             string `json:"employee_id,omitempty"`
	LoginID                string `json:"login_id"`
	Email                  string `json:"email"`
	Role                   string `json:"role"`
	PasswordChangeRequired bool   `json:"password_change_required"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
