package handler

// --- Request / Response types for the auth endpoints ---

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type registerResponse struct {
	Success             bool   `json:"success"`
	AccountID           string `json:"id"`
	PendingVerification bool   `json:"pending_verification"`
	Message             string `json:"message"`
}

type verifyEmailRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verificationCode" validate:"required,len=6"`
}

type resendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	AccountID string `json:"id"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type uploadImageResponse struct {
	Success   bool   `json:"success"`
	ImagePath string `json:"image"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
