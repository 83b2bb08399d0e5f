package auth

type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email"`
	UserType     string `json:"userType" binding:"required,oneof=customer worker"`
	WorkCategory string `json:"workCategory"`
	Experience   string `json:"experience"`
}

type LoginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}
