package dto

// SendOTPRequest is the body of POST /auth/send-otp
type SendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

// SendOTPResponse reports the verification window in seconds. The code
// itself is never echoed.
type SendOTPResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expiresIn"`
}

// VerifyOTPRequest is the body of POST /auth/verify-otp
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyOTPResponse carries the custom token minted after redemption
type VerifyOTPResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
