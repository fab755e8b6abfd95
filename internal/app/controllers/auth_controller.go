// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/services"
	"github.com/campuslink/campuslink/internal/middleware"
)

// AuthController handles OTP login operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// SendOTP issues a one-time login code
// @Summary Send a login code
// @Description Generates a 6-digit code for the email and dispatches it. A fresh send invalidates any earlier code for the same address.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SendOTPRequest true "Email to send the code to"
// @Success 200 {object} dto.SendOTPResponse "Code sent; expiresIn is the verification window in seconds"
// @Failure 400 {object} dto.ErrorResponse "Missing or malformed email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/send-otp [post]
func (c *AuthController) SendOTP(ctx *gin.Context) {
	var req dto.SendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("email is required"))
		return
	}

	expiresIn, err := c.authService.SendOTP(ctx.Request.Context(), req.Email)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Failed to send OTP")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SendOTPResponse{
		Message:   "OTP sent successfully",
		ExpiresIn: expiresIn,
	})
}

// VerifyOTP redeems a one-time login code
// @Summary Verify a login code
// @Description Redeems the code for the email and returns a signed token. Codes are single-use with a bounded attempt budget.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Email and code"
// @Success 200 {object} dto.VerifyOTPResponse "Token for the resolved identity"
// @Failure 400 {object} dto.ErrorResponse "Invalid code, expired code or attempt budget exhausted"
// @Failure 404 {object} dto.ErrorResponse "No code requested for this email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/verify-otp [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("email and otp are required"))
		return
	}

	token, err := c.authService.VerifyOTP(ctx.Request.Context(), req.Email, req.OTP)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Failed to verify OTP")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.VerifyOTPResponse{
		Message: "Login successful",
		Token:   token,
	})
}
