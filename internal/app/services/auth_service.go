package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/auth"
	"github.com/campuslink/campuslink/internal/pkg/email"
	"github.com/campuslink/campuslink/internal/pkg/otp"
	"github.com/campuslink/campuslink/internal/pkg/validation"
)

// UserResolver is the slice of the user repository the auth flow needs:
// find-or-create an identity for a verified email.
type UserResolver interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email string) (*models.User, error)
}

// AuthService defines the interface for OTP login operations
type AuthService interface {
	// SendOTP issues a fresh code for the email and reports the
	// verification window in seconds
	SendOTP(ctx context.Context, emailAddr string) (int, error)
	// VerifyOTP redeems a code and returns a signed token for the
	// resolved identity
	VerifyOTP(ctx context.Context, emailAddr, code string) (string, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	otpStore     otp.Store
	emailService email.EmailService
	userRepo     UserResolver
	jwtService   *auth.JWTService
	otpExpiry    time.Duration
	maxAttempts  int
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	otpStore otp.Store,
	emailService email.EmailService,
	userRepo UserResolver,
	jwtService *auth.JWTService,
	otpExpiry time.Duration,
	maxAttempts int,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		otpStore:     otpStore,
		emailService: emailService,
		userRepo:     userRepo,
		jwtService:   jwtService,
		otpExpiry:    otpExpiry,
		maxAttempts:  maxAttempts,
		logger:       logger,
	}
}

// SendOTP generates a code, stores it with the verification window and
// dispatches it by email. A fresh send always replaces the previous record
// for the same address, invalidating any earlier code.
func (s *authServiceImpl) SendOTP(ctx context.Context, emailAddr string) (int, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	if !validation.IsValidEmail(emailAddr) {
		return 0, apperrors.ErrInvalidEmail
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return 0, apperrors.NewUpstreamError("failed to generate code", err)
	}

	rec := otp.Record{
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpExpiry),
		Attempts:  0,
	}

	if err := s.otpStore.Put(ctx, emailAddr, rec, s.otpExpiry); err != nil {
		return 0, apperrors.NewUpstreamError("failed to store code", err)
	}

	if err := s.emailService.SendOTPEmail(emailAddr, code, s.otpExpiry); err != nil {
		return 0, apperrors.NewUpstreamError("failed to send code", err)
	}

	s.logger.Info().Str("email", emailAddr).Msg("OTP issued")

	return int(s.otpExpiry.Seconds()), nil
}

// VerifyOTP walks the record through its verification state machine. The
// code is single-use: consumption is atomic, so a record swept or redeemed
// concurrently behaves exactly like "record not found".
func (s *authServiceImpl) VerifyOTP(ctx context.Context, emailAddr, code string) (string, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	if !validation.IsValidEmail(emailAddr) {
		return "", apperrors.ErrInvalidEmail
	}
	if !validation.IsValidOTPCode(code) {
		return "", apperrors.NewValidationError("otp must be a 6-digit code")
	}

	rec, err := s.otpStore.Get(ctx, emailAddr)
	if err != nil {
		return "", apperrors.NewUpstreamError("failed to read code", err)
	}
	if rec == nil {
		return "", apperrors.ErrOTPNotFound
	}

	now := time.Now()
	if rec.Expired(now) {
		if err := s.otpStore.Delete(ctx, emailAddr); err != nil {
			s.logger.Warn().Err(err).Str("email", emailAddr).Msg("Failed to delete expired OTP record")
		}
		return "", apperrors.ErrOTPExpired
	}

	if rec.Attempts >= s.maxAttempts {
		if err := s.otpStore.Delete(ctx, emailAddr); err != nil {
			s.logger.Warn().Err(err).Str("email", emailAddr).Msg("Failed to delete exhausted OTP record")
		}
		return "", apperrors.ErrOTPAttemptsExceeded
	}

	if code != rec.Code {
		attempts, err := s.otpStore.IncrementAttempts(ctx, emailAddr)
		if err != nil {
			return "", apperrors.NewUpstreamError("failed to record attempt", err)
		}
		s.logger.Info().Str("email", emailAddr).Int("attempts", attempts).Msg("OTP mismatch")
		return "", apperrors.ErrOTPMismatch
	}

	consumed, err := s.otpStore.CompareAndDelete(ctx, emailAddr, code)
	if err != nil {
		return "", apperrors.NewUpstreamError("failed to consume code", err)
	}
	if !consumed {
		// Swept or redeemed between lookup and consumption
		return "", apperrors.ErrOTPNotFound
	}

	user, err := s.resolveUser(ctx, emailAddr)
	if err != nil {
		return "", err
	}

	token, _, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return "", apperrors.NewUpstreamError("failed to mint token", err)
	}

	s.logger.Info().Str("email", emailAddr).Int64("userID", user.ID).Msg("OTP redeemed")

	return token, nil
}

// resolveUser looks up the identity for a verified email, creating a bare
// one on first login. Idempotent: lookup-by-email first, create-if-absent.
func (s *authServiceImpl) resolveUser(ctx context.Context, emailAddr string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, emailAddr)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.NewUpstreamError("failed to resolve identity", err)
	}

	user, err = s.userRepo.Create(ctx, emailAddr)
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to create identity", err)
	}

	return user, nil
}
