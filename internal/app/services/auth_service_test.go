package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/auth"
	"github.com/campuslink/campuslink/internal/pkg/otp"
)

// fakeEmailService captures the last code handed to it instead of sending
type fakeEmailService struct {
	lastEmail string
	lastCode  string
	sendErr   error
	sends     int
}

func (f *fakeEmailService) SendOTPEmail(toEmail, code string, _ time.Duration) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.lastEmail = toEmail
	f.lastCode = code
	f.sends++
	return nil
}

// fakeUserResolver is an in-memory find-or-create user store
type fakeUserResolver struct {
	users       map[string]*models.User
	nextID      int64
	createCalls int
}

func newFakeUserResolver() *fakeUserResolver {
	return &fakeUserResolver{users: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserResolver) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserResolver) Create(_ context.Context, email string) (*models.User, error) {
	f.createCalls++
	user := &models.User{ID: f.nextID, Email: email}
	f.nextID++
	f.users[email] = user
	return user, nil
}

type authFixture struct {
	service AuthService
	store   otp.Store
	email   *fakeEmailService
	users   *fakeUserResolver
	jwt     *auth.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	store := otp.NewMemoryStore(time.Hour, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })

	emailSvc := &fakeEmailService{}
	users := newFakeUserResolver()
	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "campuslink.app",
	})

	service := NewAuthService(store, emailSvc, users, jwtSvc, 5*time.Minute, 3, zerolog.Nop())

	return &authFixture{service: service, store: store, email: emailSvc, users: users, jwt: jwtSvc}
}

func TestSendOTPInvalidEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.SendOTP(context.Background(), "not-an-email")
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)
	assert.Equal(t, 0, f.email.sends)
}

func TestSendOTPIssuesCode(t *testing.T) {
	f := newAuthFixture(t)

	expiresIn, err := f.service.SendOTP(context.Background(), "alice@example.edu")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)
	assert.Equal(t, "alice@example.edu", f.email.lastEmail)
	require.Len(t, f.email.lastCode, otp.CodeLength)

	rec, err := f.store.Get(context.Background(), "alice@example.edu")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, f.email.lastCode, rec.Code)
}

func TestSendOTPNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.SendOTP(ctx, "  Alice@Example.EDU ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.edu", f.email.lastEmail)

	token, err := f.service.VerifyOTP(ctx, "alice@example.edu", f.email.lastCode)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestSendOTPEmailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.email.sendErr = errors.New("smtp unreachable")

	_, err := f.service.SendOTP(context.Background(), "alice@example.edu")
	assert.ErrorIs(t, err, apperrors.ErrUpstreamFailure)
}

func TestVerifyOTPHappyPathIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.SendOTP(ctx, "alice@example.edu")
	require.NoError(t, err)

	token, err := f.service.VerifyOTP(ctx, "alice@example.edu", f.email.lastCode)
	require.NoError(t, err)

	claims, err := f.jwt.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.edu", claims.Email)

	// The code was consumed; replaying it behaves like no code was requested
	_, err = f.service.VerifyOTP(ctx, "alice@example.edu", f.email.lastCode)
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
}

func TestVerifyOTPCreatesUserOnFirstLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.SendOTP(ctx, "alice@example.edu")
	require.NoError(t, err)
	_, err = f.service.VerifyOTP(ctx, "alice@example.edu", f.email.lastCode)
	require.NoError(t, err)
	assert.Equal(t, 1, f.users.createCalls)

	firstID := f.users.users["alice@example.edu"].ID

	_, err = f.service.SendOTP(ctx, "alice@example.edu")
	require.NoError(t, err)
	token, err := f.service.VerifyOTP(ctx, "alice@example.edu", f.email.lastCode)
	require.NoError(t, err)

	claims, err := f.jwt.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, firstID, claims.UserID, "the identity is stable across logins")
	assert.Equal(t, 1, f.users.createCalls, "a second login reuses the existing identity")
}

func TestVerifyOTPNoRecord(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.VerifyOTP(context.Background(), "alice@example.edu", "123456")
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
}

func TestVerifyOTPBadCodeFormat(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.VerifyOTP(context.Background(), "alice@example.edu", "12ab56")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestVerifyOTPExpired(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	rec := otp.Record{Code: "123456", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, f.store.Put(ctx, "alice@example.edu", rec, time.Minute))

	_, err := f.service.VerifyOTP(ctx, "alice@example.edu", "123456")
	assert.ErrorIs(t, err, apperrors.ErrOTPExpired)

	// The expired record was removed, not left to linger
	_, err = f.service.VerifyOTP(ctx, "alice@example.edu", "123456")
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
}

func TestVerifyOTPAttemptExhaustion(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.SendOTP(ctx, "alice@example.edu")
	require.NoError(t, err)
	correct := f.email.lastCode
	wrong := "000000"
	if wrong == correct {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		_, err = f.service.VerifyOTP(ctx, "alice@example.edu", wrong)
		assert.ErrorIs(t, err, apperrors.ErrOTPMismatch)
	}

	// Even the correct code is rejected once the attempts are spent
	_, err = f.service.VerifyOTP(ctx, "alice@example.edu", correct)
	assert.ErrorIs(t, err, apperrors.ErrOTPAttemptsExceeded)

	// The exhausted record was deleted on rejection
	_, err = f.service.VerifyOTP(ctx, "alice@example.edu", correct)
	assert.ErrorIs(t, err, apperrors.ErrOTPNotFound)
}

func TestVerifyOTPResendInvalidatesPreviousCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.SendOTP(ctx, "alice@example.edu")
	require.NoError(t, err)
	firstCode := f.email.lastCode

	_, err = f.service.SendOTP(ctx, "alice@example.edu")
	require.NoError(t, err)
	secondCode := f.email.lastCode

	if firstCode != secondCode {
		_, err = f.service.VerifyOTP(ctx, "alice@example.edu", firstCode)
		assert.ErrorIs(t, err, apperrors.ErrOTPMismatch)
	}

	token, err := f.service.VerifyOTP(ctx, "alice@example.edu", secondCode)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
