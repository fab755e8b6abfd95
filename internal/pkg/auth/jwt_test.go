package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    exp,
		TokenIssuer: "campuslink.app",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	token, expiresIn, err := svc.GenerateToken(42, "alice@example.edu", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice@example.edu", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "campuslink.app", claims.Issuer)
	assert.NotEmpty(t, claims.ID, "every token carries a unique jti")
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)

	token, _, err := svc.GenerateToken(42, "alice@example.edu", "Alice")
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	minter := newTestJWTService(time.Hour)
	verifier := NewJWTService(JWTConfig{
		SecretKey:   "a-different-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "campuslink.app",
	})

	token, _, err := minter.GenerateToken(42, "alice@example.edu", "Alice")
	require.NoError(t, err)

	_, err = verifier.ValidateAndExtractClaims(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	_, err := svc.ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAndExtractClaims("not.a.token")
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", wantErr: true},
		{name: "missing scheme", header: "abc.def.ghi", wantErr: true},
		{name: "wrong scheme", header: "Basic abc.def.ghi", wantErr: true},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", wantErr: true},
		{name: "scheme only", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}
