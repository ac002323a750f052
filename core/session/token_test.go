package session

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims *TokenClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signToken() failed: %v", err)
	}
	return token
}

func Test_DecodeToken(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Unix()
	raw := signToken(t, &TokenClaims{
		StandardClaims: jwt.StandardClaims{Subject: "u1", ExpiresAt: exp},
		Email:          "asha@test.cd",
		Roles:          []string{"student", "instructor"},
	})

	claims, err := DecodeToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "asha@test.cd", claims.Email)
	assert.Equal(t, []string{"student", "instructor"}, claims.Roles)
	assert.Equal(t, exp, claims.ExpiresAt)

	t.Run("garbage token", func(t *testing.T) {
		_, err := DecodeToken("not.a.token")
		assert.Error(t, err)
	})
}

func Test_TokenClaims_Expired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{name: "future expiry", expiry: now.Add(time.Minute), want: false},
		{name: "past expiry", expiry: now.Add(-time.Minute), want: true},
		{name: "no expiry claim", expiry: time.Time{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &TokenClaims{}
			if !tt.expiry.IsZero() {
				claims.ExpiresAt = tt.expiry.Unix()
			}
			assert.Equal(t, tt.want, claims.Expired())
		})
	}
}
