package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

func newAuthFixture(t *testing.T) (*AuthService, *memoryDB) {
	t.Helper()
	db := newMemoryDB()
	svc := NewAuthService(memoryUserRepo{db: db}, nil, nil, AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		RememberExpiry:    72 * time.Hour,
		Issuer:            "eduplatform",
	})
	return svc, db
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Name:        "Siswa Satu",
		Email:       "student@y.com",
		Password:    "rahasia123",
		Role:        models.RoleSiswa,
		Level:       "SMA",
		Institution: "SMA 1",
	}
}

func TestAuthRegister(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()

	info, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, &models.UserInfo{Name: "Siswa Satu", Email: "student@y.com", Role: models.RoleSiswa}, info)

	stored := db.users["student@y.com"]
	assert.NotEqual(t, "rahasia123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("rahasia123")))
	assert.Nil(t, stored.Profile)

	_, err = svc.Register(ctx, validRegistration())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ResultDuplicate, appErr.Result)
	assert.Equal(t, "Email sudah terdaftar.", appErr.Message)
}

func TestAuthRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	req := validRegistration()
	req.Role = "ADMIN"
	_, err := svc.Register(context.Background(), req)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAuthLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "student@y.com", Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, int64(time.Hour.Seconds()), resp.ExpiresIn)
	assert.Equal(t, models.RoleSiswa, resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{Email: "student@y.com", Name: "Siswa Satu", Role: models.RoleSiswa, Institution: "SMA 1"}, claims.Identity())

	remembered, err := svc.Login(ctx, models.LoginRequest{Email: "student@y.com", Password: "rahasia123", Remember: true})
	require.NoError(t, err)
	assert.Equal(t, int64((72 * time.Hour).Seconds()), remembered.ExpiresIn)
}

func TestAuthLoginFailures(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "", Password: "x"})
	assert.Equal(t, "Email dan Password wajib diisi!", appErrors.FromError(err).Message)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ghost@y.com", Password: "x"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ResultNotFound, appErr.Result)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Email belum terdaftar.", appErr.Message)
	assert.Equal(t, http.StatusNotFound, appErrors.ErrNotFound.Status)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "student@y.com", Password: "salah"})
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ResultWrongPassword, appErr.Result)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	db.fail["user.find"] = errors.New("db down")
	_, err = svc.Login(ctx, models.LoginRequest{Email: "student@y.com", Password: "rahasia123"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestAuthValidateTokenRejectsTampering(t *testing.T) {
	svc, _ := newAuthFixture(t)
	token, err := svc.IssueToken(models.Identity{Email: "a@b.com", Role: models.RoleGuru}, time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	other := NewAuthService(nil, nil, nil, AuthConfig{AccessTokenSecret: "different"})
	_, err = other.ValidateToken(token)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &models.JWTClaims{Email: "a@b.com", Role: models.RoleGuru})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthValidateTokenExpired(t *testing.T) {
	svc, _ := newAuthFixture(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.IssueToken(models.Identity{Email: "a@b.com", Role: models.RoleGuru}, time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
