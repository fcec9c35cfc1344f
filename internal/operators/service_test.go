package operators

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	pkgauth "github.com/anpos/pos-backend/pkg/auth"
	"github.com/anpos/pos-backend/pkg/config"
	"github.com/anpos/pos-backend/pkg/db/dbtest"
	"github.com/anpos/pos-backend/pkg/enums"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/anpos/pos-backend/pkg/logger"
	"github.com/anpos/pos-backend/pkg/security"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fastPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, out io.Writer) (Service, *Repository) {
	t.Helper()
	if out == nil {
		out = io.Discard
	}
	client := dbtest.NewSQLite(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(ServiceParams{
		Repo:        repo,
		JWTConfig:   config.JWTConfig{Secret: "secret", Issuer: "anpos", ExpirationMinutes: 60},
		PasswordCfg: fastPasswordConfig(),
		Logger:      logger.New(logger.Options{ServiceName: "operators-test", Output: out}),
		Now:         func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return svc, repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()

	op, err := svc.Register(ctx, RegisterRequest{Username: " Maria ", Password: "1234", Role: enums.OperatorRoleCashier})
	require.NoError(t, err)
	assert.Equal(t, "maria", op.Username)
	assert.NotEqual(t, "1234", op.PasswordHash)

	resp, err := svc.Login(ctx, LoginRequest{Username: "MARIA", Password: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "maria", resp.Operator.Username)
	require.NotNil(t, resp.Operator.LastLoginAt)
	assert.Equal(t, "2026-03-14 09:30:00", *resp.Operator.LastLoginAt)
	assert.Equal(t, testNow.Add(time.Hour), resp.ExpiresAt)

	// minted at a fixed instant, so skip expiry checks
	claims := &pkgauth.AccessTokenClaims{}
	_, err = jwt.NewParser(jwt.WithoutClaimsValidation()).ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims.OperatorID)
	assert.Equal(t, enums.OperatorRoleCashier, claims.Role)

	stored, err := repo.FindByUsername(ctx, "maria")
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "juan", Password: "secret", Role: enums.OperatorRoleCashier})
	require.NoError(t, err)

	for _, tc := range []struct{ user, pass string }{
		{"juan", "wrong"},
		{"nobody", "secret"},
		{"", "secret"},
		{"juan", ""},
	} {
		_, err := svc.Authenticate(ctx, tc.user, tc.pass)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err), "%s/%s", tc.user, tc.pass)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	cases := map[string]RegisterRequest{
		"empty username": {Username: " ", Password: "1234", Role: enums.OperatorRoleCashier},
		"underscore":     {Username: "ana_m", Password: "1234", Role: enums.OperatorRoleCashier},
		"short password": {Username: "ana", Password: "12", Role: enums.OperatorRoleCashier},
		"unknown role":   {Username: "ana", Password: "1234", Role: "owner"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, req)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
		})
	}

	_, err := svc.Register(ctx, RegisterRequest{Username: "ana", Password: "1234", Role: enums.OperatorRoleAdmin})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Username: "ANA", Password: "5678", Role: enums.OperatorRoleCashier})
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestAuthenticateRehashesOutdatedHash(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()

	weak := fastPasswordConfig()
	weak.ArgonKeyLen = 16
	hash, err := security.HashPassword("1234", weak)
	require.NoError(t, err)

	op, err := svc.Register(ctx, RegisterRequest{Username: "legacy", Password: "1234", Role: enums.OperatorRoleCashier})
	require.NoError(t, err)
	require.NoError(t, repo.UpdatePasswordHash(ctx, op.ID, hash))

	_, err = svc.Authenticate(ctx, "legacy", "1234")
	require.NoError(t, err)

	stored, err := repo.FindByUsername(ctx, "legacy")
	require.NoError(t, err)
	assert.NotEqual(t, hash, stored.PasswordHash)
	assert.False(t, security.NeedsRehash(stored.PasswordHash, fastPasswordConfig()))
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	var logs bytes.Buffer
	svc, repo := newTestService(t, &logs)
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, config.BootstrapConfig{AdminUsername: "admin"}))
	assert.Contains(t, logs.String(), "temporary_password")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	admin, err := repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, enums.OperatorRoleAdmin, admin.Role)

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, config.BootstrapConfig{AdminUsername: "other", AdminPassword: "pw12"}))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEnsureBootstrapAdminWithConfiguredPassword(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, config.BootstrapConfig{AdminUsername: "boss", AdminPassword: "letmein"}))
	op, err := svc.Authenticate(ctx, "boss", "letmein")
	require.NoError(t, err)
	assert.Equal(t, enums.OperatorRoleAdmin, op.Role)
}
