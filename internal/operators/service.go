package operators

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgauth "github.com/anpos/pos-backend/pkg/auth"
	"github.com/anpos/pos-backend/pkg/config"
	"github.com/anpos/pos-backend/pkg/db"
	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/anpos/pos-backend/pkg/enums"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/anpos/pos-backend/pkg/logger"
	"github.com/anpos/pos-backend/pkg/security"
	"github.com/anpos/pos-backend/pkg/types"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	bootstrapPasswordLength   = 16
)

type operatorRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Operator, error)
	Create(ctx context.Context, op *models.Operator) error
	Count(ctx context.Context) (int64, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// Service manages operator accounts and logins.
type Service interface {
	Authenticate(ctx context.Context, username, password string) (*models.Operator, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*models.Operator, error)
	EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig) error
}

// ServiceParams bundles the dependencies required to build an operator service.
type ServiceParams struct {
	Repo        operatorRepository
	JWTConfig   config.JWTConfig
	PasswordCfg config.PasswordConfig
	Logger      *logger.Logger
	Now         func() time.Time
}

type service struct {
	repo   operatorRepository
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	logg   *logger.Logger
	now    func() time.Time
}

// NewService constructs the operator service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("operator repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:   params.Repo,
		jwtCfg: params.JWTConfig,
		pwCfg:  params.PasswordCfg,
		logg:   params.Logger,
		now:    now,
	}, nil
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Authenticate verifies the credentials and stamps the login time.
func (s *service) Authenticate(ctx context.Context, username, password string) (*models.Operator, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	op, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load operator")
	}

	ok, err := security.VerifyPassword(password, op.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, op.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "record login")
	}
	stamp := types.NewTimestamp(now)
	op.LastLoginAt = &stamp

	if security.NeedsRehash(op.PasswordHash, s.pwCfg) {
		s.rehash(ctx, op, password)
	}

	ctx = s.logg.WithOperatorID(ctx, op.Username)
	s.logg.Info(ctx, "operator.login")
	return op, nil
}

func (s *service) rehash(ctx context.Context, op *models.Operator, password string) {
	hash, err := security.HashPassword(password, s.pwCfg)
	if err == nil {
		err = s.repo.UpdatePasswordHash(ctx, op.ID, hash)
	}
	if err != nil {
		ctx = s.logg.WithOperatorID(ctx, op.Username)
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "operator.rehash_failed")
		return
	}
	op.PasswordHash = hash
}

// Login authenticates and mints a bearer token.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	op, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, issuedAt, pkgauth.AccessTokenPayload{
		OperatorID: op.ID,
		Username:   op.Username,
		Role:       op.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResponse{
		Operator:    FromModel(op),
		AccessToken: token,
		ExpiresAt:   issuedAt.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute).UTC(),
	}, nil
}

// Register creates an operator with an Argon2id password hash.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*models.Operator, error) {
	username := NormalizeUsername(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if strings.ContainsAny(username, "_ ") {
		// usernames are embedded in underscore-delimited invoice ids
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username must not contain spaces or underscores")
	}
	if len(req.Password) < 4 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 4 characters")
	}
	if !req.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", req.Role))
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	op := &models.Operator{
		Username:     username,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    types.NewTimestamp(s.now()),
	}
	if err := s.repo.Create(ctx, op); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create operator")
	}

	ctx = s.logg.WithOperatorID(ctx, op.Username)
	ctx = s.logg.WithField(ctx, "role", op.Role)
	s.logg.Info(ctx, "operator.registered")
	return op, nil
}

// EnsureBootstrapAdmin seeds the first admin on an empty terminal. Without a
// configured password a random one is generated and logged once.
func (s *service) EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "count operators")
	}
	if count > 0 {
		return nil
	}

	username := cfg.AdminUsername
	if NormalizeUsername(username) == "" {
		username = "admin"
	}
	password := cfg.AdminPassword
	generated := false
	if password == "" {
		password, err = security.GenerateTempPassword(bootstrapPasswordLength)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate bootstrap password")
		}
		generated = true
	}

	op, err := s.Register(ctx, RegisterRequest{Username: username, Password: password, Role: enums.OperatorRoleAdmin})
	if err != nil {
		return err
	}

	ctx = s.logg.WithOperatorID(ctx, op.Username)
	if generated {
		ctx = s.logg.WithField(ctx, "temporary_password", password)
		s.logg.Warn(ctx, "operator.bootstrap_admin_created")
		return nil
	}
	s.logg.Info(ctx, "operator.bootstrap_admin_created")
	return nil
}
