package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/internal/mail"
	"github.com/scraperite/storefront-backend/internal/resellers"
	"github.com/scraperite/storefront-backend/internal/users"
	pkgauth "github.com/scraperite/storefront-backend/pkg/auth"
	"github.com/scraperite/storefront-backend/pkg/auth/session"
	"github.com/scraperite/storefront-backend/pkg/config"
	"github.com/scraperite/storefront-backend/pkg/db"
	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/logger"
	"github.com/scraperite/storefront-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	emailExistsMessage        = "an account with this email already exists; use password reset to regain access"

	resetTokenLength = 48
	resetTokenTTL    = time.Hour
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type resetTokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	PasswordResetKey(token string) string
}

type mailSender interface {
	Send(ctx context.Context, msg mail.Message) mail.Result
}

// Service implements reseller signup, login, token refresh, and password reset.
type Service struct {
	users       users.Repository
	profiles    resellers.Repository
	tx          txRunner
	session     sessionManager
	resetTokens resetTokenStore
	mailer      mailSender
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	siteURL     string
	fromName    string
	logg        *logger.Logger
}

type ServiceParams struct {
	UserRepo          users.Repository
	ProfileRepo       resellers.Repository
	TransactionRunner txRunner
	SessionManager    sessionManager
	ResetTokenStore   resetTokenStore
	Mailer            mailSender
	JWTConfig         config.JWTConfig
	PasswordConfig    config.PasswordConfig
	AppConfig         config.AppConfig
	MailConfig        config.MailConfig
	Logger            *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.TransactionRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.ResetTokenStore == nil {
		return nil, fmt.Errorf("reset token store is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		users:       params.UserRepo,
		profiles:    params.ProfileRepo,
		tx:          params.TransactionRunner,
		session:     params.SessionManager,
		resetTokens: params.ResetTokenStore,
		mailer:      params.Mailer,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		siteURL:     strings.TrimRight(params.AppConfig.SiteURL, "/"),
		fromName:    params.MailConfig.FromName,
		logg:        params.Logger,
	}, nil
}

// Register creates the identity and its pending reseller profile in one
// transaction. An existing email is rejected with a pointer to password reset
// rather than silently succeeding.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if policyErrs := security.CheckPasswordPolicy(req.Password); !policyErrs.OK() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password does not meet requirements").
			WithDetails(policyErrs)
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	profile := &models.ResellerProfile{
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		VATNumber:    req.VATNumber,
		BusinessType: req.BusinessType,
		Status:       enums.ResellerStatusPending,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.users.WithTx(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		profile.UserID = created.ID
		_, err = s.profiles.WithTx(tx).Create(ctx, profile)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, emailExistsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "reseller account registered")

	return &RegisterResponse{
		User:    users.FromModel(user),
		Profile: resellers.NewProfileView(profile),
	}, nil
}

// Login authenticates the user and issues an access/refresh token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Refresh rotates the refresh session and issues a fresh token pair.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the refresh session tied to the presented access token.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

// RequestPasswordReset emails a one-time reset link. Unknown emails succeed
// silently so the endpoint cannot be used to enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	token, err := security.GenerateToken(resetTokenLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}

	key := s.resetTokens.PasswordResetKey(token)
	if err := s.resetTokens.Set(ctx, key, user.ID.String(), resetTokenTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}

	lang := enums.Language(req.Lang).OrDefault()
	link := fmt.Sprintf("%s/%s/reset-password?token=%s", s.siteURL, lang, token)
	subject, html, text := resetEmailContent(lang, link)

	result := s.mailer.Send(ctx, mail.Message{
		To:       user.Email,
		Subject:  subject,
		HTML:     html,
		Text:     text,
		FromName: s.fromName,
	})
	if !result.Success {
		return pkgerrors.New(pkgerrors.CodeDependency, "reset email could not be delivered")
	}
	return nil
}

// UpdatePassword consumes a reset token and replaces the stored hash.
func (s *Service) UpdatePassword(ctx context.Context, req PasswordUpdateRequest) error {
	if policyErrs := security.CheckPasswordPolicy(req.Password); !policyErrs.OK() {
		return pkgerrors.New(pkgerrors.CodeValidation, "password does not meet requirements").
			WithDetails(policyErrs)
	}

	key := s.resetTokens.PasswordResetKey(req.Token)
	stored, err := s.resetTokens.Get(ctx, key)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "reset token is invalid or expired")
	}
	userID, err := uuid.Parse(stored)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse reset token subject")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}

	// one-time use
	if err := s.resetTokens.Del(ctx, key); err != nil {
		s.logg.Warn(ctx, "failed to delete consumed reset token")
	}
	return nil
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func resetEmailContent(lang enums.Language, link string) (subject, html, text string) {
	if lang == enums.LanguageSwedish {
		subject = "Återställ ditt lösenord"
		html = fmt.Sprintf(`<p>Klicka på länken för att välja ett nytt lösenord:</p><p><a href="%s">%s</a></p><p>Länken är giltig i en timme.</p>`, link, link)
		text = "Återställ ditt lösenord: " + link
		return subject, html, text
	}
	subject = "Reset your password"
	html = fmt.Sprintf(`<p>Click the link below to choose a new password:</p><p><a href="%s">%s</a></p><p>The link is valid for one hour.</p>`, link, link)
	text = "Reset your password: " + link
	return subject, html, text
}
