package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"ecofood/internal/models"
)

type Config struct {
	Secret          string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
}

type Service struct {
	store    Store
	tokens   TokenStore
	notifier Notifier
	remover  OwnedDataRemover
	cfg      Config
	now      func() time.Time
	cost     int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithOwnedDataRemover deletes a company's products along with its account.
func WithOwnedDataRemover(r OwnedDataRemover) Option {
	return func(s *Service) { s.remover = r }
}

func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(store Store, tokens TokenStore, notifier Notifier, cfg Config, opts ...Option) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	s := &Service{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unverified client or company account and sends the
// verification token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.Account, error) {
	in.normalize()
	if err := validate.Struct(in); err != nil {
		return models.Account{}, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return models.Account{}, err
	}
	verifyToken, err := generateToken()
	if err != nil {
		return models.Account{}, err
	}

	now := s.now().UTC()
	expires := now.Add(s.cfg.VerificationTTL)
	a := models.Account{
		Email:           in.Email,
		PasswordHash:    hash,
		Role:            in.Role,
		Name:            in.Name,
		CompanyName:     in.CompanyName,
		LegalName:       in.LegalName,
		TaxID:           in.TaxID,
		Address:         in.Address,
		Commune:         in.Commune,
		Phone:           in.Phone,
		VerifyTokenHash: hashToken(verifyToken),
		VerifyExpiresAt: &expires,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Insert(ctx, &a); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return models.Account{}, err
		}
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}

	if err := s.notifier.SendVerification(ctx, a, verifyToken); err != nil {
		log.Warn().Err(err).Str("account_id", a.ID.Hex()).Msg("verification notice failed")
	}
	log.Info().Str("account_id", a.ID.Hex()).Str("role", string(a.Role)).Msg("account registered")
	return a, nil
}

// CreateAdmin adds an already verified admin.
func (s *Service) CreateAdmin(ctx context.Context, in AdminInput) (models.Account, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return models.Account{}, err
	}
	return s.insertAdmin(ctx, in, false)
}

// SeedAdmin creates the principal admin when no admin exists yet. It is a
// no-op otherwise.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	count, err := s.store.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	in := AdminInput{Email: normalizeEmail(email), Password: password, Name: "Administrador"}
	if err := validate.Struct(in); err != nil {
		return err
	}
	a, err := s.insertAdmin(ctx, in, true)
	if err != nil {
		return err
	}
	log.Info().Str("account_id", a.ID.Hex()).Msg("principal admin seeded")
	return nil
}

func (s *Service) insertAdmin(ctx context.Context, in AdminInput, principal bool) (models.Account, error) {
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return models.Account{}, err
	}
	now := s.now().UTC()
	a := models.Account{
		Email:         in.Email,
		PasswordHash:  hash,
		Role:          models.RoleAdmin,
		EmailVerified: true,
		Principal:     principal,
		Name:          in.Name,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Insert(ctx, &a); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return models.Account{}, err
		}
		return models.Account{}, fmt.Errorf("insert admin: %w", err)
	}
	return a, nil
}

// Login checks credentials and issues an access and a refresh token.
// Unverified accounts are refused after the password matched.
func (s *Service) Login(ctx context.Context, email, password string) (models.Account, Tokens, error) {
	a, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Account{}, Tokens{}, ErrInvalidCredentials
		}
		return models.Account{}, Tokens{}, fmt.Errorf("find account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, Tokens{}, ErrInvalidCredentials
	}
	if !a.EmailVerified {
		return models.Account{}, Tokens{}, ErrEmailNotVerified
	}

	tokens, _, err := s.issueTokens(ctx, a)
	if err != nil {
		return models.Account{}, Tokens{}, err
	}
	return a, tokens, nil
}

// Refresh rotates a refresh token: the presented one is revoked and points
// at its replacement.
func (s *Service) Refresh(ctx context.Context, plain string) (models.Account, Tokens, error) {
	token, err := s.tokens.FindActive(ctx, hashToken(plain))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Account{}, Tokens{}, ErrInvalidToken
		}
		return models.Account{}, Tokens{}, fmt.Errorf("find refresh token: %w", err)
	}
	if s.now().After(token.ExpiresAt) {
		if err := s.tokens.Revoke(ctx, token.ID, nil); err != nil {
			log.Warn().Err(err).Msg("revoke expired refresh token failed")
		}
		return models.Account{}, Tokens{}, ErrTokenExpired
	}

	a, err := s.store.FindByID(ctx, token.AccountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Account{}, Tokens{}, ErrInvalidToken
		}
		return models.Account{}, Tokens{}, fmt.Errorf("find account: %w", err)
	}

	tokens, newID, err := s.issueTokens(ctx, a)
	if err != nil {
		return models.Account{}, Tokens{}, err
	}
	if err := s.tokens.Revoke(ctx, token.ID, &newID); err != nil {
		return models.Account{}, Tokens{}, fmt.Errorf("revoke refresh token: %w", err)
	}
	return a, tokens, nil
}

func (s *Service) Logout(ctx context.Context, plain string) error {
	revoked, err := s.tokens.RevokeByHash(ctx, hashToken(plain))
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if !revoked {
		return ErrInvalidToken
	}
	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, plain string) error {
	a, err := s.store.FindByVerifyToken(ctx, hashToken(plain))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("find account: %w", err)
	}
	if a.VerifyExpiresAt != nil && s.now().After(*a.VerifyExpiresAt) {
		return ErrTokenExpired
	}
	if err := s.store.MarkVerified(ctx, a.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// RequestPasswordReset sends a reset token when the email is known. Unknown
// emails succeed silently.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	a, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find account: %w", err)
	}

	plain, err := generateToken()
	if err != nil {
		return err
	}
	expires := s.now().UTC().Add(s.cfg.VerificationTTL)
	if err := s.store.SetResetToken(ctx, a.ID, hashToken(plain), expires); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if err := s.notifier.SendPasswordReset(ctx, a, plain); err != nil {
		log.Warn().Err(err).Str("account_id", a.ID.Hex()).Msg("password reset notice failed")
	}
	return nil
}

// ResetPassword sets a new password and signs the account out everywhere.
func (s *Service) ResetPassword(ctx context.Context, plain, password string) error {
	if err := validate.Struct(passwordInput{Password: password}); err != nil {
		return err
	}
	a, err := s.store.FindByResetToken(ctx, hashToken(plain))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("find account: %w", err)
	}
	if a.ResetExpiresAt != nil && s.now().After(*a.ResetExpiresAt) {
		return ErrTokenExpired
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.SetPassword(ctx, a.ID, hash, s.now().UTC()); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if err := s.tokens.RevokeAll(ctx, a.ID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	return s.store.FindByID(ctx, id)
}

// List returns accounts of one role, or all accounts for the empty role.
func (s *Service) List(ctx context.Context, role models.Role) ([]models.Account, error) {
	if role != "" && !role.Valid() {
		return nil, ErrUnknownRole
	}
	accounts, err := s.store.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in ProfileInput) (models.Account, error) {
	if err := validate.Struct(in); err != nil {
		return models.Account{}, err
	}
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Account{}, err
	}
	if a.Principal {
		return models.Account{}, ErrProtectedAccount
	}
	return s.store.UpdateProfile(ctx, id, in.profile(), s.now().UTC())
}

// Delete removes an account and its refresh tokens. A company's products
// go with it.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Principal {
		return ErrProtectedAccount
	}
	if a.Role == models.RoleCompany && s.remover != nil {
		removed, err := s.remover.DeleteByOwner(ctx, id)
		if err != nil {
			return fmt.Errorf("delete company products: %w", err)
		}
		log.Info().Str("account_id", id.Hex()).Int64("products", removed).Msg("company products removed")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.tokens.RevokeAll(ctx, id); err != nil {
		log.Warn().Err(err).Str("account_id", id.Hex()).Msg("revoke refresh tokens failed")
	}
	return nil
}

// Authenticate validates an access token against the service clock.
func (s *Service) Authenticate(raw string) (Claims, error) {
	return ParseAccessTokenAt(s.cfg.Secret, raw, s.now())
}

func (s *Service) issueTokens(ctx context.Context, a models.Account) (Tokens, primitive.ObjectID, error) {
	now := s.now()
	access, err := signAccessToken([]byte(s.cfg.Secret), a, now, s.cfg.AccessTTL)
	if err != nil {
		return Tokens{}, primitive.NilObjectID, fmt.Errorf("sign access token: %w", err)
	}
	plain, err := generateToken()
	if err != nil {
		return Tokens{}, primitive.NilObjectID, err
	}

	refresh := models.RefreshToken{
		AccountID: a.ID,
		TokenHash: hashToken(plain),
		ExpiresAt: now.UTC().Add(s.cfg.RefreshTTL),
		CreatedAt: now.UTC(),
	}
	if err := s.tokens.Insert(ctx, &refresh); err != nil {
		return Tokens{}, primitive.NilObjectID, fmt.Errorf("store refresh token: %w", err)
	}
	return Tokens{
		AccessToken:  access,
		RefreshToken: plain,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, refresh.ID, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
