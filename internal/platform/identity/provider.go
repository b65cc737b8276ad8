// Package identity implements the identity provider this service delegates
// authentication to: bcrypt-hashed credentials, HS256 access tokens and
// revocable sessions. Callers treat the issued token as an opaque capability.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// minPasswordLength is the provider's password policy.
const minPasswordLength = 6

// Provider-level errors. The auth feature's adapter translates these into
// usecase sentinels.
var (
	// ErrAlreadyRegistered indicates a credential already exists for the email.
	ErrAlreadyRegistered = errors.New("email is already registered")

	// ErrWeakPassword indicates the password fails the provider policy.
	ErrWeakPassword = errors.New("password must be at least 6 characters long")

	// ErrInvalidCredentials indicates the email/password pair was rejected.
	ErrInvalidCredentials = errors.New("invalid login credentials")

	// ErrInvalidToken indicates the token failed verification or its session
	// has been revoked.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrIdentityNotFound indicates no credential exists for the given id.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrSessionNotFound is returned by SessionStore implementations when a
	// session id is unknown, expired or revoked.
	ErrSessionNotFound = errors.New("session not found")
)

// SessionStore abstracts the revocable session registry. Implementations live
// in platform/session; the interface is defined here, on the consumer side.
type SessionStore interface {
	// Save registers a live session for an identity with the given TTL.
	Save(ctx context.Context, sessionID, identityID string, ttl time.Duration) error

	// Find returns the identity id a live session belongs to.
	// Unknown, expired or revoked sessions yield ErrSessionNotFound.
	Find(ctx context.Context, sessionID string) (string, error)

	// Revoke invalidates a session. Revoking an unknown session is not an error.
	Revoke(ctx context.Context, sessionID string) error
}

// Identity is a resolved, verified identity.
type Identity struct {
	ID    string
	Email string
}

// Metadata is profile data embedded provider-side at signup so the account
// can be recovered if the profile row is ever lost.
type Metadata struct {
	Name  string
	Phone string
	Role  string
}

// Session is the bearer credential issued at signup and login.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   int64
}

// Credential is the GORM model for the provider's credential table.
type Credential struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	// Signup metadata, kept for account recovery.
	Name  string `gorm:"size:255"`
	Phone string `gorm:"size:32"`
	Role  string `gorm:"size:16"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (Credential) TableName() string {
	return "identity_credentials"
}

// Provider issues, verifies and revokes bearer credentials.
type Provider struct {
	db       *gorm.DB
	sessions SessionStore
	secret   []byte
	tokenTTL time.Duration
}

// NewProvider creates a Provider with the given signing secret and token TTL.
func NewProvider(db *gorm.DB, sessions SessionStore, secret string, tokenTTL time.Duration) *Provider {
	return &Provider{
		db:       db,
		sessions: sessions,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// SignUp creates a credential with embedded metadata and issues a session.
func (p *Provider) SignUp(ctx context.Context, email, password string, meta Metadata) (*Identity, *Session, error) {
	if len(password) < minPasswordLength {
		return nil, nil, ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	cred := &Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		Name:         meta.Name,
		Phone:        meta.Phone,
		Role:         meta.Role,
	}
	if err := p.db.WithContext(ctx).Create(cred).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrAlreadyRegistered
		}
		return nil, nil, err
	}

	ident := &Identity{ID: cred.ID, Email: cred.Email}
	session, err := p.issueSession(ctx, ident)
	if err != nil {
		return nil, nil, err
	}
	return ident, session, nil
}

// SignIn verifies the credentials and issues a session.
// A dummy bcrypt comparison runs even for unknown emails so response timing
// does not reveal whether an account exists.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Identity, *Session, error) {
	var cred Credential
	findErr := p.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error

	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // dummy hash
	if findErr == nil {
		passwordHash = cred.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if findErr != nil || compareErr != nil {
		return nil, nil, ErrInvalidCredentials
	}

	ident := &Identity{ID: cred.ID, Email: cred.Email}
	session, err := p.issueSession(ctx, ident)
	if err != nil {
		return nil, nil, err
	}
	return ident, session, nil
}

// SignOut revokes the session embedded in the token. An empty token is a
// no-op: there is nothing to invalidate.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := p.parseToken(token)
	if err != nil {
		return err
	}
	return p.sessions.Revoke(ctx, claims.sessionID)
}

// Verify resolves a bearer token to an identity. The token must carry a valid
// signature and reference a session that has not been revoked.
func (p *Provider) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := p.parseToken(token)
	if err != nil {
		return nil, err
	}

	identityID, err := p.sessions.Find(ctx, claims.sessionID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if identityID != claims.subject {
		return nil, ErrInvalidToken
	}

	return &Identity{ID: claims.subject, Email: claims.email}, nil
}

// DeleteIdentity removes a credential. Used to compensate a failed signup.
func (p *Provider) DeleteIdentity(ctx context.Context, id string) error {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&Credential{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

// tokenClaims are the fields this provider embeds in its access tokens.
type tokenClaims struct {
	subject   string
	email     string
	sessionID string
}

// issueSession mints a signed access token and registers its session.
func (p *Provider) issueSession(ctx context.Context, ident *Identity) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(p.tokenTTL)
	sessionID := uuid.NewString()

	claims := jwt.MapClaims{
		"sub":   ident.ID,
		"email": ident.Email,
		"sid":   sessionID,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := p.sessions.Save(ctx, sessionID, ident.ID, p.tokenTTL); err != nil {
		return nil, fmt.Errorf("failed to register session: %w", err)
	}

	return &Session{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

// parseToken validates the signature and extracts this provider's claims.
func (p *Provider) parseToken(tokenStr string) (*tokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	sid, _ := claims["sid"].(string)
	if sub == "" || sid == "" {
		return nil, ErrInvalidToken
	}

	return &tokenClaims{subject: sub, email: email, sessionID: sid}, nil
}
