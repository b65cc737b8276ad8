package adapters

import (
	"context"
	"errors"

	"marketplace_backend/internal/feature/auth/usecase"
	"marketplace_backend/internal/platform/identity"
)

// identityProvider はplatform/identityのProviderをusecase.IdentityProviderに
// 適合させるアダプターです。プロバイダー固有のエラーをusecaseのセンチネル
// エラーへ変換します（ドライバーエラーの変換と同じ方針）。
type identityProvider struct {
	provider *identity.Provider
}

var _ usecase.IdentityProvider = (*identityProvider)(nil)

// NewIdentityProvider はidentityProviderの新しいインスタンスを生成します。
func NewIdentityProvider(provider *identity.Provider) *identityProvider {
	return &identityProvider{provider: provider}
}

// SignUp は資格情報を作成します。
func (a *identityProvider) SignUp(ctx context.Context, email, password string, meta usecase.ProviderMetadata) (*usecase.ProviderIdentity, *usecase.Session, error) {
	ident, session, err := a.provider.SignUp(ctx, email, password, identity.Metadata{
		Name:  meta.Name,
		Phone: meta.Phone,
		Role:  meta.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrAlreadyRegistered):
			return nil, nil, usecase.ErrEmailAlreadyRegistered
		case errors.Is(err, identity.ErrWeakPassword):
			return nil, nil, usecase.ErrWeakPassword
		}
		return nil, nil, err
	}
	return toProviderIdentity(ident), toSession(session), nil
}

// SignIn は資格情報を検証します。
func (a *identityProvider) SignIn(ctx context.Context, email, password string) (*usecase.ProviderIdentity, *usecase.Session, error) {
	ident, session, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, nil, usecase.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	return toProviderIdentity(ident), toSession(session), nil
}

// SignOut はセッションを無効化します。
func (a *identityProvider) SignOut(ctx context.Context, token string) error {
	return a.provider.SignOut(ctx, token)
}

// DeleteIdentity は資格情報を削除します。
func (a *identityProvider) DeleteIdentity(ctx context.Context, id string) error {
	return a.provider.DeleteIdentity(ctx, id)
}

func toProviderIdentity(i *identity.Identity) *usecase.ProviderIdentity {
	return &usecase.ProviderIdentity{ID: i.ID, Email: i.Email}
}

func toSession(s *identity.Session) *usecase.Session {
	return &usecase.Session{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		ExpiresAt:   s.ExpiresAt,
	}
}
