// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"marketplace_backend/internal/feature/auth/domain/entity"
)

// Session はアイデンティティプロバイダーが発行したセッショントークンです。
// この層ではトークンの内部構造を解釈せず、不透明な資格情報として扱います。
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// ProviderIdentity はプロバイダーが解決したアイデンティティです。
type ProviderIdentity struct {
	ID    string
	Email string
}

// ProviderMetadata はプロバイダー側に埋め込むプロフィールメタデータです。
// プロフィール行が失われた場合の復旧用に署名アップ時に保存します。
type ProviderMetadata struct {
	Name  string
	Phone string
	Role  string
}

// IdentityProvider は外部アイデンティティプロバイダーを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/identity）では
// なくコンシューマー（usecase）が定義します。実装はプロバイダー固有の
// エラーを本パッケージのセンチネルエラーに変換して返します。
type IdentityProvider interface {
	// SignUp は新しい資格情報を作成し、アイデンティティとセッションを返します。
	SignUp(ctx context.Context, email, password string, meta ProviderMetadata) (*ProviderIdentity, *Session, error)

	// SignIn は資格情報を検証し、アイデンティティとセッションを返します。
	SignIn(ctx context.Context, email, password string) (*ProviderIdentity, *Session, error)

	// SignOut はトークンに紐づくセッションを無効化します。
	SignOut(ctx context.Context, token string) error

	// DeleteIdentity は資格情報を削除します。サインアップ補償処理用です。
	DeleteIdentity(ctx context.Context, id string) error
}

// UserRepository はユーザープロフィール行の永続化層を抽象化します。
type UserRepository interface {
	// Create は新しいプロフィール行をストレージに永続化します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するプロフィール行を取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するプロフィール行を取得します。
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// UserView はクライアントへ返すユーザー表現です。
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// AuthResult はサインアップ・ログイン成功時の結果です。
type AuthResult struct {
	User    UserView `json:"user"`
	Session *Session `json:"session"`
}

// SignupInput はサインアップ操作の入力です。
type SignupInput struct {
	Name     string
	Phone    string
	Email    string
	Password string
	Role     string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	provider IdentityProvider
	users    UserRepository
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(provider IdentityProvider, users UserRepository) *authUsecase {
	return &authUsecase{provider: provider, users: users}
}

// Signup は新規ユーザーを登録します。
// 入力検証はプロバイダー呼び出しの前に行います。資格情報作成後にプロフィール
// 行の挿入が失敗した場合、孤立した認証専用アカウントを防ぐため、作成済みの
// 資格情報をベストエフォートで削除します（補償処理の失敗はログのみ）。
func (u *authUsecase) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if in.Name == "" || in.Phone == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: must be buyer or seller", ErrInvalidRole)
	}

	ident, session, err := u.provider.SignUp(ctx, in.Email, in.Password, ProviderMetadata{
		Name:  in.Name,
		Phone: in.Phone,
		Role:  in.Role,
	})
	if err != nil {
		// プロバイダーアダプターが既にセンチネルエラーへ変換済み
		if errors.Is(err, ErrEmailAlreadyRegistered) || errors.Is(err, ErrWeakPassword) {
			return nil, err
		}
		return nil, fmt.Errorf("identity provider signup failed: %w", err)
	}

	user := &entity.User{
		ID:    ident.ID,
		Name:  in.Name,
		Phone: in.Phone,
		Email: in.Email,
		Role:  in.Role,
	}
	if err := u.users.Create(ctx, user); err != nil {
		slog.Error("profile creation failed, compensating", "error", err, "identity_id", ident.ID)
		if delErr := u.provider.DeleteIdentity(ctx, ident.ID); delErr != nil {
			// 補償処理の失敗は元のエラーを隠さないよう、ログのみに留める
			slog.Error("failed to delete orphaned credential", "error", delErr, "identity_id", ident.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrProfileCreationFailed, err)
	}

	return &AuthResult{
		User: UserView{
			ID:    ident.ID,
			Email: ident.Email,
			Name:  in.Name,
			Phone: in.Phone,
			Role:  in.Role,
		},
		Session: session,
	}, nil
}

// Login はユーザーを認証し、プロフィール付きの結果を返します。
// プロバイダーが資格情報を拒否した場合、メールアドレスのプロフィール行の
// 有無で「未登録ユーザー」と「パスワード誤り」を区別します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	ident, session, err := u.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if _, findErr := u.users.FindByEmail(ctx, email); errors.Is(findErr, ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	profile, err := u.users.FindByID(ctx, ident.ID)
	if err != nil {
		// 認証済みアイデンティティにプロフィール行が無いのは整合性障害
		slog.Error("authenticated identity has no profile row", "identity_id", ident.ID, "error", err)
		return nil, ErrProfileNotFound
	}

	return &AuthResult{
		User: UserView{
			ID:    profile.ID,
			Email: ident.Email,
			Name:  profile.Name,
			Phone: profile.Phone,
			Role:  profile.Role,
		},
		Session: session,
	}, nil
}

// Logout はプロバイダーにセッションの無効化を委譲します。
func (u *authUsecase) Logout(ctx context.Context, token string) error {
	if err := u.provider.SignOut(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrLogoutFailed, err)
	}
	return nil
}
