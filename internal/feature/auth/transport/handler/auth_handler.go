// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/auth/transport/http/dto"
	"marketplace_backend/internal/feature/auth/usecase"
	"marketplace_backend/internal/platform/identity"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、ユーザービューとセッションを返します。
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、ユーザービューとセッションを返します。
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	// Logout はセッションを無効化します。
	Logout(ctx context.Context, token string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - 必須フィールド欠落時は400を返却
// - ロール不正・重複メール・弱いパスワードは400を返却
// - プロフィール作成失敗（整合性障害）は500を返却
// - 成功時はユーザー＋セッション付きで201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail("All fields are required"))
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), usecase.SignupInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		slog.Warn("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		status, msg := signupError(err)
		c.JSON(status, failWith(msg, err))
		return
	}

	slog.Info("user signup successful", "email", req.Email, "role", req.Role, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.OK("User created successfully", result))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 未登録ユーザーとパスワード誤りは別メッセージで返します（usecaseが判別）。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail("Email and password are required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		status, msg := loginError(err)
		c.JSON(status, failWith(msg, err))
		return
	}

	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.OK("Login successful", result))
}

// Logout はセッション無効化APIエンドポイントを処理します。
// トークンは任意です（未添付の場合、無効化対象はありません）。
func (h *AuthHandler) Logout(c *gin.Context) {
	token := identity.BearerToken(c)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		slog.Warn("logout failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, failWith("Logout failed", err))
		return
	}
	c.JSON(http.StatusOK, api.OK("Logout successful", nil))
}

// signupError はサインアップのエラー種別をHTTPステータスと安定メッセージに対応付けます。
func signupError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, "All fields are required"
	case errors.Is(err, usecase.ErrInvalidRole):
		return http.StatusBadRequest, "Invalid role. Must be buyer or seller"
	case errors.Is(err, usecase.ErrEmailAlreadyRegistered):
		return http.StatusBadRequest, "This email is already registered. Please login instead."
	case errors.Is(err, usecase.ErrWeakPassword):
		return http.StatusBadRequest, "Password must be at least 6 characters long."
	case errors.Is(err, usecase.ErrProfileCreationFailed):
		return http.StatusInternalServerError, "Failed to create user profile. Please try again."
	}
	return http.StatusInternalServerError, "Server error"
}

// loginError はログインのエラー種別をHTTPステータスと安定メッセージに対応付けます。
func loginError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, "Email and password are required"
	case errors.Is(err, usecase.ErrUserNotFound):
		return http.StatusUnauthorized, "User does not exist. Please sign up first."
	case errors.Is(err, usecase.ErrWrongPassword):
		return http.StatusUnauthorized, "Incorrect password. Please try again."
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, usecase.ErrProfileNotFound):
		return http.StatusInternalServerError, "User profile not found. Please contact support."
	}
	return http.StatusInternalServerError, "Server error"
}

// failWith はリリースモード以外でのみ生のエラー詳細を添付します。
func failWith(message string, err error) api.Response {
	if gin.Mode() == gin.ReleaseMode {
		return api.Fail(message)
	}
	return api.FailWithDetail(message, err.Error())
}
