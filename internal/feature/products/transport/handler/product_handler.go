// Package handler はproductsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/api"
	"marketplace_backend/internal/feature/products/usecase"
	"marketplace_backend/internal/platform/identity"
)

// ProductUsecase は商品操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ProductUsecase interface {
	List(ctx context.Context) ([]usecase.ProductView, error)
	Get(ctx context.Context, id string) (*usecase.ProductView, error)
	Create(ctx context.Context, actorID string, in usecase.CreateInput) (*usecase.ProductView, error)
	Update(ctx context.Context, actorID, id string, in usecase.UpdateInput) (*usecase.ProductView, error)
	Delete(ctx context.Context, actorID, id string) error
}

// ProductHandler は商品操作のHTTPリクエストを処理します。
type ProductHandler struct {
	products ProductUsecase
}

// NewProductHandler はProductHandlerの新しいインスタンスを生成します。
func NewProductHandler(products ProductUsecase) *ProductHandler {
	return &ProductHandler{products: products}
}

// List は全商品を新しい順で返します。認証不要です。
func (h *ProductHandler) List(c *gin.Context) {
	views, err := h.products.List(c.Request.Context())
	if err != nil {
		slog.Error("product list failed", "error", err)
		c.JSON(http.StatusInternalServerError, failWith("Server error", err))
		return
	}
	c.JSON(http.StatusOK, api.OK("", views))
}

// Get は商品を1件返します。認証不要です。
func (h *ProductHandler) Get(c *gin.Context) {
	view, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.Fail("Product not found"))
			return
		}
		slog.Error("product get failed", "error", err, "product_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, failWith("Server error", err))
		return
	}
	c.JSON(http.StatusOK, api.OK("", view))
}

// Create は商品登録APIエンドポイントを処理します。
//
// エンドポイント: POST /api/products（要認証）
// Content-Type: multipart/form-data
// フィールド: name, price, description, image（任意）
func (h *ProductHandler) Create(c *gin.Context) {
	actorID := c.GetString(identity.ContextUserID)

	image, err := formImage(c)
	if err != nil {
		slog.Warn("画像ファイルの読み込みに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, failWith("Failed to read image file", err))
		return
	}

	view, err := h.products.Create(c.Request.Context(), actorID, usecase.CreateInput{
		Name:        c.PostForm("name"),
		Price:       c.PostForm("price"),
		Description: c.PostForm("description"),
		Image:       image,
	})
	if err != nil {
		slog.Warn("product create failed", "error", err, "seller_id", actorID)
		status, msg := createError(err)
		c.JSON(status, failWith(msg, err))
		return
	}

	slog.Info("product created", "product_id", view.ID, "seller_id", actorID)
	c.JSON(http.StatusCreated, api.OK("Product created successfully", view))
}

// Update は商品の部分更新APIエンドポイントを処理します。
// 未指定のフィールドは従前の値を保持します。
func (h *ProductHandler) Update(c *gin.Context) {
	actorID := c.GetString(identity.ContextUserID)
	id := c.Param("id")

	image, err := formImage(c)
	if err != nil {
		slog.Warn("画像ファイルの読み込みに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, failWith("Failed to read image file", err))
		return
	}

	in := usecase.UpdateInput{Image: image}
	if v, ok := c.GetPostForm("name"); ok {
		in.Name = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		in.Price = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		in.Description = &v
	}

	view, err := h.products.Update(c.Request.Context(), actorID, id, in)
	if err != nil {
		slog.Warn("product update failed", "error", err, "product_id", id, "actor_id", actorID)
		status, msg := mutateError(err, "update")
		c.JSON(status, failWith(msg, err))
		return
	}

	slog.Info("product updated", "product_id", id, "seller_id", actorID)
	c.JSON(http.StatusOK, api.OK("Product updated successfully", view))
}

// Delete は商品削除APIエンドポイントを処理します。削除は即時で復旧パスはありません。
func (h *ProductHandler) Delete(c *gin.Context) {
	actorID := c.GetString(identity.ContextUserID)
	id := c.Param("id")

	if err := h.products.Delete(c.Request.Context(), actorID, id); err != nil {
		slog.Warn("product delete failed", "error", err, "product_id", id, "actor_id", actorID)
		status, msg := mutateError(err, "delete")
		c.JSON(status, failWith(msg, err))
		return
	}

	slog.Info("product deleted", "product_id", id, "seller_id", actorID)
	c.JSON(http.StatusOK, api.OK("Product deleted successfully", nil))
}

// formImage はmultipartフォームから任意の画像ファイルを読み込みます。
// imageフィールドが無い場合はnilを返します。
func formImage(c *gin.Context) (*usecase.ImageUpload, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// フィールド未添付は正常系
		return nil, nil
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &usecase.ImageUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// createError は商品作成のエラー種別をHTTPステータスと安定メッセージに対応付けます。
func createError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, "Name, price, and description are required"
	case errors.Is(err, usecase.ErrUnsupportedMediaType):
		return http.StatusBadRequest, "Only image files are allowed"
	case errors.Is(err, usecase.ErrPayloadTooLarge):
		return http.StatusBadRequest, "Image must be 5MB or smaller"
	case errors.Is(err, usecase.ErrStorageConflict):
		return http.StatusBadRequest, "Failed to upload image"
	}
	return http.StatusInternalServerError, "Server error"
}

// mutateError は更新・削除のエラー種別をHTTPステータスと安定メッセージに対応付けます。
func mutateError(err error, action string) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden, "Not authorized to " + action + " this product"
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, "Price must be a non-negative number"
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
