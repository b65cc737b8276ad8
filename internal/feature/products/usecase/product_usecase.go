// Package usecase はproductsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"marketplace_backend/internal/feature/products/domain/entity"
)

// 売り手情報が欠落している場合の表示デフォルト値
const (
	unknownSellerName  = "Unknown"
	unknownSellerPhone = "N/A"
)

// ProductRepository は商品エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ProductRepository interface {
	// ListWithSeller は売り手の表示フィールドを結合した全商品を
	// created_atの降順で返します。
	ListWithSeller(ctx context.Context) ([]entity.ProductWithSeller, error)

	// FindWithSeller は売り手の表示フィールドを結合した商品を1件取得します。
	// 商品が存在しない場合、ErrNotFoundを返します。
	FindWithSeller(ctx context.Context, id string) (*entity.ProductWithSeller, error)

	// FindByID は商品行を1件取得します。所有権チェック用です。
	// 商品が存在しない場合、ErrNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.Product, error)

	// Create は新しい商品をストレージに永続化します。
	Create(ctx context.Context, p *entity.Product) error

	// UpdateFields は指定されたカラムのみを更新します。
	UpdateFields(ctx context.Context, id string, fields map[string]any) error

	// Delete は商品行を削除します。復旧パスはありません。
	Delete(ctx context.Context, id string) error
}

// ImageStore は商品画像のアップロードを抽象化します。検証（拡張子・宣言
// コンテントタイプ・サイズ上限）はアダプター側の責務です。
type ImageStore interface {
	// Store は画像を検証・保存し、恒久的な公開URLを返します。
	Store(ctx context.Context, upload ImageUpload) (string, error)
}

// ImageUpload はアップロードされた画像ファイルです。
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateInput は商品作成操作の入力です。Priceはフォーム値のまま受け取り、
// 非負の小数としてパースします。
type CreateInput struct {
	Name        string
	Price       string
	Description string
	Image       *ImageUpload
}

// UpdateInput は部分更新の入力です。nilまたは空のフィールドは従前の値を
// 保持します。
type UpdateInput struct {
	Name        *string
	Price       *string
	Description *string
	Image       *ImageUpload
}

// ProductView はクライアントへ返す商品表現です。
type ProductView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	SellerName  string    `json:"sellerName"`
	SellerPhone string    `json:"sellerPhone"`
	SellerID    string    `json:"sellerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// productUsecase は商品CRUDのビジネスロジックを実装します。
type productUsecase struct {
	products ProductRepository
	images   ImageStore
}

// NewProductUsecase はproductUsecaseの新しいインスタンスを生成します。
func NewProductUsecase(products ProductRepository, images ImageStore) *productUsecase {
	return &productUsecase{products: products, images: images}
}

// List は全商品を新しい順に返します。サーバー側のページネーションや
// フィルタリングは行いません（検索は全件に対するクライアント側の責務）。
func (u *productUsecase) List(ctx context.Context) ([]ProductView, error) {
	rows, err := u.products.ListWithSeller(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row))
	}
	return views, nil
}

// Get は商品を1件返します。
func (u *productUsecase) Get(ctx context.Context, id string) (*ProductView, error) {
	row, err := u.products.FindWithSeller(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toView(*row)
	return &v, nil
}

// Create は新しい商品を登録します。seller_idは検証済みのactorIDのみを使用
// します（クライアント指定は受け付けません）。これが所有権を確立する唯一の
// 操作です。
func (u *productUsecase) Create(ctx context.Context, actorID string, in CreateInput) (*ProductView, error) {
	if in.Name == "" || in.Price == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: name, price, and description are required", ErrInvalidInput)
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	var imageURL *string
	if in.Image != nil {
		url, err := u.images.Store(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	product := &entity.Product{
		Name:        in.Name,
		Price:       price,
		Description: in.Description,
		ImageURL:    imageURL,
		SellerID:    actorID,
	}
	if err := u.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return u.Get(ctx, product.ID)
}

// Update は商品を部分更新します。所有権チェックは変更前に行います
// （チェック・アンド・アクトのため同一商品への並行更新とは競合しますが、
// ストアのlast-writer-winsを受容します）。画像アップロードの失敗は更新全体を
// 中断せず、従前のURLを保持して残りのフィールドを更新します。
func (u *productUsecase) Update(ctx context.Context, actorID, id string, in UpdateInput) (*ProductView, error) {
	existing, err := u.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.SellerID != actorID {
		return nil, ErrForbidden
	}

	imageURL := existing.ImageURL
	if in.Image != nil {
		if url, upErr := u.images.Store(ctx, *in.Image); upErr != nil {
			slog.Warn("product image upload failed, keeping previous image",
				"error", upErr, "product_id", id)
		} else {
			imageURL = &url
		}
	}

	fields := map[string]any{
		"name":        existing.Name,
		"price":       existing.Price,
		"description": existing.Description,
		"image_url":   imageURL,
	}
	if in.Name != nil && *in.Name != "" {
		fields["name"] = *in.Name
	}
	if in.Price != nil && *in.Price != "" {
		price, perr := parsePrice(*in.Price)
		if perr != nil {
			return nil, perr
		}
		fields["price"] = price
	}
	if in.Description != nil && *in.Description != "" {
		fields["description"] = *in.Description
	}

	if err := u.products.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return u.Get(ctx, id)
}

// Delete は商品を削除します。存在・所有権チェックはUpdateと同一です。
func (u *productUsecase) Delete(ctx context.Context, actorID, id string) error {
	existing, err := u.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.SellerID != actorID {
		return ErrForbidden
	}
	return u.products.Delete(ctx, id)
}

// parsePrice はフォーム値を非負の小数としてパースします。
func parsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: price must be a number", ErrInvalidInput)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return price, nil
}

// toView は結合済みの読み取りモデルをクライアント表現へ変換します。
// 売り手情報の欠落はUnknown/N-Aで補います。
func toView(row entity.ProductWithSeller) ProductView {
	v := ProductView{
		ID:          row.ID,
		Name:        row.Name,
		Price:       row.Price,
		Description: row.Description,
		ImageURL:    row.ImageURL,
		SellerName:  unknownSellerName,
		SellerPhone: unknownSellerPhone,
		SellerID:    row.SellerID,
		CreatedAt:   row.CreatedAt,
	}
	if row.SellerName != nil && *row.SellerName != "" {
		v.SellerName = *row.SellerName
	}
	if row.SellerPhone != nil && *row.SellerPhone != "" {
		v.SellerPhone = *row.SellerPhone
	}
	return v
}
