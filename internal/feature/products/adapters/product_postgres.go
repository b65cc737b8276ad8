package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace_backend/internal/feature/products/domain/entity"
	"marketplace_backend/internal/feature/products/usecase"
)

// sellerJoinSelect は商品行に売り手の表示フィールドを結合するSELECT句です。
const sellerJoinSelect = "products.*, users.name AS seller_name, users.phone AS seller_phone"

// productPostgres はProductRepositoryインターフェースのGORM実装です。
type productPostgres struct {
	db *gorm.DB
}

// productPostgresがProductRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ProductRepository = (*productPostgres)(nil)

// NewProductPostgres は指定されたgorm.DB接続でproductPostgresの新しいインスタンスを生成します。
func NewProductPostgres(db *gorm.DB) *productPostgres {
	return &productPostgres{db: db}
}

// ListWithSeller は売り手を結合した全商品をcreated_atの降順で返します。
// 売り手行が存在しない商品も結果に含めます（LEFT JOIN）。
func (r *productPostgres) ListWithSeller(ctx context.Context) ([]entity.ProductWithSeller, error) {
	var rows []entity.ProductWithSeller
	err := r.db.WithContext(ctx).
		Table("products").
		Select(sellerJoinSelect).
		Joins("LEFT JOIN users ON users.id = products.seller_id").
		Order("products.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindWithSeller は売り手を結合した商品を1件取得します。
// 商品が存在しない場合、usecase.ErrNotFoundを返します。
func (r *productPostgres) FindWithSeller(ctx context.Context, id string) (*entity.ProductWithSeller, error) {
	var rows []entity.ProductWithSeller
	err := r.db.WithContext(ctx).
		Table("products").
		Select(sellerJoinSelect).
		Joins("LEFT JOIN users ON users.id = products.seller_id").
		Where("products.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, usecase.ErrNotFound
	}
	return &rows[0], nil
}

// FindByID は商品行を1件取得します。
// 商品が存在しない場合、usecase.ErrNotFoundを返します。
func (r *productPostgres) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create は商品をデータベースに追加します。IDはBeforeCreateフックで採番されます。
func (r *productPostgres) Create(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdateFields は指定されたカラムのみを更新します。
func (r *productPostgres) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

// Delete は商品行を削除します。
func (r *productPostgres) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}
