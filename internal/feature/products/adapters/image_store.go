// Package adapters はproductsフィーチャーのリポジトリ・ストレージ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"marketplace_backend/internal/feature/products/usecase"
	"marketplace_backend/internal/platform/storage"
)

// maxImageSize は画像アップロードの最大サイズ（5MiB）です。
const maxImageSize = 5 * 1024 * 1024

// 許可する画像形式。拡張子と宣言コンテントタイプの両方が一致する必要があります。
var (
	allowedExtensions = map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
	allowedContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
)

// imageStore はusecase.ImageStoreインターフェースの実装です。
// 検証を通過した画像をタイムスタンプ接頭辞付きのキーで保存します。
type imageStore struct {
	store  *storage.LocalStore
	prefix string
	now    func() time.Time
}

var _ usecase.ImageStore = (*imageStore)(nil)

// NewImageStore はimageStoreの新しいインスタンスを生成します。
func NewImageStore(store *storage.LocalStore) *imageStore {
	return &imageStore{
		store:  store,
		prefix: "products",
		now:    time.Now,
	}
}

// Store は画像を検証・保存し、公開URLを返します。
// - 拡張子と宣言コンテントタイプの両方が許可リストに無い場合はErrUnsupportedMediaType
// - 5MiB超はErrPayloadTooLarge
// - キー衝突（上書きは行わない）はErrStorageConflict
func (s *imageStore) Store(ctx context.Context, up usecase.ImageUpload) (string, error) {
	ext := strings.ToLower(path.Ext(up.Filename))
	if !allowedExtensions[ext] || !allowedContentTypes[strings.ToLower(up.ContentType)] {
		return "", fmt.Errorf("%w: only image files are allowed", usecase.ErrUnsupportedMediaType)
	}
	if len(up.Data) > maxImageSize {
		return "", fmt.Errorf("%w: image exceeds %d bytes", usecase.ErrPayloadTooLarge, maxImageSize)
	}

	// タイムスタンプ接頭辞で衝突耐性を持たせる（元ファイル名は保持）
	key := fmt.Sprintf("%s/%d-%s", s.prefix, s.now().UnixMilli(), path.Base(up.Filename))

	if err := s.store.Put(ctx, key, up.Data); err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return "", usecase.ErrStorageConflict
		}
		return "", err
	}
	return s.store.PublicURL(key), nil
}
