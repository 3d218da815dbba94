package repository

import (
	"context"

	"storedash/internal/domain/model"
)

type ProductRepository interface {
	// storeIDのストアに属する商品だけ返す。見つからないIDは無視する。画像も含めて返す。
	FindByIDs(ctx context.Context, storeID string, ids []string) ([]model.Product, error)

	// is_archived=true にする（既にtrueでもエラーにしない）
	ArchiveByIDs(ctx context.Context, ids []string) error
}
