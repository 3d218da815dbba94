package repository

import (
	"context"

	"storedash/internal/domain/model"
)

type StoreRepository interface {
	FindByID(ctx context.Context, storeID string) (model.Store, error)

	// オーナーが一致するストアだけ返す（違えばErrNotFound）
	FindByIDAndOwner(ctx context.Context, storeID string, ownerUserID string) (model.Store, error)
}
