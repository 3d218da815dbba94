package repository

import (
	"context"

	"storedash/internal/domain/model"
)

type UserRepository interface {
	// 見つからなければ nil, nil
	FindByID(ctx context.Context, userID string) (*model.User, error)

	// 無ければ作る。既にあれば上書きせずに既存を返す。
	FindOrCreate(ctx context.Context, user model.User) (model.User, error)
}
