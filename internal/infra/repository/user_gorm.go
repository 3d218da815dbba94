package repository

import (
	"context"
	"errors"

	"storedash/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// IDでユーザーを1件取得
func (r *UserGormRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}

// 無ければ作る。同時に作られてもON CONFLICTで既存側が残る。
func (r *UserGormRepository) FindOrCreate(ctx context.Context, user model.User) (model.User, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&user).Error
	if err != nil {
		return model.User{}, err
	}

	//作れなかった場合も含めて保存済みの値を読む
	var stored model.User
	if err := r.db.WithContext(ctx).Where("id = ?", user.ID).First(&stored).Error; err != nil {
		return model.User{}, err
	}
	return stored, nil
}
