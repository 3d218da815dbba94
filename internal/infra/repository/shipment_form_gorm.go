package repository

import (
	"context"
	"errors"

	"storedash/internal/domain/model"
	repo "storedash/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShipmentFormGormRepository struct {
	db *gorm.DB
}

func NewShipmentFormGormRepository(db *gorm.DB) *ShipmentFormGormRepository {
	return &ShipmentFormGormRepository{db: db}
}

func (r *ShipmentFormGormRepository) Create(ctx context.Context, form model.ShipmentForm) (model.ShipmentForm, error) {
	err := r.db.WithContext(ctx).Create(&form).Error
	//TranslateErrorを有効にしているのでドライバ差は吸収される
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ShipmentForm{}, repo.ErrConflict
	}
	if err != nil {
		return model.ShipmentForm{}, err
	}
	return form, nil
}

func (r *ShipmentFormGormRepository) CreateIfAbsentForOrder(ctx context.Context, form model.ShipmentForm) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, DoNothing: true}).
		Create(&form)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ShipmentFormGormRepository) FindByOrderID(ctx context.Context, orderID string) (model.ShipmentForm, error) {
	var f model.ShipmentForm
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShipmentForm{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShipmentForm{}, err
	}
	return f, nil
}
