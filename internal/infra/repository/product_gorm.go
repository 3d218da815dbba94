package repository

import (
	"context"

	"storedash/internal/domain/model"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// IDで商品をまとめて取得（画像付き）。他ストアの商品は返さない。
func (r *ProductGormRepository) FindByIDs(ctx context.Context, storeID string, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc, id asc") }).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Order("created_at asc").Order("id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 売れた商品を一覧から外す
func (r *ProductGormRepository) ArchiveByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id IN ?", ids).
		Update("is_archived", true).Error
}
