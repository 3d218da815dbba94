package repository

import (
	"context"
	"time"

	"storedash/internal/domain/model"
	repo "storedash/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventGormRepository struct {
	db *gorm.DB
}

func NewWebhookEventGormRepository(db *gorm.DB) *WebhookEventGormRepository {
	return &WebhookEventGormRepository{db: db}
}

// 受信記録を残す。再送なら既存行を返す。
func (r *WebhookEventGormRepository) Record(ctx context.Context, event model.WebhookEvent) (model.WebhookEvent, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_event_id"}},
			DoNothing: true,
		}).
		Create(&event).Error
	if err != nil {
		return model.WebhookEvent{}, err
	}

	var stored model.WebhookEvent
	err = r.db.WithContext(ctx).
		Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error
	if err != nil {
		return model.WebhookEvent{}, err
	}
	return stored, nil
}

func (r *WebhookEventGormRepository) MarkProcessed(ctx context.Context, provider string, providerEventID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("provider = ? AND provider_event_id = ?", provider, providerEventID).
		Updates(map[string]interface{}{
			"processed_at":     at,
			"processing_error": "",
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *WebhookEventGormRepository) MarkFailed(ctx context.Context, provider string, providerEventID string, reason string) error {
	return r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("provider = ? AND provider_event_id = ?", provider, providerEventID).
		Update("processing_error", reason).Error
}
