package repository

import (
	"context"
	"time"

	"storedash/internal/domain/model"
)

type WebhookEventRepository interface {
	// provider + provider_event_id で無ければ作る。保存済みの行を返す。
	Record(ctx context.Context, event model.WebhookEvent) (model.WebhookEvent, error)

	MarkProcessed(ctx context.Context, provider string, providerEventID string, at time.Time) error

	// processed_atは触らない（再送でもう一度処理させる）
	MarkFailed(ctx context.Context, provider string, providerEventID string, reason string) error
}
