package db

import (
	"storedash/internal/domain/model"

	"gorm.io/gorm"
)

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Store{},
		&model.User{},
		&model.Product{},
		&model.Image{},
		&model.Order{},
		&model.OrderItem{},
		&model.ShipmentForm{},
		&model.AuditLog{},
		&model.WebhookEvent{},
	)
}
