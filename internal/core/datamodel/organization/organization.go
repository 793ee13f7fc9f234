package organization

import "time"

type Organization struct {
	ID        int64          `gorm:"primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Domain    string         `gorm:"column:domain;uniqueIndex;not null"`
	Metadata  map[string]any `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
