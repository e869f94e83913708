package gorm

import (
	"time"

	"riverbend/portal/internal/constants"
)

type Document struct {
	ID          string                `gorm:"column:id;primaryKey;type:uuid"`
	Title       string                `gorm:"column:title;not null"`
	Description string                `gorm:"column:description"`
	Category    string                `gorm:"column:category;index"`
	AccessLevel constants.AccessLevel `gorm:"column:access_level;type:varchar(16);not null;index"`
	FileName    string                `gorm:"column:file_name;not null"`
	FileURL     string                `gorm:"column:file_url;not null"`
	StoragePath string                `gorm:"column:storage_path;not null"`
	MimeType    string                `gorm:"column:mime_type"`
	SizeBytes   int64                 `gorm:"column:size_bytes"`
	UploadedBy  string                `gorm:"column:uploaded_by;type:uuid"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}

type Announcement struct {
	ID             string             `gorm:"column:id;primaryKey;type:uuid"`
	Title          string             `gorm:"column:title;not null"`
	Body           string             `gorm:"column:body;type:text"`
	TargetAudience constants.Audience `gorm:"column:target_audience;type:varchar(16);not null;index"`
	PublishedAt    *time.Time         `gorm:"column:published_at;index"`
	AuthorID       string             `gorm:"column:author_id;type:uuid"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Announcement) TableName() string {
	return "announcements"
}
