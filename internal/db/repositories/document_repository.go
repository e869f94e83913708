package repositories

import (
	"context"

	"gorm.io/gorm"

	"riverbend/portal/internal/constants"
	gormModels "riverbend/portal/internal/models/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *gormModels.Document) error {
	return wrap(r.db.WithContext(ctx).Create(doc).Error, "create document")
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*gormModels.Document, error) {
	var doc gormModels.Document
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, wrap(err, "fetch document")
	}
	return &doc, nil
}

// List returns documents whose access level is in levels, optionally
// narrowed to one category. An empty levels slice matches nothing.
func (r *DocumentRepository) List(ctx context.Context, category string, levels []constants.AccessLevel) ([]gormModels.Document, error) {
	docs := []gormModels.Document{}
	if len(levels) == 0 {
		return docs, nil
	}

	q := r.db.WithContext(ctx).Where("access_level IN ?", levels)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, wrap(err, "list documents")
	}
	return docs, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Document{})
	if res.Error != nil {
		return wrap(res.Error, "delete document")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "delete document")
	}
	return nil
}
