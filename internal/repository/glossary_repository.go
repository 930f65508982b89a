package repository

import (
	"fmt"

	"gorm.io/gorm"

	"medilexica/internal/model"
)

type GlossaryRepository struct {
	db *gorm.DB
}

func NewGlossaryRepository(db *gorm.DB) *GlossaryRepository {
	return &GlossaryRepository{db: db}
}

func (r *GlossaryRepository) List() ([]model.GlossaryTerm, error) {
	var terms []model.GlossaryTerm
	if err := r.db.Order("term ASC").Find(&terms).Error; err != nil {
		return nil, fmt.Errorf("list glossary terms failed: %w", err)
	}
	return terms, nil
}

func (r *GlossaryRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.GlossaryTerm{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count glossary terms failed: %w", err)
	}
	return count, nil
}

func (r *GlossaryRepository) CreateBatch(terms []model.GlossaryTerm) error {
	if len(terms) == 0 {
		return nil
	}
	if err := r.db.Create(&terms).Error; err != nil {
		return fmt.Errorf("seed glossary terms failed: %w", err)
	}
	return nil
}
