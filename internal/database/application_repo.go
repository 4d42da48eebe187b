package database

import (
	"context"
	"errors"

	"github.com/justsurfingit/outreach-tracker/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no live application has the given id.
var ErrNotFound = errors.New("application not found")

type ApplicationRepository struct {
	DB *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

func preloadFounders(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// List returns the user's applications, newest first.
func (r *ApplicationRepository) List(ctx context.Context, userID string) ([]models.Application, error) {
	var apps []models.Application
	q := r.DB.WithContext(ctx).Preload("Founders", preloadFounders).Order("created_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ApplicationRepository) Get(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	err := r.DB.WithContext(ctx).Preload("Founders", preloadFounders).First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	for i := range app.Founders {
		app.Founders[i].Position = i
	}
	return r.DB.WithContext(ctx).Create(app).Error
}

// UpdateColumn writes a single column of one application.
func (r *ApplicationRepository) UpdateColumn(ctx context.Context, id, column string, value any) error {
	res := r.DB.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceFounders swaps the whole founder list in one transaction.
func (r *ApplicationRepository) ReplaceFounders(ctx context.Context, id string, founders []models.Founder) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Application{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Where("application_id = ?", id).Delete(&models.Founder{}).Error; err != nil {
			return err
		}
		if len(founders) == 0 {
			return tx.Model(&models.Application{}).Where("id = ?", id).Update("updated_at", gorm.Expr("NOW()")).Error
		}
		rows := make([]models.Founder, len(founders))
		for i, f := range founders {
			rows[i] = models.Founder{ApplicationID: id, Position: i, Name: f.Name, Email: f.Email, LinkedIn: f.LinkedIn}
		}
		return tx.Create(&rows).Error
	})
}

func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Application{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
