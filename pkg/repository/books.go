package repository

import (
	"context"

	"gorm.io/gorm"

	"library_service/pkg/models"
)

type BookRepository interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	FindByTitle(ctx context.Context, title string) (*models.Book, error)
	FindByID(ctx context.Context, id uint) (*models.Book, error)
	List(ctx context.Context, page Page) ([]models.Book, int64, error)
	Create(ctx context.Context, book *models.Book) error
	Save(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
}

type bookRepository struct {
	db *gorm.DB
}

func (r *bookRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return exists(ctx, r.db, &models.Book{}, "title = ?", title)
}

func (r *bookRepository) FindByTitle(ctx context.Context, title string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&book).Error; err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, page Page) ([]models.Book, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var books []models.Book
	if err := page.apply(r.db.WithContext(ctx).Order("id ASC")).Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return translate(r.db.WithContext(ctx).Create(book).Error)
}

func (r *bookRepository) Save(ctx context.Context, book *models.Book) error {
	return translate(r.db.WithContext(ctx).Save(book).Error)
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Book{}, id).Error
}
