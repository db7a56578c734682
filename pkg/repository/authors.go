package repository

import (
	"context"

	"gorm.io/gorm"

	"library_service/pkg/models"
)

type AuthorRepository interface {
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	FindByNickname(ctx context.Context, nickname string) (*models.Author, error)
	FindByID(ctx context.Context, id uint) (*models.Author, error)
	List(ctx context.Context, page Page) ([]models.Author, int64, error)
	Create(ctx context.Context, author *models.Author) error
	// BooksOf loads the author's books, ordered by title.
	BooksOf(ctx context.Context, authorID uint) ([]models.Book, error)
}

type authorRepository struct {
	db *gorm.DB
}

func (r *authorRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return exists(ctx, r.db, &models.Author{}, "nickname = ?", nickname)
}

func (r *authorRepository) FindByNickname(ctx context.Context, nickname string) (*models.Author, error) {
	var author models.Author
	if err := r.db.WithContext(ctx).Where("nickname = ?", nickname).First(&author).Error; err != nil {
		return nil, translate(err)
	}
	return &author, nil
}

func (r *authorRepository) FindByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	if err := r.db.WithContext(ctx).First(&author, id).Error; err != nil {
		return nil, translate(err)
	}
	return &author, nil
}

func (r *authorRepository) List(ctx context.Context, page Page) ([]models.Author, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Author{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var authors []models.Author
	if err := page.apply(r.db.WithContext(ctx).Order("id ASC")).Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

func (r *authorRepository) Create(ctx context.Context, author *models.Author) error {
	return translate(r.db.WithContext(ctx).Create(author).Error)
}

func (r *authorRepository) BooksOf(ctx context.Context, authorID uint) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("title ASC").Find(&books).Error
	return books, err
}
