package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library_service/pkg/models"
)

type LibraryRepository interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByName(ctx context.Context, name string) (*models.Library, error)
	// List orders libraries by name, then address.
	List(ctx context.Context, page Page) ([]models.Library, int64, error)
	Create(ctx context.Context, library *models.Library) error
	Delete(ctx context.Context, id uint) error

	// AddBook links a book into the inventory; linking twice is a no-op.
	AddBook(ctx context.Context, libraryID, bookID uint) error
	HasBook(ctx context.Context, libraryID, bookID uint) (bool, error)
	Books(ctx context.Context, libraryID uint, page Page) ([]models.Book, int64, error)
	// Holding lists the libraries whose inventory contains the book.
	Holding(ctx context.Context, bookID uint) ([]models.Library, error)
	RemoveInventory(ctx context.Context, ref Ref) error

	// AddMember links a user to the library; linking twice is a no-op.
	AddMember(ctx context.Context, libraryID, userID uint) error
	MembershipsOf(ctx context.Context, userID uint) ([]models.Library, error)
	Members(ctx context.Context, libraryID uint) ([]models.User, error)
	RemoveMembers(ctx context.Context, ref Ref) error
}

type libraryRepository struct {
	db *gorm.DB
}

func (r *libraryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, &models.Library{}, "name = ?", name)
}

func (r *libraryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.db, &models.Library{}, "email = ?", email)
}

func (r *libraryRepository) FindByName(ctx context.Context, name string) (*models.Library, error) {
	var library models.Library
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&library).Error; err != nil {
		return nil, translate(err)
	}
	return &library, nil
}

func (r *libraryRepository) List(ctx context.Context, page Page) ([]models.Library, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Library{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var libraries []models.Library
	err := page.apply(r.db.WithContext(ctx).Order("name ASC").Order("address ASC")).Find(&libraries).Error
	if err != nil {
		return nil, 0, err
	}
	return libraries, total, nil
}

func (r *libraryRepository) Create(ctx context.Context, library *models.Library) error {
	return translate(r.db.WithContext(ctx).Create(library).Error)
}

func (r *libraryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Library{}, id).Error
}

func (r *libraryRepository) AddBook(ctx context.Context, libraryID, bookID uint) error {
	link := models.LibraryBook{LibraryID: libraryID, BookID: bookID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *libraryRepository) HasBook(ctx context.Context, libraryID, bookID uint) (bool, error) {
	return exists(ctx, r.db, &models.LibraryBook{}, "library_id = ? AND book_id = ?", libraryID, bookID)
}

func (r *libraryRepository) Books(ctx context.Context, libraryID uint, page Page) ([]models.Book, int64, error) {
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Book{}).
			Joins("JOIN library_books ON library_books.book_id = books.id").
			Where("library_books.library_id = ?", libraryID)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var books []models.Book
	if err := page.apply(query().Order("books.title ASC")).Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *libraryRepository) Holding(ctx context.Context, bookID uint) ([]models.Library, error) {
	var libraries []models.Library
	err := r.db.WithContext(ctx).
		Joins("JOIN library_books ON library_books.library_id = libraries.id").
		Where("library_books.book_id = ?", bookID).
		Order("libraries.name ASC").
		Find(&libraries).Error
	return libraries, err
}

func (r *libraryRepository) RemoveInventory(ctx context.Context, ref Ref) error {
	return r.db.WithContext(ctx).Where(ref.where(), ref.ID).Delete(&models.LibraryBook{}).Error
}

func (r *libraryRepository) AddMember(ctx context.Context, libraryID, userID uint) error {
	link := models.LibraryMember{LibraryID: libraryID, UserID: userID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *libraryRepository) MembershipsOf(ctx context.Context, userID uint) ([]models.Library, error) {
	var libraries []models.Library
	err := r.db.WithContext(ctx).
		Joins("JOIN library_members ON library_members.library_id = libraries.id").
		Where("library_members.user_id = ?", userID).
		Order("libraries.name ASC").
		Find(&libraries).Error
	return libraries, err
}

func (r *libraryRepository) Members(ctx context.Context, libraryID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN library_members ON library_members.user_id = users.id").
		Where("library_members.library_id = ?", libraryID).
		Order("users.id ASC").
		Find(&users).Error
	return users, err
}

func (r *libraryRepository) RemoveMembers(ctx context.Context, ref Ref) error {
	return r.db.WithContext(ctx).Where(ref.where(), ref.ID).Delete(&models.LibraryMember{}).Error
}
