package repository

import (
	"context"

	"gorm.io/gorm"

	"library_service/pkg/models"
)

// Ref selects join or lending rows by one of their foreign keys.
type Ref struct {
	column string
	ID     uint
}

func ByUser(id uint) Ref    { return Ref{column: "user_id", ID: id} }
func ByBook(id uint) Ref    { return Ref{column: "book_id", ID: id} }
func ByLibrary(id uint) Ref { return Ref{column: "library_id", ID: id} }

func (r Ref) where() string {
	return r.column + " = ?"
}

// LendingRepository persists holds, loans and penalties. A copy is identified
// by the (book, library) pair.
type LendingRepository interface {
	FindReservation(ctx context.Context, bookID, libraryID uint) (*models.Reserved, error)
	CreateReservation(ctx context.Context, r *models.Reserved) error
	DeleteReservation(ctx context.Context, id uint) error
	DeleteReservations(ctx context.Context, ref Ref) error
	ListReservations(ctx context.Context, ref Ref) ([]models.Reserved, error)

	FindLoan(ctx context.Context, bookID, libraryID uint) (*models.Borrowed, error)
	CreateLoan(ctx context.Context, b *models.Borrowed) error
	DeleteLoan(ctx context.Context, id uint) error
	CountLoans(ctx context.Context, ref Ref) (int64, error)
	ListLoans(ctx context.Context, ref Ref) ([]models.Borrowed, error)

	CreatePenalty(ctx context.Context, p *models.BookPenalty) error
	// ListPenalties pages through penalties, newest return first. A nil ref lists all.
	ListPenalties(ctx context.Context, ref *Ref, page Page) ([]models.BookPenalty, int64, error)
}

type lendingRepository struct {
	db *gorm.DB
}

func (r *lendingRepository) FindReservation(ctx context.Context, bookID, libraryID uint) (*models.Reserved, error) {
	var reserved models.Reserved
	err := r.db.WithContext(ctx).Where("book_id = ? AND library_id = ?", bookID, libraryID).First(&reserved).Error
	if err != nil {
		return nil, translate(err)
	}
	return &reserved, nil
}

func (r *lendingRepository) CreateReservation(ctx context.Context, reserved *models.Reserved) error {
	return translate(r.db.WithContext(ctx).Create(reserved).Error)
}

func (r *lendingRepository) DeleteReservation(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Reserved{}, id).Error
}

func (r *lendingRepository) DeleteReservations(ctx context.Context, ref Ref) error {
	return r.db.WithContext(ctx).Where(ref.where(), ref.ID).Delete(&models.Reserved{}).Error
}

func (r *lendingRepository) ListReservations(ctx context.Context, ref Ref) ([]models.Reserved, error) {
	var reserved []models.Reserved
	err := r.db.WithContext(ctx).Where(ref.where(), ref.ID).Order("due_date ASC").Find(&reserved).Error
	return reserved, err
}

func (r *lendingRepository) FindLoan(ctx context.Context, bookID, libraryID uint) (*models.Borrowed, error) {
	var borrowed models.Borrowed
	err := r.db.WithContext(ctx).Where("book_id = ? AND library_id = ?", bookID, libraryID).First(&borrowed).Error
	if err != nil {
		return nil, translate(err)
	}
	return &borrowed, nil
}

func (r *lendingRepository) CreateLoan(ctx context.Context, borrowed *models.Borrowed) error {
	return translate(r.db.WithContext(ctx).Create(borrowed).Error)
}

func (r *lendingRepository) DeleteLoan(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Borrowed{}, id).Error
}

func (r *lendingRepository) CountLoans(ctx context.Context, ref Ref) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Borrowed{}).Where(ref.where(), ref.ID).Count(&count).Error
	return count, err
}

func (r *lendingRepository) ListLoans(ctx context.Context, ref Ref) ([]models.Borrowed, error) {
	var borrowed []models.Borrowed
	err := r.db.WithContext(ctx).Where(ref.where(), ref.ID).Order("due_date ASC").Find(&borrowed).Error
	return borrowed, err
}

func (r *lendingRepository) CreatePenalty(ctx context.Context, p *models.BookPenalty) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *lendingRepository) ListPenalties(ctx context.Context, ref *Ref, page Page) ([]models.BookPenalty, int64, error) {
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.BookPenalty{})
		if ref != nil {
			q = q.Where(ref.where(), ref.ID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var penalties []models.BookPenalty
	if err := page.apply(query().Order("return_date DESC").Order("id DESC")).Find(&penalties).Error; err != nil {
		return nil, 0, err
	}
	return penalties, total, nil
}
