package service

import (
	"context"

	"go.uber.org/zap"

	"library_service/pkg/apperr"
	"library_service/pkg/models"
	"library_service/pkg/repository"
)

// A copy of a book at a library moves Available -> Reserved -> Borrowed ->
// Available. The check and the write of each step share one transaction, and
// the unique (book, library) indexes on the reserved and borrowed tables
// reject a concurrent second hold or loan.

type copyRef struct {
	library *models.Library
	book    *models.Book
	user    *models.User
}

func (s *LibraryService) resolve(ctx context.Context, tx repository.Store, name, title, email string) (*copyRef, error) {
	library, err := findLibrary(ctx, tx, name)
	if err != nil {
		return nil, err
	}
	book, err := findBook(ctx, tx, title)
	if err != nil {
		return nil, err
	}
	held, err := tx.Libraries().HasBook(ctx, library.ID, book.ID)
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, apperr.NotFound("book %s is not held by library %s", title, name)
	}
	ref := &copyRef{library: library, book: book}
	if email != "" {
		if ref.user, err = findUser(ctx, tx, email); err != nil {
			return nil, err
		}
	}
	return ref, nil
}

// resolveFor is resolve for an operation on behalf of a user.
func (s *LibraryService) resolveFor(ctx context.Context, tx repository.Store, name, title, email string) (*copyRef, error) {
	if email == "" {
		return nil, apperr.InvalidInput("email is required")
	}
	return s.resolve(ctx, tx, name, title, email)
}

// activeReservation returns the hold on the copy, dropping it when its hold
// window has passed.
func (s *LibraryService) activeReservation(ctx context.Context, tx repository.Store, c *copyRef) (*models.Reserved, error) {
	reserved, err := tx.Lending().FindReservation(ctx, c.book.ID, c.library.ID)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.now().After(reserved.DueDate) {
		if err := tx.Lending().DeleteReservation(ctx, reserved.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return reserved, nil
}

func (s *LibraryService) Reserve(ctx context.Context, name, title, email string) (*models.Reserved, error) {
	var reserved *models.Reserved
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		c, err := s.resolveFor(ctx, tx, name, title, email)
		if err != nil {
			return err
		}

		_, err = tx.Lending().FindLoan(ctx, c.book.ID, c.library.ID)
		if err == nil {
			return apperr.BookNotAvailable("book %s is borrowed at library %s", title, name)
		}
		if !isNotFound(err) {
			return err
		}

		existing, err := s.activeReservation(ctx, tx, c)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.BookNotAvailable("book %s is already reserved at library %s", title, name)
		}

		now := s.now()
		reserved = &models.Reserved{
			BookID:    c.book.ID,
			LibraryID: c.library.ID,
			UserID:    c.user.ID,
			Timestamp: now,
			DueDate:   now.Add(s.holdWindow),
		}
		if err := tx.Lending().CreateReservation(ctx, reserved); err != nil {
			if isDuplicate(err) {
				return apperr.BookNotAvailable("book %s is already reserved at library %s", title, name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Book reserved",
		zap.String("library", name),
		zap.String("title", title),
		zap.String("user", email),
		zap.Time("due_date", reserved.DueDate))
	return reserved, nil
}

// Borrow turns the user's hold on the copy into a loan.
func (s *LibraryService) Borrow(ctx context.Context, name, title, email string) (*models.Borrowed, error) {
	var borrowed *models.Borrowed
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		c, err := s.resolveFor(ctx, tx, name, title, email)
		if err != nil {
			return err
		}

		reserved, err := tx.Lending().FindReservation(ctx, c.book.ID, c.library.ID)
		if isNotFound(err) || (err == nil && reserved.UserID != c.user.ID) {
			return apperr.ReservedMissing("no reservation of book %s at library %s for %s", title, name, email)
		}
		if err != nil {
			return err
		}
		if s.now().After(reserved.DueDate) {
			return apperr.ReservedMissing("reservation of book %s at library %s for %s has expired", title, name, email)
		}

		if err := tx.Lending().DeleteReservation(ctx, reserved.ID); err != nil {
			return err
		}

		now := s.now()
		borrowed = &models.Borrowed{
			BookID:    c.book.ID,
			LibraryID: c.library.ID,
			UserID:    c.user.ID,
			Timestamp: now,
			DueDate:   now.Add(s.loanPeriod),
		}
		if err := tx.Lending().CreateLoan(ctx, borrowed); err != nil {
			if isDuplicate(err) {
				return apperr.BookNotAvailable("book %s is already borrowed at library %s", title, name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Book borrowed",
		zap.String("library", name),
		zap.String("title", title),
		zap.String("user", email),
		zap.Time("due_date", borrowed.DueDate))
	return borrowed, nil
}

// ReturnResult reports the penalty recorded for a late return, if any.
type ReturnResult struct {
	Loan    models.Borrowed
	Penalty *models.BookPenalty
}

// Return ends the user's loan of the copy. Returning after the due date
// records a BookPenalty.
func (s *LibraryService) Return(ctx context.Context, name, title, email string) (*ReturnResult, error) {
	var result *ReturnResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		c, err := s.resolveFor(ctx, tx, name, title, email)
		if err != nil {
			return err
		}

		borrowed, err := tx.Lending().FindLoan(ctx, c.book.ID, c.library.ID)
		if isNotFound(err) || (err == nil && borrowed.UserID != c.user.ID) {
			return apperr.BorrowedMissing("no loan of book %s at library %s for %s", title, name, email)
		}
		if err != nil {
			return err
		}

		if err := tx.Lending().DeleteLoan(ctx, borrowed.ID); err != nil {
			return err
		}
		result = &ReturnResult{Loan: *borrowed}

		now := s.now()
		if now.After(borrowed.DueDate) {
			penalty := &models.BookPenalty{
				BookID:     c.book.ID,
				LibraryID:  c.library.ID,
				UserID:     c.user.ID,
				DueDate:    borrowed.DueDate,
				ReturnDate: now,
			}
			if err := tx.Lending().CreatePenalty(ctx, penalty); err != nil {
				return err
			}
			result.Penalty = penalty
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("library", name),
		zap.String("title", title),
		zap.String("user", email),
	}
	if result.Penalty != nil {
		s.log.Warn("Book returned late", append(fields, zap.Time("due_date", result.Penalty.DueDate))...)
	} else {
		s.log.Info("Book returned", fields...)
	}
	return result, nil
}

// Status derives the state of the library's copy from its lending records.
func (s *LibraryService) Status(ctx context.Context, name, title string) (models.BookStatus, error) {
	var status models.BookStatus
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		c, err := s.resolve(ctx, tx, name, title, "")
		if err != nil {
			return err
		}

		_, err = tx.Lending().FindLoan(ctx, c.book.ID, c.library.ID)
		if err == nil {
			status = models.StatusBorrowed
			return nil
		}
		if !isNotFound(err) {
			return err
		}

		reserved, err := tx.Lending().FindReservation(ctx, c.book.ID, c.library.ID)
		switch {
		case isNotFound(err):
			status = models.StatusAvailable
		case err != nil:
			return err
		case s.now().After(reserved.DueDate):
			status = models.StatusAvailable
		default:
			status = models.StatusReserved
		}
		return nil
	})
	return status, err
}
