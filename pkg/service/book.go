package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"library_service/pkg/apperr"
	"library_service/pkg/models"
	"library_service/pkg/repository"
	"library_service/pkg/validator"
)

type BookInput struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Pages           *int    `json:"pages"`
	PublicationYear *int    `json:"publicationYear"`
	Genre           *string `json:"genre"`
}

func (in BookInput) validateFormats(v *validator.Validator) {
	if in.Title != nil {
		v.Required(in.Title, "title")
	}
	v.Description(in.Description, "description")
	if in.Pages != nil {
		v.Check(*in.Pages > 0, "pages", "must be positive")
	}
	if in.PublicationYear != nil {
		v.Check(*in.PublicationYear > 0, "publicationYear", "must be positive")
	}
	if in.Genre != nil {
		v.Check(models.Genre(*in.Genre).Valid(), "genre", "is not a known genre")
	}
}

type BookService struct {
	store repository.Store
	log   *zap.Logger
}

func NewBookService(store repository.Store, log *zap.Logger) *BookService {
	return &BookService{store: store, log: log}
}

func (s *BookService) TitleExists(ctx context.Context, title string) (bool, error) {
	return s.store.Books().ExistsByTitle(ctx, title)
}

// Create adds a book written by the author with the given id.
func (s *BookService) Create(ctx context.Context, authorID uint, in BookInput) (*models.Book, error) {
	v := validator.New()
	v.Required(in.Title, "title")
	v.Required(in.Description, "description")
	v.Check(in.Pages != nil, "pages", "must be provided")
	v.Check(in.PublicationYear != nil, "publicationYear", "must be provided")
	v.Check(in.Genre != nil, "genre", "must be provided")
	in.validateFormats(v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	book := &models.Book{
		AuthorID:        authorID,
		Title:           strings.TrimSpace(derefString(in.Title)),
		Description:     derefString(in.Description),
		Pages:           derefInt(in.Pages),
		PublicationYear: derefInt(in.PublicationYear),
		Genre:           models.Genre(derefString(in.Genre)),
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Authors().FindByID(ctx, authorID); err != nil {
			if isNotFound(err) {
				return apperr.NotFound("author with id %d not found", authorID)
			}
			return err
		}
		taken, err := tx.Books().ExistsByTitle(ctx, book.Title)
		if err != nil {
			return err
		}
		if taken {
			return apperr.AlreadyExists("book titled %s already exists", book.Title)
		}
		if err := tx.Books().Create(ctx, book); err != nil {
			if isDuplicate(err) {
				return apperr.AlreadyExists("book titled %s already exists", book.Title)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Book created", zap.String("title", book.Title), zap.Uint("author_id", authorID))
	return book, nil
}

func (s *BookService) GetByTitle(ctx context.Context, title string) (*models.Book, error) {
	return findBook(ctx, s.store, title)
}

func (s *BookService) List(ctx context.Context, page repository.Page) ([]models.Book, int64, error) {
	return s.store.Books().List(ctx, page)
}

// Update overwrites the fields present in in.
func (s *BookService) Update(ctx context.Context, title string, in BookInput) (*models.Book, error) {
	v := validator.New()
	in.validateFormats(v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var book *models.Book
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		if book, err = findBook(ctx, tx, title); err != nil {
			return err
		}

		if in.Title != nil {
			newTitle := strings.TrimSpace(*in.Title)
			if newTitle != book.Title {
				taken, err := tx.Books().ExistsByTitle(ctx, newTitle)
				if err != nil {
					return err
				}
				if taken {
					return apperr.AlreadyExists("book titled %s already exists", newTitle)
				}
			}
			book.Title = newTitle
		}
		if in.Description != nil {
			book.Description = *in.Description
		}
		if in.Pages != nil {
			book.Pages = *in.Pages
		}
		if in.PublicationYear != nil {
			book.PublicationYear = *in.PublicationYear
		}
		if in.Genre != nil {
			book.Genre = models.Genre(*in.Genre)
		}

		if err := tx.Books().Save(ctx, book); err != nil {
			if isDuplicate(err) {
				return apperr.AlreadyExists("book titled %s already exists", book.Title)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes the book from every inventory and drops its holds. A book
// on loan cannot be deleted.
func (s *BookService) Delete(ctx context.Context, title string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		book, err := findBook(ctx, tx, title)
		if err != nil {
			return err
		}
		loans, err := tx.Lending().CountLoans(ctx, repository.ByBook(book.ID))
		if err != nil {
			return err
		}
		if loans > 0 {
			return apperr.Conflict("book %s is on loan", title)
		}
		if err := tx.Libraries().RemoveInventory(ctx, repository.ByBook(book.ID)); err != nil {
			return err
		}
		if err := tx.Lending().DeleteReservations(ctx, repository.ByBook(book.ID)); err != nil {
			return err
		}
		return tx.Books().Delete(ctx, book.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info("Book deleted", zap.String("title", title))
	return nil
}

func (s *BookService) AuthorOf(ctx context.Context, title string) (*models.Author, error) {
	book, err := findBook(ctx, s.store, title)
	if err != nil {
		return nil, err
	}
	author, err := s.store.Authors().FindByID(ctx, book.AuthorID)
	if isNotFound(err) {
		return nil, apperr.NotFound("author of book %s not found", title)
	}
	return author, err
}
