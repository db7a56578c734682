package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"library_service/pkg/apperr"
	"library_service/pkg/config"
	"library_service/pkg/models"
	"library_service/pkg/repository"
	"library_service/pkg/validator"
)

type LibraryInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Country    *string `json:"country"`
	City       *string `json:"city"`
	Address    *string `json:"address"`
	PostalCode *string `json:"postalCode"`
}

type LibraryService struct {
	store      repository.Store
	holdWindow time.Duration
	loanPeriod time.Duration
	log        *zap.Logger
	now        Clock
}

func NewLibraryService(store repository.Store, lending config.LendingConfig, log *zap.Logger) *LibraryService {
	return &LibraryService{
		store:      store,
		holdWindow: time.Duration(lending.ReservationHoldDays) * 24 * time.Hour,
		loanPeriod: time.Duration(lending.LoanPeriodDays) * 24 * time.Hour,
		log:        log,
		now:        time.Now,
	}
}

func (s *LibraryService) NameInUse(ctx context.Context, name string) (bool, error) {
	return s.store.Libraries().ExistsByName(ctx, name)
}

func (s *LibraryService) EmailInUse(ctx context.Context, email string) (bool, error) {
	return s.store.Libraries().ExistsByEmail(ctx, email)
}

func (s *LibraryService) Create(ctx context.Context, in LibraryInput) (*models.Library, error) {
	v := validator.New()
	v.Required(in.Name, "name")
	v.Required(in.Email, "email")
	v.Required(in.Address, "address")
	v.Email(in.Email, "email")
	v.Phone(in.Phone, "phone")
	v.PostalCode(in.PostalCode, "postalCode")
	if err := v.Err(); err != nil {
		return nil, err
	}

	library := &models.Library{
		Name:       strings.TrimSpace(*in.Name),
		Email:      strings.TrimSpace(*in.Email),
		Phone:      derefString(in.Phone),
		Country:    derefString(in.Country),
		City:       derefString(in.City),
		Address:    strings.TrimSpace(*in.Address),
		PostalCode: derefString(in.PostalCode),
		CreatedAt:  s.now(),
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		taken, err := tx.Libraries().ExistsByName(ctx, library.Name)
		if err != nil {
			return err
		}
		if taken {
			return apperr.AlreadyExists("library name %s is already in use", library.Name)
		}
		if taken, err = tx.Libraries().ExistsByEmail(ctx, library.Email); err != nil {
			return err
		}
		if taken {
			return apperr.AlreadyExists("library email %s is already in use", library.Email)
		}
		if err := tx.Libraries().Create(ctx, library); err != nil {
			if isDuplicate(err) {
				return apperr.AlreadyExists("library %s already exists", library.Name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Library created", zap.String("name", library.Name))
	return library, nil
}

func (s *LibraryService) GetByName(ctx context.Context, name string) (*models.Library, error) {
	return findLibrary(ctx, s.store, name)
}

// List pages through libraries sorted by name, then address.
func (s *LibraryService) List(ctx context.Context, page repository.Page) ([]models.Library, int64, error) {
	return s.store.Libraries().List(ctx, page)
}

// Delete removes the library with its inventory, members and holds. A
// library with books on loan cannot be deleted.
func (s *LibraryService) Delete(ctx context.Context, name string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		library, err := findLibrary(ctx, tx, name)
		if err != nil {
			return err
		}
		ref := repository.ByLibrary(library.ID)
		loans, err := tx.Lending().CountLoans(ctx, ref)
		if err != nil {
			return err
		}
		if loans > 0 {
			return apperr.Conflict("library %s has %d book(s) on loan", name, loans)
		}
		if err := tx.Libraries().RemoveMembers(ctx, ref); err != nil {
			return err
		}
		if err := tx.Libraries().RemoveInventory(ctx, ref); err != nil {
			return err
		}
		if err := tx.Lending().DeleteReservations(ctx, ref); err != nil {
			return err
		}
		return tx.Libraries().Delete(ctx, library.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info("Library deleted", zap.String("name", name))
	return nil
}

func (s *LibraryService) AddBook(ctx context.Context, name, title string) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		library, err := findLibrary(ctx, tx, name)
		if err != nil {
			return err
		}
		book, err := findBook(ctx, tx, title)
		if err != nil {
			return err
		}
		return tx.Libraries().AddBook(ctx, library.ID, book.ID)
	})
}

func (s *LibraryService) Books(ctx context.Context, name string, page repository.Page) ([]models.Book, int64, error) {
	library, err := findLibrary(ctx, s.store, name)
	if err != nil {
		return nil, 0, err
	}
	return s.store.Libraries().Books(ctx, library.ID, page)
}

// Holding returns the libraries whose inventory has the book.
func (s *LibraryService) Holding(ctx context.Context, title string) ([]models.Library, error) {
	book, err := findBook(ctx, s.store, title)
	if err != nil {
		return nil, err
	}
	libraries, err := s.store.Libraries().Holding(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	if len(libraries) == 0 {
		return nil, apperr.NotFound("no library holds book %s", title)
	}
	return libraries, nil
}

func (s *LibraryService) AddUser(ctx context.Context, name, email string) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		library, err := findLibrary(ctx, tx, name)
		if err != nil {
			return err
		}
		user, err := findUser(ctx, tx, email)
		if err != nil {
			return err
		}
		return tx.Libraries().AddMember(ctx, library.ID, user.ID)
	})
}

func (s *LibraryService) Members(ctx context.Context, name string) ([]models.User, error) {
	library, err := findLibrary(ctx, s.store, name)
	if err != nil {
		return nil, err
	}
	return s.store.Libraries().Members(ctx, library.ID)
}

func (s *LibraryService) Penalties(ctx context.Context, page repository.Page) ([]models.BookPenalty, int64, error) {
	return s.store.Lending().ListPenalties(ctx, nil, page)
}
