package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"library_service/pkg/apperr"
	"library_service/pkg/models"
	"library_service/pkg/repository"
	"library_service/pkg/validator"
)

const BirthdayLayout = "2006-01-02"

// UserInput carries user fields for create and update. A nil field is
// absent: on update it leaves the stored value untouched.
type UserInput struct {
	Email            *string `json:"email"`
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Password         *string `json:"password"`
	Role             *string `json:"role"`
	Phone            *string `json:"phone"`
	Birthday         *string `json:"birthday"`
	Country          *string `json:"country"`
	City             *string `json:"city"`
	Address          *string `json:"address"`
	PostalCode       *string `json:"postalCode"`
	AccountNonLocked *bool   `json:"accountNonLocked"`
}

// SelfService strips the fields a user may not change on its own account.
func (in UserInput) SelfService() UserInput {
	in.Role = nil
	in.AccountNonLocked = nil
	return in
}

func (in UserInput) validateFormats(v *validator.Validator) {
	v.Email(in.Email, "email")
	v.Password(in.Password, "password")
	v.Phone(in.Phone, "phone")
	v.PostalCode(in.PostalCode, "postalCode")
	if in.Birthday != nil {
		_, err := time.Parse(BirthdayLayout, *in.Birthday)
		v.Check(err == nil, "birthday", "must be a date formatted as YYYY-MM-DD")
	}
	if in.Role != nil {
		v.Check(models.Role(*in.Role).Valid(), "role", "must be one of ADMIN, LIBRARIAN, USER")
	}
}

type UserService struct {
	store  repository.Store
	hasher PasswordHasher
	log    *zap.Logger
	now    Clock
}

func NewUserService(store repository.Store, hasher PasswordHasher, log *zap.Logger) *UserService {
	return &UserService{store: store, hasher: hasher, log: log, now: time.Now}
}

func (s *UserService) EmailInUse(ctx context.Context, email string) (bool, error) {
	return s.store.Users().ExistsByEmail(ctx, email)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findUser(ctx, s.store, email)
}

func (s *UserService) List(ctx context.Context, page repository.Page) ([]models.User, int64, error) {
	return s.store.Users().List(ctx, page)
}

// Register creates a USER account; role and lock flag in the input are ignored.
func (s *UserService) Register(ctx context.Context, in UserInput) (*models.User, error) {
	in = in.SelfService()
	return s.Create(ctx, in)
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	v := validator.New()
	v.Required(in.Email, "email")
	v.Required(in.Password, "password")
	in.validateFormats(v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(*in.Email)
	hash, err := s.hasher.Hash(*in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:            email,
		Password:         hash,
		Role:             models.RoleUser,
		AccountNonLocked: true,
		CreatedAt:        s.now(),
	}
	in.Email = nil
	in.Password = nil
	mergeUser(user, in)

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		taken, err := tx.Users().ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return apperr.AlreadyExists("email %s is already in use", email)
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if isDuplicate(err) {
				return apperr.AlreadyExists("email %s is already in use", email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("User created", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, nil
}

// Update merges the non-nil fields of in into the stored user.
func (s *UserService) Update(ctx context.Context, email string, in UserInput) (*models.User, error) {
	v := validator.New()
	in.validateFormats(v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var hash string
	if in.Password != nil {
		var err error
		if hash, err = s.hasher.Hash(*in.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	var user *models.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		user, err = findUser(ctx, tx, email)
		if err != nil {
			return err
		}

		if in.Email != nil && *in.Email != user.Email {
			taken, err := tx.Users().ExistsByEmail(ctx, *in.Email)
			if err != nil {
				return err
			}
			if taken {
				return apperr.AlreadyExists("email %s is already in use", *in.Email)
			}
		}

		mergeUser(user, in)
		if hash != "" {
			user.Password = hash
		}

		if err := tx.Users().Save(ctx, user); err != nil {
			if isDuplicate(err) {
				return apperr.AlreadyExists("email %s is already in use", user.Email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AddLibrary registers the user as a member of the named library.
func (s *UserService) AddLibrary(ctx context.Context, email, libraryName string) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := findUser(ctx, tx, email)
		if err != nil {
			return err
		}
		library, err := findLibrary(ctx, tx, libraryName)
		if err != nil {
			return err
		}
		return tx.Libraries().AddMember(ctx, library.ID, user.ID)
	})
}

func (s *UserService) Libraries(ctx context.Context, email string) ([]models.Library, error) {
	user, err := findUser(ctx, s.store, email)
	if err != nil {
		return nil, err
	}
	return s.store.Libraries().MembershipsOf(ctx, user.ID)
}

// Delete removes the user with its memberships and pending holds. A user
// with books on loan cannot be deleted.
func (s *UserService) Delete(ctx context.Context, email string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := findUser(ctx, tx, email)
		if err != nil {
			return err
		}
		loans, err := tx.Lending().CountLoans(ctx, repository.ByUser(user.ID))
		if err != nil {
			return err
		}
		if loans > 0 {
			return apperr.Conflict("user %s has %d book(s) on loan", email, loans)
		}
		if err := tx.Libraries().RemoveMembers(ctx, repository.ByUser(user.ID)); err != nil {
			return err
		}
		if err := tx.Lending().DeleteReservations(ctx, repository.ByUser(user.ID)); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info("User deleted", zap.String("email", email))
	return nil
}

// Activity is a user's open holds and loans.
type Activity struct {
	Reservations []models.Reserved
	Loans        []models.Borrowed
}

func (s *UserService) Activity(ctx context.Context, email string) (*Activity, error) {
	user, err := findUser(ctx, s.store, email)
	if err != nil {
		return nil, err
	}
	reservations, err := s.store.Lending().ListReservations(ctx, repository.ByUser(user.ID))
	if err != nil {
		return nil, err
	}
	loans, err := s.store.Lending().ListLoans(ctx, repository.ByUser(user.ID))
	if err != nil {
		return nil, err
	}
	return &Activity{Reservations: reservations, Loans: loans}, nil
}

func (s *UserService) Penalties(ctx context.Context, email string, page repository.Page) ([]models.BookPenalty, int64, error) {
	user, err := findUser(ctx, s.store, email)
	if err != nil {
		return nil, 0, err
	}
	ref := repository.ByUser(user.ID)
	return s.store.Lending().ListPenalties(ctx, &ref, page)
}

// mergeUser copies every non-nil field of in onto u. Password is left to
// the caller since it has to be hashed first.
func mergeUser(u *models.User, in UserInput) {
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Role != nil {
		u.Role = models.Role(*in.Role)
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Birthday != nil {
		if b, err := time.Parse(BirthdayLayout, *in.Birthday); err == nil {
			u.Birthday = &b
		}
	}
	if in.Country != nil {
		u.Country = *in.Country
	}
	if in.City != nil {
		u.City = *in.City
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.PostalCode != nil {
		u.PostalCode = *in.PostalCode
	}
	if in.AccountNonLocked != nil {
		u.AccountNonLocked = *in.AccountNonLocked
	}
}

func findUser(ctx context.Context, store repository.Store, email string) (*models.User, error) {
	user, err := store.Users().FindByEmail(ctx, email)
	if isNotFound(err) {
		return nil, apperr.NotFound("user with email %s not found", email)
	}
	return user, err
}

func findLibrary(ctx context.Context, store repository.Store, name string) (*models.Library, error) {
	library, err := store.Libraries().FindByName(ctx, name)
	if isNotFound(err) {
		return nil, apperr.NotFound("library %s not found", name)
	}
	return library, err
}

func findBook(ctx context.Context, store repository.Store, title string) (*models.Book, error) {
	book, err := store.Books().FindByTitle(ctx, title)
	if isNotFound(err) {
		return nil, apperr.NotFound("book %s not found", title)
	}
	return book, err
}
