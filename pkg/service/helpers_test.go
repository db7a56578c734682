package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"library_service/pkg/config"
	"library_service/pkg/database"
	"library_service/pkg/models"
	"library_service/pkg/repository"
)

func setupTestStore(t *testing.T) *repository.GormStore {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewStore(db)
}

func testLending() config.LendingConfig {
	return config.LendingConfig{ReservationHoldDays: 3, LoanPeriodDays: 14}
}

func testHasher() PasswordHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

// fixture is a library "Central" holding "Dune" by "fherbert", plus two readers.
type fixture struct {
	store    *repository.GormStore
	users    *UserService
	authors  *AuthorService
	books    *BookService
	library  *LibraryService
	clock    *testClock
	author   *models.Author
	book     *models.Book
	central  *models.Library
	reader   *models.User
	otherOne *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	f := &fixture{store: setupTestStore(t), clock: newTestClock()}
	f.users = NewUserService(f.store, testHasher(), log)
	f.authors = NewAuthorService(f.store, log)
	f.books = NewBookService(f.store, log)
	f.library = NewLibraryService(f.store, testLending(), log)
	f.library.now = f.clock.Now
	f.users.now = f.clock.Now

	var err error
	f.author, err = f.authors.Create(ctx, AuthorInput{Name: strPtr("Frank Herbert"), Nickname: strPtr("fherbert")})
	require.NoError(t, err)

	f.book, err = f.books.Create(ctx, f.author.ID, BookInput{
		Title:           strPtr("Dune"),
		Description:     strPtr("A noble family on a desert planet"),
		Pages:           intPtr(412),
		PublicationYear: intPtr(1965),
		Genre:           strPtr(string(models.GenreScienceFiction)),
	})
	require.NoError(t, err)

	f.central, err = f.library.Create(ctx, LibraryInput{
		Name:    strPtr("Central"),
		Email:   strPtr("central@library.org"),
		Address: strPtr("1 Main St"),
	})
	require.NoError(t, err)
	require.NoError(t, f.library.AddBook(ctx, "Central", "Dune"))

	f.reader, err = f.users.Register(ctx, UserInput{Email: strPtr("t@e.com"), Password: strPtr("Abcde1")})
	require.NoError(t, err)
	f.otherOne, err = f.users.Register(ctx, UserInput{Email: strPtr("o@e.com"), Password: strPtr("Abcde2")})
	require.NoError(t, err)

	return f
}

// countingStore counts user deletes reaching the repository.
type countingStore struct {
	repository.Store
	userDeletes *int
}

func (s countingStore) Users() repository.UserRepository {
	return countingUsers{UserRepository: s.Store.Users(), deletes: s.userDeletes}
}

func (s countingStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(countingStore{Store: tx, userDeletes: s.userDeletes})
	})
}

type countingUsers struct {
	repository.UserRepository
	deletes *int
}

func (u countingUsers) Delete(ctx context.Context, id uint) error {
	*u.deletes++
	return u.UserRepository.Delete(ctx, id)
}
