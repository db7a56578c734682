package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_service/pkg/database"
	"library_service/pkg/models"
)

func setupStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db)
}

func seedCopy(t *testing.T, s *GormStore) (*models.Book, *models.Library, *models.User) {
	t.Helper()
	ctx := context.Background()
	author := &models.Author{Name: "Frank Herbert", Nickname: "fherbert"}
	require.NoError(t, s.Authors().Create(ctx, author))
	book := &models.Book{AuthorID: author.ID, Title: "Dune", Description: "a b c d", Pages: 1, PublicationYear: 1965, Genre: models.GenreScienceFiction}
	require.NoError(t, s.Books().Create(ctx, book))
	library := &models.Library{Name: "Central", Email: "c@l.org", Address: "1 Main St"}
	require.NoError(t, s.Libraries().Create(ctx, library))
	user := &models.User{Email: "t@e.com", Password: "x", Role: models.RoleUser, AccountNonLocked: true}
	require.NoError(t, s.Users().Create(ctx, user))
	return book, library, user
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		number, size    int
		wantNum, wantSz int
		wantOffset      int
	}{
		{1, 10, 1, 10, 0},
		{3, 20, 3, 20, 40},
		{0, 0, 1, DefaultPageSize, 0},
		{-2, MaxPageSize + 1, 1, DefaultPageSize, 0},
	}
	for _, tt := range tests {
		p := NewPage(tt.number, tt.size)
		assert.Equal(t, tt.wantNum, p.Number)
		assert.Equal(t, tt.wantSz, p.Size)
		assert.Equal(t, tt.wantOffset, p.Offset())
	}
}

func TestFindMissingIsErrNotFound(t *testing.T) {
	s := setupStore(t)
	_, err := s.Users().FindByEmail(context.Background(), "nobody@e.com")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUniqueViolationIsErrDuplicate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Authors().Create(ctx, &models.Author{Name: "A", Nickname: "same"}))
	err := s.Authors().Create(ctx, &models.Author{Name: "B", Nickname: "same"})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestSecondHoldOnCopyIsRejectedBySchema(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	book, library, user := seedCopy(t, s)
	now := time.Now()

	first := &models.Reserved{BookID: book.ID, LibraryID: library.ID, UserID: user.ID, Timestamp: now, DueDate: now}
	require.NoError(t, s.Lending().CreateReservation(ctx, first))
	second := &models.Reserved{BookID: book.ID, LibraryID: library.ID, UserID: user.ID, Timestamp: now, DueDate: now}
	assert.True(t, errors.Is(s.Lending().CreateReservation(ctx, second), ErrDuplicate))
}

func TestTransactionRollsBack(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx Store) error {
		if err := tx.Authors().Create(ctx, &models.Author{Name: "A", Nickname: "a"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := s.Authors().ExistsByNickname(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInventoryAndHolding(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	book, library, _ := seedCopy(t, s)

	require.NoError(t, s.Libraries().AddBook(ctx, library.ID, book.ID))
	require.NoError(t, s.Libraries().AddBook(ctx, library.ID, book.ID))

	has, err := s.Libraries().HasBook(ctx, library.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, has)

	books, total, err := s.Libraries().Books(ctx, library.ID, NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, books, 1)

	holding, err := s.Libraries().Holding(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, holding, 1)
	assert.Equal(t, "Central", holding[0].Name)

	require.NoError(t, s.Libraries().RemoveInventory(ctx, ByBook(book.ID)))
	holding, err = s.Libraries().Holding(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, holding)
}

func TestPenaltiesNewestFirst(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	book, library, user := seedCopy(t, s)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Lending().CreatePenalty(ctx, &models.BookPenalty{
			BookID:     book.ID,
			LibraryID:  library.ID,
			UserID:     user.ID,
			DueDate:    base,
			ReturnDate: base.Add(time.Duration(i+1) * 24 * time.Hour),
		}))
	}

	penalties, total, err := s.Lending().ListPenalties(ctx, nil, NewPage(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, penalties, 2)
	assert.True(t, penalties[0].ReturnDate.After(penalties[1].ReturnDate))

	ref := ByUser(user.ID + 1)
	_, total, err = s.Lending().ListPenalties(ctx, &ref, NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSetLocked(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	_, _, user := seedCopy(t, s)

	require.NoError(t, s.Users().SetLocked(ctx, user.ID, true))
	stored, err := s.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.AccountNonLocked)

	require.NoError(t, s.Users().SetLocked(ctx, user.ID, false))
	stored, err = s.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.AccountNonLocked)
}
