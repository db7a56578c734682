package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_service/pkg/apperr"
	"library_service/pkg/repository"
)

func TestCreateAuthorDuplicateNickname(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.authors.Create(ctx, AuthorInput{Name: strPtr("Someone Else"), Nickname: strPtr("fherbert")})
	assert.True(t, errors.Is(err, apperr.ErrAlreadyExists))

	_, total, err := f.authors.List(ctx, repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	inUse, err := f.authors.NicknameInUse(ctx, "fherbert")
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestAuthorBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	books, err := f.authors.Books(ctx, "fherbert")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	_, err = f.authors.Books(ctx, "unknown")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCreateBookRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := BookInput{
		Title:           strPtr("Dune Messiah"),
		Description:     strPtr("Paul rules an empire now"),
		Pages:           intPtr(256),
		PublicationYear: intPtr(1969),
		Genre:           strPtr("SCIENCE_FICTION"),
	}

	_, err := f.books.Create(ctx, 999, valid)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	dup := valid
	dup.Title = strPtr("Dune")
	_, err = f.books.Create(ctx, f.author.ID, dup)
	assert.True(t, errors.Is(err, apperr.ErrAlreadyExists))

	bad := valid
	bad.Description = strPtr("too short text")
	bad.Pages = intPtr(0)
	bad.Genre = strPtr("COOKING")
	_, err = f.books.Create(ctx, f.author.ID, bad)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindInvalidInput, appErr.Kind)
	assert.Len(t, appErr.Fields, 3)

	book, err := f.books.Create(ctx, f.author.ID, valid)
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, book.AuthorID)

	exists, err := f.books.TitleExists(ctx, "Dune Messiah")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAuthorOfBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author, err := f.books.AuthorOf(ctx, "Dune")
	require.NoError(t, err)
	assert.Equal(t, "fherbert", author.Nickname)

	_, err = f.books.AuthorOf(ctx, "Missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdateBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	book, err := f.books.Update(ctx, "Dune", BookInput{Pages: intPtr(500)})
	require.NoError(t, err)
	assert.Equal(t, 500, book.Pages)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, 1965, book.PublicationYear)

	book, err = f.books.Update(ctx, "Dune", BookInput{Title: strPtr("Dune (1965)")})
	require.NoError(t, err)
	assert.Equal(t, "Dune (1965)", book.Title)

	_, err = f.books.GetByTitle(ctx, "Dune")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.books.Update(ctx, "Missing", BookInput{Pages: intPtr(1)})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDeleteBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	_, err = f.library.Borrow(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)

	err = f.books.Delete(ctx, "Dune")
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = f.library.Return(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	require.NoError(t, f.books.Delete(ctx, "Dune"))

	books, total, err := f.library.Books(ctx, "Central", repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.Equal(t, int64(0), total)

	err = f.books.Delete(ctx, "Dune")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCreateLibraryUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Create(ctx, LibraryInput{
		Name:    strPtr("Central"),
		Email:   strPtr("other@library.org"),
		Address: strPtr("9 Side St"),
	})
	assert.True(t, errors.Is(err, apperr.ErrAlreadyExists))

	_, err = f.library.Create(ctx, LibraryInput{
		Name:    strPtr("Annex"),
		Email:   strPtr("central@library.org"),
		Address: strPtr("9 Side St"),
	})
	assert.True(t, errors.Is(err, apperr.ErrAlreadyExists))

	_, err = f.library.Create(ctx, LibraryInput{
		Name:       strPtr("Annex"),
		Email:      strPtr("annex@library.org"),
		Address:    strPtr("9 Side St"),
		Phone:      strPtr("12ab"),
		PostalCode: strPtr("1"),
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	inUse, err := f.library.NameInUse(ctx, "Central")
	require.NoError(t, err)
	assert.True(t, inUse)
	inUse, err = f.library.EmailInUse(ctx, "annex@library.org")
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestListLibrariesSortedByNameThenAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, in := range []LibraryInput{
		{Name: strPtr("Annex"), Email: strPtr("annex@library.org"), Address: strPtr("9 Side St")},
		{Name: strPtr("Branch"), Email: strPtr("branch@library.org"), Address: strPtr("5 Elm St")},
	} {
		_, err := f.library.Create(ctx, in)
		require.NoError(t, err)
	}

	libraries, total, err := f.library.List(ctx, repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	names := []string{libraries[0].Name, libraries[1].Name, libraries[2].Name}
	assert.Equal(t, []string{"Annex", "Branch", "Central"}, names)
}

func TestDeleteLibrary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.library.Delete(ctx, "Nowhere")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, f.library.AddUser(ctx, "Central", "t@e.com"))
	_, err = f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)

	require.NoError(t, f.library.Delete(ctx, "Central"))

	_, err = f.library.GetByName(ctx, "Central")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	libraries, err := f.users.Libraries(ctx, "t@e.com")
	require.NoError(t, err)
	assert.Empty(t, libraries)
	activity, err := f.users.Activity(ctx, "t@e.com")
	require.NoError(t, err)
	assert.Empty(t, activity.Reservations)
}

func TestHoldingLibraries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	libraries, err := f.library.Holding(ctx, "Dune")
	require.NoError(t, err)
	require.Len(t, libraries, 1)
	assert.Equal(t, "Central", libraries[0].Name)

	_, err = f.library.Holding(ctx, "Missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.books.Create(ctx, f.author.ID, BookInput{
		Title:           strPtr("Children of Dune"),
		Description:     strPtr("The twins inherit the empire"),
		Pages:           intPtr(444),
		PublicationYear: intPtr(1976),
		Genre:           strPtr("SCIENCE_FICTION"),
	})
	require.NoError(t, err)
	_, err = f.library.Holding(ctx, "Children of Dune")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAddBookAndUserToLibrary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, errors.Is(f.library.AddBook(ctx, "Nowhere", "Dune"), apperr.ErrNotFound))
	assert.True(t, errors.Is(f.library.AddBook(ctx, "Central", "Missing"), apperr.ErrNotFound))
	assert.True(t, errors.Is(f.library.AddUser(ctx, "Nowhere", "t@e.com"), apperr.ErrNotFound))
	assert.True(t, errors.Is(f.library.AddUser(ctx, "Central", "ghost@e.com"), apperr.ErrNotFound))

	require.NoError(t, f.library.AddBook(ctx, "Central", "Dune"))
	books, total, err := f.library.Books(ctx, "Central", repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, books, 1)
}
