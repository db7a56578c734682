package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_service/pkg/apperr"
	"library_service/pkg/models"
	"library_service/pkg/repository"
)

func TestLendingLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, err := f.library.Status(ctx, "Central", "Dune")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, status)

	reserved, err := f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	assert.Equal(t, f.reader.ID, reserved.UserID)
	assert.True(t, reserved.DueDate.Equal(f.clock.now.Add(3*24*time.Hour)))

	status, err = f.library.Status(ctx, "Central", "Dune")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReserved, status)

	borrowed, err := f.library.Borrow(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	assert.True(t, borrowed.DueDate.Equal(f.clock.now.Add(14*24*time.Hour)))

	status, err = f.library.Status(ctx, "Central", "Dune")
	require.NoError(t, err)
	assert.Equal(t, models.StatusBorrowed, status)

	_, err = f.store.Lending().FindReservation(ctx, f.book.ID, f.central.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	result, err := f.library.Return(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	assert.Nil(t, result.Penalty)

	status, err = f.library.Status(ctx, "Central", "Dune")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, status)
}

func TestBorrowWithoutReservation(t *testing.T) {
	f := newFixture(t)

	_, err := f.library.Borrow(context.Background(), "Central", "Dune", "t@e.com")
	assert.True(t, errors.Is(err, apperr.ErrReservedMissing))
}

func TestReturnWithoutLoan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Return(ctx, "Central", "Dune", "t@e.com")
	assert.True(t, errors.Is(err, apperr.ErrBorrowedMissing))

	_, err = f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	_, err = f.library.Return(ctx, "Central", "Dune", "t@e.com")
	assert.True(t, errors.Is(err, apperr.ErrBorrowedMissing))
}

func TestReserveTakenCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)

	_, err = f.library.Reserve(ctx, "Central", "Dune", "o@e.com")
	assert.True(t, errors.Is(err, apperr.ErrBookNotAvailable))

	_, err = f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	assert.True(t, errors.Is(err, apperr.ErrBookNotAvailable))

	_, err = f.library.Borrow(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)

	_, err = f.library.Reserve(ctx, "Central", "Dune", "o@e.com")
	assert.True(t, errors.Is(err, apperr.ErrBookNotAvailable))
}

func TestBorrowOtherUsersReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)

	_, err = f.library.Borrow(ctx, "Central", "Dune", "o@e.com")
	assert.True(t, errors.Is(err, apperr.ErrReservedMissing))
}

func TestReturnOtherUsersLoan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	_, err = f.library.Borrow(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)

	_, err = f.library.Return(ctx, "Central", "Dune", "o@e.com")
	assert.True(t, errors.Is(err, apperr.ErrBorrowedMissing))
}

func TestLateReturnRecordsPenalty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	borrowed, err := f.library.Borrow(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)

	f.clock.Advance(15 * 24 * time.Hour)
	result, err := f.library.Return(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	require.NotNil(t, result.Penalty)
	assert.True(t, result.Penalty.DueDate.Equal(borrowed.DueDate))
	assert.True(t, result.Penalty.ReturnDate.Equal(f.clock.now))

	penalties, total, err := f.library.Penalties(ctx, repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, f.reader.ID, penalties[0].UserID)

	own, _, err := f.users.Penalties(ctx, "t@e.com", repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Len(t, own, 1)
}

func TestExpiredReservationLapses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)

	f.clock.Advance(4 * 24 * time.Hour)

	status, err := f.library.Status(ctx, "Central", "Dune")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, status)

	_, err = f.library.Borrow(ctx, "Central", "Dune", "t@e.com")
	assert.True(t, errors.Is(err, apperr.ErrReservedMissing))

	reserved, err := f.library.Reserve(ctx, "Central", "Dune", "o@e.com")
	require.NoError(t, err)
	assert.Equal(t, f.otherOne.ID, reserved.UserID)
}

func TestReserveUnknownBookOrLibrary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Reserve(ctx, "Central", "Missing", "t@e.com")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.library.Reserve(ctx, "Nowhere", "Dune", "t@e.com")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.library.Reserve(ctx, "Central", "Dune", "ghost@e.com")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestReserveBookOutsideInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Create(ctx, LibraryInput{
		Name:    strPtr("North"),
		Email:   strPtr("north@library.org"),
		Address: strPtr("2 North Ave"),
	})
	require.NoError(t, err)

	_, err = f.library.Reserve(ctx, "North", "Dune", "t@e.com")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestSameBookAtTwoLibrariesIsIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Create(ctx, LibraryInput{
		Name:    strPtr("North"),
		Email:   strPtr("north@library.org"),
		Address: strPtr("2 North Ave"),
	})
	require.NoError(t, err)
	require.NoError(t, f.library.AddBook(ctx, "North", "Dune"))

	_, err = f.library.Reserve(ctx, "Central", "Dune", "t@e.com")
	require.NoError(t, err)
	_, err = f.library.Reserve(ctx, "North", "Dune", "o@e.com")
	require.NoError(t, err)

	activity, err := f.users.Activity(ctx, "o@e.com")
	require.NoError(t, err)
	assert.Len(t, activity.Reservations, 1)
	assert.Empty(t, activity.Loans)
}

func TestLendingRequiresEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.library.Reserve(ctx, "Central", "Dune", "")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	_, err = f.library.Borrow(ctx, "Central", "Dune", "")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	_, err = f.library.Return(ctx, "Central", "Dune", "")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}
