package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_service/pkg/config"
	"library_service/pkg/models"
)

func TestOpenInMemoryMigratesEveryModel(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer Close(db)

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Reserved{}, "idx_reserved_book_library"))
	assert.True(t, db.Migrator().HasIndex(&models.Borrowed{}, "idx_borrowed_book_library"))
}

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor(&config.DBConfig{Driver: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = dialectorFor(&config.DBConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = dialectorFor(&config.DBConfig{Driver: "mysql"})
	assert.Error(t, err)
}
