// Package repository is the gorm backed persistence layer. Entities reference
// each other by id, related sets are loaded with explicit queries.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	p = NewPage(p.Number, p.Size)
	return q.Offset(p.Offset()).Limit(p.Size)
}

// Store groups the repositories over one connection or one transaction.
type Store interface {
	Users() UserRepository
	Authors() AuthorRepository
	Books() BookRepository
	Libraries() LibraryRepository
	Lending() LendingRepository
	// Transaction runs fn against a Store bound to a single database
	// transaction. Returning an error rolls it back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository { return &userRepository{db: s.db} }
func (s *GormStore) Authors() AuthorRepository { return &authorRepository{db: s.db} }
func (s *GormStore) Books() BookRepository { return &bookRepository{db: s.db} }
func (s *GormStore) Libraries() LibraryRepository { return &libraryRepository{db: s.db} }
func (s *GormStore) Lending() LendingRepository { return &lendingRepository{db: s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}

// isUniqueViolation catches driver errors that TranslateError left untouched.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func exists(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
