package models

import (
	"time"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleLibrarian Role = "LIBRARIAN"
	RoleUser      Role = "USER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleUser:
		return true
	}
	return false
}

type Genre string

const (
	GenreFantasy        Genre = "FANTASY"
	GenreScienceFiction Genre = "SCIENCE_FICTION"
	GenreMystery        Genre = "MYSTERY"
	GenreThriller       Genre = "THRILLER"
	GenreRomance        Genre = "ROMANCE"
	GenreHorror         Genre = "HORROR"
	GenreHistorical     Genre = "HISTORICAL"
	GenreBiography      Genre = "BIOGRAPHY"
	GenrePoetry         Genre = "POETRY"
	GenreChildren       Genre = "CHILDREN"
	GenreNonFiction     Genre = "NON_FICTION"
)

var Genres = []Genre{
	GenreFantasy, GenreScienceFiction, GenreMystery, GenreThriller, GenreRomance, GenreHorror,
	GenreHistorical, GenreBiography, GenrePoetry, GenreChildren, GenreNonFiction,
}

func (g Genre) Valid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// BookStatus is derived per library from the lending records, it is never stored.
type BookStatus string

const (
	StatusAvailable BookStatus = "AVAILABLE"
	StatusReserved  BookStatus = "RESERVED"
	StatusBorrowed  BookStatus = "BORROWED"
)

type User struct {
	ID               uint   `gorm:"primaryKey"`
	Email            string `gorm:"size:120;not null;uniqueIndex"`
	FirstName        string `gorm:"size:80"`
	LastName         string `gorm:"size:80"`
	Password         string `gorm:"size:255;not null"`
	Role             Role   `gorm:"size:20;not null;default:'USER'"`
	Phone            string `gorm:"size:12"`
	Birthday         *time.Time
	Country          string `gorm:"size:80"`
	City             string `gorm:"size:80"`
	Address          string
	PostalCode       string `gorm:"size:5"`
	AccountNonLocked bool   `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Author struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:120;not null"`
	Nickname  string `gorm:"size:80;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Book struct {
	ID              uint   `gorm:"primaryKey"`
	AuthorID        uint   `gorm:"not null;index"`
	Title           string `gorm:"size:200;not null;uniqueIndex"`
	Description     string `gorm:"not null"`
	Pages           int    `gorm:"not null;check:pages > 0"`
	PublicationYear int    `gorm:"not null;check:publication_year > 0"`
	Genre           Genre  `gorm:"size:30;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Library struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:120;not null;uniqueIndex"`
	Email      string `gorm:"size:120;not null;uniqueIndex"`
	Phone      string `gorm:"size:12"`
	Country    string `gorm:"size:80"`
	City       string `gorm:"size:80"`
	Address    string `gorm:"not null"`
	PostalCode string `gorm:"size:5"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LibraryBook links a book into a library's inventory.
type LibraryBook struct {
	ID        uint `gorm:"primaryKey"`
	LibraryID uint `gorm:"not null;uniqueIndex:idx_library_book"`
	BookID    uint `gorm:"not null;uniqueIndex:idx_library_book;index"`
	CreatedAt time.Time
}

// LibraryMember links a user to a library it is registered with.
type LibraryMember struct {
	ID        uint `gorm:"primaryKey"`
	LibraryID uint `gorm:"not null;uniqueIndex:idx_library_member"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_library_member;index"`
	CreatedAt time.Time
}

// Reserved is a hold on the copy of a book held by a library. The unique
// index on (book, library) keeps a single active hold per copy.
type Reserved struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_reserved_book_library"`
	LibraryID uint      `gorm:"not null;uniqueIndex:idx_reserved_book_library"`
	UserID    uint      `gorm:"not null;index"`
	Timestamp time.Time `gorm:"not null"`
	DueDate   time.Time `gorm:"not null"`
}

func (Reserved) TableName() string { return "reserved" }

// Borrowed is an active loan; same uniqueness rule as Reserved.
type Borrowed struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_borrowed_book_library"`
	LibraryID uint      `gorm:"not null;uniqueIndex:idx_borrowed_book_library"`
	UserID    uint      `gorm:"not null;index"`
	Timestamp time.Time `gorm:"not null"`
	DueDate   time.Time `gorm:"not null"`
}

func (Borrowed) TableName() string { return "borrowed" }

type BookPenalty struct {
	ID         uint      `gorm:"primaryKey"`
	BookID     uint      `gorm:"not null;index"`
	LibraryID  uint      `gorm:"not null;index"`
	UserID     uint      `gorm:"not null;index"`
	DueDate    time.Time `gorm:"not null"`
	ReturnDate time.Time `gorm:"not null"`
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Author{}, &Book{}, &Library{},
		&LibraryBook{}, &LibraryMember{},
		&Reserved{}, &Borrowed{}, &BookPenalty{},
	}
}
