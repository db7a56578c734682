package api

import (
	"time"

	"library_service/pkg/models"
	"library_service/pkg/service"
)

type UserResponse struct {
	ID               uint      `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Role             string    `json:"role"`
	Phone            string    `json:"phone"`
	Birthday         string    `json:"birthday,omitempty"`
	Country          string    `json:"country"`
	City             string    `json:"city"`
	Address          string    `json:"address"`
	PostalCode       string    `json:"postalCode"`
	AccountNonLocked bool      `json:"accountNonLocked"`
	CreatedAt        time.Time `json:"createdAt"`
}

type AuthorResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
}

type BookResponse struct {
	ID              uint   `json:"id"`
	AuthorID        uint   `json:"authorId"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Pages           int    `json:"pages"`
	PublicationYear int    `json:"publicationYear"`
	Genre           string `json:"genre"`
}

type LibraryResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Country    string    `json:"country"`
	City       string    `json:"city"`
	Address    string    `json:"address"`
	PostalCode string    `json:"postalCode"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LendingResponse describes a reservation or a loan.
type LendingResponse struct {
	ID        uint      `json:"id"`
	BookID    uint      `json:"bookId"`
	LibraryID uint      `json:"libraryId"`
	UserID    uint      `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	DueDate   time.Time `json:"dueDate"`
}

type PenaltyResponse struct {
	ID         uint      `json:"id"`
	BookID     uint      `json:"bookId"`
	LibraryID  uint      `json:"libraryId"`
	UserID     uint      `json:"userId"`
	DueDate    time.Time `json:"dueDate"`
	ReturnDate time.Time `json:"returnDate"`
}

type ReturnResponse struct {
	Loan    LendingResponse  `json:"loan"`
	Penalty *PenaltyResponse `json:"penalty"`
}

type ActivityResponse struct {
	Reservations []LendingResponse `json:"reservations"`
	Loans        []LendingResponse `json:"loans"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// PageResponse is the envelope of every paginated listing.
type PageResponse[T any] struct {
	Page          int   `json:"page"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	Items         []T   `json:"items"`
}

func toUser(u *models.User) UserResponse {
	r := UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Role:             string(u.Role),
		Phone:            u.Phone,
		Country:          u.Country,
		City:             u.City,
		Address:          u.Address,
		PostalCode:       u.PostalCode,
		AccountNonLocked: u.AccountNonLocked,
		CreatedAt:        u.CreatedAt,
	}
	if u.Birthday != nil {
		r.Birthday = u.Birthday.Format(service.BirthdayLayout)
	}
	return r
}

func toAuthor(a *models.Author) AuthorResponse {
	return AuthorResponse{ID: a.ID, Name: a.Name, Nickname: a.Nickname}
}

func toBook(b *models.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		AuthorID:        b.AuthorID,
		Title:           b.Title,
		Description:     b.Description,
		Pages:           b.Pages,
		PublicationYear: b.PublicationYear,
		Genre:           string(b.Genre),
	}
}

func toLibrary(l *models.Library) LibraryResponse {
	return LibraryResponse{
		ID:         l.ID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Country:    l.Country,
		City:       l.City,
		Address:    l.Address,
		PostalCode: l.PostalCode,
		CreatedAt:  l.CreatedAt,
	}
}

func toReservation(r *models.Reserved) LendingResponse {
	return LendingResponse{ID: r.ID, BookID: r.BookID, LibraryID: r.LibraryID, UserID: r.UserID, Timestamp: r.Timestamp, DueDate: r.DueDate}
}

func toLoan(b *models.Borrowed) LendingResponse {
	return LendingResponse{ID: b.ID, BookID: b.BookID, LibraryID: b.LibraryID, UserID: b.UserID, Timestamp: b.Timestamp, DueDate: b.DueDate}
}

func toPenalty(p *models.BookPenalty) PenaltyResponse {
	return PenaltyResponse{ID: p.ID, BookID: p.BookID, LibraryID: p.LibraryID, UserID: p.UserID, DueDate: p.DueDate, ReturnDate: p.ReturnDate}
}

func toActivity(a *service.Activity) ActivityResponse {
	r := ActivityResponse{
		Reservations: make([]LendingResponse, len(a.Reservations)),
		Loans:        make([]LendingResponse, len(a.Loans)),
	}
	for i := range a.Reservations {
		r.Reservations[i] = toReservation(&a.Reservations[i])
	}
	for i := range a.Loans {
		r.Loans[i] = toLoan(&a.Loans[i])
	}
	return r
}

// mapAll converts a slice of records with one of the to* functions.
func mapAll[M any, R any](items []M, convert func(*M) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = convert(&items[i])
	}
	return out
}
