package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"library_service/pkg/api"
	"library_service/pkg/apperr"
	"library_service/pkg/config"
	"library_service/pkg/logger"
	"library_service/pkg/models"
	"library_service/pkg/service"
)

// seedData creates the admin account plus one author, book and library with
// the book in stock. Records that already exist are left alone, so seeding
// twice is harmless.
func seedData(ctx context.Context, deps api.Deps, seed config.SeedConfig) error {
	log := logger.GetLogger()
	role := string(models.RoleAdmin)
	if _, err := deps.Users.Create(ctx, service.UserInput{
		Email:    &seed.AdminEmail,
		Password: &seed.AdminPassword,
		Role:     &role,
	}); skip(err) != nil {
		return err
	}

	name, nickname := "Frank Herbert", "fherbert"
	if _, err := deps.Authors.Create(ctx, service.AuthorInput{Name: &name, Nickname: &nickname}); skip(err) != nil {
		return err
	}
	author, err := deps.Authors.GetByNickname(ctx, nickname)
	if err != nil {
		return err
	}

	title, description := "Dune", "A noble family fights for control of a desert planet"
	pages, year, genre := 412, 1965, string(models.GenreScienceFiction)
	if _, err := deps.Books.Create(ctx, author.ID, service.BookInput{
		Title:           &title,
		Description:     &description,
		Pages:           &pages,
		PublicationYear: &year,
		Genre:           &genre,
	}); skip(err) != nil {
		return err
	}

	library, email, address, city := "Central", "central@library.local", "1 Main Street", "Gdansk"
	if _, err := deps.Libraries.Create(ctx, service.LibraryInput{
		Name:    &library,
		Email:   &email,
		Address: &address,
		City:    &city,
	}); skip(err) != nil {
		return err
	}
	if err := deps.Libraries.AddBook(ctx, library, title); err != nil {
		return err
	}

	log.Info("Seed data ready", zap.String("admin", seed.AdminEmail))
	return nil
}

func skip(err error) error {
	if errors.Is(err, apperr.ErrAlreadyExists) {
		return nil
	}
	return err
}
