package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"library_service/pkg/apperr"
	"library_service/pkg/models"
	"library_service/pkg/repository"
	"library_service/pkg/validator"
)

type AuthorInput struct {
	Name     *string `json:"name"`
	Nickname *string `json:"nickname"`
}

type AuthorService struct {
	store repository.Store
	log   *zap.Logger
}

func NewAuthorService(store repository.Store, log *zap.Logger) *AuthorService {
	return &AuthorService{store: store, log: log}
}

func (s *AuthorService) NicknameInUse(ctx context.Context, nickname string) (bool, error) {
	return s.store.Authors().ExistsByNickname(ctx, nickname)
}

func (s *AuthorService) Create(ctx context.Context, in AuthorInput) (*models.Author, error) {
	v := validator.New()
	v.Required(in.Name, "name")
	v.Required(in.Nickname, "nickname")
	if err := v.Err(); err != nil {
		return nil, err
	}

	author := &models.Author{
		Name:     strings.TrimSpace(*in.Name),
		Nickname: strings.TrimSpace(*in.Nickname),
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		taken, err := tx.Authors().ExistsByNickname(ctx, author.Nickname)
		if err != nil {
			return err
		}
		if taken {
			return apperr.AlreadyExists("nickname %s is already in use", author.Nickname)
		}
		if err := tx.Authors().Create(ctx, author); err != nil {
			if isDuplicate(err) {
				return apperr.AlreadyExists("nickname %s is already in use", author.Nickname)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Author created", zap.String("nickname", author.Nickname))
	return author, nil
}

func (s *AuthorService) List(ctx context.Context, page repository.Page) ([]models.Author, int64, error) {
	return s.store.Authors().List(ctx, page)
}

func (s *AuthorService) GetByNickname(ctx context.Context, nickname string) (*models.Author, error) {
	author, err := s.store.Authors().FindByNickname(ctx, nickname)
	if isNotFound(err) {
		return nil, apperr.NotFound("author %s not found", nickname)
	}
	return author, err
}

func (s *AuthorService) Books(ctx context.Context, nickname string) ([]models.Book, error) {
	author, err := s.GetByNickname(ctx, nickname)
	if err != nil {
		return nil, err
	}
	return s.store.Authors().BooksOf(ctx, author.ID)
}
