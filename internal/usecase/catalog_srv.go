package usecase

import (
	"context"
	"fmt"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/domain"
	"theatre-booking/internal/dto/request"
	"theatre-booking/internal/dto/response"
	"theatre-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the genre and actor dictionaries plays are tagged with.
type CatalogService interface {
	ListGenres(ctx context.Context) ([]response.GenreResponse, error)
	CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, genreID string) error

	ListActors(ctx context.Context) ([]response.ActorResponse, error)
	CreateActor(ctx context.Context, req *request.ActorRequest) (*response.ActorResponse, error)
	DeleteActor(ctx context.Context, actorID string) error
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
		now:  time.Now,
	}
}

func (s *catalogService) ListGenres(ctx context.Context) ([]response.GenreResponse, error) {
	genres, err := s.repo.Genre.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	resp := make([]response.GenreResponse, len(genres))
	for i, g := range genres {
		resp[i] = response.GenreToResponse(g)
	}
	return resp, nil
}

func (s *catalogService) CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	genre := &entity.Genre{BaseSimple: entity.NewBaseSimple(s.now()), Name: req.Name}
	if err := s.repo.Genre.Create(ctx, genre); err != nil {
		return nil, err
	}

	s.log.Info("Genre created", zap.String("genre_id", genre.ID.String()), zap.String("name", genre.Name))
	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *catalogService) DeleteGenre(ctx context.Context, genreID string) error {
	id, err := uuid.Parse(genreID)
	if err != nil {
		return domain.NewInvalidError("id", err)
	}
	if err := s.repo.Genre.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Genre deleted", zap.String("genre_id", genreID))
	return nil
}

func (s *catalogService) ListActors(ctx context.Context) ([]response.ActorResponse, error) {
	actors, err := s.repo.Actor.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}

	resp := make([]response.ActorResponse, len(actors))
	for i, a := range actors {
		resp[i] = response.ActorToResponse(a)
	}
	return resp, nil
}

func (s *catalogService) CreateActor(ctx context.Context, req *request.ActorRequest) (*response.ActorResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	actor := &entity.Actor{
		BaseSimple: entity.NewBaseSimple(s.now()),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	}
	if err := s.repo.Actor.Create(ctx, actor); err != nil {
		return nil, err
	}

	s.log.Info("Actor created", zap.String("actor_id", actor.ID.String()), zap.String("name", actor.FullName()))
	resp := response.ActorToResponse(actor)
	return &resp, nil
}

func (s *catalogService) DeleteActor(ctx context.Context, actorID string) error {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return domain.NewInvalidError("id", err)
	}
	if err := s.repo.Actor.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Actor deleted", zap.String("actor_id", actorID))
	return nil
}
