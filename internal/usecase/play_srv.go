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

type PlayService interface {
	ListPlays(ctx context.Context, query request.PlayQuery) (*response.PaginatedResponse[response.PlayListResponse], error)
	GetPlay(ctx context.Context, playID string) (*response.PlayDetailResponse, error)
	CreatePlay(ctx context.Context, req *request.PlayRequest) (*response.PlayDetailResponse, error)
	UpdatePlay(ctx context.Context, playID string, req *request.PlayRequest) (*response.PlayDetailResponse, error)
}

type playService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewPlayService(repo *repository.Repository, log *zap.Logger) PlayService {
	return &playService{
		repo: repo,
		log:  log.With(zap.String("service", "play")),
		now:  time.Now,
	}
}

func (s *playService) ListPlays(ctx context.Context, query request.PlayQuery) (*response.PaginatedResponse[response.PlayListResponse], error) {
	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	genreIDs, err := utils.ParseUUIDList(query.Genres)
	if err != nil {
		return nil, domain.NewInvalidError("genres", err)
	}
	actorIDs, err := utils.ParseUUIDList(query.Actors)
	if err != nil {
		return nil, domain.NewInvalidError("actors", err)
	}

	filter := repository.PlayFilter{Title: query.Title, GenreIDs: genreIDs, ActorIDs: actorIDs}

	plays, err := s.repo.Play.List(ctx, filter, query.Limit(), query.Offset())
	if err != nil {
		s.log.Error("Failed to list plays", zap.Error(err), zap.String("title", query.Title))
		return nil, fmt.Errorf("list plays: %w", err)
	}

	total, err := s.repo.Play.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count plays", zap.Error(err))
		return nil, fmt.Errorf("count plays: %w", err)
	}

	resp := make([]response.PlayListResponse, len(plays))
	for i, play := range plays {
		resp[i] = response.PlayToListResponse(play)
	}

	return response.NewPaginatedResponse(resp, query.Page, query.Limit(), total), nil
}

func (s *playService) GetPlay(ctx context.Context, playID string) (*response.PlayDetailResponse, error) {
	id, err := uuid.Parse(playID)
	if err != nil {
		return nil, domain.NewInvalidError("id", err)
	}

	play, err := s.repo.Play.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if play == nil {
		return nil, fmt.Errorf("play %s: %w", playID, domain.ErrNotFound)
	}

	resp := response.PlayToDetailResponse(play)
	return &resp, nil
}

func (s *playService) CreatePlay(ctx context.Context, req *request.PlayRequest) (*response.PlayDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	play := &entity.Play{
		Base:        entity.NewBase(s.now()),
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.resolveTags(ctx, play, req); err != nil {
		return nil, err
	}

	if err := s.repo.Play.Create(ctx, play); err != nil {
		return nil, err
	}

	s.log.Info("Play created",
		zap.String("play_id", play.ID.String()),
		zap.String("title", play.Title),
		zap.Int("actors", len(play.Actors)),
		zap.Int("genres", len(play.Genres)),
	)

	resp := response.PlayToDetailResponse(play)
	return &resp, nil
}

func (s *playService) UpdatePlay(ctx context.Context, playID string, req *request.PlayRequest) (*response.PlayDetailResponse, error) {
	id, err := uuid.Parse(playID)
	if err != nil {
		return nil, domain.NewInvalidError("id", err)
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &domain.RequestError{Fields: errs}
	}

	play, err := s.repo.Play.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if play == nil {
		return nil, fmt.Errorf("play %s: %w", playID, domain.ErrNotFound)
	}

	play.Title = req.Title
	play.Description = req.Description
	play.UpdatedAt = s.now()
	if err := s.resolveTags(ctx, play, req); err != nil {
		return nil, err
	}

	if err := s.repo.Play.Update(ctx, play); err != nil {
		return nil, err
	}

	s.log.Info("Play updated", zap.String("play_id", playID))

	resp := response.PlayToDetailResponse(play)
	return &resp, nil
}

// resolveTags replaces the play's actors and genres with the requested ids.
// Unknown ids are rejected rather than silently dropped.
func (s *playService) resolveTags(ctx context.Context, play *entity.Play, req *request.PlayRequest) error {
	actorIDs, err := parseIDSet(req.ActorIDs)
	if err != nil {
		return domain.NewInvalidError("actors", err)
	}
	genreIDs, err := parseIDSet(req.GenreIDs)
	if err != nil {
		return domain.NewInvalidError("genres", err)
	}

	actors, err := s.repo.Actor.FindByIDs(ctx, actorIDs)
	if err != nil {
		return fmt.Errorf("resolve actors: %w", err)
	}
	if len(actors) != len(actorIDs) {
		return &domain.ValidationError{Index: -1, Field: "actors", Reason: domain.ReasonNotFound, Err: domain.ErrNotFound}
	}

	genres, err := s.repo.Genre.FindByIDs(ctx, genreIDs)
	if err != nil {
		return fmt.Errorf("resolve genres: %w", err)
	}
	if len(genres) != len(genreIDs) {
		return &domain.ValidationError{Index: -1, Field: "genres", Reason: domain.ReasonNotFound, Err: domain.ErrNotFound}
	}

	play.Actors = actors
	play.Genres = genres
	return nil
}

// parseIDSet parses ids and drops repeats, keeping first-seen order.
func parseIDSet(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
