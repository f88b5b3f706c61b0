package service

import (
	"context"
	"fmt"

	"github.com/VanZep/FeedbackBook/internal/dto"
	"github.com/VanZep/FeedbackBook/internal/models"
	"github.com/VanZep/FeedbackBook/internal/repository"
	"github.com/VanZep/FeedbackBook/internal/validation"
	"github.com/VanZep/FeedbackBook/pkg/apperror"
)

var ErrTitleNotFound = apperror.NotFound("title not found")

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, d dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, d dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	reviewRepo   repository.ReviewRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	reviewRepo repository.ReviewRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		reviewRepo:   reviewRepo,
	}
}

// List annotates every title with its mean review score in one grouped query.
func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	ratings, err := s.reviewRepo.AverageRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for _, t := range titles {
		var rating *float64
		if avg, ok := ratings[t.ID]; ok {
			avg := avg
			rating = &avg
		}
		responses = append(responses, dto.FromModelToTitleResponse(t, rating))
	}
	return dto.NewPaginatedTitleResponse(responses, int(total), page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	rating, err := s.reviewRepo.AverageRating(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.FromModelToTitleResponse(*title, rating)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, d dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if err := validation.YearNotFuture(d.Year); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	title := &models.Title{
		Name:        d.Name,
		Year:        d.Year,
		Description: d.Description,
	}

	if d.Category != nil {
		category, err := s.resolveCategory(ctx, *d.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	genres, err := s.resolveGenres(ctx, d.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	resp := dto.FromModelToTitleResponse(*title, nil)
	return &resp, nil
}

func (s *titleService) Update(ctx context.Context, id int64, d dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if d.Name != nil {
		title.Name = *d.Name
	}
	if d.Year != nil {
		if err := validation.YearNotFuture(*d.Year); err != nil {
			return nil, apperror.BadRequest(err.Error())
		}
		title.Year = *d.Year
	}
	if d.Description != nil {
		title.Description = *d.Description
	}
	if d.Category != nil {
		category, err := s.resolveCategory(ctx, *d.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}
	if d.Genre != nil {
		genres, err := s.resolveGenres(ctx, *d.Genre)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	if err := s.titleRepo.Save(ctx, title); err != nil {
		return nil, err
	}

	rating, err := s.reviewRepo.AverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToTitleResponse(*title, rating)
	return &resp, nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

// resolveCategory maps a slug reference to an existing category; an unknown
// slug is a validation failure, not a missing resource.
func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.BadRequest(fmt.Sprintf("unknown category slug %q", slug))
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		for _, slug := range slugs {
			if !found[slug] {
				return nil, apperror.BadRequest(fmt.Sprintf("unknown genre slug %q", slug))
			}
		}
	}
	return genres, nil
}
