package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

type TaxonomyService interface {
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	ListTags(ctx context.Context) ([]dto.TagResponse, error)
	CreateCategory(ctx context.Context, req dto.CreateTaxonomyRequest) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateTaxonomyRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateTag(ctx context.Context, req dto.CreateTaxonomyRequest) (*dto.TagResponse, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type taxonomyService struct {
	repo repository.TaxonomyRepository
}

func NewTaxonomyService(repo repository.TaxonomyRepository) TaxonomyService {
	return &taxonomyService{repo: repo}
}

func (s *taxonomyService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindCategories(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return toCategoryResponses(categories), nil
}

func (s *taxonomyService) ListTags(ctx context.Context) ([]dto.TagResponse, error) {
	tags, err := s.repo.FindTags(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		result = append(result, dto.TagResponse{
			ID:        tag.ID,
			Name:      tag.Name,
			Slug:      tag.Slug,
			PostCount: tag.PostCount,
		})
	}
	return result, nil
}

func (s *taxonomyService) CreateCategory(ctx context.Context, req dto.CreateTaxonomyRequest) (*dto.CategoryResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = req.Name
	}
	slug = Slugify(slug)
	if slug == "" {
		return nil, apperror.New(400, "name must contain at least one letter or digit", apperror.ErrInvalidInput)
	}

	category := &model.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(409, "a category with this slug already exists", apperror.ErrConflict)
		}
		return nil, err
	}

	return &dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}, nil
}

func (s *taxonomyService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateTaxonomyRequest) (*dto.CategoryResponse, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	return &dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}, nil
}

func (s *taxonomyService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *taxonomyService) CreateTag(ctx context.Context, req dto.CreateTaxonomyRequest) (*dto.TagResponse, error) {
	slug := req.Slug
	if slug == "" {
		slug = req.Name
	}
	slug = Slugify(slug)
	if slug == "" {
		return nil, apperror.New(400, "name must contain at least one letter or digit", apperror.ErrInvalidInput)
	}

	tag := &model.Tag{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	}

	if err := s.repo.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(409, "a tag with this slug already exists", apperror.ErrConflict)
		}
		return nil, err
	}

	return &dto.TagResponse{
		ID:   tag.ID,
		Name: tag.Name,
		Slug: tag.Slug,
	}, nil
}

func (s *taxonomyService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTag(ctx, id)
}
