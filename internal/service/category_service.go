package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"courseware/internal/cache"
	apperrors "courseware/internal/errors"
	"courseware/internal/model"
	"courseware/internal/repository"
)

const categoryListCacheKey = "categories:all"
const contentCacheTTL = 5 * time.Minute

// CategoryService exposes CRUD over categories. Listings are read-through
// cached; every write invalidates the listing.
type CategoryService interface {
	Create(ctx context.Context, name string, parentID *uint) (*model.Category, error)
	Get(ctx context.Context, id uint) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, id uint, name string, parentID *uint) (*model.Category, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *cache.Client
}

// NewCategoryService builds a CategoryService with repository and cache.
func NewCategoryService(repo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

func (s *categoryService) Create(ctx context.Context, name string, parentID *uint) (*model.Category, error) {
	category := &model.Category{
		Name:     name,
		Slug:     slug.Make(name),
		ParentID: parentID,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, categoryListCacheKey)
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	if data, _ := s.cache.Get(ctx, categoryListCacheKey); data != nil {
		var cached []model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoryListCacheKey, payload, contentCacheTTL)
	}
	return categories, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, name string, parentID *uint) (*model.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = slug.Make(name)
	category.ParentID = parentID

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, categoryListCacheKey)
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, categoryListCacheKey)
	return nil
}
