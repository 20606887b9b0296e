// Package service implements the application operations on top of the
// repositories and the cache. Reads go through the cache; mutations write
// to the store first and then issue the matching invalidations.
package service

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swiftcart-backend/internal/cache"
	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
	appErrors "swiftcart-backend/pkg/errors"
	"swiftcart-backend/pkg/utils"
)

const maxProductPhotos = 5

// ProductService serves the catalog: product CRUD, cached listings, search
// and reviews.
type ProductService struct {
	products    repository.ProductRepository
	reviews     repository.ReviewRepository
	users       repository.UserRepository
	cache       cache.Cache
	invalidator *cache.Dispatcher
	ttl         time.Duration
	pageSize    int
	latestLimit int
	logger      *zap.Logger
}

// NewProductService wires a ProductService.
func NewProductService(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	c cache.Cache,
	invalidator *cache.Dispatcher,
	ttl time.Duration,
	pageSize, latestLimit int,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:    products,
		reviews:     reviews,
		users:       users,
		cache:       c,
		invalidator: invalidator,
		ttl:         ttl,
		pageSize:    pageSize,
		latestLimit: latestLimit,
		logger:      logger,
	}
}

// Latest returns the newest products, cached under the latest-products key.
func (s *ProductService) Latest(ctx context.Context) ([]domain.Product, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.LatestProductsKey(), s.ttl,
		func(ctx context.Context) ([]domain.Product, error) {
			return s.products.Latest(ctx, s.latestLimit)
		})
}

// Categories returns the distinct product categories, cached.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.CategoriesKey(), s.ttl,
		func(ctx context.Context) ([]string, error) {
			return s.products.Categories(ctx)
		})
}

// AdminProducts returns the full unfiltered catalog, cached.
func (s *ProductService) AdminProducts(ctx context.Context) ([]domain.Product, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.AllProductsKey(), s.ttl,
		func(ctx context.Context) ([]domain.Product, error) {
			return s.products.All(ctx)
		})
}

// Get returns a single product, cached under its own key.
func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.ProductKey(id), s.ttl,
		func(ctx context.Context) (domain.Product, error) {
			return s.products.FindByID(ctx, id)
		})
}

// SearchQuery carries the storefront search parameters as received.
type SearchQuery struct {
	Search   string
	Sort     string // "asc" or "dsc" by price; empty keeps newest-first
	Category string
	Price    string // max price, decimal string
	Page     int
}

// SearchResult is one page of filtered products.
type SearchResult struct {
	Products  []domain.Product `json:"products"`
	TotalPage int              `json:"totalPage"`
}

// Search returns one filtered, sorted page of the catalog. Results are
// cached per filter/page combination with a short TTL; mutations do not
// invalidate these keys, the TTL is their staleness bound.
func (s *ProductService) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	key := cache.ProductSearchKey(cache.SearchParams{
		Search:   q.Search,
		Sort:     q.Sort,
		Category: q.Category,
		Price:    q.Price,
		Page:     q.Page,
	})
	return cache.GetOrLoad(ctx, s.cache, key, cache.SearchTTL,
		func(ctx context.Context) (SearchResult, error) {
			return s.search(ctx, q)
		})
}

func (s *ProductService) search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	filter := domain.ProductFilter{
		Search:   q.Search,
		Category: q.Category,
	}
	if q.Price != "" {
		maxPrice, err := strconv.ParseInt(q.Price, 10, 64)
		if err != nil {
			return SearchResult{}, appErrors.NewValidation("Invalid price filter")
		}
		filter.MaxPrice = maxPrice
	}

	matched, err := s.products.Find(ctx, filter)
	if err != nil {
		return SearchResult{}, err
	}

	switch q.Sort {
	case "asc":
		sort.SliceStable(matched, func(a, b int) bool { return matched[a].Price < matched[b].Price })
	case "dsc":
		sort.SliceStable(matched, func(a, b int) bool { return matched[a].Price > matched[b].Price })
	}

	totalPage := int(math.Ceil(float64(len(matched)) / float64(s.pageSize)))
	start := (q.Page - 1) * s.pageSize
	if start >= len(matched) {
		return SearchResult{Products: []domain.Product{}, TotalPage: totalPage}, nil
	}
	end := start + s.pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return SearchResult{Products: matched[start:end], TotalPage: totalPage}, nil
}

// CreateProductInput is the payload for creating a product.
type CreateProductInput struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Category    string         `json:"category" validate:"required"`
	Price       int64          `json:"price" validate:"required,gt=0"`
	Stock       int            `json:"stock" validate:"required,gte=0"`
	Photos      []domain.Photo `json:"photos" validate:"required,min=1"`
}

// Create stores a new product and invalidates the aggregate product views.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return domain.Product{}, err
	}
	if len(in.Photos) > maxProductPhotos {
		return domain.Product{}, appErrors.NewValidation("You can only upload 5 Photos")
	}

	now := time.Now()
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Category:    strings.ToLower(in.Category),
		Price:       in.Price,
		Stock:       in.Stock,
		Photos:      in.Photos,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return domain.Product{}, err
	}

	if err := s.invalidator.Invalidate(ctx,
		cache.ProductsChanged{},
		cache.AdminStale{},
	); err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("product created", zap.String("productId", p.ID))
	return p, nil
}

// UpdateProductInput carries a partial product update; nil fields are left
// unchanged.
type UpdateProductInput struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	Price       *int64         `json:"price"`
	Stock       *int           `json:"stock"`
	Photos      []domain.Photo `json:"photos"`
}

// Update applies a partial update and invalidates the product's cache keys.
func (s *ProductService) Update(ctx context.Context, id string, in UpdateProductInput) (domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = strings.ToLower(*in.Category)
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return domain.Product{}, appErrors.NewValidation("Price must be positive")
		}
		p.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return domain.Product{}, appErrors.NewValidation("Stock must not be negative")
		}
		p.Stock = *in.Stock
	}
	if len(in.Photos) > 0 {
		if len(in.Photos) > maxProductPhotos {
			return domain.Product{}, appErrors.NewValidation("You can only upload 5 Photos")
		}
		p.Photos = in.Photos
	}
	p.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}

	if err := s.invalidator.Invalidate(ctx,
		cache.ProductsChanged{ProductIDs: []string{id}},
		cache.AdminStale{},
	); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Delete removes a product and invalidates its cache keys.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	return s.invalidator.Invalidate(ctx,
		cache.ProductsChanged{ProductIDs: []string{id}},
		cache.AdminStale{},
	)
}
