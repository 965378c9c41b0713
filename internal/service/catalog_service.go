package service

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"store-service/internal/models"
	"store-service/internal/repository"

	"github.com/google/uuid"
)

type ProductInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	Stock       int32
	IsActive    bool
}

// ProductPatch has no stock field: stock only moves through order placement.
type ProductPatch struct {
	CategoryID  *uuid.UUID
	Name        *string
	Description *string
	PriceCents  *int64
	IsActive    *bool
}

type ProductListFilter struct {
	Query      string
	CategoryID *uuid.UUID
	OnlyActive *bool
	Limit      int
	Offset     int
}

type CategoryInput struct {
	Name        string
	Slug        string // derived from Name when empty
	Description string
}

type CatalogService interface {
	CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, patch ProductPatch) (*models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
}

type catalogService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCatalogService(repo *repository.Repository) CatalogService {
	return &catalogService{repo: repo, now: time.Now}
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, fieldErr("name", "is required")
	case in.PriceCents < 0:
		return nil, fieldErr("price_cents", "must be >= 0")
	case in.Stock < 0:
		return nil, fieldErr("stock", "must be >= 0")
	}

	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := s.now()
	p := &models.Product{
		CategoryID:  in.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, productID uuid.UUID, patch ProductPatch) (*models.Product, error) {
	fields := map[string]any{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fieldErr("name", "must not be empty")
		}
		fields["name"] = name
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.PriceCents != nil {
		if *patch.PriceCents < 0 {
			return nil, fieldErr("price_cents", "must be >= 0")
		}
		fields["price_cents"] = *patch.PriceCents
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if patch.CategoryID != nil {
		if err := s.ensureCategory(ctx, patch.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *patch.CategoryID
	}

	if len(fields) > 0 {
		ok, err := s.repo.Products.UpdateFields(ctx, productID, fields)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrProductNotFound
		}
	}
	return s.GetProduct(ctx, productID)
}

func (s *catalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, repository.ProductListFilter{
		Query:      f.Query,
		CategoryID: f.CategoryID,
		OnlyActive: f.OnlyActive,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
}

func (s *catalogService) ensureCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	c, err := s.repo.Categories.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fieldErr("name", "is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, fieldErr("name", "must be at most 100 characters")
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, fieldErr("slug", "must contain letters or digits")
	}

	c := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.now(),
	}
	ok, err := s.repo.Categories.TryCreate(ctx, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCategoryExists
	}
	return c, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.Categories.List(ctx)
}

// Slugify lowercases s and joins its letter and digit runs with single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	out := []rune(b.String())
	if len(out) > 100 {
		out = out[:100]
	}
	return strings.TrimRight(string(out), "-")
}
