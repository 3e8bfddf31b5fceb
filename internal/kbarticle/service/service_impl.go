package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/crm/internal/kbarticle/domain"
	"github.com/smallbiznis/crm/internal/lifecycle"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"github.com/smallbiznis/crm/pkg/repository"
)

type article = domain.KbArticle

var (
	fieldTitle = lifecycle.Field[article, string]{
		Name: "title",
		Get:  func(a *article) string { return a.Title },
		Set:  func(a *article, v string) { a.Title = v },
	}
	fieldSlug = lifecycle.Field[article, string]{
		Name: "slug",
		Get:  func(a *article) string { return a.Slug },
		Set:  func(a *article, v string) { a.Slug = v },
	}
	fieldLowerSlug = lifecycle.Field[article, string]{
		Name: "lower_slug",
		Get:  func(a *article) string { return a.LowerSlug },
		Set:  func(a *article, v string) { a.LowerSlug = v },
	}
	fieldIsPublished = lifecycle.Field[article, bool]{
		Name: "is_published",
		Get:  func(a *article) bool { return a.IsPublished },
		Set:  func(a *article, v bool) { a.IsPublished = v },
	}
)

type Service struct {
	engine *lifecycle.Engine[article]
}

func New(deps lifecycle.Deps) domain.Service {
	return &Service{engine: lifecycle.New(deps, lifecycle.Kind[article]{
		Name:     "kb_article",
		Order:    "created_at desc",
		ID:       func(a *article) uuid.UUID { return a.ID },
		Snapshot: (*article).Snapshot,
		Touch: lifecycle.Touch(
			func(a *article) *time.Time { return &a.UpdatedAt },
			func(a *article) *string { return &a.UpdatedBy },
		),
	})}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Envelope[*article], error) {
	return s.engine.List(ctx, req.TenantID, req.Page,
		repository.EqPtr("kb_section_id", req.KbSectionID),
	)
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req domain.CreateRequest, actor string) (*article, error) {
	if req.KbSectionID == uuid.Nil {
		return nil, domain.ErrInvalidSection
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	// Without an explicit slug one is derived from the title.
	articleSlug := slug.Make(title)
	if req.Slug != nil {
		articleSlug = strings.TrimSpace(*req.Slug)
	}
	if articleSlug == "" {
		return nil, domain.ErrInvalidSlug
	}

	now := s.engine.Now()
	return s.engine.Create(ctx, tenantID, &article{
		ID:          uuid.New(),
		TenantID:    tenantID,
		KbSectionID: req.KbSectionID,
		Title:       title,
		Slug:        articleSlug,
		LowerSlug:   strings.ToLower(articleSlug),
		IsPublished: lifecycle.ValueOr(req.IsPublished, false),
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	})
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*article, error) {
	return s.engine.Get(ctx, tenantID, repository.ByID(id))
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req domain.UpdateRequest, actor string) (*article, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		req.Title = &title
	}
	var lowerSlug *string
	if req.Slug != nil {
		trimmed := strings.TrimSpace(*req.Slug)
		if trimmed == "" {
			return nil, domain.ErrInvalidSlug
		}
		lower := strings.ToLower(trimmed)
		req.Slug, lowerSlug = &trimmed, &lower
	}
	return s.engine.Update(ctx, tenantID, []repository.Scope{repository.ByID(id)}, []lifecycle.Change[article]{
		lifecycle.Set(fieldTitle, req.Title),
		lifecycle.Set(fieldSlug, req.Slug),
		lifecycle.Set(fieldLowerSlug, lowerSlug),
		lifecycle.Set(fieldIsPublished, req.IsPublished),
	}, actor)
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.engine.Delete(ctx, tenantID, repository.ByID(id))
}
