package posts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/pagination"
)

// Service implements post CRUD with author-only mutation.
type Service struct {
	repo Repository
}

func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "posts repository required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) Create(ctx context.Context, authorID uuid.UUID, input CreateInput) (*View, error) {
	post := &models.Post{
		AuthorID: authorID,
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
		VideoURL: input.VideoURL,
	}
	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
	}
	view := NewView(created)
	return &view, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewView(post)
	return &view, nil
}

func (s *Service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, NewView(&rows[i]))
	}
	return &ListResult{Posts: views, NextCursor: next}, nil
}

func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateInput) (*View, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the author can edit this post")
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.ImageURL != nil {
		post.ImageURL = input.ImageURL
	}
	if input.VideoURL != nil {
		post.VideoURL = input.VideoURL
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
	}
	view := NewView(post)
	return &view, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the author can delete this post")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
	}
	return nil
}

func (s *Service) findPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	return post, nil
}
