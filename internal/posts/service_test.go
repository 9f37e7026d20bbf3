package posts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/pagination"
)

type fakePostRepo struct {
	byID    map[uuid.UUID]*models.Post
	deleted []uuid.UUID
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{byID: map[uuid.UUID]*models.Post{}}
}

func (f *fakePostRepo) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.ID = uuid.New()
	post.CreatedAt = time.Now().UTC()
	f.byID[post.ID] = post
	return post, nil
}

func (f *fakePostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if post, ok := f.byID[id]; ok {
		copied := *post
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePostRepo) List(ctx context.Context, params pagination.Params) ([]models.Post, string, error) {
	var rows []models.Post
	for _, post := range f.byID {
		rows = append(rows, *post)
	}
	return rows, "", nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	if _, ok := f.byID[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.byID[post.ID] = post
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func newPostsService(t *testing.T) (*Service, *fakePostRepo) {
	t.Helper()
	repo := newFakePostRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateAndGetPost(t *testing.T) {
	svc, _ := newPostsService(t)
	author := uuid.New()
	image := "https://cdn.example.com/blades-in-use.jpg"

	created, err := svc.Create(context.Background(), author, CreateInput{
		Title:    "Removing decals without scratching",
		Content:  "Plastic blades lift vinyl decals cleanly.",
		ImageURL: &image,
	})
	require.NoError(t, err)
	assert.Equal(t, author, created.AuthorID)
	require.NotNil(t, created.ImageURL)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
}

func TestGetMissingPost(t *testing.T) {
	svc, _ := newPostsService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdatePostPartialEdit(t *testing.T) {
	svc, _ := newPostsService(t)
	author := uuid.New()

	created, err := svc.Create(context.Background(), author, CreateInput{
		Title:   "Original title",
		Content: "Original content",
	})
	require.NoError(t, err)

	newTitle := "Edited title"
	updated, err := svc.Update(context.Background(), author, created.ID, UpdateInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Edited title", updated.Title)
	assert.Equal(t, "Original content", updated.Content)
}

func TestUpdatePostRejectsNonAuthor(t *testing.T) {
	svc, _ := newPostsService(t)

	created, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Title:   "Title",
		Content: "Content",
	})
	require.NoError(t, err)

	title := "Hijacked"
	_, err = svc.Update(context.Background(), uuid.New(), created.ID, UpdateInput{Title: &title})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestDeletePostAuthorOnly(t *testing.T) {
	svc, repo := newPostsService(t)
	author := uuid.New()

	created, err := svc.Create(context.Background(), author, CreateInput{
		Title:   "Title",
		Content: "Content",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
	assert.Empty(t, repo.deleted)

	require.NoError(t, svc.Delete(context.Background(), author, created.ID))
	assert.Equal(t, []uuid.UUID{created.ID}, repo.deleted)
}

func TestListPosts(t *testing.T) {
	svc, _ := newPostsService(t)
	author := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), author, CreateInput{
			Title:   "Post",
			Content: "Content",
		})
		require.NoError(t, err)
	}

	result, err := svc.List(context.Background(), pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, result.Posts, 3)
}
