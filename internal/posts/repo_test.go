package posts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/pagination"
)

func setupPostsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS posts (
  id TEXT PRIMARY KEY,
  author_id TEXT NOT NULL,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  image_url TEXT,
  video_url TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func storedPost(authorID uuid.UUID, title string, createdAt time.Time) *models.Post {
	return &models.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     title,
		Content:   "content",
		CreatedAt: createdAt,
	}
}

func TestPostRepoCRUD(t *testing.T) {
	db := setupPostsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	post := storedPost(uuid.New(), "First post", time.Now().UTC())
	created, err := repo.Create(ctx, post)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "First post", found.Title)

	found.Title = "Edited"
	require.NoError(t, repo.Update(ctx, found))

	found, err = repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", found.Title)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepoListPagination(t *testing.T) {
	db := setupPostsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	author := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		post := storedPost(author, "Post", base.Add(time.Duration(i)*time.Minute))
		_, err := repo.Create(ctx, post)
		require.NoError(t, err)
	}

	page, next, err := repo.List(ctx, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.NotEmpty(t, next)
	assert.True(t, page[0].CreatedAt.After(page[2].CreatedAt), "newest first")

	rest, next, err := repo.List(ctx, pagination.Params{Limit: 3, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Empty(t, next)
}

func TestPostRepoListRejectsBadCursor(t *testing.T) {
	repo := NewRepository(setupPostsTestDB(t))

	_, _, err := repo.List(context.Background(), pagination.Params{Cursor: "not-a-cursor"})
	assert.Error(t, err)
}
