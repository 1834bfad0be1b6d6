package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"seoblog/api/internal/models"
)

var ErrBlogNotFound = errors.New("blog not found")

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string) (models.Blog, error) {
	const query = `
		SELECT id, slug, author_id, created_at
		FROM blogs WHERE slug = $1
	`

	row := r.pool.QueryRow(ctx, query, strings.ToLower(slug))
	var blog models.Blog
	if err := row.Scan(&blog.ID, &blog.Slug, &blog.AuthorID, &blog.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Blog{}, ErrBlogNotFound
		}
		return models.Blog{}, err
	}
	return blog, nil
}
