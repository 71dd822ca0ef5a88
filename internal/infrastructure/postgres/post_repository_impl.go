package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/domain/repository"
)

const postColumns = `id, author_id, content, COALESCE(image_url, ''), created_at, updated_at`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	p.Likes = []string{}
	p.Comments = []entity.Comment{}
	return p, nil
}

func (r *PostRepository) queryPosts(ctx context.Context, sql string, args ...any) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()
	posts := make([]entity.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// hydrate loads the like sets and comment logs for posts in two batched queries.
func (r *PostRepository) hydrate(ctx context.Context, posts []entity.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
	}

	likeRows, err := r.pool.Query(ctx, `
		SELECT post_id, user_id FROM post_likes
		WHERE post_id = ANY($1::uuid[])
		ORDER BY created_at, user_id
	`, ids)
	if err != nil {
		return fmt.Errorf("query likes: %w", err)
	}
	for likeRows.Next() {
		var postID, userID string
		if err := likeRows.Scan(&postID, &userID); err != nil {
			likeRows.Close()
			return err
		}
		p := &posts[index[postID]]
		p.Likes = append(p.Likes, userID)
	}
	likeRows.Close()
	if err := likeRows.Err(); err != nil {
		return err
	}

	commentRows, err := r.pool.Query(ctx, `
		SELECT id, post_id, user_id, content, created_at FROM post_comments
		WHERE post_id = ANY($1::uuid[])
		ORDER BY seq
	`, ids)
	if err != nil {
		return fmt.Errorf("query comments: %w", err)
	}
	defer commentRows.Close()
	for commentRows.Next() {
		var c entity.Comment
		if err := commentRows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return err
		}
		p := &posts[index[c.PostID]]
		p.Comments = append(p.Comments, c)
	}
	return commentRows.Err()
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (author_id, content, image_url)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, created_at, updated_at
	`, p.AuthorID, p.Content, p.ImageURL)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.Likes = []string{}
	p.Comments = []entity.Comment{}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	posts, err := r.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, repository.ErrNotFound
	}
	return &posts[0], nil
}

func (r *PostRepository) List(ctx context.Context, offset, limit int) ([]entity.Post, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	posts, err := r.queryPosts(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Post, error) {
	return r.queryPosts(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`, authorID, limit)
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET content = $1, image_url = NULLIF($2, ''), updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`, p.Content, p.ImageURL, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ToggleLike locks the post row so toggles on one post apply one at a time.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockPost(ctx, tx, postID); err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	liked := false
	if tag.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx, `
			INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT (post_id, user_id) DO NOTHING
		`, postID, userID); err != nil {
			return false, fmt.Errorf("insert like: %w", err)
		}
		liked = true
	}
	if _, err := tx.Exec(ctx, `UPDATE posts SET updated_at = now() WHERE id = $1`, postID); err != nil {
		return false, fmt.Errorf("touch post: %w", err)
	}
	return liked, tx.Commit(ctx)
}

func (r *PostRepository) AddComment(ctx context.Context, c *entity.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockPost(ctx, tx, c.PostID); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO post_comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.PostID, c.UserID, c.Content).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE posts SET updated_at = now() WHERE id = $1`, c.PostID); err != nil {
		return fmt.Errorf("touch post: %w", err)
	}
	return tx.Commit(ctx)
}

func lockPost(ctx context.Context, tx pgx.Tx, postID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

var _ repository.PostRepository = (*PostRepository)(nil)
