package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/models"
)

const postColumns = `id, subject_name, link_url, image_ref, image_key, notes, author_name, password_digest, created_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.SubjectName, &p.LinkURL, &p.ImageRef, &p.ImageKey,
		&p.Notes, &p.AuthorName, &p.PasswordDigest, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePost inserts a new post and returns its assigned id. Ids are
// assigned by the engine and are strictly increasing, never reused.
func (db *DB) CreatePost(ctx context.Context, p *models.Post) (int64, error) {
	const insert = `
		INSERT INTO posts (subject_name, link_url, image_ref, image_key, notes, author_name, password_digest)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	args := []any{p.SubjectName, p.LinkURL, p.ImageRef, p.ImageKey, p.Notes, p.AuthorName, p.PasswordDigest}

	// lib/pq does not support LastInsertId.
	if db.driver == DriverPostgres {
		var id int64
		err := db.conn.QueryRowContext(ctx, db.bind(insert+` RETURNING id`), args...).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("board: insert post: %w", err)
		}
		return id, nil
	}

	res, err := db.conn.ExecContext(ctx, insert, args...)
	if err != nil {
		return 0, fmt.Errorf("board: insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("board: last insert id: %w", err)
	}
	return id, nil
}

// GetPost returns the post with the given id, or apperr.ErrNotFound.
func (db *DB) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := db.conn.QueryRowContext(ctx,
		db.bind(`SELECT `+postColumns+` FROM posts WHERE id = ?`), id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("board: get post %d: %w", id, err)
	}
	return p, nil
}

// UpdatePost overwrites the mutable fields of the post with the given id.
// password_digest is deliberately not part of the statement: it is set once
// at creation and never changed. Returns apperr.ErrNotFound when no row
// matches.
func (db *DB) UpdatePost(ctx context.Context, id int64, p *models.Post) error {
	res, err := db.conn.ExecContext(ctx, db.bind(`
		UPDATE posts
		SET subject_name = ?, link_url = ?, image_ref = ?, image_key = ?, notes = ?, author_name = ?
		WHERE id = ?`),
		p.SubjectName, p.LinkURL, p.ImageRef, p.ImageKey, p.Notes, p.AuthorName, id)
	if err != nil {
		return fmt.Errorf("board: update post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("board: update post %d: %w", id, err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeletePost removes the post with the given id, or apperr.ErrNotFound.
func (db *DB) DeletePost(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, db.bind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("board: delete post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("board: delete post %d: %w", id, err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListPosts returns one page of posts ordered by id descending (newest
// first) plus the total row count. Pages are 1-indexed; a page past the end
// yields an empty slice, not an error.
func (db *DB) ListPosts(ctx context.Context, page, pageSize int) ([]models.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("board: count posts: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		db.bind(`SELECT `+postColumns+` FROM posts ORDER BY id DESC LIMIT ? OFFSET ?`),
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("board: list posts: %w", err)
	}
	defer rows.Close()

	var out []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("board: scan post: %w", err)
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}
