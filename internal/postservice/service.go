// Package postservice coordinates the post lifecycle: field validation,
// password digests, and the image-store side effects around repository
// writes.
package postservice

import (
	"context"
	"errors"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/board"
	"github.com/starford/mannaz/internal/digest"
	"github.com/starford/mannaz/internal/media"
	"github.com/starford/mannaz/internal/models"
)

// PageSize is the number of posts per list page.
const PageSize = 10

// PostForm carries the submitted fields of a create or edit request.
type PostForm struct {
	SubjectName string
	LinkURL     string
	Notes       string
	AuthorName  string
	Password    string
}

// Validate enforces the required fields and length caps of a post.
func (f PostForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.SubjectName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&f.LinkURL, validation.RuneLength(0, 500)),
		validation.Field(&f.AuthorName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&f.Password, validation.Required),
	)
}

// Upload is an image file attached to a create or edit request.
type Upload struct {
	Name string
	Data []byte
}

// Page is one page of the board listing plus pagination metadata.
type Page struct {
	Posts   []models.Post
	Number  int
	Total   int
	MaxPage int
}

// Service implements the post operations on top of a repository and an
// image store.
type Service struct {
	repo  board.Repository
	store media.Store
}

// NewService creates a new post service.
func NewService(repo board.Repository, store media.Store) *Service {
	return &Service{repo: repo, store: store}
}

// List returns one 1-indexed page of posts, newest first. Pages past the
// end are empty, not an error.
func (s *Service) List(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	posts, total, err := s.repo.ListPosts(ctx, page, PageSize)
	if err != nil {
		return nil, err
	}
	return &Page{Posts: posts, Number: page, Total: total, MaxPage: maxPage(total)}, nil
}

// Get returns a single post or apperr.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*models.Post, error) {
	return s.repo.GetPost(ctx, id)
}

// Create validates the form, stores the image (if any), and inserts the
// post. The image is stored before the row is persisted: a storage failure
// aborts the create so no dangling reference is ever written. If the insert
// itself fails the just-stored image is released best-effort.
func (s *Service) Create(ctx context.Context, form PostForm, img *Upload) (*models.Post, error) {
	if err := form.Validate(); err != nil {
		return nil, errors.Join(apperr.ErrValidation, err)
	}

	p := &models.Post{
		SubjectName:    form.SubjectName,
		LinkURL:        form.LinkURL,
		Notes:          form.Notes,
		AuthorName:     form.AuthorName,
		PasswordDigest: digest.Sum(form.Password),
	}

	if hasImage(img) {
		ref, key, err := s.store.Store(img.Data, img.Name)
		if err != nil {
			return nil, err
		}
		p.ImageRef, p.ImageKey = ref, key
	}

	id, err := s.repo.CreatePost(ctx, p)
	if err != nil {
		if p.ImageRef != "" {
			if delErr := s.store.Delete(p.ImageRef, p.ImageKey); delErr != nil {
				slog.Warn("orphaned image after failed insert",
					slog.String("ref", p.ImageRef), slog.String("error", delErr.Error()))
			}
		}
		return nil, err
	}
	p.ID = id
	return p, nil
}

// Update verifies the submitted password against the stored digest, then
// overwrites the mutable fields and optionally replaces the image. The
// password digest itself is never changed by an edit.
func (s *Service) Update(ctx context.Context, id int64, form PostForm, img *Upload) (*models.Post, error) {
	if err := form.Validate(); err != nil {
		return nil, errors.Join(apperr.ErrValidation, err)
	}

	existing, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !digest.Match(existing.PasswordDigest, form.Password) {
		return nil, apperr.ErrUnauthorized
	}

	updated := *existing
	updated.SubjectName = form.SubjectName
	updated.LinkURL = form.LinkURL
	updated.Notes = form.Notes
	updated.AuthorName = form.AuthorName

	if hasImage(img) {
		ref, key, err := s.store.Replace(existing.ImageRef, existing.ImageKey, img.Data, img.Name)
		if err != nil {
			return nil, err
		}
		updated.ImageRef, updated.ImageKey = ref, key
	}

	if err := s.repo.UpdatePost(ctx, id, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete verifies the submitted password, removes the row, then releases
// the stored image best-effort. A storage failure never blocks the row
// deletion; the drift is logged and accepted.
func (s *Service) Delete(ctx context.Context, id int64, password string) error {
	existing, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if !digest.Match(existing.PasswordDigest, password) {
		return apperr.ErrUnauthorized
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}

	if existing.HasImage() {
		if err := s.store.Delete(existing.ImageRef, existing.ImageKey); err != nil {
			slog.Warn("post image not released",
				slog.Int64("id", id), slog.String("ref", existing.ImageRef),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func hasImage(img *Upload) bool {
	return img != nil && img.Name != "" && len(img.Data) > 0
}

func maxPage(total int) int {
	if total == 0 {
		return 1
	}
	n := total / PageSize
	if total%PageSize != 0 {
		n++
	}
	return n
}
