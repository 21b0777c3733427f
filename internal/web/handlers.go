package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/postservice"
	"github.com/starford/mannaz/internal/session"
)

// maxRequestBytes caps the request body, image upload included.
const maxRequestBytes = 16 << 20 // 16 MiB

// Flash messages surfaced to the user after a redirect.
const (
	flashMissingFields  = "Subject, author and password are required."
	flashInvalidForm    = "The submitted form could not be read."
	flashWrongPassword  = "Incorrect password."
	flashUploadFailed   = "The image could not be stored. Nothing was saved."
	flashLoginFailed    = "Incorrect password."
	flashPostCreated    = "Post created."
	flashPostUpdated    = "Post updated."
	flashPostDeleted    = "Post deleted."
)

// Handler holds the board route handlers.
type Handler struct {
	svc   *postservice.Service
	guard *session.Guard
}

// NewHandler creates a new Handler.
func NewHandler(svc *postservice.Service, guard *session.Guard) *Handler {
	return &Handler{svc: svc, guard: guard}
}

// List handles GET /. Posts are paginated via the page query parameter,
// newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	pg, err := h.svc.List(r.Context(), page)
	if err != nil {
		slog.Error("list posts failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	render(w, "index.html", listView{
		Flash: popFlash(w, r),
		Page:  pg,
	})
}

// LoginForm handles GET /login.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, "login.html", loginView{Flash: popFlash(w, r)})
}

// Login handles POST /login. The submitted password is checked against the
// one configured shared secret; a match establishes the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, flashInvalidForm)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	token, ok := h.guard.Login(r.PostFormValue("password"))
	if !ok {
		setFlash(w, flashLoginFailed)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET /logout. Revokes the session token and clears the
// cookie; safe to call when already logged out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.guard.Logout(sessionToken(r))
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Add handles POST /add.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	form, img, ok := h.postForm(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Create(r.Context(), form, img); err != nil {
		h.redirectError(w, r, err, "create post")
		return
	}

	setFlash(w, flashPostCreated)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Edit handles POST /edit/{id}. The submitted password must match the
// post's stored digest; a mismatch leaves the post untouched.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	form, img, ok := h.postForm(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Update(r.Context(), id, form, img); err != nil {
		h.redirectError(w, r, err, "update post")
		return
	}

	setFlash(w, flashPostUpdated)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete handles POST /delete with fields post_id and password.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, flashInvalidForm)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("post_id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.svc.Delete(r.Context(), id, r.PostFormValue("password")); err != nil {
		h.redirectError(w, r, err, "delete post")
		return
	}

	setFlash(w, flashPostDeleted)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// postForm reads the add/edit form fields and the optional image upload.
// Returns ok=false when the request was already answered.
func (h *Handler) postForm(w http.ResponseWriter, r *http.Request) (postservice.PostForm, *postservice.Upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	if err := r.ParseMultipartForm(maxRequestBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		setFlash(w, flashInvalidForm)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return postservice.PostForm{}, nil, false
	}

	form := postservice.PostForm{
		SubjectName: r.PostFormValue("actor_name"),
		LinkURL:     r.PostFormValue("link_url"),
		Notes:       r.PostFormValue("memo"),
		AuthorName:  r.PostFormValue("author"),
		Password:    r.PostFormValue("password"),
	}

	img, err := formImage(r)
	if err != nil {
		setFlash(w, flashInvalidForm)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return postservice.PostForm{}, nil, false
	}
	return form, img, true
}

// formImage returns the uploaded image file, or nil when the form carries
// none.
func formImage(r *http.Request) (*postservice.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	f, hdr, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	if hdr.Filename == "" {
		return nil, nil
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &postservice.Upload{Name: hdr.Filename, Data: data}, nil
}

// redirectError maps a service error onto the redirect-plus-flash policy:
// user-recoverable failures go back to the list with a message, missing
// posts are a 404, anything else is logged and answered with a 500.
func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		setFlash(w, flashMissingFields)
	case errors.Is(err, apperr.ErrUnauthorized):
		setFlash(w, flashWrongPassword)
	case errors.Is(err, apperr.ErrStorage):
		setFlash(w, flashUploadFailed)
	case errors.Is(err, apperr.ErrNotFound):
		http.NotFound(w, r)
		return
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
