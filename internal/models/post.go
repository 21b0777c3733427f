// Package models defines the domain types for mannaz.
package models

import "time"

// Post is a single board entry. ImageRef is either a filename under the
// local media root or a fully-qualified URL from the remote backend;
// ImageKey is the remote backend's opaque asset identifier and is empty for
// locally stored images. The two are always set and cleared together.
type Post struct {
	ID             int64     `json:"id"`
	SubjectName    string    `json:"subject_name"`
	LinkURL        string    `json:"link_url,omitempty"`
	ImageRef       string    `json:"image_ref,omitempty"`
	ImageKey       string    `json:"-"`
	Notes          string    `json:"notes,omitempty"`
	AuthorName     string    `json:"author_name"`
	PasswordDigest string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasImage reports whether an image is attached to the post.
func (p *Post) HasImage() bool {
	return p.ImageRef != ""
}
