// Package media defines the image storage abstraction for post attachments.
//
// Two backends implement the same capability interface: Local keeps images
// on disk under a configured root, Remote uploads them to an external image
// service. The backend is selected by configuration, never by call sites.
package media

import "log/slog"

// Store persists the one optional image attached to a post.
//
// Store and Replace failures are fatal to the create/edit that triggered
// them. Delete failures are informational only: the caller logs them and
// moves on, so storage may drift from the database rather than block a
// user-facing delete.
type Store interface {
	// Store persists data under a name derived from desired name and
	// returns the reference to record on the post plus the backend's
	// opaque key (empty for Local).
	Store(data []byte, name string) (ref, key string, err error)
	// Replace removes the old asset best-effort, then stores the new one.
	// An empty oldRef skips the removal.
	Replace(oldRef, oldKey string, data []byte, name string) (ref, key string, err error)
	// Delete removes the asset. An empty ref is a no-op.
	Delete(ref, key string) error
}

// replace implements Replace on top of Delete and Store. Failure to remove
// the old asset never blocks storing the new one.
func replace(s Store, oldRef, oldKey string, data []byte, name string) (string, string, error) {
	if oldRef != "" {
		if err := s.Delete(oldRef, oldKey); err != nil {
			slog.Warn("media: stale asset not removed",
				slog.String("ref", oldRef), slog.String("error", err.Error()))
		}
	}
	return s.Store(data, name)
}
