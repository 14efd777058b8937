//go:build !swagger

package httpapi

import "github.com/go-chi/chi/v5"

// MountSwagger is a no-op unless the swagger build tag is set.
func MountSwagger(r chi.Router) {}
