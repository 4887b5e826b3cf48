// Package site serves the embedded dashboard frontend. The frontend is the
// renderer: it pulls ordered categories and jittered points from /plot and
// draws them; the Go side never touches chart layout.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded frontend routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
