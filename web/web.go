// Package web serves the embedded browser frontend. The pages are plain
// HTML and JavaScript talking to the JSON API on the same origin.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// Handler returns the static file handler for the frontend.
func Handler() http.Handler {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/app", http.FileServer(http.FS(static)))
}
