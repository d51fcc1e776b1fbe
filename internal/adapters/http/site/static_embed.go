package site

import (
	"embed"
	"io/fs"
	"net/http"
)

// static holds the shell page and its assets.
//
//go:embed static/index.html static/shell.css static/shell.js
var static embed.FS

// FS returns the shell assets rooted at the static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// Unreachable: the directory is part of the embed pattern.
		return http.FS(static)
	}
	return http.FS(sub)
}
