package web

import "embed"

//go:generate go run github.com/a-h/templ/cmd/templ@v0.2.707 generate

//go:embed "assets"
var Files embed.FS
