package public

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var static embed.FS

// StaticFS exposes the embedded static directory rooted at "static".
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}
