package view

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var staticFiles embed.FS

// Static скрипты и стили страницы обзора
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
