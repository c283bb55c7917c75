package web

import "embed"

// TemplatesFS contains the server-rendered page shells.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS contains stylesheets and client scripts served under /static/.
//
//go:embed static/*
var StaticFS embed.FS
