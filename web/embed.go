package web

import "embed"

// TemplatesFS embeds the upload and dashboard page templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet and the chart script.
//
//go:embed static/*
var StaticFS embed.FS
