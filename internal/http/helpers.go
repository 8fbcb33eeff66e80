package http

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const maxFileNameLen = 128

// sanitizeFileName keeps the base name of an uploaded file, without control
// characters and bounded in length, so it is safe to log and display.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, name)
	if utf8.RuneCountInString(name) > maxFileNameLen {
		runes := []rune(name)
		name = string(runes[:maxFileNameLen])
	}
	return name
}
