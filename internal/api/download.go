package api

import (
	"path/filepath"
	"strings"
)

// XLSXContentType is the media type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportFilename derives a download name from the uploaded file name
func ExportFilename(upload string) string {
	return downloadName(upload, "-profile.xlsx")
}

// ReportFilename derives the Markdown report download name
func ReportFilename(upload string) string {
	return downloadName(upload, "-profile.md")
}

func downloadName(upload, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(upload), filepath.Ext(upload))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || strings.Trim(base, "_") == "" {
		base = "dataset"
	}
	return base + suffix
}
