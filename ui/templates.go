package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log"

	"github.com/gin-gonic/gin"
)

var funcMap = template.FuncMap{
	"formatDuration": func(ms int64) string {
		if ms < 1000 {
			return fmt.Sprintf("%dms", ms)
		}
		return fmt.Sprintf("%.2fs", float64(ms)/1000)
	},
}

// parseTemplates loads every page and fragment, naming each by its path
func parseTemplates(templatesFS fs.FS) (*template.Template, error) {
	root := template.New("").Funcs(funcMap)

	pages, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob root templates: %w", err)
	}
	fragments, err := fs.Glob(templatesFS, "fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob fragment templates: %w", err)
	}

	files := append(pages, fragments...)
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found")
	}
	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := root.New(file).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}
	log.Printf("[TemplateInit] Parsed %d templates", len(files))
	return root, nil
}

// renderTemplate executes a template into a buffer first so a failure never
// leaves a half-written page
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template error for %s: %v (data %T)", templateName, err, data)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("error writing template response: %v", err)
	}
}
