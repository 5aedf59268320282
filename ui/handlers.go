package ui

import (
	"bytes"
	"html/template"
	"net/http"

	"csvlens/app"
	"csvlens/domain/chart"
	"csvlens/internal/api"
	"csvlens/internal/errors"
	"csvlens/internal/report"

	"github.com/gin-gonic/gin"
)

// option is one checkbox of the selection controls
type option struct {
	Value    string
	Label    string
	Selected bool
}

// sectionView is a report section rendered for the page
type sectionView struct {
	Title string
	Table template.HTML
	Empty bool
	Text  string
}

// indexView backs the page shell
type indexView struct {
	Kinds       []option
	MaxUploadMB int64
}

// profileView backs the results fragment
type profileView struct {
	Result   *app.ProfileResult
	Columns  []option
	Sections []sectionView
}

// errorView backs the error fragment
type errorView struct {
	Code    string
	Message string
}

func (s *Server) handleIndex(c *gin.Context) {
	kinds := make([]option, len(chart.Kinds))
	for i, k := range chart.Kinds {
		kinds[i] = option{Value: k.String(), Label: k.Title()}
	}
	s.renderTemplate(c, http.StatusOK, "index.html", indexView{
		Kinds:       kinds,
		MaxUploadMB: s.config.MaxUploadBytes / (1024 * 1024),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleProfile reruns the whole pipeline for the current upload and selections
func (s *Server) handleProfile(c *gin.Context) {
	req, ok := s.parseRequest(c)
	if !ok {
		return
	}
	res, err := s.service.Run(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, "fragments/profile.html", s.profileView(res))
}

func (s *Server) handleReport(c *gin.Context) {
	req, ok := s.parseRequest(c)
	if !ok {
		return
	}
	md, err := s.service.Report(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, "report.html", gin.H{
		"Filename": req.Upload.Filename,
		"Body":     template.HTML(report.HTML(md)),
	})
}

func (s *Server) handleReportMarkdown(c *gin.Context) {
	req, ok := s.parseRequest(c)
	if !ok {
		return
	}
	md, err := s.service.Report(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+api.ReportFilename(req.Upload.Filename)+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

func (s *Server) handleExport(c *gin.Context) {
	req, ok := s.parseRequest(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.service.ExportWorkbook(c.Request.Context(), req, &buf); err != nil {
		s.renderError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+api.ExportFilename(req.Upload.Filename)+`"`)
	c.Data(http.StatusOK, api.XLSXContentType, buf.Bytes())
}

func (s *Server) handleChartSVG(c *gin.Context) {
	req, ok := s.parseRequest(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.service.RenderSVG(c.Request.Context(), req, c.Query("kind"), &buf); err != nil {
		s.renderError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) parseRequest(c *gin.Context) (app.ProfileRequest, bool) {
	req, err := api.ParseProfileRequest(c.Writer, c.Request, s.config.MaxUploadBytes)
	if err != nil {
		s.renderError(c, err)
		return req, false
	}
	return req, true
}

// renderError shows a pipeline failure in place of the results
func (s *Server) renderError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	} else {
		s.logger.Debug("request rejected: %v", err)
	}
	s.renderTemplate(c, status, "fragments/error.html", errorView{Code: appErr.Code, Message: appErr.Message})
}

func (s *Server) profileView(res *app.ProfileResult) profileView {
	selected := make(map[string]bool, len(res.Selection.Columns))
	for _, name := range res.Selection.Columns {
		selected[name] = true
	}
	columns := make([]option, len(res.NumericColumns))
	for i, name := range res.NumericColumns {
		columns[i] = option{Value: name, Label: name, Selected: selected[name]}
	}

	var sections []sectionView
	for _, sec := range report.Sections(s.service.ReportInput(res)) {
		v := sectionView{Title: sec.Title, Text: sec.Text}
		if sec.Table != nil {
			v.Empty = sec.Table.Length() == 0
			// go-pretty escapes cell text when rendering HTML
			v.Table = template.HTML(sec.Table.RenderHTML())
		}
		sections = append(sections, v)
	}
	return profileView{Result: res, Columns: columns, Sections: sections}
}
