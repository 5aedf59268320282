package api

import (
	"bytes"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"csvlens/app"
	"csvlens/domain/dataset"
	"csvlens/internal/errors"
)

// Multipart field names shared by the dashboard and the JSON API
const (
	FieldDataset   = "dataset"
	FieldColumns   = "columns"
	FieldKinds     = "kinds"
	FieldSessionID = "session_id"
)

// formMemory is how much of a multipart body is kept in memory before spilling to disk
const formMemory = 8 << 20

// ParseProfileRequest reads a multipart upload into a profiling request.
// Columns and kinds are repeated fields, one value each, since column names
// may contain commas. A missing file is not an error here; the pipeline reports it.
func ParseProfileRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (app.ProfileRequest, error) {
	var req app.ProfileRequest
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return req, errors.UploadTooLarge(maxBytes)
		}
		if !stderrors.Is(err, http.ErrNotMultipart) {
			return req, errors.InvalidInput("malformed form: " + err.Error())
		}
		if err := r.ParseForm(); err != nil {
			return req, errors.InvalidInput("malformed form: " + err.Error())
		}
	}

	req.Columns = listValues(r.Form[FieldColumns])
	req.Kinds = listValues(r.Form[FieldKinds])
	req.SessionID = strings.TrimSpace(r.FormValue(FieldSessionID))

	file, header, err := r.FormFile(FieldDataset)
	if stderrors.Is(err, http.ErrMissingFile) || stderrors.Is(err, http.ErrNotMultipart) {
		return req, nil
	}
	if err != nil {
		return req, errors.InvalidInput("unreadable upload: " + err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return req, errors.InvalidInput("unreadable upload: " + err.Error())
	}
	req.Upload = dataset.Upload{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Content:  bytes.NewReader(data),
	}
	return req, nil
}

// listValues drops blank form values
func listValues(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
