package dataset

import (
	"io"
)

// Kind is the inferred storage kind of a column
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// DType returns the dtype label shown in structural summaries
func (k Kind) DType() string {
	if k == KindNumeric {
		return "float64"
	}
	return "object"
}

// Upload represents an uploaded file before it is parsed
type Upload struct {
	Filename string
	MimeType string
	Size     int64
	Content  io.Reader
}

// FieldInfo describes a single column for previews and the structural summary
type FieldInfo struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"` // "float64" or "object"
	Kind         Kind   `json:"kind"`
	NonNullCount int    `json:"non_null_count"`
	MissingCount int    `json:"missing_count"`
}
