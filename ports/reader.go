package ports

import (
	"context"
	"io"

	"csvlens/domain/dataset"
)

// TableLoader parses an upload into a typed table
type TableLoader interface {
	Load(ctx context.Context, r io.Reader) (*dataset.Table, error)
	FromRecords(records [][]string) (*dataset.Table, error)
}

// RecordReader splits a spreadsheet upload into header and data records
type RecordReader interface {
	ReadRecords(ctx context.Context, r io.Reader) ([][]string, error)
}
