package snapshot

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// Writer writes SourceRow records to a zstd-compressed Parquet snapshot.
type Writer struct {
	file   *os.File
	writer *parquet.GenericWriter[SourceRow]
	count  int
}

func NewWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[SourceRow](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.PageBufferSize(8*1024),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("esusload", "1.0", ""),
	)

	return &Writer{
		file:   file,
		writer: writer,
	}, nil
}

// Write appends a batch of rows.
func (w *Writer) Write(rows []SourceRow) (int, error) {
	n, err := w.writer.Write(rows)
	w.count += n
	if err != nil {
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	return n, nil
}

// Close flushes the final row group and closes the file.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}

func (w *Writer) Count() int {
	return w.count
}

// WriteFile writes rows to filename in one call. Used by the converter and by
// tests that need a snapshot fixture.
func WriteFile(filename string, rows []SourceRow) error {
	w, err := NewWriter(filename)
	if err != nil {
		return err
	}
	if _, err := w.Write(rows); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
