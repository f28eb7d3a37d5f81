// Package csvfile reads identifier lists and writes result files.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadRows returns every record after the header row. Rows may have
// differing lengths.
func ReadRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return readRows(file)
}

func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// skip header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// ReadIdentifiers returns the first column of every row after the header.
// Identifiers stay strings so leading zeros survive.
func ReadIdentifiers(path string) ([]string, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	return FirstColumn(rows), nil
}

// FirstColumn extracts trimmed first-column values; an empty row yields ""
func FirstColumn(rows [][]string) []string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			ids[i] = strings.TrimSpace(row[0])
		}
	}
	return ids
}

// Writer appends rows to a CSV file, flushing after each row so an
// interrupted run keeps everything written so far
type Writer struct {
	file *os.File
	csv  *csv.Writer
}

// Create truncates path and writes header as the first row
func Create(path string, header []string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := &Writer{file: file, csv: csv.NewWriter(file)}
	if err := w.WriteRow(header); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// WriteRow writes and flushes one row
func (w *Writer) WriteRow(row []string) error {
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush row: %w", err)
	}
	return nil
}

// Close flushes and closes the file
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// WriteAll creates path with header followed by rows
func WriteAll(path string, header []string, rows [][]string) error {
	w, err := Create(path, header)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
