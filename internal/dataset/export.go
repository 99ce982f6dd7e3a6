package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

var csvHeader = []string{"image_id", "file_name", "category_id", "category_name", "x", "y", "width", "height", "area"}

// Export writes rows to path, choosing the format by extension.
func Export(path string, rows []AnnotationRow) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".parquet":
		return WriteParquet(path, rows)
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create csv file: %w", err)
		}
		if err := WriteCSV(f, rows); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported export format: %s (supported: .parquet, .csv)", ext)
	}
}

// WriteParquet writes rows as a single parquet file
func WriteParquet(path string, rows []AnnotationRow) error {
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	slog.Debug("Wrote parquet file", "path", path, "rows", len(rows))
	return nil
}

// WriteCSV writes rows with a header line
func WriteCSV(w io.Writer, rows []AnnotationRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.ImageID, 10),
			r.FileName,
			strconv.FormatInt(r.CategoryID, 10),
			r.CategoryName,
			strconv.FormatInt(r.X, 10),
			strconv.FormatInt(r.Y, 10),
			strconv.FormatInt(r.Width, 10),
			strconv.FormatInt(r.Height, 10),
			strconv.FormatInt(r.Area(), 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadParquet loads rows previously written by WriteParquet
func ReadParquet(path string) ([]AnnotationRow, error) {
	slog.Debug("Opening Parquet file", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[AnnotationRow](pf)
	defer reader.Close()

	var records []AnnotationRow
	rows := make([]AnnotationRow, 128) // Read in batches

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(records))

	return records, nil
}
