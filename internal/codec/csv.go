// Package codec persists tables to disk and reads them back. CSV is the
// canonical format: one file per table at a path derived from the table's
// identity, header row matching the declared columns, values formatted per
// column kind. An XLSX workbook export is provided for consumers who want
// the whole dataset in one file.
package codec

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/salesynth/salesynth/internal/schema"
	"github.com/salesynth/salesynth/internal/table"
)

// Layout maps table identities to file paths below a root directory.
type Layout struct {
	Root string
}

// Path returns the CSV path for a table identity:
// <root>/<category>/<subcategory>/<name>.csv.
func (l Layout) Path(id table.Identity) string {
	return filepath.Join(l.Root, id.Category, id.Subcategory, id.Name+".csv")
}

// WriteCSV writes the table as a CSV file at the layout path, creating
// parent directories as needed. The file is written to a temporary sibling
// and promoted by rename, so a crashed run never leaves a truncated table
// behind. Returns the bytes written.
func (l Layout) WriteCSV(t *table.Table) (int64, error) {
	path := l.Path(t.Identity())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("ensure table directory: %w", err)
	}
	tempFile, err := os.CreateTemp(filepath.Dir(path), t.Identity().Name+"-*.csv")
	if err != nil {
		return 0, fmt.Errorf("create temp table file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	buffered := bufio.NewWriterSize(tempFile, 1<<20)
	counter := &countingWriter{writer: buffered}
	csvWriter := csv.NewWriter(counter)

	columns := t.Columns()
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}
	if err := csvWriter.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(columns))
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		for j, col := range columns {
			record[j] = table.FormatValue(col.Kind, row[j])
		}
		if err := csvWriter.Write(record); err != nil {
			return 0, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return 0, fmt.Errorf("flush rows: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return 0, fmt.Errorf("flush buffered rows: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return 0, fmt.Errorf("close table file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return 0, fmt.Errorf("promote table file: %w", err)
	}
	cleanup = false
	return counter.count, nil
}

// ReadCSV reads the table for the given definition from the layout path.
// The file header must match the declared columns exactly; values are
// parsed back into their declared kinds.
func (l Layout) ReadCSV(def schema.TableDef) (*table.Table, error) {
	path := l.Path(def.ID)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReaderSize(file, 1<<20))
	reader.FieldsPerRecord = len(def.Columns)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", def.ID, err)
	}
	for i, col := range def.Columns {
		if header[i] != col.Name {
			return nil, fmt.Errorf("table %s: header column %d is %q, declared %q", def.ID, i, header[i], col.Name)
		}
	}

	t := def.NewTable()
	values := make([]any, len(def.Columns))
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", def.ID, line, err)
		}
		for i, col := range def.Columns {
			value, err := table.ParseValue(col.Kind, record[i])
			if err != nil {
				return nil, fmt.Errorf("parse %s line %d column %s: %w", def.ID, line, col.Name, err)
			}
			values[i] = value
		}
		if err := t.Append(values...); err != nil {
			return nil, fmt.Errorf("load %s line %d: %w", def.ID, line, err)
		}
	}
	return t, nil
}

type countingWriter struct {
	writer *bufio.Writer
	count  int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	c.count += int64(n)
	return n, err
}
