// Package storage persists aggregated module records as JSONL files and
// keeps a SQLite history of aggregation runs.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/regulon/internal/deliver"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadRecords reads module records from a JSONL file. A missing file
// yields no records and no error.
func ReadRecords(path string) ([]deliver.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	var records []deliver.Record
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var r deliver.Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		records = append(records, r)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}
	return records, nil
}

// WriteRecords replaces path with one JSON object per record.
func WriteRecords(path string, records []deliver.Record) error {
	var buf bytes.Buffer
	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return deliver.WriteFileAtomic(path, buf.Bytes())
}

// WriteIndexJSONL writes the run's machine-readable summary next to the
// TSV and returns its path.
func WriteIndexJSONL(idx *deliver.Index) (string, error) {
	path := filepath.Join(idx.RunDir, deliver.SummaryJSONLFile)
	if err := WriteRecords(path, idx.Records); err != nil {
		return "", err
	}
	return path, nil
}
