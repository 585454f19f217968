package deliver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// TSVHeader is the column layout of the summary table.
var TSVHeader = []string{"module", "Size", "Label", "TopHubs", "TopEnrichmentTerms", "Summary"}

// TimestampLayout formats generation times in the summary header.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// WriteText writes the plain-text summary: header lines, a blank line,
// then one sentence per module.
func WriteText(w io.Writer, idx *Index) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Generated: %s\n", idx.GeneratedAt.Format(TimestampLayout))
	fmt.Fprintf(&buf, "# Source: %s\n", idx.RunDir)
	fmt.Fprintf(&buf, "# Mode: %s\n", idx.Tone)
	buf.WriteString("\n")
	for _, r := range idx.Records {
		buf.WriteString(oneLine(r.Summary))
		buf.WriteString("\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteTSV writes one tab-separated row per module under TSVHeader.
// Fields are not escaped; embedded tabs and newlines are flattened to spaces.
func WriteTSV(w io.Writer, idx *Index) error {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(TSVHeader, "\t"))
	buf.WriteString("\n")
	for _, r := range idx.Records {
		row := []string{
			r.Module,
			strconv.Itoa(r.Size),
			r.Label,
			r.HubsText(),
			r.TermsText(),
			r.Summary,
		}
		for i := range row {
			row[i] = oneLine(row[i])
		}
		buf.WriteString(strings.Join(row, "\t"))
		buf.WriteString("\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// oneLine replaces tabs and line breaks with spaces.
func oneLine(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, s)
}

// WriteFileAtomic writes data to a temporary file in the target directory
// and renames it into place, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// render runs a writer into memory and then replaces path atomically.
func render(path string, fn func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// Outputs are the paths written by WriteAll.
type Outputs struct {
	Text  string `json:"text"`
	TSV   string `json:"tsv"`
	Index string `json:"index"`
}

// WriteAll regenerates the text summary, TSV table, and index page in the
// run directory.
func WriteAll(idx *Index) (Outputs, error) {
	out := Outputs{
		Text:  filepath.Join(idx.RunDir, SummaryTextFile),
		TSV:   filepath.Join(idx.RunDir, SummaryTSVFile),
		Index: filepath.Join(idx.RunDir, IndexFile),
	}

	if err := render(out.Text, func(w io.Writer) error { return WriteText(w, idx) }); err != nil {
		return Outputs{}, err
	}
	if err := render(out.TSV, func(w io.Writer) error { return WriteTSV(w, idx) }); err != nil {
		return Outputs{}, err
	}
	if err := render(out.Index, func(w io.Writer) error { return WriteIndexHTML(w, idx) }); err != nil {
		return Outputs{}, err
	}
	return out, nil
}

// formatTime is exposed to the index template.
func formatTime(t time.Time) string {
	return t.Format(TimestampLayout)
}
