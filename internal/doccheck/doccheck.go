// Package doccheck inspects PDFs locally before upload, so obviously broken
// files fail fast on the client instead of burning an ingest round trip.
package doccheck

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF reports a file without the PDF magic header.
var ErrNotPDF = errors.New("file is not a PDF")

// Info is what a local inspection can tell about an upload candidate.
type Info struct {
	Pages     int
	SizeBytes int64
	// HasText is false for pure image scans, which ingest via OCR and
	// deserve a warning about slower processing.
	HasText bool
}

// Inspect opens and validates a candidate PDF.
func Inspect(path string) (Info, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		if headerErr := checkHeader(path); headerErr != nil {
			return Info{}, headerErr
		}
		return Info{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat pdf: %w", err)
	}

	info := Info{
		Pages:     reader.NumPage(),
		SizeBytes: stat.Size(),
	}

	if text, err := reader.GetPlainText(); err == nil {
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(text); err == nil {
			info.HasText = strings.TrimSpace(buf.String()) != ""
		}
	}

	return info, nil
}

func checkHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 5)
	if _, err := f.Read(header); err != nil {
		return fmt.Errorf("%w: %s", ErrNotPDF, path)
	}
	if !bytes.Equal(header, []byte("%PDF-")) {
		return fmt.Errorf("%w: %s", ErrNotPDF, path)
	}
	return nil
}
