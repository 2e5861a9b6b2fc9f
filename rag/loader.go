package rag

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// ErrNotUTF8 is returned for files whose bytes are not valid UTF-8.
var ErrNotUTF8 = errors.New("file is not valid UTF-8")

// LoadFile reads path into a Document. PDFs are reduced to their plain text;
// everything else must decode as UTF-8.
func LoadFile(path string) (Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := readPDF(path)
		if err != nil {
			return Document{}, err
		}
		return Document{Source: path, Text: text}, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	if !utf8.Valid(b) {
		return Document{}, ErrNotUTF8
	}
	return Document{Source: path, Text: string(b)}, nil
}

func readPDF(path string) (string, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	b, err := rdr.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return "", fmt.Errorf("failed to read pdf buffer: %w", err)
	}
	return buf.String(), nil
}

// LoadAll loads every path, skipping (and logging) the ones that fail.
func LoadAll(logger *zap.Logger, paths []string) []Document {
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		doc, err := LoadFile(p)
		if err != nil {
			logger.Warn("Skipped file", zap.String("path", p), zap.Error(err))
			continue
		}
		logger.Debug("Loaded file", zap.String("path", p))
		docs = append(docs, doc)
	}
	return docs
}
