package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// openInput returns stdin for "-" or an empty path
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// openOutput returns stdout for "-" or an empty path
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// readRecords decodes a JSON array of records
func readRecords(path string) ([]models.SymptomRecord, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	var records []models.SymptomRecord
	if err := json.NewDecoder(in).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records from %s: %w", displayPath(path), err)
	}
	return records, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayPath(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}
