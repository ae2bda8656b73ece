package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/justin4957/logflow-api-analytics/pkg/models"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fastjson"
)

// zstdSuffix marks a compressed dataset
const zstdSuffix = ".zst"

// LoadFile reads a complete dataset from path. Files ending in .zst are
// decompressed first.
func LoadFile(path, format string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, zstdSuffix) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	switch format {
	case "json", "ndjson":
		return ParseDataset(data)
	case "apache", "combined", "common":
		p, _ := NewParser(format)
		return ParseLines(bytes.NewReader(data), p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ParseDataset decodes a JSON array of records, a single record object, or
// newline-delimited JSON.
func ParseDataset(data []byte) ([]models.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []models.Record{}, nil
	}

	p := parserPool.Get()
	defer parserPool.Put(p)

	// A whole-document parse covers arrays and pretty-printed single objects;
	// NDJSON fails it and falls through to per-line decoding.
	if v, err := p.ParseBytes(trimmed); err == nil {
		if v.Type() == fastjson.TypeArray {
			items, _ := v.Array()
			records := make([]models.Record, 0, len(items))
			for i, item := range items {
				rec, err := decodeValue(item)
				if err != nil {
					return nil, fmt.Errorf("record %d: %w", i, err)
				}
				records = append(records, rec)
			}
			return records, nil
		}
		rec, err := decodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("record 0: %w", err)
		}
		return []models.Record{rec}, nil
	} else if trimmed[0] == '[' {
		return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
	}

	var records []models.Record
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		v, err := p.ParseBytes(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: failed to parse JSON log: %w", lineNo, err)
		}
		rec, err := decodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan dataset: %w", err)
	}
	return records, nil
}

// ParseLines applies a line parser to every non-empty line. Lines the
// parser rejects are logged and skipped.
func ParseLines(r io.Reader, p LogParser) ([]models.Record, error) {
	records := []models.Record{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		rec, err := p.Parse(line)
		if err != nil {
			log.Printf("Skipping line %d: %v", lineNo, err)
			continue
		}
		records = append(records, *rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan log lines: %w", err)
	}
	return records, nil
}
