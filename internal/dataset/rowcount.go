package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
)

// CountRows computes a best-effort record count for an uploaded file.
// CSV counts data rows excluding the header, JSON counts top-level array
// elements (1 for a single object), JSONL counts lines. Malformed content
// yields 0. Ingestion must not fail merely because row-counting failed.
func CountRows(content []byte, ext string) int {
	switch ext {
	case ".csv":
		return countCSV(content)
	case ".json":
		return countJSON(content)
	case ".jsonl":
		return countLines(content)
	}
	return 0
}

func countCSV(content []byte) int {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1

	count := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0
		}
		count++
	}
	if count == 0 {
		return 0
	}
	return count - 1 // header row
}

func countJSON(content []byte) int {
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		return 0
	}
	switch val := v.(type) {
	case []any:
		return len(val)
	case map[string]any:
		return 1
	}
	return 0
}

func countLines(content []byte) int {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		count++
	}
	if scanner.Err() != nil {
		return 0
	}
	return count
}
