package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountRowsCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"header plus three rows", "a,b,c\n1,2,3\n4,5,6\n7,8,9\n", 3},
		{"header only", "a,b,c\n", 0},
		{"empty", "", 0},
		{"ragged rows still count", "a,b\n1\n2,3,4\n", 2},
		{"malformed quoting", "a,b\n\"unterminated,2\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountRows([]byte(tt.content), ".csv"))
		})
	}
}

func TestCountRowsJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"array", `[{"a":1},{"a":2},{"a":3}]`, 3},
		{"empty array", `[]`, 0},
		{"single object", `{"a":1}`, 1},
		{"scalar root", `42`, 0},
		{"malformed", `{"a":`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountRows([]byte(tt.content), ".json"))
		})
	}
}

func TestCountRowsJSONL(t *testing.T) {
	assert.Equal(t, 3, CountRows([]byte("{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n"), ".jsonl"))
	assert.Equal(t, 2, CountRows([]byte("{\"a\":1}\n{\"a\":2}"), ".jsonl"))
	assert.Equal(t, 0, CountRows([]byte(""), ".jsonl"))
}

func TestCountRowsUnknownExtension(t *testing.T) {
	assert.Equal(t, 0, CountRows([]byte("whatever"), ".parquet"))
}
