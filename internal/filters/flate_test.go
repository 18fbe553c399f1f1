package filters

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// zlibCompress compresses data for testing
func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

func TestFlateDecode(t *testing.T) {
	original := []byte("Hello, World! This is test data for FlateDecode.")
	compressed := zlibCompress(t, original)

	tests := []struct {
		name   string
		params Params
	}{
		{"nil params", nil},
		{"predictor 1", Params{"Predictor": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := FlateDecode(compressed, tt.params)
			if err != nil {
				t.Fatalf("FlateDecode failed: %v", err)
			}
			if !bytes.Equal(decoded, original) {
				t.Errorf("decoded = %q, want %q", decoded, original)
			}
		})
	}
}

func TestFlateDecodeInvalidZlib(t *testing.T) {
	if _, err := FlateDecode([]byte("not zlib data"), nil); err == nil {
		t.Error("expected error for invalid zlib data")
	}
}

func TestFlateDecodeUnsupportedPredictor(t *testing.T) {
	compressed := zlibCompress(t, []byte{1, 2, 3})
	if _, err := FlateDecode(compressed, Params{"Predictor": 7}); err == nil {
		t.Error("expected error for unsupported predictor")
	}
}

func TestPNGPredictors(t *testing.T) {
	params := Params{"Predictor": 12, "Columns": 3, "Colors": 1, "BitsPerComponent": 8}

	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{
			"none",
			[]byte{0, 1, 2, 3, 0, 4, 5, 6},
			[]byte{1, 2, 3, 4, 5, 6},
		},
		{
			"sub",
			[]byte{1, 1, 1, 1, 1, 4, 1, 1},
			[]byte{1, 2, 3, 4, 5, 6},
		},
		{
			"up",
			[]byte{0, 1, 2, 3, 2, 3, 3, 3},
			[]byte{1, 2, 3, 4, 5, 6},
		},
		{
			"average",
			[]byte{0, 1, 2, 3, 3, 4, 2, 2},
			[]byte{1, 2, 3, 4, 5, 6},
		},
		{
			"paeth",
			// row 2 predicts up, then left, then left
			[]byte{0, 1, 2, 3, 4, 4, 3, 1},
			[]byte{1, 2, 3, 5, 8, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlateDecode(zlibCompress(t, tt.data), params)
			if err != nil {
				t.Fatalf("FlateDecode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPNGPredictorErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		params Params
	}{
		{"wrong bpc", []byte{0, 1, 2, 3}, Params{"Predictor": 10, "Columns": 3, "BitsPerComponent": 16}},
		{"wrong row size", []byte{0, 1, 2, 3, 4}, Params{"Predictor": 10, "Columns": 3}},
		{"unknown row algorithm", []byte{9, 1, 2, 3}, Params{"Predictor": 10, "Columns": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FlateDecode(zlibCompress(t, tt.data), tt.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTIFFPredictor2(t *testing.T) {
	// 2 rows, 3 columns, 1 color: deltas from the left sample
	data := []byte{1, 1, 1, 4, 1, 1}
	got, err := FlateDecode(zlibCompress(t, data), Params{"Predictor": 2, "Columns": 3})
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPaeth(t *testing.T) {
	tests := []struct {
		left, up, upLeft, want byte
	}{
		{0, 0, 0, 0},
		{10, 20, 10, 20},
		{20, 10, 10, 20},
		{10, 10, 20, 10},
		{100, 50, 60, 100},
	}
	for _, tt := range tests {
		if got := paeth(tt.left, tt.up, tt.upLeft); got != tt.want {
			t.Errorf("paeth(%d, %d, %d) = %d, want %d", tt.left, tt.up, tt.upLeft, got, tt.want)
		}
	}
}

func TestGetIntParam(t *testing.T) {
	params := Params{"a": 5, "b": int64(6), "c": 7.0, "d": "x"}
	tests := []struct {
		key  string
		want int
	}{
		{"a", 5},
		{"b", 6},
		{"c", 7},
		{"d", 42},
		{"missing", 42},
	}
	for _, tt := range tests {
		if got := getIntParam(params, tt.key, 42); got != tt.want {
			t.Errorf("getIntParam(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
	if got := getIntParam(nil, "a", 1); got != 1 {
		t.Errorf("getIntParam(nil) = %d, want 1", got)
	}
}
