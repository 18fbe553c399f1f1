package filters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// FlateDecode decompresses zlib/deflate data and then undoes the predictor
// named by the Predictor parameter, if any.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	out, err := inflate(data)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	predictor := getIntParam(params, "Predictor", 1)
	if predictor == 1 {
		return out, nil
	}
	out, err = unpredict(out, predictor, params)
	if err != nil {
		return nil, fmt.Errorf("predictor failed: %w", err)
	}
	return out, nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return buf.Bytes(), nil
}

// unpredict reverses predictor 2 (TIFF) or 10-15 (PNG).
func unpredict(data []byte, predictor int, params Params) ([]byte, error) {
	colors := getIntParam(params, "Colors", 1)
	columns := getIntParam(params, "Columns", 1)
	if bpc := getIntParam(params, "BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("only 8 bits per component are supported, got %d", bpc)
	}
	if colors < 1 || columns < 1 {
		return nil, fmt.Errorf("invalid Colors %d or Columns %d", colors, columns)
	}
	switch {
	case predictor == 2:
		return tiffUnpredict(data, colors, columns)
	case predictor >= 10 && predictor <= 15:
		return pngUnpredict(data, colors, columns)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

// tiffUnpredict undoes TIFF predictor 2: every sample after the first pixel
// of a row is stored as the difference from the sample to its left.
func tiffUnpredict(data []byte, colors, columns int) ([]byte, error) {
	rowSize := colors * columns
	if len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}
	out := make([]byte, len(data))
	for row := 0; row < len(data); row += rowSize {
		for i := row; i < row+rowSize; i++ {
			out[i] = data[i]
			if i-row >= colors {
				out[i] += out[i-colors]
			}
		}
	}
	return out, nil
}

// pngUnpredict undoes the PNG predictors. Each input row carries a leading
// byte selecting the algorithm for that row.
func pngUnpredict(data []byte, colors, columns int) ([]byte, error) {
	rowSize := colors * columns
	if len(data)%(rowSize+1) != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize+1)
	}
	rows := len(data) / (rowSize + 1)
	out := make([]byte, rows*rowSize)
	prev := make([]byte, rowSize)
	for row := 0; row < rows; row++ {
		in := data[row*(rowSize+1):]
		algo, src := in[0], in[1:rowSize+1]
		cur := out[row*rowSize : (row+1)*rowSize]
		for i := range cur {
			var left, upLeft byte
			if i >= colors {
				left = cur[i-colors]
				upLeft = prev[i-colors]
			}
			up := prev[i]
			switch algo {
			case 0:
				cur[i] = src[i]
			case 1:
				cur[i] = src[i] + left
			case 2:
				cur[i] = src[i] + up
			case 3:
				cur[i] = src[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = src[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG predictor: %d", row, algo)
			}
		}
		prev = cur
	}
	return out, nil
}

// paeth implements the Paeth predictor of the PNG specification: the
// neighbour closest to left+up-upLeft wins, ties preferring left, then up.
func paeth(left, up, upLeft byte) byte {
	p := int(left) + int(up) - int(upLeft)
	pa, pb, pc := abs(p-int(left)), abs(p-int(up)), abs(p-int(upLeft))
	switch {
	case pa <= pb && pa <= pc:
		return left
	case pb <= pc:
		return up
	}
	return upLeft
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
