package filters

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/image/ccitt"
)

// faxParams are the CCITTFaxDecode entries of a DecodeParms dictionary.
type faxParams struct {
	subFormat ccitt.SubFormat
	columns   int
	rows      int
	opts      ccitt.Options
}

// parseFaxParams reads K, Columns, Rows, BlackIs1 and EncodedByteAlign.
// K < 0 selects Group 4; otherwise Group 3. Rows of zero means the height
// is taken from the data.
func parseFaxParams(params Params) (faxParams, error) {
	p := faxParams{
		subFormat: ccitt.Group3,
		columns:   getIntParam(params, "Columns", 1728),
		rows:      getIntParam(params, "Rows", 0),
		opts: ccitt.Options{
			Align:  getBoolParam(params, "EncodedByteAlign", false),
			Invert: getBoolParam(params, "BlackIs1", false),
		},
	}
	if getIntParam(params, "K", 0) < 0 {
		p.subFormat = ccitt.Group4
	}
	if p.columns <= 0 {
		return p, fmt.Errorf("CCITTFaxDecode: invalid Columns %d", p.columns)
	}
	switch {
	case p.rows < 0:
		return p, fmt.Errorf("CCITTFaxDecode: invalid Rows %d", p.rows)
	case p.rows == 0:
		p.rows = ccitt.AutoDetectHeight
	}
	return p, nil
}

// CCITTFaxDecode decodes Group 3 or Group 4 fax data into one bit per
// pixel, rows padded to a byte boundary.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	p, err := parseFaxParams(params)
	if err != nil {
		return nil, err
	}
	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, p.subFormat, p.columns, p.rows, &p.opts)
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("CCITTFaxDecode: %w", err)
	}
	return out, nil
}
