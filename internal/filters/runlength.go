package filters

import "fmt"

// RunLengthDecode decodes byte-oriented run-length data. A length byte L in
// 0-127 is followed by L+1 literal bytes; L in 129-255 is followed by one
// byte repeated 257-L times; 128 ends the data.
func RunLengthDecode(data []byte) ([]byte, error) {
	var out []byte
	for i := 0; i < len(data); {
		l := int(data[i])
		i++
		switch {
		case l == 128:
			return out, nil
		case l < 128:
			if i+l+1 > len(data) {
				return nil, fmt.Errorf("run-length literal of %d bytes exceeds data", l+1)
			}
			out = append(out, data[i:i+l+1]...)
			i += l + 1
		default:
			if i >= len(data) {
				return nil, fmt.Errorf("run-length repeat is missing its byte")
			}
			for j := 0; j < 257-l; j++ {
				out = append(out, data[i])
			}
			i++
		}
	}
	return out, nil
}
