package filters

import (
	"bytes"
	"errors"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	for _, name := range []string{"FlateDecode", "Fl", "ASCIIHexDecode", "AHx", "ASCII85Decode", "A85", "RunLengthDecode", "RL", "CCITTFaxDecode", "CCF", "DCTDecode", "JPXDecode"} {
		if _, ok := Default.Lookup(name); !ok {
			t.Errorf("Default registry is missing %s", name)
		}
	}

	got, err := Default.Decode("AHx", []byte("4142>"), nil)
	if err != nil {
		t.Fatalf("Decode(AHx) failed: %v", err)
	}
	if string(got) != "AB" {
		t.Errorf("Decode(AHx) = %q, want %q", got, "AB")
	}

	jpeg := []byte{0xFF, 0xD8, 0xFF}
	got, err = Default.Decode("DCTDecode", jpeg, nil)
	if err != nil || !bytes.Equal(got, jpeg) {
		t.Errorf("Decode(DCTDecode) = %v, %v; want pass-through", got, err)
	}
}

func TestRegistryUnsupported(t *testing.T) {
	for _, name := range []string{"LZWDecode", "JBIG2Decode", "Crypt", "Bogus"} {
		_, err := Default.Decode(name, []byte("x"), nil)
		if !errors.Is(err, ErrUnsupportedFilter) {
			t.Errorf("Decode(%s) error = %v, want ErrUnsupportedFilter", name, err)
		}
		var ufe *UnsupportedFilterError
		if !errors.As(err, &ufe) || ufe.Name != name {
			t.Errorf("Decode(%s) error does not name the filter: %v", name, err)
		}
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register(func(data []byte, _ Params) ([]byte, error) {
		return bytes.ToUpper(data), nil
	}, "Upper", "U")

	got, err := r.Decode("U", []byte("abc"), nil)
	if err != nil || string(got) != "ABC" {
		t.Errorf("Decode(U) = %q, %v", got, err)
	}
	if names := r.Names(); len(names) != 2 || names[0] != "U" || names[1] != "Upper" {
		t.Errorf("Names() = %v", names)
	}
}

func TestGetBoolParam(t *testing.T) {
	params := Params{"BlackIs1": true, "Other": 1}
	if !getBoolParam(params, "BlackIs1", false) {
		t.Error("BlackIs1 should be true")
	}
	if !getBoolParam(params, "Other", true) {
		t.Error("non-bool value should yield the default")
	}
	if getBoolParam(nil, "BlackIs1", false) {
		t.Error("nil params should yield the default")
	}
}
