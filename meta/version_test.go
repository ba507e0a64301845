package meta

import (
	"bytes"
	"testing"
)

func TestVersionWordValidate(t *testing.T) {
	cases := []struct {
		name    string
		version VersionWord
		wantErr bool
	}{
		{"plain scan line", NewVersionWord(2, false, false, false, false), false},
		{"single tile", NewVersionWord(2, true, false, false, false), false},
		{"multi-part", NewVersionWord(2, false, false, false, true), false},
		{"single-tile and multi-part conflict", NewVersionWord(2, true, false, false, true), true},
		{"single-tile and deep conflict", NewVersionWord(2, true, false, true, false), true},
		{"deep without multi-part", NewVersionWord(2, false, false, true, false), true},
		{"deep multi-part", NewVersionWord(2, false, false, true, true), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.version.Validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestReadMagicAndVersionRejectsBadMagic(t *testing.T) {
	bad := []byte{0x00, 0x2F, 0x31, 0x01, 2, 0, 0, 0}
	_, err := ReadMagicAndVersion(bytes.NewReader(bad))
	if err == nil {
		t.Fatal("expected magic number error")
	}
}
