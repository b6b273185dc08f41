package escpos

import (
	"bytes"
	"testing"
)

func TestLowHigh(t *testing.T) {
	tests := []struct {
		v, count int
		want     []byte
	}{
		{0, 2, []byte{0x00, 0x00}},
		{1, 2, []byte{0x01, 0x00}},
		{48, 2, []byte{0x30, 0x00}},
		{200, 2, []byte{0xC8, 0x00}},
		{256, 2, []byte{0x00, 0x01}},
		{384, 2, []byte{0x80, 0x01}},
		{65535, 2, []byte{0xFF, 0xFF}},
		{7, 1, []byte{0x07}},
	}

	for _, tt := range tests {
		got := LowHigh(tt.v, tt.count)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("LowHigh(%d, %d) = % X, want % X", tt.v, tt.count, got, tt.want)
		}
	}
}

func TestHexDump(t *testing.T) {
	if got := HexDump([]byte{0x1B, 0x40, 0x0A}); got != "1B 40 0A" {
		t.Errorf("HexDump = %q, want %q", got, "1B 40 0A")
	}
	if got := HexDump([]byte{0x00}); got != "00" {
		t.Errorf("HexDump single byte = %q, want %q", got, "00")
	}
	if got := HexDump(nil); got != "" {
		t.Errorf("HexDump(nil) = %q, want empty", got)
	}
}

func TestFeed(t *testing.T) {
	if got := Feed(2); !bytes.Equal(got, []byte{0x1B, 0x64, 0x02}) {
		t.Errorf("Feed(2) = % X", got)
	}
	if got := Feed(-1); got[2] != 0x00 {
		t.Errorf("Feed(-1) should clamp to 0, got % X", got)
	}
	if got := Feed(300); got[2] != 0xFF {
		t.Errorf("Feed(300) should clamp to 255, got % X", got)
	}
}

// The fixed sequences are the compatibility-critical surface: a printer
// interprets these byte-for-byte.
func TestCommandSequences(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"Initialize", Initialize, []byte{0x1B, 0x40}},
		{"AlignLeft", AlignLeft, []byte{0x1B, 0x61, 0x00}},
		{"AlignCenter", AlignCenter, []byte{0x1B, 0x61, 0x01}},
		{"AlignRight", AlignRight, []byte{0x1B, 0x61, 0x02}},
		{"BoldOn", BoldOn, []byte{0x1B, 0x45, 0x01}},
		{"BoldOff", BoldOff, []byte{0x1B, 0x45, 0x00}},
		{"CutFull", CutFull, []byte{0x1D, 0x56, 0x00}},
		{"RasterImage", RasterImage, []byte{0x1D, 0x76, 0x30, 0x00}},
	}

	for _, tt := range tests {
		if !bytes.Equal(tt.got, tt.want) {
			t.Errorf("%s = % X, want % X", tt.name, tt.got, tt.want)
		}
	}
}
