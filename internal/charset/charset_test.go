package charset

import (
	"errors"
	"testing"
)

func TestResolveCanonicalNames(t *testing.T) {
	for _, name := range Names() {
		codec, err := Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", name, err)
			continue
		}
		if codec.Name != name {
			t.Errorf("Resolve(%q).Name = %q, want %q", name, codec.Name, name)
		}
		if codec.Encoding == nil {
			t.Errorf("Resolve(%q) returned nil encoding", name)
		}
	}
}

func TestResolveAliases(t *testing.T) {
	tests := []struct {
		alias     string
		canonical string
	}{
		{"UTF-8", "utf-8"},
		{"utf8", "utf-8"},
		{"ascii", "utf-8"},
		{"Latin-1", "iso-8859-1"},
		{"latin_1", "iso-8859-1"},
		{"CP1252", "windows-1252"},
		{"windows_1252", "windows-1252"},
		{"Shift-JIS", "shift_jis"},
		{"shift_jis", "shift_jis"},
		{"cp932", "shift_jis"},
		{"windows-949", "euc-kr"},
		{"gb2312", "gbk"},
		{"mac_cyrillic", "x-mac-cyrillic"},
		{"UTF-16LE", "utf-16le"},
		{"utf_16_le", "utf-16le"},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			codec, err := Resolve(tt.alias)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.alias, err)
			}
			if codec.Name != tt.canonical {
				t.Errorf("Resolve(%q).Name = %q, want %q", tt.alias, codec.Name, tt.canonical)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve("klingon-8")
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("Resolve(unknown) error = %v, want ErrUnknownEncoding", err)
	}
}

func TestResolveFreshDecoders(t *testing.T) {
	codec, err := Resolve("utf-16le")
	if err != nil {
		t.Fatal(err)
	}
	a := codec.NewDecoder()
	b := codec.NewDecoder()
	if a == b {
		t.Fatal("NewDecoder returned a shared instance")
	}
}
