package script

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/zurustar/calc/pkg/fileutil"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Unit
	}{
		{
			name:    "one unit per line",
			content: "a = 1\nout a",
			want:    []Unit{{1, "a = 1"}, {2, "out a"}},
		},
		{
			name:    "blank lines and comments are dropped",
			content: "# header\n\na = 1 # one\n   \nout a",
			want:    []Unit{{3, "a = 1"}, {5, "out a"}},
		},
		{
			name:    "open brackets join lines",
			content: "if a {\n  out 1\n}\nout 2",
			want:    []Unit{{1, "if a {\n  out 1\n}"}, {4, "out 2"}},
		},
		{
			name:    "colon continues a line",
			content: "x = 1 +:\n  2\nout x",
			want:    []Unit{{1, "x = 1 +   2"}, {3, "out x"}},
		},
		{
			name:    "brackets and hash inside strings are ignored",
			content: "out \"(#\"\nout 2",
			want:    []Unit{{1, "out \"(#\""}, {2, "out 2"}},
		},
		{
			name:    "unclosed bracket runs to the end",
			content: "f = fn(a) {\n  brk a",
			want:    []Unit{{1, "f = fn(a) {\n  brk a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d units %q, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("unit %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitterPending(t *testing.T) {
	var s Splitter
	if _, ok := s.Feed("f = fn(x) {"); ok {
		t.Fatal("unit completed too early")
	}
	if !s.Pending() {
		t.Fatal("expected pending input")
	}
	u, ok := s.Feed("}")
	if !ok {
		t.Fatal("expected a complete unit")
	}
	if u.Line != 1 || u.Code != "f = fn(x) {\n}" {
		t.Errorf("unit = %+v", u)
	}
	if s.Pending() {
		t.Error("nothing should be pending")
	}
}

func TestDecode(t *testing.T) {
	sjis, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), `out "日本語"`)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	tests := []struct {
		name     string
		data     []byte
		encoding string
		want     string
	}{
		{"utf-8", []byte(`out "é"`), "utf-8", `out "é"`},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("out 1")...), "utf-8", "out 1"},
		{"crlf", []byte("a = 1\r\nout a"), "", "a = 1\nout a"},
		{"shift-jis alias", []byte(sjis), "sjis", `out "日本語"`},
		{"shift-jis by html name", []byte(sjis), "shift_jis", `out "日本語"`},
		{"latin-1", []byte{'o', 'u', 't', ' ', 0xE9}, "iso-8859-1", "out é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data, tt.encoding)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := Decode([]byte("x"), "no-such-encoding"); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "Prog.calc")
	if err := os.WriteFile(path, []byte("a = 1\nout a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(fileutil.NewRealFS(tmpDir), "")
	s, err := loader.Load("prog.calc")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.FileName != "Prog.calc" || s.Name() != "Prog" {
		t.Errorf("FileName = %q, Name = %q", s.FileName, s.Name())
	}
	if len(s.Units) != 2 {
		t.Errorf("got %d units, want 2", len(s.Units))
	}
	if loader.Encoding() != DefaultEncoding {
		t.Errorf("Encoding = %q", loader.Encoding())
	}

	if _, err := loader.Load("missing.calc"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromMapFS(t *testing.T) {
	loader := NewLoader(fileutil.NewMapFS(fstest.MapFS{
		"lib/util.calc": {Data: []byte("double = fn(x) { brk x * 2 }")},
	}, "lib"), "utf-8")

	s, err := loader.Load("util.calc")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Path != "lib/util.calc" || len(s.Units) != 1 {
		t.Errorf("script = %+v", s)
	}
}
