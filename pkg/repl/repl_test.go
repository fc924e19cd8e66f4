package repl

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/zurustar/calc/pkg/stdlib"
	"github.com/zurustar/calc/pkg/vm"
)

// runSession 入力を流し込み、標準出力とエラー出力を返す
func runSession(t *testing.T, input string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	machine := vm.New(
		vm.WithStdout(&out),
		vm.WithModules(stdlib.Modules()...),
		vm.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	r := New(machine,
		WithInput(strings.NewReader(input)),
		WithOutput(&out),
		WithErrorOutput(&errOut),
	)
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String(), errOut.String()
}

func TestREPL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{
			name:  "式の値を表示",
			input: "1 + 2\n",
			want:  "3\n",
		},
		{
			name:  "代入は表示しない",
			input: "x = 4\nx * 2\n",
			want:  "8\n",
		},
		{
			name:  "outは1回だけ表示",
			input: "out \"hi\"\n",
			want:  "hi\n",
		},
		{
			name:  "括弧が閉じるまで続く",
			input: "f = fn(a) {\n  brk a + 1\n}\nf(1)\n",
			want:  "2\n",
		},
		{
			name:  "行継続",
			input: "1 +:\n2\n",
			want:  "3\n",
		},
		{
			name:    "エラーの後も続行",
			input:   "undefined_name\n5\n",
			want:    "5\n",
			wantErr: "undefined_name",
		},
		{
			name:  "quitで終了",
			input: "1\n:quit\n2\n",
			want:  "1\n",
		},
		{
			name:    "未知のコマンド",
			input:   ":help\n",
			wantErr: "unknown command :help",
		},
		{
			name:  "EOFで未完結の単位を評価",
			input: "2 * 3",
			want:  "6\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := runSession(t, tt.input)
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
			if tt.wantErr == "" && errOut != "" {
				t.Errorf("unexpected error output %q", errOut)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("error output = %q, want it to contain %q", errOut, tt.wantErr)
			}
		})
	}
}

func TestREPL_Vars(t *testing.T) {
	out, _ := runSession(t, "alpha = 1\nbeta = 2\n:vars\n")
	for _, name := range []string{"alpha", "beta", "true"} {
		if !strings.Contains(out, name+"\n") {
			t.Errorf(":vars output %q does not list %s", out, name)
		}
	}
}
