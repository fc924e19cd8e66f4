package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zurustar/calc/pkg/cli"
	"github.com/zurustar/calc/pkg/config"
)

// isolate ホームディレクトリと環境変数をテスト用に差し替える
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{cli.EnvLogLevel, cli.EnvEncoding, cli.EnvHistory, config.EnvConfig} {
		t.Setenv(env, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := New(WithIO(strings.NewReader(stdin), &out, &errOut))
	err := app.Run(append([]string{"-l", "error"}, args...))
	return out.String(), errOut.String(), err
}

func TestRun_Script(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	main := filepath.Join(dir, "main.calc")
	writeFile(t, main, "import \"util.calc\"\nout util.twice(21)\n")
	writeFile(t, filepath.Join(dir, "util.calc"), "twice = fn(n) { brk n * 2 }\n")

	out, errOut, err := runApp(t, "", main)
	if err != nil {
		t.Fatalf("Run() error = %v, stderr %q", err, errOut)
	}
	if out != "42\n" {
		t.Errorf("output = %q, want %q", out, "42\n")
	}
}

func TestRun_ScriptError(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	main := filepath.Join(dir, "main.calc")
	writeFile(t, main, "out 1\n# comment\nout missing\nout 2\n")

	out, errOut, err := runApp(t, "", main)
	if !errors.Is(err, ErrScriptFailed) {
		t.Fatalf("Run() error = %v, want ErrScriptFailed", err)
	}
	if out != "1\n" {
		t.Errorf("output = %q, execution should stop at the failing unit", out)
	}
	for _, want := range []string{"Error occurred at line 3.", "out missing", "missing"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr %q does not contain %q", errOut, want)
		}
	}
}

func TestRun_MissingScript(t *testing.T) {
	isolate(t)
	_, _, err := runApp(t, "", filepath.Join(t.TempDir(), "none.calc"))
	if err == nil || errors.Is(err, ErrScriptFailed) {
		t.Errorf("Run() error = %v, want a load error", err)
	}
}

func TestRun_HeadfilesAndTimer(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	head := filepath.Join(dir, "lib", "head.calc")
	main := filepath.Join(dir, "main.calc")
	writeFile(t, head, "greeting = \"hello\"\n")
	writeFile(t, main, "out greeting\n")

	out, errOut, err := runApp(t, "", "-t", "-H", head, main)
	if err != nil {
		t.Fatalf("Run() error = %v, stderr %q", err, errOut)
	}
	if !strings.HasPrefix(out, "hello\n") || !strings.Contains(out, "Executed in: ") {
		t.Errorf("output = %q", out)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	home := isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "head.calc"), "n = 7\n")
	writeFile(t, filepath.Join(home, config.DefaultFileName), "headfiles: ["+filepath.Join(dir, "head.calc")+"]\n")
	main := filepath.Join(dir, "main.calc")
	writeFile(t, main, "out n * 6\n")

	out, errOut, err := runApp(t, "", main)
	if err != nil {
		t.Fatalf("Run() error = %v, stderr %q", err, errOut)
	}
	if out != "42\n" {
		t.Errorf("output = %q", out)
	}

	writeFile(t, filepath.Join(home, config.DefaultFileName), "colour: blue\n")
	if _, _, err := runApp(t, "", main); err == nil {
		t.Error("unknown config key should fail")
	}
}

func TestRun_Encoding(t *testing.T) {
	isolate(t)
	main := filepath.Join(t.TempDir(), "sjis.calc")
	// "out \"日本\"" をShift-JISで
	writeFile(t, main, "out \"\x93\xfa\x96\x7b\"\n")

	out, errOut, err := runApp(t, "", "-e", "sjis", main)
	if err != nil {
		t.Fatalf("Run() error = %v, stderr %q", err, errOut)
	}
	if out != "日本\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRun_REPL(t *testing.T) {
	isolate(t)
	out, errOut, err := runApp(t, "x = 3\nx * x\n:quit\n")
	if err != nil {
		t.Fatalf("Run() error = %v, stderr %q", err, errOut)
	}
	if out != "9\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRun_HelpAndVersion(t *testing.T) {
	isolate(t)

	out, _, err := runApp(t, "", "--help")
	if err != nil || !strings.Contains(out, "Usage:") {
		t.Errorf("help: %q, %v", out, err)
	}

	out, _, err = runApp(t, "", "-v")
	if err != nil || strings.TrimSpace(out) != cli.Version {
		t.Errorf("version: %q, %v", out, err)
	}

	if _, _, err := runApp(t, "", "--log-level", "loud"); err == nil {
		t.Error("invalid log level should fail")
	}
}
