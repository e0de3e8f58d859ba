package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFormat_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.txt")
	if err := os.WriteFile(path, []byte("  Hello. World  "), 0644); err != nil {
		t.Fatal(err)
	}
	env, mocks := testEnv()

	if err := execute(context.Background(), FormatCmd(env), path); err != nil {
		t.Fatalf("format error = %v", err)
	}
	if got := mocks.stdout.String(); got != "Hello.\n\nWorld\n" {
		t.Errorf("stdout = %q, want %q", got, "Hello.\n\nWorld\n")
	}
	if n := len(mocks.analyzers.NewAnalyzerCalls()); n != 0 {
		t.Errorf("format created %d analyzers, want 0", n)
	}
}

func TestFormat_Stdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "no args", stdin: "helloWorld", want: "hello. World\n"},
		{name: "dash", args: []string{"-"}, stdin: "One.Two", want: "One.\n\nTwo\n"},
		{name: "blank prints nothing", stdin: "  \n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, mocks := testEnv(withTestStdin(tt.stdin))
			if err := execute(context.Background(), FormatCmd(env), tt.args...); err != nil {
				t.Fatalf("format error = %v", err)
			}
			if got := mocks.stdout.String(); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_FileNotFound(t *testing.T) {
	t.Parallel()

	env, _ := testEnv()
	err := execute(context.Background(), FormatCmd(env), filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("format error = %v, want ErrFileNotFound", err)
	}
}

func TestFormat_OutputFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "formatted.md")
	env, mocks := testEnv(withTestStdin("A. B"))

	if err := execute(context.Background(), FormatCmd(env), "-o", out); err != nil {
		t.Fatalf("format error = %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "A.\n\nB\n" {
		t.Errorf("file content = %q, want %q", got, "A.\n\nB\n")
	}
	if mocks.stdout.String() != "" {
		t.Errorf("stdout = %q, want empty when -o is set", mocks.stdout.String())
	}

	// Second run refuses to overwrite.
	env2, _ := testEnv(withTestStdin("C"))
	if err := execute(context.Background(), FormatCmd(env2), "-o", out); !errors.Is(err, ErrOutputExists) {
		t.Errorf("second format error = %v, want ErrOutputExists", err)
	}
}

func TestFormat_TooManyArgs(t *testing.T) {
	t.Parallel()

	env, _ := testEnv()
	if err := execute(context.Background(), FormatCmd(env), "a", "b"); err == nil {
		t.Error("format with two args: error = nil, want usage error")
	}
}
