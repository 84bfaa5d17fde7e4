package cli

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/fibengine/internal/testutil"
)

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "result.txt")
	err := WriteResultToFile(big.NewInt(832040), 30, time.Millisecond, "Fast Doubling",
		OutputConfig{OutputFile: path})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"# Algorithm: Fast Doubling", "# N: 30", "F(30) =", "832040"} {
		if !strings.Contains(content, want) {
			t.Errorf("file missing %q:\n%s", want, content)
		}
	}
}

func TestWriteResultToFileHex(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "result.txt")
	if err := WriteResultToFile(big.NewInt(255), 13, 0, "fast", OutputConfig{OutputFile: path, HexOutput: true}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "0xff") {
		t.Errorf("hex output missing:\n%s", data)
	}
}

func TestWriteResultToFileNoop(t *testing.T) {
	t.Parallel()

	if err := WriteResultToFile(big.NewInt(1), 1, 0, "fast", OutputConfig{}); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()

	if got := FormatQuietResult(big.NewInt(832040), false); got != "832040" {
		t.Errorf("decimal quiet result = %q", got)
	}
	if got := FormatQuietResult(big.NewInt(255), true); got != "0xff" {
		t.Errorf("hex quiet result = %q", got)
	}
}

func TestDisplayResultWithConfigQuiet(t *testing.T) {
	usePlainTheme(t)

	var buf bytes.Buffer
	err := DisplayResultWithConfig(&buf, big.NewInt(832040), 30, time.Millisecond, "fast",
		OutputConfig{Quiet: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "832040\n" {
		t.Errorf("quiet output = %q, want bare value", got)
	}
}

func TestDisplayResultWithConfigHexBlock(t *testing.T) {
	usePlainTheme(t)

	var buf bytes.Buffer
	err := DisplayResultWithConfig(&buf, big.NewInt(255), 13, time.Millisecond, "fast",
		OutputConfig{HexOutput: true})
	if err != nil {
		t.Fatal(err)
	}
	out := testutil.StripAnsiCodes(buf.String())
	if !strings.Contains(out, "Hexadecimal format:") || !strings.Contains(out, "0xff") {
		t.Errorf("hex block missing:\n%s", out)
	}
}

func TestDisplayResultWithConfigSavesFile(t *testing.T) {
	usePlainTheme(t)

	path := filepath.Join(t.TempDir(), "out.txt")
	var buf bytes.Buffer
	err := DisplayResultWithConfig(&buf, big.NewInt(55), 10, time.Millisecond, "fast",
		OutputConfig{OutputFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.Contains(testutil.StripAnsiCodes(buf.String()), "Result saved to:") {
		t.Errorf("save confirmation missing:\n%s", buf.String())
	}
}
