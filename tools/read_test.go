package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func newTestReadHandler() *ReadHandler {
	return &ReadHandler{Logger: testLogger()}
}

func readTree(t *testing.T) string {
	var sb strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	return writeTree(t, map[string]string{
		"src/main.go":    sb.String(),
		"secret/key.txt": "hidden\n",
		".gitignore":     "secret/\n",
	})
}

func Test_ReadHandler_EmptyFilePath(t *testing.T) {
	h := newTestReadHandler()

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty filePath")
	}
	if text := resultText(t, result); !strings.Contains(text, "filePath parameter is required") {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_ReadHandler_WholeFile(t *testing.T) {
	root := readTree(t)
	h := newTestReadHandler()

	result, _, _ := h.Handle(context.Background(), nil, ReadArgs{FilePath: "src/main.go", Path: root})
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "**src/main.go** (lines 1-30)\n```go\n") {
		t.Errorf("unexpected header:\n%s", text)
	}
	if !strings.Contains(text, "  30 | line 30\n") {
		t.Errorf("missing last line:\n%s", text)
	}
}

func Test_ReadHandler_Range(t *testing.T) {
	root := readTree(t)
	h := newTestReadHandler()

	result, _, _ := h.Handle(context.Background(), nil, ReadArgs{FilePath: "src/main.go", Path: root, StartLine: 10, EndLine: 12})
	text := resultText(t, result)
	if !strings.HasPrefix(text, "**src/main.go** (lines 10-12)") {
		t.Errorf("unexpected header:\n%s", text)
	}
	if strings.Contains(text, "line 9\n") || strings.Contains(text, "line 13\n") {
		t.Errorf("range leaked:\n%s", text)
	}
}

func Test_ReadHandler_ClampsEnd(t *testing.T) {
	root := readTree(t)
	h := newTestReadHandler()

	result, _, _ := h.Handle(context.Background(), nil, ReadArgs{FilePath: "src/main.go", Path: root, StartLine: 25, EndLine: 500})
	if text := resultText(t, result); !strings.HasPrefix(text, "**src/main.go** (lines 25-30)") {
		t.Errorf("unexpected header:\n%s", text)
	}
}

func Test_ReadHandler_FileNotFound(t *testing.T) {
	root := readTree(t)
	h := newTestReadHandler()

	result, _, _ := h.Handle(context.Background(), nil, ReadArgs{FilePath: "nope.go", Path: root})
	if text := resultText(t, result); !strings.Contains(text, "file not found") {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_ReadHandler_IgnoredPathRefused(t *testing.T) {
	root := readTree(t)
	h := newTestReadHandler()

	result, _, _ := h.Handle(context.Background(), nil, ReadArgs{FilePath: "secret/key.txt", Path: root})
	if !result.IsError {
		t.Fatal("expected IsError=true for an ignored path")
	}
	if text := resultText(t, result); strings.Contains(text, "hidden") {
		t.Errorf("ignored content leaked: %s", text)
	}
}

func Test_ReadHandler_EscapingPathRefused(t *testing.T) {
	root := readTree(t)
	h := newTestReadHandler()

	for _, p := range []string{"../outside.txt", "src/../../outside.txt", "/etc/passwd"} {
		result, _, _ := h.Handle(context.Background(), nil, ReadArgs{FilePath: p, Path: root})
		if !result.IsError {
			t.Errorf("expected IsError=true for %q", p)
		}
	}
}
