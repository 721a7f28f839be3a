package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/lexandro/contextengine-mcp/scanner"
)

func newTestFilesHandler() *FilesHandler {
	return &FilesHandler{Source: scanner.Fresh{}, Logger: testLogger()}
}

func filesTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		"main.go":        "package main\n",
		"src/app/app.go": "package app\n",
		"src/app/app.ts": "export {}\n",
		"README.md":      "# readme\n",
		"dist/bundle.js": "bundle\n",
		".git/HEAD":      "ref\n",
	})
}

func Test_FilesHandler_GlobSearch(t *testing.T) {
	root := filesTree(t)
	h := newTestFilesHandler()

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "**/*.go", Path: root})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}

	text := resultText(t, result)
	for _, want := range []string{"main.go  (Go)", "src/app/app.go  (Go)", "Found 2 files"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "app.ts") {
		t.Errorf("unexpected TypeScript file:\n%s", text)
	}
}

func Test_FilesHandler_BaseNamePattern(t *testing.T) {
	root := filesTree(t)
	h := newTestFilesHandler()

	result, _, _ := h.Handle(context.Background(), nil, FilesArgs{Pattern: "*.ts", Path: root})
	text := resultText(t, result)
	if !strings.Contains(text, "src/app/app.ts") {
		t.Errorf("expected nested match for a slash-free pattern:\n%s", text)
	}
}

func Test_FilesHandler_EmptyPatternListsVisibleFiles(t *testing.T) {
	root := filesTree(t)
	h := newTestFilesHandler()

	result, _, _ := h.Handle(context.Background(), nil, FilesArgs{Path: root})
	text := resultText(t, result)
	if !strings.Contains(text, "Found 4 files") {
		t.Errorf("unexpected listing:\n%s", text)
	}
	if strings.Contains(text, "dist/") || strings.Contains(text, ".git/") {
		t.Errorf("ignored files listed:\n%s", text)
	}
}

func Test_FilesHandler_MaxResults(t *testing.T) {
	root := filesTree(t)
	h := newTestFilesHandler()

	result, _, _ := h.Handle(context.Background(), nil, FilesArgs{Path: root, MaxResults: 1})
	text := resultText(t, result)
	if !strings.Contains(text, "Found 4 files (showing first 1)") {
		t.Errorf("unexpected listing:\n%s", text)
	}
}

func Test_FilesHandler_InvalidPattern(t *testing.T) {
	h := newTestFilesHandler()

	result, _, _ := h.Handle(context.Background(), nil, FilesArgs{Pattern: "src/[", Path: t.TempDir()})
	if !result.IsError {
		t.Fatal("expected IsError=true for an invalid pattern")
	}
}

func Test_FilesHandler_NoResults(t *testing.T) {
	root := filesTree(t)
	h := newTestFilesHandler()

	result, _, _ := h.Handle(context.Background(), nil, FilesArgs{Pattern: "**/*.rs", Path: root})
	if text := resultText(t, result); text != "No files matched." {
		t.Errorf("expected 'No files matched.', got: %s", text)
	}
}
