package language

import "strings"

// DecodeLossy converts data to a string, replacing invalid UTF-8 sequences
// with U+FFFD instead of failing.
func DecodeLossy(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}

// SplitLines splits text the way a text-mode reader does: "\n" and "\r\n"
// terminate lines, and a final terminator does not start an extra empty line.
// Empty text has zero lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
