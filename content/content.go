// Package content reads selected files into the line-marked, bounded packet
// handed to the analysis call.
package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lexandro/contextengine-mcp/language"
)

const (
	DefaultMaxLines       = 5000
	DefaultMarkerInterval = 50

	// BinarySentinel replaces the content of files that are not valid text.
	BinarySentinel = "[Binary file - skipped]"
)

// Options bounds and annotates rendered files. Zero values mean the defaults.
type Options struct {
	MaxLines       int
	MarkerInterval int
	Logger         *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxLines <= 0 {
		o.MaxLines = DefaultMaxLines
	}
	if o.MarkerInterval <= 0 {
		o.MarkerInterval = DefaultMarkerInterval
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// File is one rendered entry of a packet.
type File struct {
	Path     string
	Rendered string
}

// Packet is the ordered set of rendered files.
type Packet []File

// Paths returns the packet's file paths in order.
func (p Packet) Paths() []string {
	paths := make([]string, len(p))
	for i, f := range p {
		paths[i] = f.Path
	}
	return paths
}

// Render joins the packet into "=== FILE: path ===" blocks.
func (p Packet) Render() string {
	var sb strings.Builder
	for i, f := range p {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("=== FILE: ")
		sb.WriteString(f.Path)
		sb.WriteString(" ===\n")
		sb.WriteString(f.Rendered)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Assemble renders each file relative to root. Per-file failures become
// sentinel text; Assemble itself never fails.
func Assemble(root string, files []string, opts Options) Packet {
	opts = opts.withDefaults()
	packet := make(Packet, 0, len(files))
	for _, rel := range files {
		packet = append(packet, File{Path: rel, Rendered: renderFile(root, rel, opts)})
	}
	return packet
}

// RenderFile renders a single file the way Assemble does.
func RenderFile(root, rel string, opts Options) string {
	return renderFile(root, rel, opts.withDefaults())
}

func renderFile(root, rel string, opts Options) string {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		opts.Logger.Warn("Error reading file", "path", rel, "error", err)
		return fmt.Sprintf("[Error reading file: %v]", err)
	}
	if language.IsBinaryContent(data) || !utf8.Valid(data) {
		opts.Logger.Debug("Binary file skipped", "path", rel)
		return BinarySentinel
	}

	lines := language.SplitLines(string(data))
	omitted := 0
	if len(lines) > opts.MaxLines {
		omitted = len(lines) - opts.MaxLines
		lines = lines[:opts.MaxLines]
		opts.Logger.Debug("Truncating file", "path", rel, "kept", opts.MaxLines, "omitted", omitted)
	}
	return renderLines(lines, opts.MarkerInterval, omitted)
}

// renderLines inserts a "[Line N]" marker before every line whose number is a
// multiple of interval and appends the truncation footer when omitted > 0.
// Markers are extra lines; they never shift the numbering of source lines.
func renderLines(lines []string, interval, omitted int) string {
	var sb strings.Builder
	for i, line := range lines {
		n := i + 1
		if i > 0 {
			sb.WriteString("\n")
		}
		if n%interval == 0 {
			sb.WriteString(LineMarker(n))
			sb.WriteString("\n")
		}
		sb.WriteString(line)
	}
	if omitted > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(TruncationFooter(omitted))
	}
	return sb.String()
}

// LineMarker returns the marker placed before line n.
func LineMarker(n int) string {
	return "[Line " + strconv.Itoa(n) + "]"
}

// TruncationFooter reports how many trailing lines were dropped.
func TruncationFooter(omitted int) string {
	return fmt.Sprintf("... [TRUNCATED: %d more lines] ...", omitted)
}
