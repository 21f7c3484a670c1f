// Package hexdump renders raw kernel buffers for inspection. Argument
// blocks are almost entirely zero tail, so the dumper can collapse runs of
// zero lines the way hexdump(1) does.
package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Options controls the dump layout and colors
type Options struct {
	// BytesPerLine is the number of bytes rendered per line
	BytesPerLine int

	// GroupSize groups this many bytes between spaces (usually 1, 2 or 4)
	GroupSize int

	// ShowASCII renders the printable view after the hex cells
	ShowASCII bool

	// ShowOffset renders the leading offset column
	ShowOffset bool

	// StartOffset offsets the first line's address label
	StartOffset uint64

	// OffsetWidth is the offset column width in hex digits
	OffsetWidth int

	// MaxLines caps the output; the remainder is summarized (0 = no cap)
	MaxLines int

	// CollapseZeroLines replaces runs of all-zero lines with a single *
	CollapseZeroLines bool

	// HighlightPattern marks every occurrence of this byte sequence
	HighlightPattern []byte

	OffsetColor       coloransi.ColorCode
	HexColor          coloransi.ColorCode
	ASCIIColor        coloransi.ColorCode
	NonPrintableColor coloransi.ColorCode
	ZeroColor         coloransi.ColorCode
	HighlightColor    coloransi.ColorCode
	HighlightBGColor  coloransi.ColorCode
}

// DefaultOptions returns the standard 16-wide colored layout
func DefaultOptions() Options {
	return Options{
		BytesPerLine:      16,
		GroupSize:         1,
		ShowASCII:         true,
		ShowOffset:        true,
		OffsetWidth:       8,
		OffsetColor:       coloransi.Cyan,
		HexColor:          coloransi.Green,
		ASCIIColor:        coloransi.White,
		NonPrintableColor: coloransi.BrightBlack,
		ZeroColor:         coloransi.BrightBlack,
		HighlightColor:    coloransi.Yellow,
		HighlightBGColor:  coloransi.Black,
	}
}

// Dump renders data with the given options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpBytes renders data with the default options
func DumpBytes(data []byte) string {
	return Dump(data, DefaultOptions())
}

// DumpWithOffset renders data with line addresses starting at startOffset
func DumpWithOffset(data []byte, startOffset uint64) string {
	options := DefaultOptions()
	options.StartOffset = startOffset
	return Dump(data, options)
}

// DumpCompact renders a narrow 8-wide layout
func DumpCompact(data []byte) string {
	options := DefaultOptions()
	options.BytesPerLine = 8
	options.OffsetWidth = 4
	return Dump(data, options)
}

// DumpToWriter renders data to writer line by line
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.GroupSize <= 0 {
		options.GroupSize = 1
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	highlighted := markHighlights(data, options.HighlightPattern)

	lineCount := 0
	collapsing := false
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}
		line := data[offset:end]

		// Collapse interior zero runs; the first and last line always print
		// so the block's bounds stay visible.
		if options.CollapseZeroLines && offset > 0 && end < len(data) && allZero(line) {
			if !collapsing {
				fmt.Fprintln(writer, "*")
				collapsing = true
			}
			continue
		}
		collapsing = false

		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			return
		}
		formatLine(writer, line, highlighted[offset:end], uint64(offset)+options.StartOffset, options)
		lineCount++
	}
}

// markHighlights flags every byte covered by an occurrence of pattern
func markHighlights(data, pattern []byte) []bool {
	marks := make([]bool, len(data))
	if len(pattern) == 0 {
		return marks
	}
	for at := 0; ; {
		i := bytes.Index(data[at:], pattern)
		if i < 0 {
			break
		}
		for j := 0; j < len(pattern); j++ {
			marks[at+i+j] = true
		}
		at += i + 1
	}
	return marks
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func formatLine(writer io.Writer, data []byte, marks []bool, offset uint64, options Options) {
	if options.ShowOffset {
		offsetStr := fmt.Sprintf("%0"+strconv.Itoa(options.OffsetWidth)+"x", offset)
		fmt.Fprint(writer, coloransi.Foreground(options.OffsetColor, offsetStr), "  ")
	}

	hexParts := formatHexCells(data, marks, options)

	// A mid-line divider once the line reaches past half width
	groupsPerLine := options.BytesPerLine / options.GroupSize
	if groupsPerLine == 0 {
		groupsPerLine = 1
	}
	leftGroups := groupsPerLine / 2
	useSplit := options.BytesPerLine >= 8 && len(data) > options.BytesPerLine/2

	if useSplit && leftGroups > 0 && leftGroups < len(hexParts) {
		fmt.Fprint(writer, strings.Join(hexParts[:leftGroups], " "), " | ", strings.Join(hexParts[leftGroups:], " "))
	} else {
		fmt.Fprint(writer, strings.Join(hexParts, " "))
	}

	if options.ShowASCII {
		fmt.Fprint(writer, padForShortLine(len(data), useSplit, options))
		fmt.Fprint(writer, " | ")
		if useSplit && options.BytesPerLine/2 < len(data) {
			mid := options.BytesPerLine / 2
			formatASCII(writer, data[:mid], marks[:mid], options)
			fmt.Fprint(writer, " ")
			formatASCII(writer, data[mid:], marks[mid:], options)
		} else {
			formatASCII(writer, data, marks, options)
		}
	}

	fmt.Fprintln(writer)
}

// padForShortLine keeps the ASCII column aligned when the final line is
// shorter than BytesPerLine
func padForShortLine(have int, useSplit bool, options Options) string {
	if have >= options.BytesPerLine {
		return ""
	}
	ceil := func(n int) int { return (n + options.GroupSize - 1) / options.GroupSize }
	missingBytes := options.BytesPerLine - have
	deltaSpaces := (ceil(options.BytesPerLine) - 1) - max(0, ceil(have)-1)
	pipeFull := 0
	if options.BytesPerLine >= 8 {
		pipeFull = 3
	}
	pipeCur := 0
	if useSplit {
		pipeCur = 3
	}
	padding := missingBytes*2 + deltaSpaces + pipeFull - pipeCur
	if padding <= 0 {
		return ""
	}
	return strings.Repeat(" ", padding)
}

func formatHexCells(data []byte, marks []bool, options Options) []string {
	var cells []string
	var group []string
	for i, b := range data {
		hexValue := fmt.Sprintf("%02x", b)
		color := options.HexColor
		if b == 0 {
			color = options.ZeroColor
		}
		if marks[i] {
			group = append(group, coloransi.Color(options.HighlightColor, options.HighlightBGColor, hexValue))
		} else {
			group = append(group, coloransi.Foreground(color, hexValue))
		}
		if (i+1)%options.GroupSize == 0 || i == len(data)-1 {
			cells = append(cells, strings.Join(group, ""))
			group = nil
		}
	}
	return cells
}

func formatASCII(writer io.Writer, data []byte, marks []bool, options Options) {
	for i, b := range data {
		c := rune(b)
		switch {
		case marks[i]:
			fmt.Fprint(writer, coloransi.Color(options.HighlightColor, options.HighlightBGColor, string(c)))
		case b == 0:
			fmt.Fprint(writer, coloransi.Foreground(options.ZeroColor, "."))
		case !unicode.IsPrint(c):
			fmt.Fprint(writer, coloransi.Foreground(options.NonPrintableColor, "."))
		default:
			fmt.Fprint(writer, coloransi.Foreground(options.ASCIIColor, string(c)))
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
