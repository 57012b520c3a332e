package fix

import (
	"bytes"
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// noEOLMarker follows a diff line that has no trailing newline.
const noEOLMarker = `\ No newline at end of file`

// DiffLineKind classifies a line of a hunk.
type DiffLineKind int

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdd
	DiffLineRemove
)

// DiffLine is one line of a hunk, without its prefix character.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
	// NoEOL marks the last line of a file that lacks a final newline.
	NoEOL bool
}

// DiffHunk is a run of changes with surrounding context. Starts are 1-based;
// a start for an empty side names the line after which the change applies.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// Diff is a line-based unified diff of one file.
type Diff struct {
	Path      string
	Original  []byte
	Modified  []byte
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// diffLine is a line together with whether it was newline-terminated, so a
// fix that only adds or removes the final newline still shows up.
type diffLine struct {
	text string
	eol  bool
}

func splitDiffLines(content []byte) []diffLine {
	var lines []diffLine
	for len(content) > 0 {
		i := bytes.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, diffLine{text: string(content)})
			break
		}
		lines = append(lines, diffLine{text: string(content[:i]), eol: true})
		content = content[i+1:]
	}
	return lines
}

// GenerateDiff compares original and modified line by line. It returns nil
// when the contents are equal.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}

	ops := diffOps(splitDiffLines(original), splitDiffLines(modified))
	d := &Diff{Path: path, Original: original, Modified: modified}
	for _, op := range ops {
		switch op.Kind {
		case DiffLineAdd:
			d.Additions++
		case DiffLineRemove:
			d.Deletions++
		}
	}
	d.Hunks = hunks(ops)
	return d
}

// diffOps returns the edit script from a to b. The common prefix and suffix
// are matched directly; only the middle goes through the LCS table, which
// keeps typical fix diffs small.
func diffOps(a, b []diffLine) []DiffLine {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]DiffLine, 0, len(a)+len(b))
	for _, l := range a[:prefix] {
		ops = append(ops, contextOp(l))
	}
	ops = append(ops, middleOps(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])...)
	for _, l := range a[len(a)-suffix:] {
		ops = append(ops, contextOp(l))
	}
	return ops
}

func contextOp(l diffLine) DiffLine {
	return DiffLine{Kind: DiffLineContext, Content: l.text, NoEOL: !l.eol}
}

// middleOps walks a suffix LCS table forward, emitting removals before
// additions at each point of divergence.
func middleOps(a, b []diffLine) []DiffLine {
	n, m := len(a), len(b)
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var ops []DiffLine
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && a[i] == b[j]:
			ops = append(ops, contextOp(a[i]))
			i++
			j++
		case i < n && (j == m || table[i+1][j] >= table[i][j+1]):
			ops = append(ops, DiffLine{Kind: DiffLineRemove, Content: a[i].text, NoEOL: !a[i].eol})
			i++
		default:
			ops = append(ops, DiffLine{Kind: DiffLineAdd, Content: b[j].text, NoEOL: !b[j].eol})
			j++
		}
	}
	return ops
}

// hunks groups an edit script into hunks, merging changes whose context
// windows touch.
func hunks(ops []DiffLine) []DiffHunk {
	var out []DiffHunk
	oldLine, newLine := 1, 1

	for i := 0; i < len(ops); {
		if ops[i].Kind == DiffLineContext {
			oldLine++
			newLine++
			i++
			continue
		}

		start := max(i-contextLines, 0)
		end := i
		for end < len(ops) {
			if ops[end].Kind != DiffLineContext {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].Kind == DiffLineContext {
				run++
			}
			if run == len(ops) || run-end > 2*contextLines {
				end = min(end+contextLines, len(ops))
				break
			}
			end = run
		}

		lead := i - start
		h := DiffHunk{OriginalStart: oldLine - lead, ModifiedStart: newLine - lead}
		for _, op := range ops[start:end] {
			h.Lines = append(h.Lines, op)
			if op.Kind != DiffLineAdd {
				h.OriginalCount++
			}
			if op.Kind != DiffLineRemove {
				h.ModifiedCount++
			}
		}
		if h.OriginalCount == 0 {
			h.OriginalStart--
		}
		if h.ModifiedCount == 0 {
			h.ModifiedStart--
		}
		out = append(out, h)

		oldLine += h.OriginalCount - lead
		newLine += h.ModifiedCount - lead
		i = end
	}
	return out
}

// HasChanges reports whether d has at least one hunk.
func (d *Diff) HasChanges() bool { return d != nil && len(d.Hunks) > 0 }

// String renders d in unified format, git header included.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n", path, path, path, path)
	for _, h := range d.Hunks {
		sb.WriteString(h.Header())
		sb.WriteByte('\n')
		for _, l := range h.Lines {
			sb.WriteString(l.String())
			sb.WriteByte('\n')
			if l.NoEOL {
				sb.WriteString(noEOLMarker)
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// Header returns the "@@ -a,b +c,d @@" line.
func (h DiffHunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// String returns the line with its prefix character.
func (l DiffLine) String() string {
	switch l.Kind {
	case DiffLineAdd:
		return "+" + l.Content
	case DiffLineRemove:
		return "-" + l.Content
	default:
		return " " + l.Content
	}
}

// NoEOLMarker is printed after a line whose NoEOL is set.
func NoEOLMarker() string { return noEOLMarker }
