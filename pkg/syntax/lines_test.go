package syntax_test

import (
	"testing"

	"github.com/yaklabco/gostyle/pkg/syntax"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []syntax.LineInfo
	}{
		{name: "empty", content: "", want: []syntax.LineInfo{}},
		{
			name:    "no trailing newline",
			content: "ab",
			want:    []syntax.LineInfo{{StartOffset: 0, NewlineStart: 2, EndOffset: 2}},
		},
		{
			name:    "lf",
			content: "a\nb\n",
			want: []syntax.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 2},
				{StartOffset: 2, NewlineStart: 3, EndOffset: 4},
				{StartOffset: 4, NewlineStart: 4, EndOffset: 4},
			},
		},
		{
			name:    "crlf",
			content: "a\r\nb",
			want: []syntax.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 4, EndOffset: 4},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := syntax.BuildLines([]byte(testCase.content))
			if len(got) != len(testCase.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(testCase.want))
			}
			for i := range got {
				if got[i] != testCase.want[i] {
					t.Errorf("line %d: got %+v, want %+v", i, got[i], testCase.want[i])
				}
			}
		})
	}
}

func TestFileSnapshot_LineAtRuneColumns(t *testing.T) {
	t.Parallel()

	// "é" is two bytes; the column after it is 2.
	file := syntax.NewFileSnapshot("", syntax.DialectHTML, []byte("é<b>\nx"))

	line, col := file.LineAt(2)
	if line != 1 || col != 2 {
		t.Errorf("LineAt(2) = (%d, %d), want (1, 2)", line, col)
	}

	line, col = file.LineAt(6)
	if line != 2 || col != 1 {
		t.Errorf("LineAt(6) = (%d, %d), want (2, 1)", line, col)
	}

	offset, ok := file.Offset(1, 2)
	if !ok || offset != 2 {
		t.Errorf("Offset(1, 2) = (%d, %v), want (2, true)", offset, ok)
	}

	if _, ok := file.Offset(3, 1); ok {
		t.Error("Offset past last line should fail")
	}
}

func TestFileSnapshot_IndentEnd(t *testing.T) {
	t.Parallel()

	file := syntax.NewFileSnapshot("", syntax.DialectSCSS, []byte("a {\n\t  b: c;\n   \n}"))

	if got := file.IndentEnd(1); got != 0 {
		t.Errorf("IndentEnd(1) = %d, want 0", got)
	}
	if got := file.IndentEnd(2); got != 7 {
		t.Errorf("IndentEnd(2) = %d, want 7", got)
	}
	if got := file.IndentEnd(3); got != -1 {
		t.Errorf("IndentEnd(3) = %d, want -1 for blank line", got)
	}
	if got := string(file.LineContent(2)); got != "\t  b: c;" {
		t.Errorf("LineContent(2) = %q", got)
	}
}
