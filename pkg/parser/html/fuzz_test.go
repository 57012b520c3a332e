package html

import (
	"bytes"
	"context"
	"testing"

	"github.com/yaklabco/gostyle/pkg/syntax"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"<p>text</p>",
		`<div class="a" id='b' data-x=1 hidden>`,
		"<img src=a.png><br/>",
		"<!-- c --><!DOCTYPE html>",
		"<script>a<b</script>",
		"<a href=\"unterminated>x</a>",
		"<div <p>",
		"</stray>",
		"a < b && c > d",
		"<x\r\ny=\"1\"\r\n>",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		snapshot, err := New().Parse(context.Background(), "fuzz.html", data)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}

		if !bytes.Equal(snapshot.Content, data) {
			t.Error("content mismatch")
		}

		if !syntax.ValidateTokens(snapshot.Tokens, len(data)) {
			t.Errorf("tokens are not valid for input of length %d", len(data))
		}

		err = syntax.Walk(snapshot.Root, func(n *syntax.Node) error {
			if n.File != snapshot {
				t.Error("node has incorrect File reference")
			}
			if n.FirstToken > n.LastToken {
				t.Errorf("node %s has inverted token range", n.Kind)
			}
			return nil
		})
		if err != nil {
			t.Errorf("walk error: %v", err)
		}
	})
}
