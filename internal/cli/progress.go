package cli

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

const spinnerInterval = 100 * time.Millisecond

// startSpinner shows a spinner on w while a run is in progress and returns
// the function that clears it. Nothing is drawn unless w is a terminal.
func startSpinner(w io.Writer, message string) (stop func()) {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return func() {}
	}

	s := spinner.New(
		spinner.CharSets[14],
		spinnerInterval,
		spinner.WithWriterFile(f),
		spinner.WithSuffix(" "+message),
		spinner.WithHiddenCursor(true),
	)
	s.Start()
	return s.Stop
}
