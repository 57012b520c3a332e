//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/gostyle"

var Default = Build

var Aliases = map[string]any{
	"b":    Build,
	"t":    Test.Default,
	"l":    Lint.Default,
	"c":    Check,
	"fmt":  Lint.Fmt,
	"gold": Test.Golden,
	"fz":   Fuzz.Default,
	"self": Lint.Self,
}

type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
	Fuzz st.Namespace
)

// Build compiles bin/gostyle when any Go source or module file is newer.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/gostyle")
}

// Install runs go install with version ldflags.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/gostyle")
}

// Check formats, lints and tests, in that order.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes bin/ and coverage output.
func Clean() error {
	for _, p := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(p); err != nil {
			return err
		}
	}
	return nil
}

// Coverage writes coverage.html from a full test run.
func Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// gotestsum runs the whole suite with race detection and coverage, using
// the given gotestsum output format.
func gotestsum(format string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go", "tool", "gotestsum", "-f", format, "--",
		"-race", "-p", procs, "-parallel", procs,
		"-coverprofile=coverage.out", "-covermode=atomic", "./...")
}

// Default runs all tests, printing failures only.
func (Test) Default() error { return gotestsum("pkgname-and-test-fails") }

// Verbose runs all tests with every test name printed.
func (Test) Verbose() error { return gotestsum("standard-verbose") }

// Golden rewrites pkg/lint/rules/testdata/*.golden from current rule output.
func (Test) Golden() error {
	return sh.RunV("go", "test", "./pkg/lint/rules", "-run", "Golden", "-update")
}

// Default runs golangci-lint with --fix.
func (Lint) Default() error { return sh.RunV("golangci-lint", "run", "--fix", "./...") }

// CI runs golangci-lint without modifying files.
func (Lint) CI() error { return sh.RunV("golangci-lint", "run", "./...") }

func (Lint) Vet() error { return sh.RunV("go", "vet", "./...") }

func (Lint) Fmt() error { return sh.RunV("gofmt", "-w", ".") }

// FmtCheck fails when gofmt would change any file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("gofmt needed on:\n%s", out)
	}
	return nil
}

// Self runs the built binary over the rule fixtures, once as a lint and
// once as a fix preview. The fixtures are full of violations, so exit
// codes 1 (issues) and 2 (file failures) are expected; anything higher is
// a usage, config or internal error.
func (Lint) Self() error {
	st.Deps(Build)
	for _, args := range [][]string{
		{"lint", "--format", "summary", "pkg/lint/rules/testdata"},
		{"lint", "--fix", "--dry-run", "--quiet", "pkg/lint/rules/testdata"},
	} {
		cmd := exec.Command(binary, args...)
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		err := cmd.Run()

		var exitErr *exec.ExitError
		if err != nil && !(errors.As(err, &exitErr) && exitErr.ExitCode() <= 2) {
			return fmt.Errorf("gostyle %s: %w", strings.Join(args, " "), err)
		}
	}
	return nil
}

// Gate is everything CI runs before merging.
func (CI) Gate() {
	st.SerialDeps(Lint.FmtCheck, Lint.Vet, Lint.CI, Build, Test.Default, Lint.Self, CI.ModTidy, CI.Cross)
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	before := readModFiles()
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	if !bytes.Equal(before, readModFiles()) {
		return errors.New("go.mod or go.sum is not tidy")
	}
	return nil
}

func readModFiles() []byte {
	var buf bytes.Buffer
	for _, name := range []string{"go.mod", "go.sum"} {
		data, _ := os.ReadFile(name)
		buf.Write(data)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// Cross builds the binary for each release platform without cgo.
func (CI) Cross() error {
	for _, platform := range []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64",
		"freebsd/amd64",
	} {
		goos, goarch, _ := strings.Cut(platform, "/")
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/gostyle"); err != nil {
			return fmt.Errorf("%s: %w", platform, err)
		}
	}
	return nil
}

var fuzzTargets = [][2]string{
	{"./pkg/parser/html", "FuzzParse"},
	{"./pkg/parser/scss", "FuzzParse"},
	{"./pkg/fix", "FuzzApplyEdits"},
	{"./pkg/fix", "FuzzGenerateDiff"},
	{"./pkg/fsutil", "FuzzWriteReadRoundTrip"},
}

// Default runs each fuzz target for $FUZZTIME (30s if unset).
func (Fuzz) Default() error {
	d := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	for _, ft := range fuzzTargets {
		pkg, name := ft[0], ft[1]
		if err := sh.RunV("go", "test", pkg, "-run=^$", "-fuzz=^"+name+"$", "-fuzztime="+d); err != nil {
			return fmt.Errorf("%s %s: %w", pkg, name, err)
		}
	}
	return nil
}

func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}
