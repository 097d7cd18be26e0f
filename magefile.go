//go:build mage

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	CmdDir       = "cmd/server"
	BuildDir     = "bin"
	TemplatesDir = "interfaces/web/templates"
	KnowledgeDir = "knowledge_base"

	TemplVersion = "v0.3.943"
)

// run executes a command attached to the terminal. extraEnv entries are
// KEY=VALUE pairs layered over the current environment.
func run(extraEnv []string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	cmd.Stdout, cmd.Stderr, cmd.Stdin = os.Stdout, os.Stderr, os.Stdin
	return cmd.Run()
}

func goCmd(args ...string) error { return run(nil, "go", args...) }

// capture returns combined output, trimmed.
func capture(name string, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout, cmd.Stderr = &buf, &buf
	err := cmd.Run()
	return strings.TrimSpace(buf.String()), err
}

func sequence(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func requireTools(tools ...string) error {
	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s; run 'mage deps'", strings.Join(missing, ", "))
	}
	return nil
}

// unchangedBy fails when fn leaves the working tree different from before.
func unchangedBy(fn func() error, paths []string, hint string) error {
	status := append([]string{"status", "--porcelain", "--"}, paths...)
	before, _ := capture("git", status...)
	if err := fn(); err != nil {
		return err
	}
	after, _ := capture("git", status...)
	if before == after {
		return nil
	}
	diff, _ := capture("git", append([]string{"--no-pager", "diff", "--"}, paths...)...)
	return fmt.Errorf("%s\n%s", hint, diff)
}

func binaryPath() string {
	name := "sentinel"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(BuildDir, name)
}

func raceEnv() ([]string, []string) {
	if os.Getenv("NO_RACE") == "1" {
		return nil, nil
	}
	return []string{"CGO_ENABLED=1"}, []string{"-race"}
}

// Bootstrap: fetch modules, install tooling, create the knowledge base dir
func Bootstrap() error {
	return sequence(ModDownload, Deps, KnowledgeBase, Gen)
}

// ModDownload: warm the module cache
func ModDownload() error {
	return goCmd("mod", "download", "all")
}

// Deps: install templ, goimports, staticcheck, golangci-lint, delve and govulncheck
func Deps() error {
	tools := []string{
		"github.com/a-h/templ/cmd/templ@" + TemplVersion,
		"golang.org/x/tools/cmd/goimports@latest",
		"honnef.co/go/tools/cmd/staticcheck@latest",
		"github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
		"github.com/go-delve/delve/cmd/dlv@latest",
		"golang.org/x/vuln/cmd/govulncheck@latest",
	}
	for _, tool := range tools {
		if err := goCmd("install", tool); err != nil {
			return fmt.Errorf("install %s: %w", tool, err)
		}
	}
	return nil
}

// Gen: regenerate the *_templ.go components from their .templ sources
func Gen() error {
	if err := requireTools("templ"); err != nil {
		return err
	}
	return goCmd("generate", "./"+TemplatesDir+"/...")
}

// GenerateCheck: fail when the committed components are stale
func GenerateCheck() error {
	return unchangedBy(Gen, []string{TemplatesDir},
		"generated components out of date; run 'mage gen' and commit")
}

// KnowledgeBase: create the directory indexed at startup (RAG_KB_DIR overrides)
func KnowledgeBase() error {
	dir := os.Getenv("RAG_KB_DIR")
	if dir == "" {
		dir = KnowledgeDir
	}
	return os.MkdirAll(dir, 0o755)
}

// Build: compile the server into ./bin (SKIP_GEN=1 uses the committed components)
func Build() error {
	if os.Getenv("SKIP_GEN") != "1" {
		if err := Gen(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(BuildDir, 0o755); err != nil {
		return err
	}
	return goCmd("build", "-trimpath", "-buildvcs=false", "-ldflags", "-s -w", "-o", binaryPath(), "./"+CmdDir)
}

// Run: start the server from source
func Run() error {
	if err := KnowledgeBase(); err != nil {
		return err
	}
	return goCmd("run", "./"+CmdDir)
}

// Debug: start the server under a headless delve on :2345
func Debug() error {
	if err := requireTools("dlv"); err != nil {
		return err
	}
	return run(nil, "dlv", "debug", "./"+CmdDir, "--headless", "--listen=:2345", "--api-version=2", "--accept-multiclient")
}

// Vuln: govulncheck over every package
func Vuln() error {
	if err := requireTools("govulncheck"); err != nil {
		return err
	}
	return run(nil, "govulncheck", "./...")
}

// Test: go test with -race unless NO_RACE=1
func Test() error {
	env, flags := raceEnv()
	return run(env, "go", append(append([]string{"test"}, flags...), "./...")...)
}

// Cover: write coverage.out and render coverage.html
func Cover() error {
	env, flags := raceEnv()
	args := append(append([]string{"test"}, flags...), "-coverprofile=coverage.out", "./...")
	if err := run(env, "go", args...); err != nil {
		return err
	}
	fmt.Println("coverage report: coverage.html")
	return goCmd("tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Lint: go vet, staticcheck and golangci-lint
func Lint() error {
	if err := requireTools("staticcheck", "golangci-lint"); err != nil {
		return err
	}
	return sequence(
		func() error { return goCmd("vet", "./...") },
		func() error { return run(nil, "staticcheck", "./...") },
		func() error { return run(nil, "golangci-lint", "run") },
	)
}

// Fmt: rewrite files with gofmt and goimports
func Fmt() error {
	if err := goCmd("fmt", "./..."); err != nil {
		return err
	}
	return run(nil, "goimports", "-w", ".")
}

// FmtCheck: list files gofmt or goimports would change
func FmtCheck() error {
	var problems []string
	for _, tool := range []string{"gofmt", "goimports"} {
		if files, _ := capture(tool, "-l", "."); files != "" {
			problems = append(problems, tool+":\n"+files)
		}
	}
	if len(problems) > 0 {
		return errors.New("unformatted files\n" + strings.Join(problems, "\n"))
	}
	return nil
}

// TidyCheck: fail when go mod tidy would touch go.mod or go.sum
func TidyCheck() error {
	return unchangedBy(func() error { return goCmd("mod", "tidy") }, []string{"go.mod", "go.sum"},
		"go.mod/go.sum not tidy; run 'go mod tidy' and commit")
}

// Clean: drop ./bin, coverage output and the SQLite store with its WAL files
// (KEEP_DB=1 keeps the store)
func Clean() error {
	_ = os.RemoveAll(BuildDir)
	_ = os.Remove("coverage.out")
	_ = os.Remove("coverage.html")

	if os.Getenv("KEEP_DB") == "1" {
		return nil
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "sentinel.db"
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		_ = os.Remove(dbPath + suffix)
	}
	return nil
}

// Verify: every check CI runs, in order
func Verify() error {
	if err := sequence(FmtCheck, TidyCheck, GenerateCheck, Lint, Vuln, Build, Test); err != nil {
		return err
	}
	fmt.Println("verify: ok")
	return nil
}
