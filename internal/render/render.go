package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

// DefaultWidth is the formatting width handed to man(1) when none is
// configured.
const DefaultWidth = 120

//go:embed assets/page.html.tmpl
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/page.html.tmpl"))

// Renderer is the man-source-to-HTML-page pipeline.
//
// A Renderer holds only configuration and is safe for concurrent use.
type Renderer struct {
	width  int
	logger *slog.Logger

	// runMan is swapped in tests so rendering does not depend on a
	// man(1) installation.
	runMan func(ctx context.Context, path string, width int) ([]byte, error)
}

// New creates a Renderer formatting pages width columns wide. A width of
// zero or less selects [DefaultWidth].
func New(width int, logger *slog.Logger) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		width:  width,
		logger: logger,
		runMan: runMan,
	}
}

// Page renders the man-page source at sourcePath into a complete HTML
// document: the formatted page body inside the served pre element, plus
// the inline script that keeps it live over the event stream.
func (r *Renderer) Page(ctx context.Context, sourcePath string) ([]byte, error) {
	out, err := r.runMan(ctx, sourcePath, r.width)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("formatted man page", "source", sourcePath, "bytes", len(out))

	body := htmlBody(string(out))
	if !strings.HasSuffix(body, "\n") {
		// the closing marker must sit on its own line for the
		// extractor to find it
		body += "\n"
	}

	var buf bytes.Buffer
	data := struct {
		Title string
		Body  string
	}{
		Title: pageTitle(sourcePath),
		Body:  body,
	}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering page template: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTo renders sourcePath and replaces the contents of targetPath
// with the result. The replacement is a rename, so readers see either
// the old page or the new one, never a torn write.
func (r *Renderer) RenderTo(ctx context.Context, sourcePath, targetPath string) error {
	page, err := r.Page(ctx, sourcePath)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(targetPath), ".manview-*.tmp")
	if err != nil {
		return fmt.Errorf("writing rendered page: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(page); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("writing rendered page: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing rendered page: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing rendered page: %w", err)
	}
	if err := os.Rename(tmp, targetPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing rendered page: %w", err)
	}
	return nil
}

// CreateTarget creates the temporary HTML file a preview serves from and
// returns its path. The caller owns the file and removes it on exit.
func CreateTarget() (string, error) {
	f, err := os.CreateTemp("", "manview-*.html")
	if err != nil {
		return "", fmt.Errorf("creating preview target: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("creating preview target: %w", err)
	}
	return f.Name(), nil
}

// runMan captures the formatted output of man(1) for the source at path.
//
// COLUMNS and MANWIDTH fix the formatting width. MAN_KEEP_FORMATTING
// keeps the overstrike sequences that mark bold and underlined text when
// stdout is not a terminal; mandoc-based systems emit them for plain
// ascii output regardless.
func runMan(ctx context.Context, path string, width int) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("cannot read man page source: %w", err)
	}

	cmd := exec.CommandContext(ctx, "man", "-P", "/bin/cat", abs)
	cmd.Env = append(os.Environ(),
		"COLUMNS="+strconv.Itoa(width),
		"MANWIDTH="+strconv.Itoa(width),
		"MAN_KEEP_FORMATTING=1",
	)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("man %s: %w: %s", abs, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("man %s: %w", abs, err)
	}
	return out, nil
}
