// Package export writes report texts to disk.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/samirrijal/biogrid/internal/core/ports"
	"github.com/samirrijal/biogrid/internal/pkg/metrics"
)

// ErrExportFailed wraps every write failure returned by Writer.Export.
var ErrExportFailed = errors.New("export failed")

// FailureMessage is the text shown to the user when a file cannot be written.
const FailureMessage = "File could not be written. Perhaps another program is using it."

// Writer writes report bodies to files on fs, truncating existing content.
type Writer struct {
	fs       afero.Fs
	notifier ports.Notifier
}

// NewWriter creates a Writer. A nil fs means the OS filesystem; a nil notifier logs only.
func NewWriter(fs afero.Fs, notifier ports.Notifier) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{fs: fs, notifier: notifier}
}

// Export writes header (when non-empty) followed by body to dest. On failure the
// user is notified and the error is returned; nothing is retried.
func (w *Writer) Export(ctx context.Context, dest, body, header string) error {
	err := w.write(dest, body, header)
	if err == nil {
		return nil
	}

	metrics.ExportFailures.Inc()
	slog.Warn("export write failed", "path", dest, "error", err)

	if w.notifier != nil {
		if nerr := w.notifier.Notify(ctx, FailureMessage, err.Error()); nerr != nil {
			slog.Warn("export failure notification", "path", dest, "error", nerr)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrExportFailed, dest, err)
}

func (w *Writer) write(dest, body, header string) (err error) {
	f, err := w.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if header != "" {
		if _, err := io.WriteString(f, header); err != nil {
			return err
		}
	}
	_, err = io.WriteString(f, body)
	return err
}
