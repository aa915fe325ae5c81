package internal

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Logger is a tinted slog logger tagged with the owning component and
// stage name. The tags are bound once at construction.
type Logger struct {
	*slog.Logger
}

func NewLogger(component, name string) *Logger {
	var handler slog.Handler

	if runtime.GOOS == "windows" {
		handler = tint.NewHandler(colorable.NewColorableStdout(), nil)
	} else {
		w := os.Stderr
		handler = tint.NewHandler(w, &tint.Options{
			NoColor: !isatty.IsTerminal(w.Fd()),
		})
	}

	return &Logger{
		Logger: slog.New(handler).With(
			slog.String("component", component),
			slog.String("name", name),
		),
	}
}

// Error logs err through tint's error attribute.
func (l *Logger) Error(msg string, err error, args ...any) {
	l.Logger.Error(msg, append([]any{tint.Err(err)}, args...)...)
}
