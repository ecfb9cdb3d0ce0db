package sl

import (
	"fmt"
	"log/slog"
)

func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret keeps sensitive values out of logs, only a short prefix is
// printed.
func Secret(key, value string) slog.Attr {
	masked := "***"
	if value == "" {
		masked = "?"
	} else if len(value) > 5 {
		masked = fmt.Sprintf("%s***", value[:5])
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}

func Module(mod string) slog.Attr {
	return slog.Attr{
		Key:   "mod",
		Value: slog.StringValue(mod),
	}
}
