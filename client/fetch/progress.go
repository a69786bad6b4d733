package fetch

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// progressWriter is an io.Writer, logging download progress at
// most once per second if enabled.
type progressWriter struct {
	w           io.Writer
	logger      *slog.Logger
	url         string
	transferred int64
	total       int64
	startTime   time.Time
	lastLog     time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.transferred += int64(n)

	if time.Since(pw.lastLog) >= time.Second {
		pw.lastLog = time.Now()
		pw.log("fetching")
	}

	if pw.total >= 0 && pw.transferred == pw.total {
		pw.log("fetch complete")
	}

	return n, err
}

func (pw *progressWriter) log(msg string) {
	progress := "unknown"
	if pw.total > 0 {
		progress = fmt.Sprintf("%.1f%%", float64(pw.transferred)/float64(pw.total)*100)
	}

	pw.logger.Info(msg,
		"url", pw.url,
		"progress", progress,
		"elapsed", time.Since(pw.startTime).Round(time.Millisecond),
		"transferred", pw.transferred,
		"total", pw.total,
	)
}
