package logging

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/op/go-logging"
)

var stdoutLogFormat = logging.MustStringFormatter(
	`%{color:reset}%{color}%{time:15:04:05.000} [%{module}] [%{shortfunc}] [%{level}] %{message}`,
)

var fileLogFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} [%{module}] [%{shortfunc}] [%{level}] %{message}`,
)

// Setup installs the process-wide log backends. Logs always go to stdout;
// when file is set they are also written to a rotated file.
func Setup(level string, file string) error {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return err
	}

	backendStdout := logging.NewLogBackend(os.Stdout, "", 0)
	backends := []logging.Backend{logging.NewBackendFormatter(backendStdout, stdoutLogFormat)}

	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return err
		}
		w := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
		backendFile := logging.NewLogBackend(w, "", 0)
		backends = append(backends, logging.NewBackendFormatter(backendFile, fileLogFormat))
	}

	leveled := logging.MultiLogger(backends...)
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return nil
}
