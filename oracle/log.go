package oracle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter multiplexes log output to both stdout and the rotating log
// file, mirroring the teacher's build.LogWriter (not vendored here, so
// reimplemented directly against the same libraries).
type logWriter struct {
	RotatorPipe *io.PipeWriter
}

func (w *logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if w.RotatorPipe != nil {
		w.RotatorPipe.Write(p)
	}
	return len(p), nil
}

var (
	logWr      = &logWriter{}
	backendLog = slog.NewBackend(logWr)
	logRotator *rotator.Rotator

	orclLog = backendLog.Logger("ORCL")
	grphLog = backendLog.Logger("GRPH")
	lyrLog  = backendLog.Logger("LAYR")
	rsvLog  = backendLog.Logger("RSRV")
	rtqLog  = backendLog.Logger("RTQY")
	cmdLog  = backendLog.Logger("CMDL")
)

var subsystemLoggers = map[string]slog.Logger{
	"ORCL": orclLog,
	"GRPH": grphLog,
	"LAYR": lyrLog,
	"RSRV": rsvLog,
	"RTQY": rtqLog,
	"CMDL": cmdLog,
}

// initLogRotator initializes the rotating log file. It must be called
// before any of the package-global loggers are used for file output;
// until then, log lines still reach stdout.
func initLogRotator(logFile string, maxLogFileSize, maxLogFiles int) error {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	r, err := rotator.New(logFile, int64(maxLogFileSize*1024), false, maxLogFiles)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	pr, pw := io.Pipe()
	go r.Run(pr)

	logWr.RotatorPipe = pw
	logRotator = r
	return nil
}

// setLogLevel sets the logging level for the named subsystem. Unknown
// subsystems are ignored.
func setLogLevel(subsystemID, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, _ := slog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets every subsystem logger to the given level.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}

// InitLogRotator is the exported entrypoint a host binary calls once
// at startup, before issuing any commands against an Oracle.
func InitLogRotator(logFile string, maxLogFileSize, maxLogFiles int) error {
	return initLogRotator(logFile, maxLogFileSize, maxLogFiles)
}

// SetLogLevels is the exported entrypoint a host binary calls once at
// startup to set every subsystem's log level.
func SetLogLevels(logLevel string) {
	setLogLevels(logLevel)
}
