package shell

import "go.trai.ch/gale/internal/core/ports"

type LogWriter = logWriter

func NewLogWriter(logger ports.Logger, level string) *LogWriter {
	return &logWriter{logger: logger, level: level}
}
