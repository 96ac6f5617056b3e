package aws

import (
	"fmt"
	"log/slog"

	"github.com/aws/smithy-go/logging"
)

type awsLogger struct {
	logger *slog.Logger
}

func newAWSLogger(logger *slog.Logger) *awsLogger {
	return &awsLogger{logger}
}

// Logf forwards SDK log output to slog: warnings at warn level, everything else at debug.
func (a *awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	msg := fmt.Sprintf("[%v] %s", classification, fmt.Sprintf(format, args...))
	if classification == logging.Warn {
		a.logger.Warn(msg)
		return
	}
	a.logger.Debug(msg)
}
