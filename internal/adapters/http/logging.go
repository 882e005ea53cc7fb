package http

import (
	"context"
	"log/slog"
)

const serviceName = "M47-Content-Certification-Service"

func httpLogger() *slog.Logger {
	return slog.Default().With(
		slog.String("service", serviceName),
		slog.String("layer", "http"),
	)
}

func logHTTPOperationError(ctx context.Context, logger *slog.Logger, operation string, err error) {
	logger.ErrorContext(ctx, "operation failed",
		slog.String("operation", operation),
		slog.String("outcome", "error"),
		slog.String("error", err.Error()),
	)
}
