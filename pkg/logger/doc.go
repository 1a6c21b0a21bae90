// Package logger builds configured slog.Logger instances with environment
// presets and context-driven attribute injection.
//
// The factory accepts functional options for format, level, static
// attributes, and ContextExtractor functions. Extractors run on every log
// call, so request-scoped values such as tenant id, user id, and request id
// land on each record automatically:
//
//	log := logger.New(
//		logger.WithProduction("membership-api"),
//		logger.WithContextExtractors(
//			tenant.LoggerExtractor(),
//			claims.LoggerExtractor(),
//			requestid.LoggerExtractor(),
//		),
//	)
package logger
