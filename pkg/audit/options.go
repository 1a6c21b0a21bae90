package audit

// Option configures Logger behavior during initialization
type Option func(*Logger)

// Context extractors populate audit events from request context. Each
// returns (value, found); when extraction fails the field stays empty.

func WithTenantIDExtractor(fn contextExtractor) Option {
	return func(l *Logger) {
		l.tenantIDExtractor = fn
	}
}

func WithUserIDExtractor(fn contextExtractor) Option {
	return func(l *Logger) {
		l.userIDExtractor = fn
	}
}

func WithRequestIDExtractor(fn contextExtractor) Option {
	return func(l *Logger) {
		l.requestIDExtractor = fn
	}
}
