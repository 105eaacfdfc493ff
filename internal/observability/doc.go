// Package observability provides logging and metrics support for the
// journal catalog service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for searches, the catalog, the cache, and the source
//   - Context helpers for propagating the request ID
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    Output:    "stdout",
//	    AddSource: true,
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("request_id", reqID).Msg("catalog loaded")
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("journal_catalog")
//
// Record metrics:
//
//	metrics.RecordSearch("name", 12, elapsed.Seconds())
//	metrics.RecordCatalogSize(store.Len())
//
// # Context Helpers
//
// Store and retrieve request context:
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	reqID := observability.RequestIDFromContext(ctx)
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: HTTP request identifier
//   - query: user's search text
//   - search_type: selector the search ran under (name, area, issn, ...)
//   - journal: journal name
//   - issn: journal ISSN
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
