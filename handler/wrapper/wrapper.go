// Package wrapper provides instrumentation middleware for invocation handlers.
//
// Each constructor returns a handler.WrapFunc. Wrappers are transparent to
// errors, with one exception: the error handler wrapper turns a failure into a
// normal response and should be the outermost layer of a chain.
//
// Every wrapper steps aside when the handler is called without invocation
// facts, so instrumented handlers can be exercised directly in tests and
// local runs.
//
// Usage Example:
//
//	h := handler.Chain[events.APIGatewayProxyRequest, events.APIGatewayProxyResponse](
//		ordersHandler,
//		wrapper.NewErrorHandlerWrapper[events.APIGatewayProxyRequest](log, logger.Options{}),
//		wrapper.NewLoggerWrapper[events.APIGatewayProxyRequest, events.APIGatewayProxyResponse](log, cfg),
//		wrapper.NewRecoveryWrapper[events.APIGatewayProxyRequest, events.APIGatewayProxyResponse](log),
//	)
//	handler.Start(h)
package wrapper

import (
	"github.com/rise-and-shine/lambdakit/logger"
)

// Config configures the logger wrapper.
type Config struct {
	// Development logs the raw event, with sensitive values masked, on invocation start.
	Development bool `yaml:"development" default:"false"`

	// Log sets the construction options of the per-invocation logger.
	Log logger.Options `yaml:"log"`
}
