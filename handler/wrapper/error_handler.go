package wrapper

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	jsoniter "github.com/json-iterator/go"
	"github.com/rise-and-shine/lambdakit/handler"
	"github.com/rise-and-shine/lambdakit/invocation"
	"github.com/rise-and-shine/lambdakit/logger"
)

const internalErrorMessage = "Internal server error"

// FallbackFunc builds the response returned in place of a failed invocation.
type FallbackFunc[R any] func(inv *invocation.Context, err error) R

type ErrorHandlerWrapper[E, R any] struct {
	logger   logger.Logger
	opts     logger.Options
	fallback FallbackFunc[R]
	next     handler.Handler[E, R]
}

// NewErrorHandlerWrapperFunc stops error propagation: a failing invocation is
// logged with full invocation facts and answered with fallback(inv, err) and a
// nil error.
func NewErrorHandlerWrapperFunc[E, R any](
	log logger.Logger,
	opts logger.Options,
	fallback FallbackFunc[R],
) handler.WrapFunc[E, R] {
	return func(next handler.Handler[E, R]) handler.Handler[E, R] {
		return &ErrorHandlerWrapper[E, R]{
			logger:   log.Named("wrapper.error_handler"),
			opts:     opts,
			fallback: fallback,
			next:     next,
		}
	}
}

// NewErrorHandlerWrapper is NewErrorHandlerWrapperFunc for API Gateway proxy
// responses, answering failures with FailureResponse.
func NewErrorHandlerWrapper[E any](
	log logger.Logger,
	opts logger.Options,
) handler.WrapFunc[E, events.APIGatewayProxyResponse] {
	return NewErrorHandlerWrapperFunc[E](log, opts, FailureResponse)
}

func (w *ErrorHandlerWrapper[E, R]) Handle(ctx context.Context, event E, inv *invocation.Context) (R, error) {
	if inv == nil {
		return w.next.Handle(ctx, event, inv)
	}

	result, err := w.next.Handle(ctx, event, inv)
	if err == nil {
		return result, nil
	}

	forced := logger.Options{
		Verbose:           logger.Bool(true),
		IncludeLambdaInfo: logger.Bool(true),
	}
	logger.NewInvocationLogger(w.logger, inv, w.opts).Error("unhandled error", err, nil, forced)

	return w.fallback(inv, err), nil
}

type failureBody struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// FailureResponse is the normalized 500 response carrying the request id.
func FailureResponse(inv *invocation.Context, _ error) events.APIGatewayProxyResponse {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(failureBody{
		Message:   internalErrorMessage,
		RequestID: inv.AWSRequestID,
	})
	if err != nil {
		body = `{"message":"` + internalErrorMessage + `"}`
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       body,
	}
}
