package wrapper_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rise-and-shine/lambdakit/handler"
	"github.com/rise-and-shine/lambdakit/handler/wrapper"
	"github.com/rise-and-shine/lambdakit/invocation"
	"github.com/rise-and-shine/lambdakit/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type (
	event    = events.APIGatewayProxyRequest
	response = events.APIGatewayProxyResponse
)

func newObserved(t *testing.T) (logger.Logger, *observer.ObservedLogs) {
	t.Helper()
	t.Setenv("AWS_LAMBDA_LOG_STREAM_NAME", "")
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewFromZap(zap.New(core)), logs
}

func testInvocation() *invocation.Context {
	return &invocation.Context{
		FunctionName:       "orders",
		FunctionVersion:    "3",
		MemoryLimitInMB:    256,
		AWSRequestID:       "req-1",
		LogGroupName:       "/aws/lambda/orders",
		LogStreamName:      "2024/01/01/[3]abc",
		InvokedFunctionARN: "arn:aws:lambda:us-east-1:123456789012:function:orders:prod",
		Deadline:           time.Now().Add(time.Minute),
		ColdStart:          true,
	}
}

func ok(body string) handler.HandlerFunc[event, response] {
	return func(context.Context, event, *invocation.Context) (response, error) {
		return response{StatusCode: 200, Body: body}, nil
	}
}

func failing(err error) handler.HandlerFunc[event, response] {
	return func(context.Context, event, *invocation.Context) (response, error) {
		return response{StatusCode: 418}, err
	}
}

func messages(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.All() {
		out = append(out, e.Message)
	}
	return out
}

func handlerFunc[E, R any](fn func(E) (R, error)) handler.HandlerFunc[E, R] {
	return func(_ context.Context, e E, _ *invocation.Context) (R, error) {
		return fn(e)
	}
}

func wrapperOpts() logger.Options {
	return logger.Options{}
}

func TestFullChain_PanicIsLoggedAndAnswered(t *testing.T) {
	log, logs := newObserved(t)
	stack := handler.Compose(
		wrapper.NewErrorHandlerWrapper[event](log, wrapperOpts()),
		wrapper.NewLoggerWrapper[event, response](log, wrapper.Config{}),
		wrapper.NewRecoveryWrapper[event, response](log),
	)
	h := stack(handlerFunc(func(event) (response, error) {
		panic(errors.New("nil map"))
	}))

	res, err := h.Handle(context.Background(), event{}, testInvocation())

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	msgs := messages(logs)
	require.Len(t, msgs, 4)
	assert.True(t, strings.HasPrefix(msgs[0], "invocation started"))
	assert.True(t, strings.HasPrefix(msgs[1], "recovered from panic"))
	assert.True(t, strings.HasPrefix(msgs[2], "invocation failed"))
	assert.True(t, strings.HasPrefix(msgs[3], "unhandled error"))
}
