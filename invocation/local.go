package invocation

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

// LocalContext returns a context carrying a synthetic lambda context, for
// running an instrumented handler outside the platform. Every call gets a new
// random request id. The deadline is now plus timeout.
func LocalContext(
	parent context.Context,
	invokedFunctionARN string,
	timeout time.Duration,
) (context.Context, context.CancelFunc) {
	lc := &lambdacontext.LambdaContext{
		AwsRequestID:       uuid.NewString(),
		InvokedFunctionArn: invokedFunctionARN,
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	return lambdacontext.NewContext(ctx, lc), cancel
}
