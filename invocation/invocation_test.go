package invocation_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rise-and-shine/lambdakit/invocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_ColdStartOnlyOnce(t *testing.T) {
	tr := invocation.NewTracker()

	assert.True(t, tr.IsColdStart())
	for range 10 {
		assert.False(t, tr.IsColdStart())
	}
}

func TestTracker_ColdStartConcurrentReads(t *testing.T) {
	tr := invocation.NewTracker()

	var colds atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.IsColdStart() {
				colds.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), colds.Load())
}

func TestTracker_FromContext(t *testing.T) {
	lambdacontext.FunctionName = "orders"
	lambdacontext.FunctionVersion = "7"
	lambdacontext.MemoryLimitInMB = 256
	lambdacontext.LogGroupName = "/aws/lambda/orders"
	lambdacontext.LogStreamName = "2024/01/01/[7]abc"

	deadline := time.Now().Add(3 * time.Second)
	ctx, cancel := context.WithDeadline(t.Context(), deadline)
	defer cancel()
	ctx = lambdacontext.NewContext(ctx, &lambdacontext.LambdaContext{
		AwsRequestID:       "req-1",
		InvokedFunctionArn: "arn:aws:lambda:eu-west-1:123456789012:function:orders:prod",
	})

	tr := invocation.NewTracker()

	first, ok := tr.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "orders", first.FunctionName)
	assert.Equal(t, "7", first.FunctionVersion)
	assert.Equal(t, 256, first.MemoryLimitInMB)
	assert.Equal(t, "req-1", first.AWSRequestID)
	assert.Equal(t, "/aws/lambda/orders", first.LogGroupName)
	assert.Equal(t, deadline, first.Deadline)
	assert.True(t, first.ColdStart)
	assert.Positive(t, first.RemainingTimeInMillis())
	assert.LessOrEqual(t, first.RemainingTimeInMillis(), int64(3000))

	second, ok := tr.FromContext(ctx)
	require.True(t, ok)
	assert.False(t, second.ColdStart)
	assert.True(t, first.ColdStart, "earlier context keeps its flag")
}

func TestTracker_FromContextOutsideInvocation(t *testing.T) {
	tr := invocation.NewTracker()

	inv, ok := tr.FromContext(t.Context())
	assert.False(t, ok)
	assert.Nil(t, inv)
	assert.True(t, tr.IsColdStart(), "flag is not consumed without an invocation")
}

func TestContext_RemainingTimeWithoutDeadline(t *testing.T) {
	inv := &invocation.Context{}
	assert.Zero(t, inv.RemainingTime())

	inv.Deadline = time.Now().Add(-time.Second)
	assert.Zero(t, inv.RemainingTimeInMillis())
}

func TestAliasFromARN(t *testing.T) {
	tests := []struct {
		arn   string
		alias string
		ok    bool
	}{
		{arn: "arn:aws:lambda:us-east-1:123456789012:function:name:prod", alias: "prod", ok: true},
		{arn: "arn:aws:lambda:us-east-1:123456789012:function:name:42"},
		{arn: "arn:aws:lambda:us-east-1:123456789012:function:name:$LATEST"},
		{arn: "arn:aws:lambda:us-east-1:123456789012:function:name"},
		{arn: "arn:aws:lambda:us-east-1:123456789012:function:name:v2", alias: "v2", ok: true},
		{arn: ""},
	}

	for _, tt := range tests {
		t.Run(tt.arn, func(t *testing.T) {
			alias, ok := invocation.AliasFromARN(tt.arn)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.alias, alias)
		})
	}
}

func TestInfoProjections(t *testing.T) {
	inv := &invocation.Context{
		FunctionName:       "orders",
		FunctionVersion:    "3",
		MemoryLimitInMB:    512,
		AWSRequestID:       "req-9",
		LogGroupName:       "/aws/lambda/orders",
		LogStreamName:      "stream",
		InvokedFunctionARN: "arn:aws:lambda:us-east-1:123456789012:function:orders:live",
		ColdStart:          true,
	}

	minimal := invocation.MinimalInfoOf(inv)
	assert.Equal(t, invocation.MinimalInfo{
		FunctionName:    "orders",
		FunctionVersion: "3",
		Alias:           "live",
		RequestID:       "req-9",
		ColdStart:       true,
	}, minimal)

	full := invocation.InfoOf(inv)
	assert.Equal(t, minimal, full.MinimalInfo)
	assert.Equal(t, 512, full.MemoryLimitInMB)
	assert.Equal(t, "stream", full.LogStreamName)
	assert.Positive(t, full.MemoryUsedInMB)
	assert.NotEmpty(t, full.Platform)
	assert.Positive(t, full.NumCPU)
}

func TestDisplayLogStream(t *testing.T) {
	inv := &invocation.Context{
		LogStreamName:      "2024/01/01/[3]abc",
		InvokedFunctionARN: "arn:aws:lambda:us-east-1:123456789012:function:orders:prod",
	}
	assert.Equal(t, "[prod]2024/01/01/[3]abc", invocation.DisplayLogStream(inv))

	inv.InvokedFunctionARN = "arn:aws:lambda:us-east-1:123456789012:function:orders:3"
	assert.Equal(t, "2024/01/01/[3]abc", invocation.DisplayLogStream(inv))
}

func TestRouteLogStream(t *testing.T) {
	t.Setenv("AWS_LAMBDA_LOG_STREAM_NAME", "original")

	invocation.RouteLogStream("[prod]original")
	assert.Equal(t, "[prod]original", invocation.RoutedLogStream())
}

func TestLocalContext(t *testing.T) {
	arn := "arn:aws:lambda:us-east-1:123456789012:function:orders:dev"
	tr := invocation.NewTracker()

	ctx, cancel := invocation.LocalContext(context.Background(), arn, time.Minute)
	defer cancel()
	first, ok := tr.FromContext(ctx)
	require.True(t, ok)

	ctx2, cancel2 := invocation.LocalContext(context.Background(), arn, time.Minute)
	defer cancel2()
	second, ok := tr.FromContext(ctx2)
	require.True(t, ok)

	assert.Len(t, first.AWSRequestID, 36)
	assert.NotEqual(t, first.AWSRequestID, second.AWSRequestID)
	assert.True(t, first.ColdStart)
	assert.False(t, second.ColdStart)
	assert.Positive(t, first.RemainingTimeInMillis())

	alias, ok := first.Alias()
	assert.True(t, ok)
	assert.Equal(t, "dev", alias)
}
