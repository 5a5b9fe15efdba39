package invocation

import (
	"os"
	"strings"
)

const (
	// qualifiedARNSegments is the segment count of a function ARN that carries a qualifier:
	// arn:aws:lambda:<region>:<account>:function:<name>:<qualifier>.
	qualifiedARNSegments = 8

	latestVersion = "$LATEST"

	// logStreamEnv is the platform setting consulted for log routing.
	logStreamEnv = "AWS_LAMBDA_LOG_STREAM_NAME"
)

// MinimalInfo is the identity projection of an invocation.
type MinimalInfo struct {
	FunctionName    string `json:"function_name"`
	FunctionVersion string `json:"function_version"`
	Alias           string `json:"alias,omitempty"`
	RequestID       string `json:"request_id"`
	ColdStart       bool   `json:"cold_start"`
}

// Info is the full projection of an invocation: identity plus resource and environment facts.
type Info struct {
	MinimalInfo

	MemoryLimitInMB       int     `json:"memory_limit_in_mb"`
	MemoryUsedInMB        float64 `json:"memory_used_in_mb"`
	LogGroupName          string  `json:"log_group_name"`
	LogStreamName         string  `json:"log_stream_name"`
	RemainingTimeInMillis int64   `json:"remaining_time_in_millis"`
	Platform              string  `json:"platform"`
	Arch                  string  `json:"arch"`
	NumCPU                int     `json:"num_cpu"`
}

// MinimalInfoOf projects inv onto its identity facts.
func MinimalInfoOf(inv *Context) MinimalInfo {
	alias, _ := inv.Alias()
	return MinimalInfo{
		FunctionName:    inv.FunctionName,
		FunctionVersion: inv.FunctionVersion,
		Alias:           alias,
		RequestID:       inv.AWSRequestID,
		ColdStart:       inv.ColdStart,
	}
}

// InfoOf projects inv onto its full set of facts, sampling host resources at call time.
func InfoOf(inv *Context) Info {
	host := HostInfo()
	return Info{
		MinimalInfo:           MinimalInfoOf(inv),
		MemoryLimitInMB:       inv.MemoryLimitInMB,
		MemoryUsedInMB:        MemoryUsage().SysMB,
		LogGroupName:          inv.LogGroupName,
		LogStreamName:         inv.LogStreamName,
		RemainingTimeInMillis: inv.RemainingTimeInMillis(),
		Platform:              host.Platform,
		Arch:                  host.Arch,
		NumCPU:                host.NumCPU,
	}
}

// AliasFromARN extracts the alias from a qualified function ARN.
// A numeric qualifier is a version, not an alias, and $LATEST is neither.
func AliasFromARN(arn string) (string, bool) {
	parts := strings.Split(arn, ":")
	if len(parts) < qualifiedARNSegments {
		return "", false
	}

	qualifier := parts[len(parts)-1]
	if qualifier == "" || qualifier == latestVersion || isNumeric(qualifier) {
		return "", false
	}

	return qualifier, true
}

// DisplayLogStream returns the log stream name prefixed with the alias in brackets
// when the invocation came through an alias.
func DisplayLogStream(inv *Context) string {
	if alias, ok := inv.Alias(); ok {
		return "[" + alias + "]" + inv.LogStreamName
	}
	return inv.LogStreamName
}

// RouteLogStream records name as the process-wide log stream setting.
//
// The setting is process state: hosts that run several invocations in one
// process at the same time will race on it.
func RouteLogStream(name string) {
	_ = os.Setenv(logStreamEnv, name)
}

// RoutedLogStream returns the current process-wide log stream setting.
func RoutedLogStream() string {
	return os.Getenv(logStreamEnv)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
