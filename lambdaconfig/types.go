package lambdaconfig

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

const (
	// CodeInvalidConfig is returned by New for a configuration that fails validation.
	CodeInvalidConfig = "INVALID_LAMBDA_CONFIG"

	defaultPageSize = 50
)

// Function is the configuration of one published version (or $LATEST) of a function.
type Function struct {
	Name           string            `json:"name"`
	ARN            string            `json:"arn"`
	Version        string            `json:"version"`
	Runtime        string            `json:"runtime"`
	Handler        string            `json:"handler"`
	MemorySizeMB   int32             `json:"memory_size_mb"`
	TimeoutSeconds int32             `json:"timeout_seconds"`
	LastModified   string            `json:"last_modified"`
	Environment    map[string]string `json:"environment,omitempty" mask:"true"`
}

// Alias points a stable name at a function version.
type Alias struct {
	Name            string `json:"name"`
	ARN             string `json:"arn"`
	FunctionVersion string `json:"function_version"`
	Description     string `json:"description"`
}

func mapFunction(fc types.FunctionConfiguration, _ int) Function {
	f := Function{
		Name:           aws.ToString(fc.FunctionName),
		ARN:            aws.ToString(fc.FunctionArn),
		Version:        aws.ToString(fc.Version),
		Runtime:        string(fc.Runtime),
		Handler:        aws.ToString(fc.Handler),
		MemorySizeMB:   aws.ToInt32(fc.MemorySize),
		TimeoutSeconds: aws.ToInt32(fc.Timeout),
		LastModified:   aws.ToString(fc.LastModified),
	}
	if fc.Environment != nil {
		f.Environment = fc.Environment.Variables
	}
	return f
}

func mapAlias(ac types.AliasConfiguration, _ int) Alias {
	return Alias{
		Name:            aws.ToString(ac.Name),
		ARN:             aws.ToString(ac.AliasArn),
		FunctionVersion: aws.ToString(ac.FunctionVersion),
		Description:     aws.ToString(ac.Description),
	}
}
