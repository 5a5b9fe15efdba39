// Package lambdaconfig reads function, alias and version configuration from
// the Lambda control plane.
package lambdaconfig

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/code19m/errx"
	"github.com/samber/lo"
)

// API is the subset of the Lambda client used here.
type API interface {
	lambda.ListFunctionsAPIClient
	lambda.ListAliasesAPIClient
	lambda.ListVersionsByFunctionAPIClient
	GetFunctionConfiguration(
		ctx context.Context,
		params *lambda.GetFunctionConfigurationInput,
		optFns ...func(*lambda.Options),
	) (*lambda.GetFunctionConfigurationOutput, error)
}

// Client is stateless apart from the underlying API client and is safe for concurrent use.
type Client struct {
	api      API
	pageSize int32
}

// New creates a Client from cfg.
//
// Static credentials are used when AccessKeyID is set, otherwise the default
// credential chain of the environment applies.
func New(ctx context.Context, cfg Config) (*Client, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	api := lambda.NewFromConfig(awsCfg, func(o *lambda.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Client{api: api, pageSize: cfg.PageSize}, nil
}

// NewWithAPI creates a Client on top of an existing API implementation.
func NewWithAPI(api API, pageSize int32) *Client {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{api: api, pageSize: pageSize}
}

// ListFunctions returns the $LATEST configuration of every function in the region.
func (c *Client) ListFunctions(ctx context.Context) ([]Function, error) {
	p := lambda.NewListFunctionsPaginator(c.api, &lambda.ListFunctionsInput{
		MaxItems: aws.Int32(c.pageSize),
	})

	var out []Function
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		out = append(out, lo.Map(page.Functions, mapFunction)...)
	}
	return out, nil
}

// GetFunctionConfiguration returns the configuration of name at qualifier.
// An empty qualifier selects $LATEST.
func (c *Client) GetFunctionConfiguration(ctx context.Context, name, qualifier string) (Function, error) {
	in := &lambda.GetFunctionConfigurationInput{FunctionName: aws.String(name)}
	if qualifier != "" {
		in.Qualifier = aws.String(qualifier)
	}

	res, err := c.api.GetFunctionConfiguration(ctx, in)
	if err != nil {
		return Function{}, errx.Wrap(err, errx.WithDetails(errx.D{
			"function":  name,
			"qualifier": qualifier,
		}))
	}

	return Function{
		Name:           aws.ToString(res.FunctionName),
		ARN:            aws.ToString(res.FunctionArn),
		Version:        aws.ToString(res.Version),
		Runtime:        string(res.Runtime),
		Handler:        aws.ToString(res.Handler),
		MemorySizeMB:   aws.ToInt32(res.MemorySize),
		TimeoutSeconds: aws.ToInt32(res.Timeout),
		LastModified:   aws.ToString(res.LastModified),
		Environment:    environmentOf(res),
	}, nil
}

// ListAliases returns every alias of the function.
func (c *Client) ListAliases(ctx context.Context, name string) ([]Alias, error) {
	p := lambda.NewListAliasesPaginator(c.api, &lambda.ListAliasesInput{
		FunctionName: aws.String(name),
		MaxItems:     aws.Int32(c.pageSize),
	})

	var out []Alias
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errx.Wrap(err, errx.WithDetails(errx.D{"function": name}))
		}
		out = append(out, lo.Map(page.Aliases, mapAlias)...)
	}
	return out, nil
}

// ListVersions returns every version of the function, $LATEST included.
func (c *Client) ListVersions(ctx context.Context, name string) ([]Function, error) {
	p := lambda.NewListVersionsByFunctionPaginator(c.api, &lambda.ListVersionsByFunctionInput{
		FunctionName: aws.String(name),
		MaxItems:     aws.Int32(c.pageSize),
	})

	var out []Function
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errx.Wrap(err, errx.WithDetails(errx.D{"function": name}))
		}
		out = append(out, lo.Map(page.Versions, mapFunction)...)
	}
	return out, nil
}

func environmentOf(res *lambda.GetFunctionConfigurationOutput) map[string]string {
	if res.Environment == nil {
		return nil
	}
	return res.Environment.Variables
}
