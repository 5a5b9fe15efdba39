package lambdaconfig

import (
	"github.com/code19m/errx"
	"github.com/rise-and-shine/lambdakit/val"
)

// Config holds the parameters needed to reach the Lambda control plane.
//
// Fields:
//
//	Region          - AWS region of the functions (e.g., "eu-central-1").
//	AccessKeyID     - Optional static access key. The default credential chain is used when empty.
//	SecretAccessKey - Secret for AccessKeyID. Required when AccessKeyID is set.
//	SessionToken    - Optional session token for temporary credentials.
//	Endpoint        - Optional endpoint override (e.g., a local emulator).
//	PageSize        - Items requested per page by listing operations.
type Config struct {
	Region          string `yaml:"region"            validate:"required"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" validate:"required_with=AccessKeyID" mask:"true"`
	SessionToken    string `yaml:"session_token"                                          mask:"true"`
	Endpoint        string `yaml:"endpoint"          validate:"omitempty,url"`
	PageSize        int32  `yaml:"page_size"         validate:"gte=0,lte=50"              default:"50"`
}

func (cfg *Config) Validate() error {
	if err := val.ValidateSchema(cfg); err != nil {
		return errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = defaultPageSize
	}
	return nil
}
