package config

import (
	"context"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// DatasetConfig defines where and how the consumption export is retrieved.
type DatasetConfig struct {
	URL          string        `mapstructure:"url"`
	URLParameter string        `mapstructure:"url_parameter"` // SSM parameter holding the URL in prod (optional)
	Timeout      time.Duration `mapstructure:"timeout"`
}

// ParameterGetter is the subset of the SSM client used to resolve parameters.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SourceURL returns the dataset URL. In prod, a configured URLParameter is looked up in the
// Parameter Store first; the configured URL is used when the lookup yields nothing.
func (cfg *DatasetConfig) SourceURL(env string) string {
	if env != "prod" || cfg.URLParameter == "" {
		return cfg.URL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg.URL
	}

	return cfg.resolveURL(ctx, ssm.NewFromConfig(awsCfg))
}

func (cfg *DatasetConfig) resolveURL(ctx context.Context, client ParameterGetter) string {
	if url := getParameterStoreValue(ctx, client, cfg.URLParameter, true); url != "" {
		return url
	}
	return cfg.URL
}

func getParameterStoreValue(ctx context.Context, client ParameterGetter, parameterName string, decrypt bool) string {
	input := &ssm.GetParameterInput{
		Name:           &parameterName,
		WithDecryption: &decrypt,
	}

	result, err := client.GetParameter(ctx, input)
	if err != nil {
		return ""
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return ""
	}

	return *result.Parameter.Value
}
