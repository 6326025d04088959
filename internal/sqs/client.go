package sqs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/iyhunko/product-catalog/internal/config"
)

// NewClient builds an SQS client from the default AWS credential chain.
// A non-empty endpoint points the client at LocalStack or another emulator.
func NewClient(ctx context.Context, conf config.AWSConfig) (*sqs.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if conf.Region != "" {
		opts = append(opts, awsconfig.WithRegion(conf.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	}), nil
}
