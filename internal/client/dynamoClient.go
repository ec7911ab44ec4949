package client

import (
	"context"
	"fmt"

	"securebase-billing/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

func InitDynamoDBClient(ctx context.Context, dynamoCfg *config.DynamoDB) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(dynamoCfg.Region),
	}
	// static keys are for local DynamoDB; otherwise the default chain applies
	if dynamoCfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			dynamoCfg.AccessKeyID,
			dynamoCfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if dynamoCfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(dynamoCfg.EndpointURL)
		}
	}), nil
}
