package cache

import (
	"context"
	"fmt"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoDbStore struct {
	dynamoDb *dynamodb.Client
	table    string
	log      log.Logger
}

func newDynamoDb(ctx context.Context, conf *config.DynamoDbConfig, log log.Logger) (External, error) {
	awsConf, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Errorf("couldn't load AWS configuration: %s", err)
		return nil, err
	}
	var opts []func(*dynamodb.Options)
	if conf.Url != "" {
		opts = append(opts, func(options *dynamodb.Options) {
			options.BaseEndpoint = aws.String(conf.Url)
		})
	}
	log.Reportf("using DynamoDB for cache storage")
	return &dynamoDbStore{
		dynamoDb: dynamodb.NewFromConfig(awsConf, opts...),
		table:    conf.Table,
		log:      log,
	}, nil
}

func (d *dynamoDbStore) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := d.dynamoDb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			keyName: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, err
	}
	if res.Item == nil {
		return nil, ErrEntryNotFound
	}
	payload, ok := res.Item[payloadName].(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("unexpected payload type for cache entry '%s'", key)
	}
	return payload.Value, nil
}

func (d *dynamoDbStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := d.dynamoDb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item: map[string]types.AttributeValue{
			keyName:     &types.AttributeValueMemberS{Value: key},
			payloadName: &types.AttributeValueMemberB{Value: value},
		},
	})
	return err
}

func (d *dynamoDbStore) Shutdown() {
	d.log.Reportf("shutdown complete")
}
