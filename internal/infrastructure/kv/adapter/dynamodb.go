package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"go-chatsync/internal/infrastructure/kv/port"
)

const (
	dynamoKeyAttr   = "Key"
	dynamoValueAttr = "Value"
)

// DynamoOptions configures the DynamoDB adapter. Endpoint is meant for
// DynamoDB Local; when it is set static dummy credentials are used.
type DynamoOptions struct {
	Table    string
	Region   string
	Endpoint string
}

// DynamoStore keeps one item per key in a single-attribute-key table.
type DynamoStore struct {
	db    *dynamodb.Client
	table string
}

// NewDynamoStore builds the client and creates the table when it is missing.
func NewDynamoStore(ctx context.Context, opts DynamoOptions) (*DynamoStore, error) {
	if opts.Table == "" {
		return nil, errors.New("dynamodb: DYNAMODB_TABLE is not set")
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.Endpoint != "" {
		endpoint := opts.Endpoint
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: endpoint}, nil
		})
		loadOpts = append(loadOpts,
			config.WithEndpointResolverWithOptions(resolver),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "dummy")),
		)
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load config: %w", err)
	}
	s := &DynamoStore{db: dynamodb.NewFromConfig(cfg), table: opts.Table}
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DynamoStore) ensureTable(ctx context.Context) error {
	_, err := s.db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(dynamoKeyAttr), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(dynamoKeyAttr), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	var inUse *types.ResourceInUseException
	if err != nil && !errors.As(err, &inUse) {
		return fmt.Errorf("dynamodb: create table: %w", err)
	}
	return nil
}

var _ port.Store = (*DynamoStore)(nil)

func (s *DynamoStore) Get(ctx context.Context, key string) (string, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			dynamoKeyAttr: &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if len(out.Item) == 0 {
		return "", port.ErrMiss
	}
	v, ok := out.Item[dynamoValueAttr].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("dynamodb: item %q has no string %s attribute", key, dynamoValueAttr)
	}
	return v.Value, nil
}

func (s *DynamoStore) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			dynamoKeyAttr:   &types.AttributeValueMemberS{Value: key},
			dynamoValueAttr: &types.AttributeValueMemberS{Value: value},
		},
	})
	return err
}

func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	return err
}

// Close is a no-op; the SDK client holds no long-lived resources.
func (s *DynamoStore) Close() error {
	return nil
}
