// Package backends implements pkg/store.KeyValueStore against AWS services.
// AWS SSM Parameter Store is the primary backend; Secrets Manager is an
// alternative with the same contract.
package backends

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/ssmpass/ssmpass/pkg/store"
)

// SSMClientAPI is the subset of the SSM client the backend uses.
// It allows fake clients in tests.
type SSMClientAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error)
	DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error)
	ListTagsForResource(ctx context.Context, params *ssm.ListTagsForResourceInput, optFns ...func(*ssm.Options)) (*ssm.ListTagsForResourceOutput, error)
	AddTagsToResource(ctx context.Context, params *ssm.AddTagsToResourceInput, optFns ...func(*ssm.Options)) (*ssm.AddTagsToResourceOutput, error)
}

// AWSConfig holds the shared AWS client configuration.
type AWSConfig struct {
	Region  string
	Profile string
	// Endpoint overrides the service endpoint, for LocalStack-style testing.
	Endpoint string
	// Static credentials, only used together with Endpoint in tests.
	AccessKeyID     string
	SecretAccessKey string
}

// SSMStore implements store.KeyValueStore on AWS SSM Parameter Store.
// Values are stored as SecureString parameters.
type SSMStore struct {
	client SSMClientAPI
}

// SSMOption is a functional option for configuring the SSM backend.
type SSMOption func(*SSMStore)

// WithSSMClient sets a custom SSM client (for testing).
func WithSSMClient(client SSMClientAPI) SSMOption {
	return func(s *SSMStore) {
		s.client = client
	}
}

// NewSSM creates the SSM Parameter Store backend.
func NewSSM(cfg AWSConfig, opts ...SSMOption) (*SSMStore, error) {
	s := &SSMStore{}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		awsCfg, err := loadAWSConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		var clientOpts []func(*ssm.Options)
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, func(o *ssm.Options) {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			})
		}
		s.client = ssm.NewFromConfig(awsCfg, clientOpts...)
	}

	return s, nil
}

// loadAWSConfig resolves region, profile and optional static credentials.
func loadAWSConfig(cfg AWSConfig) (aws.Config, error) {
	var configOpts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		configOpts = append(configOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		configOpts = append(configOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	return awsconfig.LoadDefaultConfig(context.Background(), configOpts...)
}

// GetValue fetches and decrypts a SecureString parameter.
func (s *SSMStore) GetValue(ctx context.Context, key string) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(true),
	}

	result, err := s.client.GetParameter(ctx, input)
	if err != nil {
		return "", classifySSMError(key, err)
	}
	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s has no value", key)
	}

	return *result.Parameter.Value, nil
}

// PutValue writes a SecureString parameter. With Overwrite false the write
// is conditional and the store itself rejects an existing key, which is the
// atomicity guarantee create relies on. SSM cannot combine tags with an
// overwrite put, so in that case tags are applied in a follow-up call.
func (s *SSMStore) PutValue(ctx context.Context, key, value string, opts store.PutOptions) error {
	input := &ssm.PutParameterInput{
		Name:      aws.String(key),
		Value:     aws.String(value),
		Type:      ssmtypes.ParameterTypeSecureString,
		Overwrite: aws.Bool(opts.Overwrite),
	}
	if opts.Description != "" {
		input.Description = aws.String(opts.Description)
	}
	if !opts.Overwrite {
		input.Tags = ssmTags(opts.Tags)
	}

	if _, err := s.client.PutParameter(ctx, input); err != nil {
		return classifySSMError(key, err)
	}

	if opts.Overwrite && len(opts.Tags) > 0 {
		tagInput := &ssm.AddTagsToResourceInput{
			ResourceType: ssmtypes.ResourceTypeForTaggingParameter,
			ResourceId:   aws.String(key),
			Tags:         ssmTags(opts.Tags),
		}
		if _, err := s.client.AddTagsToResource(ctx, tagInput); err != nil {
			return classifySSMError(key, err)
		}
	}

	return nil
}

// DeleteValue removes a parameter.
func (s *SSMStore) DeleteValue(ctx context.Context, key string) error {
	input := &ssm.DeleteParameterInput{Name: aws.String(key)}
	if _, err := s.client.DeleteParameter(ctx, input); err != nil {
		return classifySSMError(key, err)
	}
	return nil
}

// ListKeys enumerates parameter names under prefix, following pagination.
func (s *SSMStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	input := &ssm.DescribeParametersInput{
		ParameterFilters: []ssmtypes.ParameterStringFilter{
			{
				Key:    aws.String("Name"),
				Option: aws.String("BeginsWith"),
				Values: []string{prefix},
			},
		},
	}

	var keys []string
	paginator := ssm.NewDescribeParametersPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifySSMError(prefix, err)
		}
		for _, param := range page.Parameters {
			keys = append(keys, aws.ToString(param.Name))
		}
	}

	return keys, nil
}

// Describe returns parameter metadata and tags without the value.
func (s *SSMStore) Describe(ctx context.Context, key string) (store.Metadata, error) {
	input := &ssm.DescribeParametersInput{
		ParameterFilters: []ssmtypes.ParameterStringFilter{
			{
				Key:    aws.String("Name"),
				Values: []string{key},
			},
		},
	}

	result, err := s.client.DescribeParameters(ctx, input)
	if err != nil {
		return store.Metadata{}, classifySSMError(key, err)
	}
	if len(result.Parameters) == 0 {
		return store.Metadata{}, fmt.Errorf("%w: %s", store.ErrKeyNotFound, key)
	}

	param := result.Parameters[0]
	md := store.Metadata{
		Key:         aws.ToString(param.Name),
		Description: aws.ToString(param.Description),
		Type:        string(param.Type),
		Version:     param.Version,
	}
	if param.LastModifiedDate != nil {
		md.LastModified = *param.LastModifiedDate
	}

	tagResult, err := s.client.ListTagsForResource(ctx, &ssm.ListTagsForResourceInput{
		ResourceType: ssmtypes.ResourceTypeForTaggingParameter,
		ResourceId:   aws.String(key),
	})
	if err != nil {
		return store.Metadata{}, classifySSMError(key, err)
	}
	if len(tagResult.TagList) > 0 {
		md.Tags = make(map[string]string, len(tagResult.TagList))
		for _, tag := range tagResult.TagList {
			md.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
	}

	return md, nil
}

// Validate checks connectivity and credentials with a minimal read.
func (s *SSMStore) Validate(ctx context.Context) error {
	input := &ssm.DescribeParametersInput{MaxResults: aws.Int32(1)}
	if _, err := s.client.DescribeParameters(ctx, input); err != nil {
		return fmt.Errorf("failed to connect to SSM Parameter Store: %w", err)
	}
	return nil
}

// classifySSMError maps SDK error types onto the store sentinels. Unknown
// failures pass through wrapped so the cause is preserved.
func classifySSMError(key string, err error) error {
	var notFound *ssmtypes.ParameterNotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", store.ErrKeyNotFound, key)
	}
	var exists *ssmtypes.ParameterAlreadyExists
	if errors.As(err, &exists) {
		return fmt.Errorf("%w: %s", store.ErrKeyExists, key)
	}
	return err
}

// ssmTags converts a tag map to SSM tag structs in deterministic order.
func ssmTags(tags map[string]string) []ssmtypes.Tag {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]ssmtypes.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, ssmtypes.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return out
}
