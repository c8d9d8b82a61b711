package backends

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/ssmpass/ssmpass/pkg/store"
)

// SecretsManagerClientAPI is the subset of the Secrets Manager client the
// backend uses. It allows fake clients in tests.
type SecretsManagerClientAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	UpdateSecret(ctx context.Context, params *secretsmanager.UpdateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretOutput, error)
	DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
	DescribeSecret(ctx context.Context, params *secretsmanager.DescribeSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error)
	TagResource(ctx context.Context, params *secretsmanager.TagResourceInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.TagResourceOutput, error)
}

// SecretsManagerStore implements store.KeyValueStore on AWS Secrets Manager.
// CreateSecret provides the conditional-write semantics, so create has the
// same atomicity guarantee as the SSM backend.
type SecretsManagerStore struct {
	client SecretsManagerClientAPI
}

// SecretsManagerOption is a functional option for the Secrets Manager backend.
type SecretsManagerOption func(*SecretsManagerStore)

// WithSecretsManagerClient sets a custom client (for testing).
func WithSecretsManagerClient(client SecretsManagerClientAPI) SecretsManagerOption {
	return func(s *SecretsManagerStore) {
		s.client = client
	}
}

// NewSecretsManager creates the Secrets Manager backend.
func NewSecretsManager(cfg AWSConfig, opts ...SecretsManagerOption) (*SecretsManagerStore, error) {
	s := &SecretsManagerStore{}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		awsCfg, err := loadAWSConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		var clientOpts []func(*secretsmanager.Options)
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			})
		}
		s.client = secretsmanager.NewFromConfig(awsCfg, clientOpts...)
	}

	return s, nil
}

// GetValue fetches the current secret value.
func (s *SecretsManagerStore) GetValue(ctx context.Context, key string) (string, error) {
	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(key),
	})
	if err != nil {
		return "", classifySecretsManagerError(key, err)
	}

	if result.SecretString != nil {
		return *result.SecretString, nil
	}
	if result.SecretBinary != nil {
		return string(result.SecretBinary), nil
	}
	return "", fmt.Errorf("secret %s has no value", key)
}

// PutValue writes a secret. Without Overwrite it calls CreateSecret, which
// the service rejects for an existing name. With Overwrite it updates in
// place and refreshes tags separately, mirroring the SSM backend.
func (s *SecretsManagerStore) PutValue(ctx context.Context, key, value string, opts store.PutOptions) error {
	if !opts.Overwrite {
		input := &secretsmanager.CreateSecretInput{
			Name:         aws.String(key),
			SecretString: aws.String(value),
			Tags:         secretsManagerTags(opts.Tags),
		}
		if opts.Description != "" {
			input.Description = aws.String(opts.Description)
		}
		if _, err := s.client.CreateSecret(ctx, input); err != nil {
			return classifySecretsManagerError(key, err)
		}
		return nil
	}

	input := &secretsmanager.UpdateSecretInput{
		SecretId:     aws.String(key),
		SecretString: aws.String(value),
	}
	if opts.Description != "" {
		input.Description = aws.String(opts.Description)
	}
	if _, err := s.client.UpdateSecret(ctx, input); err != nil {
		return classifySecretsManagerError(key, err)
	}

	if len(opts.Tags) > 0 {
		tagInput := &secretsmanager.TagResourceInput{
			SecretId: aws.String(key),
			Tags:     secretsManagerTags(opts.Tags),
		}
		if _, err := s.client.TagResource(ctx, tagInput); err != nil {
			return classifySecretsManagerError(key, err)
		}
	}

	return nil
}

// DeleteValue removes a secret immediately. Without the force flag the
// secret would linger in a recovery window and still show up in listings.
func (s *SecretsManagerStore) DeleteValue(ctx context.Context, key string) error {
	input := &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(key),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	}
	if _, err := s.client.DeleteSecret(ctx, input); err != nil {
		return classifySecretsManagerError(key, err)
	}
	return nil
}

// ListKeys enumerates secret names under prefix, following pagination.
func (s *SecretsManagerStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	input := &secretsmanager.ListSecretsInput{
		Filters: []smtypes.Filter{
			{
				Key:    smtypes.FilterNameStringTypeName,
				Values: []string{prefix},
			},
		},
	}

	var keys []string
	paginator := secretsmanager.NewListSecretsPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifySecretsManagerError(prefix, err)
		}
		for _, entry := range page.SecretList {
			keys = append(keys, aws.ToString(entry.Name))
		}
	}

	return keys, nil
}

// Describe returns secret metadata and tags without the value.
func (s *SecretsManagerStore) Describe(ctx context.Context, key string) (store.Metadata, error) {
	result, err := s.client.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{
		SecretId: aws.String(key),
	})
	if err != nil {
		return store.Metadata{}, classifySecretsManagerError(key, err)
	}

	md := store.Metadata{
		Key:         aws.ToString(result.Name),
		Description: aws.ToString(result.Description),
		Type:        "SecureString",
	}
	if result.LastChangedDate != nil {
		md.LastModified = *result.LastChangedDate
	}
	if len(result.Tags) > 0 {
		md.Tags = make(map[string]string, len(result.Tags))
		for _, tag := range result.Tags {
			md.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
	}

	return md, nil
}

// Validate checks connectivity and credentials with a minimal read.
func (s *SecretsManagerStore) Validate(ctx context.Context) error {
	input := &secretsmanager.ListSecretsInput{MaxResults: aws.Int32(1)}
	if _, err := s.client.ListSecrets(ctx, input); err != nil {
		return fmt.Errorf("failed to connect to Secrets Manager: %w", err)
	}
	return nil
}

// classifySecretsManagerError maps SDK error types onto the store sentinels.
func classifySecretsManagerError(key string, err error) error {
	var notFound *smtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", store.ErrKeyNotFound, key)
	}
	var exists *smtypes.ResourceExistsException
	if errors.As(err, &exists) {
		return fmt.Errorf("%w: %s", store.ErrKeyExists, key)
	}
	return err
}

// secretsManagerTags converts a tag map to SDK tag structs in deterministic order.
func secretsManagerTags(tags map[string]string) []smtypes.Tag {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]smtypes.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, smtypes.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return out
}
