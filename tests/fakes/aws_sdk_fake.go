// Package fakes provides hand-written fake AWS SDK clients and an
// in-memory key/value store for tests. The SDK fakes return the same typed
// errors as the real services so classification paths are exercised.
package fakes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ParameterData holds the data for a fake SSM parameter.
type ParameterData struct {
	Name             *string
	Type             ssmtypes.ParameterType
	Value            *string
	Description      *string
	Version          int64
	LastModifiedDate *time.Time
	Tags             map[string]string
}

// FakeSSMClient is an in-memory implementation of the SSM client subset
// used by the SSM backend.
type FakeSSMClient struct {
	// Parameters maps parameter names to their data.
	Parameters map[string]*ParameterData
	// Errors maps parameter names to errors to return.
	Errors map[string]error
	// Calls records the operations invoked, in order.
	Calls []string
}

// NewFakeSSMClient creates a new fake SSM client.
func NewFakeSSMClient() *FakeSSMClient {
	return &FakeSSMClient{
		Parameters: make(map[string]*ParameterData),
		Errors:     make(map[string]error),
	}
}

// AddSecureStringParameter seeds a SecureString parameter.
func (f *FakeSSMClient) AddSecureStringParameter(name, value string) {
	now := time.Now()
	f.Parameters[name] = &ParameterData{
		Name:             aws.String(name),
		Type:             ssmtypes.ParameterTypeSecureString,
		Value:            aws.String(value),
		Version:          1,
		LastModifiedDate: &now,
		Tags:             make(map[string]string),
	}
}

// AddError configures the fake to fail operations on a specific parameter.
func (f *FakeSSMClient) AddError(name string, err error) {
	f.Errors[name] = err
}

func (f *FakeSSMClient) record(op string) {
	f.Calls = append(f.Calls, op)
}

// GetParameter fakes the GetParameter operation.
func (f *FakeSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.record("GetParameter")
	name := aws.ToString(params.Name)

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	data, exists := f.Parameters[name]
	if !exists {
		return nil, &ssmtypes.ParameterNotFound{
			Message: aws.String(fmt.Sprintf("Parameter %s not found", name)),
		}
	}

	return &ssm.GetParameterOutput{
		Parameter: &ssmtypes.Parameter{
			Name:             data.Name,
			Type:             data.Type,
			Value:            data.Value,
			Version:          data.Version,
			LastModifiedDate: data.LastModifiedDate,
		},
	}, nil
}

// PutParameter fakes the PutParameter operation, honoring Overwrite.
func (f *FakeSSMClient) PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	f.record("PutParameter")
	name := aws.ToString(params.Name)

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	data, exists := f.Parameters[name]
	if exists && !aws.ToBool(params.Overwrite) {
		return nil, &ssmtypes.ParameterAlreadyExists{
			Message: aws.String(fmt.Sprintf("Parameter %s already exists", name)),
		}
	}

	now := time.Now()
	version := int64(1)
	tags := make(map[string]string)
	if exists {
		version = data.Version + 1
		tags = data.Tags
	}
	for _, tag := range params.Tags {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}

	f.Parameters[name] = &ParameterData{
		Name:             aws.String(name),
		Type:             params.Type,
		Value:            params.Value,
		Description:      params.Description,
		Version:          version,
		LastModifiedDate: &now,
		Tags:             tags,
	}

	return &ssm.PutParameterOutput{Version: version}, nil
}

// DeleteParameter fakes the DeleteParameter operation.
func (f *FakeSSMClient) DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error) {
	f.record("DeleteParameter")
	name := aws.ToString(params.Name)

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	if _, exists := f.Parameters[name]; !exists {
		return nil, &ssmtypes.ParameterNotFound{
			Message: aws.String(fmt.Sprintf("Parameter %s not found", name)),
		}
	}

	delete(f.Parameters, name)
	return &ssm.DeleteParameterOutput{}, nil
}

// DescribeParameters fakes the DescribeParameters operation, supporting the
// Name equals and BeginsWith filters the backend uses.
func (f *FakeSSMClient) DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error) {
	f.record("DescribeParameters")

	matches := func(name string) bool { return true }
	for _, filter := range params.ParameterFilters {
		if aws.ToString(filter.Key) != "Name" || len(filter.Values) == 0 {
			continue
		}
		value := filter.Values[0]
		if aws.ToString(filter.Option) == "BeginsWith" {
			matches = func(name string) bool { return strings.HasPrefix(name, value) }
		} else {
			matches = func(name string) bool { return name == value }
		}
	}

	var out []ssmtypes.ParameterMetadata
	for name, data := range f.Parameters {
		if err, exists := f.Errors[name]; exists && matches(name) {
			return nil, err
		}
		if !matches(name) {
			continue
		}
		out = append(out, ssmtypes.ParameterMetadata{
			Name:             data.Name,
			Type:             data.Type,
			Description:      data.Description,
			Version:          data.Version,
			LastModifiedDate: data.LastModifiedDate,
		})
	}

	return &ssm.DescribeParametersOutput{Parameters: out}, nil
}

// ListTagsForResource fakes the ListTagsForResource operation.
func (f *FakeSSMClient) ListTagsForResource(ctx context.Context, params *ssm.ListTagsForResourceInput, optFns ...func(*ssm.Options)) (*ssm.ListTagsForResourceOutput, error) {
	f.record("ListTagsForResource")
	name := aws.ToString(params.ResourceId)

	data, exists := f.Parameters[name]
	if !exists {
		return nil, &ssmtypes.InvalidResourceId{}
	}

	var tags []ssmtypes.Tag
	for k, v := range data.Tags {
		tags = append(tags, ssmtypes.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return &ssm.ListTagsForResourceOutput{TagList: tags}, nil
}

// AddTagsToResource fakes the AddTagsToResource operation.
func (f *FakeSSMClient) AddTagsToResource(ctx context.Context, params *ssm.AddTagsToResourceInput, optFns ...func(*ssm.Options)) (*ssm.AddTagsToResourceOutput, error) {
	f.record("AddTagsToResource")
	name := aws.ToString(params.ResourceId)

	data, exists := f.Parameters[name]
	if !exists {
		return nil, &ssmtypes.InvalidResourceId{}
	}

	for _, tag := range params.Tags {
		data.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return &ssm.AddTagsToResourceOutput{}, nil
}

// SecretData holds the data for a fake Secrets Manager secret.
type SecretData struct {
	Name            *string
	SecretString    *string
	Description     *string
	LastChangedDate *time.Time
	Tags            map[string]string
}

// FakeSecretsManagerClient is an in-memory implementation of the Secrets
// Manager client subset used by the Secrets Manager backend.
type FakeSecretsManagerClient struct {
	// Secrets maps secret names to their data.
	Secrets map[string]*SecretData
	// Errors maps secret names to errors to return.
	Errors map[string]error
}

// NewFakeSecretsManagerClient creates a new fake Secrets Manager client.
func NewFakeSecretsManagerClient() *FakeSecretsManagerClient {
	return &FakeSecretsManagerClient{
		Secrets: make(map[string]*SecretData),
		Errors:  make(map[string]error),
	}
}

// AddSecretString seeds a string secret.
func (f *FakeSecretsManagerClient) AddSecretString(name, value string) {
	now := time.Now()
	f.Secrets[name] = &SecretData{
		Name:            aws.String(name),
		SecretString:    aws.String(value),
		LastChangedDate: &now,
		Tags:            make(map[string]string),
	}
}

// AddError configures the fake to fail operations on a specific secret.
func (f *FakeSecretsManagerClient) AddError(name string, err error) {
	f.Errors[name] = err
}

// GetSecretValue fakes the GetSecretValue operation.
func (f *FakeSecretsManagerClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	name := aws.ToString(params.SecretId)

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	data, exists := f.Secrets[name]
	if !exists {
		return nil, &smtypes.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Secrets Manager can't find the specified secret: %s", name)),
		}
	}

	return &secretsmanager.GetSecretValueOutput{
		Name:         data.Name,
		SecretString: data.SecretString,
	}, nil
}

// CreateSecret fakes the CreateSecret operation, rejecting existing names.
func (f *FakeSecretsManagerClient) CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	name := aws.ToString(params.Name)

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	if _, exists := f.Secrets[name]; exists {
		return nil, &smtypes.ResourceExistsException{
			Message: aws.String(fmt.Sprintf("The operation failed because the secret %s already exists", name)),
		}
	}

	now := time.Now()
	tags := make(map[string]string)
	for _, tag := range params.Tags {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	f.Secrets[name] = &SecretData{
		Name:            aws.String(name),
		SecretString:    params.SecretString,
		Description:     params.Description,
		LastChangedDate: &now,
		Tags:            tags,
	}

	return &secretsmanager.CreateSecretOutput{Name: params.Name}, nil
}

// UpdateSecret fakes the UpdateSecret operation.
func (f *FakeSecretsManagerClient) UpdateSecret(ctx context.Context, params *secretsmanager.UpdateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretOutput, error) {
	name := aws.ToString(params.SecretId)

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	data, exists := f.Secrets[name]
	if !exists {
		return nil, &smtypes.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Secrets Manager can't find the specified secret: %s", name)),
		}
	}

	if params.SecretString != nil {
		data.SecretString = params.SecretString
	}
	if params.Description != nil {
		data.Description = params.Description
	}
	now := time.Now()
	data.LastChangedDate = &now

	return &secretsmanager.UpdateSecretOutput{Name: data.Name}, nil
}

// DeleteSecret fakes the DeleteSecret operation.
func (f *FakeSecretsManagerClient) DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error) {
	name := aws.ToString(params.SecretId)

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	if _, exists := f.Secrets[name]; !exists {
		return nil, &smtypes.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Secrets Manager can't find the specified secret: %s", name)),
		}
	}

	delete(f.Secrets, name)
	return &secretsmanager.DeleteSecretOutput{Name: params.SecretId}, nil
}

// ListSecrets fakes the ListSecrets operation with the name prefix filter.
func (f *FakeSecretsManagerClient) ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	prefix := ""
	for _, filter := range params.Filters {
		if filter.Key == smtypes.FilterNameStringTypeName && len(filter.Values) > 0 {
			prefix = filter.Values[0]
		}
	}

	var entries []smtypes.SecretListEntry
	for name, data := range f.Secrets {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		entries = append(entries, smtypes.SecretListEntry{
			Name:            data.Name,
			Description:     data.Description,
			LastChangedDate: data.LastChangedDate,
		})
	}

	return &secretsmanager.ListSecretsOutput{SecretList: entries}, nil
}

// DescribeSecret fakes the DescribeSecret operation.
func (f *FakeSecretsManagerClient) DescribeSecret(ctx context.Context, params *secretsmanager.DescribeSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error) {
	name := aws.ToString(params.SecretId)

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	data, exists := f.Secrets[name]
	if !exists {
		return nil, &smtypes.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Secrets Manager can't find the specified secret: %s", name)),
		}
	}

	var tags []smtypes.Tag
	for k, v := range data.Tags {
		tags = append(tags, smtypes.Tag{Key: aws.String(k), Value: aws.String(v)})
	}

	return &secretsmanager.DescribeSecretOutput{
		Name:            data.Name,
		Description:     data.Description,
		LastChangedDate: data.LastChangedDate,
		Tags:            tags,
	}, nil
}

// TagResource fakes the TagResource operation.
func (f *FakeSecretsManagerClient) TagResource(ctx context.Context, params *secretsmanager.TagResourceInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.TagResourceOutput, error) {
	name := aws.ToString(params.SecretId)

	data, exists := f.Secrets[name]
	if !exists {
		return nil, &smtypes.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Secrets Manager can't find the specified secret: %s", name)),
		}
	}

	for _, tag := range params.Tags {
		data.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return &secretsmanager.TagResourceOutput{}, nil
}
