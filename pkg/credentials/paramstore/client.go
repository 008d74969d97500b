// Package paramstore resolves provider credentials from AWS SSM Parameter
// Store. Parameters are named "<prefix>/<credential name in lower case>",
// e.g. /chatproxy/prod/openai_api_key, and are read with decryption so that
// SecureString values work.
package paramstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/rhuss/chatproxy/pkg/credentials"
)

// ssmAPI is the minimal AWS SSM interface required by Client.
// *ssm.Client from aws-sdk-go-v2 satisfies this interface.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Client wraps an AWS SSM API for credential retrieval.
type Client struct {
	api    ssmAPI
	prefix string
}

var _ credentials.Source = (*Client)(nil)

// New creates a Client with the given SSM API implementation and
// parameter prefix.
func New(api ssmAPI, prefix string) (*Client, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	return &Client{api: api, prefix: strings.TrimRight(strings.TrimSpace(prefix), "/")}, nil
}

// NewFromDefaultConfig builds a Client on the default AWS credential chain.
// An empty region defers to AWS_REGION and the shared config files.
func NewFromDefaultConfig(ctx context.Context, region, prefix string) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("paramstore: load AWS config: %w", err)
	}
	return New(ssm.NewFromConfig(cfg), prefix)
}

// ParameterName returns the parameter path for a credential name.
func ParameterName(prefix, name string) string {
	return strings.TrimRight(prefix, "/") + "/" + strings.ToLower(name)
}

// GetParameter returns the decrypted value of a single parameter.
func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	if c.api == nil {
		return "", errors.New("paramstore: client not initialized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("paramstore: name is required")
	}

	out, err := c.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("paramstore: get parameter %q: %w", name, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", errors.New("paramstore: parameter missing value")
	}
	return *out.Parameter.Value, nil
}

// Lookup implements credentials.Source. A parameter that does not exist is
// reported as not found rather than as an error.
func (c *Client) Lookup(ctx context.Context, name string) (string, bool, error) {
	v, err := c.GetParameter(ctx, ParameterName(c.prefix, name))
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, err
	}
	v = strings.TrimSpace(v)
	return v, v != "", nil
}
