package paramstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"

	"github.com/rhuss/chatproxy/pkg/credentials"
)

// fakeAPI serves parameters from a map and records the requested names.
type fakeAPI struct {
	params    map[string]string
	err       error
	requested []string
	decrypt   []bool
}

func (f *fakeAPI) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.requested = append(f.requested, aws.ToString(in.Name))
	f.decrypt = append(f.decrypt, aws.ToBool(in.WithDecryption))
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.params[aws.ToString(in.Name)]
	if !ok {
		return nil, &types.ParameterNotFound{Message: aws.String("not found")}
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: in.Name, Value: aws.String(v)}}, nil
}

func TestGetParameter_HappyPath(t *testing.T) {
	api := &fakeAPI{params: map[string]string{"p": "secret"}}
	client, err := New(api, "")
	require.NoError(t, err)

	v, err := client.GetParameter(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "secret", v)
	require.Equal(t, []bool{true}, api.decrypt)
}

func TestGetParameter_MissingValue(t *testing.T) {
	client, err := New(missingValueAPI{}, "")
	require.NoError(t, err)

	_, err = client.GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing value")
}

func TestGetParameter_ClientNotInitialized(t *testing.T) {
	_, err := (&Client{}).GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not initialized")
}

func TestGetParameter_EmptyName(t *testing.T) {
	client, err := New(&fakeAPI{}, "")
	require.NoError(t, err)

	_, err = client.GetParameter(context.Background(), "  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil, "/x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")
}

func TestParameterName(t *testing.T) {
	require.Equal(t, "/chatproxy/prod/gemini_api_key", ParameterName("/chatproxy/prod/", credentials.GeminiAPIKey))
}

func TestLookup_Found(t *testing.T) {
	api := &fakeAPI{params: map[string]string{"/chatproxy/claude_api_key": " sk-ant \n"}}
	client, err := New(api, "/chatproxy/")
	require.NoError(t, err)

	v, found, err := client.Lookup(context.Background(), credentials.ClaudeAPIKey)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "sk-ant", v)
	require.Equal(t, []string{"/chatproxy/claude_api_key"}, api.requested)
}

func TestLookup_NotFoundIsNotAnError(t *testing.T) {
	client, err := New(&fakeAPI{params: map[string]string{}}, "/chatproxy")
	require.NoError(t, err)

	_, found, err := client.Lookup(context.Background(), credentials.OpenAIAPIKey)
	require.NoError(t, err)
	require.False(t, found)
}

func TestLookup_APIError(t *testing.T) {
	client, err := New(&fakeAPI{err: errors.New("access denied")}, "/chatproxy")
	require.NoError(t, err)

	_, _, err = client.Lookup(context.Background(), credentials.OpenAIAPIKey)
	require.ErrorContains(t, err, "access denied")
}

func TestLoadThroughCredentials(t *testing.T) {
	api := &fakeAPI{params: map[string]string{
		"/app/nebius_api_key":   "nb",
		"/app/deepseek_api_key": "from-ssm",
	}}
	client, err := New(api, "/app")
	require.NoError(t, err)

	env := credentials.FromMap(map[string]string{credentials.DeepSeekAPIKey: "from-env"})
	set, err := credentials.Load(context.Background(), env, client)
	require.NoError(t, err)

	v, _ := set.Lookup(credentials.DeepSeekAPIKey)
	require.Equal(t, "from-env", v)
	require.True(t, set.Has(credentials.NebiusAPIKey))
	require.Len(t, set.Present(), 2)
	require.NotContains(t, api.requested, "/app/deepseek_api_key", fmt.Sprintf("requested %v", api.requested))
}

type missingValueAPI struct{}

func (missingValueAPI) GetParameter(context.Context, *ssm.GetParameterInput, ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: aws.String("p")}}, nil
}
