package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/msgboard/msgboard/backend/go-services/pkg/logger"
)

// RemoteKeys are the configuration keys fetched from the parameter store.
var RemoteKeys = []string{"MONGO_URI", "PORT"}

// ParameterStore fetches named parameters, returning a name -> value map.
// Names that do not exist are simply absent from the result.
type ParameterStore interface {
	GetParameters(ctx context.Context, names []string) (map[string]string, error)
}

// SSMAPI is the subset of the SSM client used by SSMStore. *ssm.Client satisfies it.
type SSMAPI interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// SSMStore reads parameters from AWS Systems Manager Parameter Store,
// decrypting SecureString values.
type SSMStore struct {
	client SSMAPI
}

// NewSSMStore builds an SSM client for region from the default AWS credential chain.
func NewSSMStore(ctx context.Context, region string) (*SSMStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return &SSMStore{client: ssm.NewFromConfig(awsCfg)}, nil
}

func NewSSMStoreWithClient(client SSMAPI) *SSMStore {
	return &SSMStore{client: client}
}

func (s *SSMStore) GetParameters(ctx context.Context, names []string) (map[string]string, error) {
	out, err := s.client.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ssm get parameters: %w", err)
	}
	vals := make(map[string]string, len(out.Parameters))
	for _, p := range out.Parameters {
		vals[aws.ToString(p.Name)] = aws.ToString(p.Value)
	}
	if len(out.InvalidParameters) > 0 {
		logger.Debugf("parameter store: unknown parameters %s", strings.Join(out.InvalidParameters, ", "))
	}
	return vals, nil
}

// ParameterNames returns the fully qualified names of RemoteKeys under prefix,
// e.g. "/msgboard/prod/" -> "/msgboard/prod/MONGO_URI".
func ParameterNames(prefix string) []string {
	names := make([]string, 0, len(RemoteKeys))
	for _, k := range RemoteKeys {
		names = append(names, prefix+k)
	}
	return names
}

// ParameterKey maps a parameter name to its configuration key (last path segment).
func ParameterKey(name string) string {
	return name[strings.LastIndex(name, "/")+1:]
}
