package config

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

var (
	secretMu    sync.Mutex
	secretCache = map[string]string{}
)

// Secret resolves a secret by env var name. The env var wins; otherwise,
// if <NAME>_SSM_PARAM names a Parameter Store entry, the decrypted value is
// fetched once per process and cached. Missing everywhere returns "".
func Secret(ctx context.Context, name string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}

	param := strings.TrimSpace(os.Getenv(name + "_SSM_PARAM"))
	if param == "" {
		return ""
	}

	secretMu.Lock()
	defer secretMu.Unlock()

	if v, ok := secretCache[param]; ok {
		return v
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return ""
	}

	out, err := ssm.NewFromConfig(cfg).GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(param),
		WithDecryption: aws.Bool(true),
	})
	if err != nil || out.Parameter == nil || out.Parameter.Value == nil {
		return ""
	}

	secretCache[param] = *out.Parameter.Value
	return secretCache[param]
}
