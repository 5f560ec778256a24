package config

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
)

const apiKeyEnvVar = "COINAPI_API_KEY"
const apiKeyParameterName = "COINAPI_API_KEY"

// APIKey resolves the CoinAPI credential for the given environment.
// In "prod" the key comes from AWS SSM Parameter Store; otherwise it is
// read from the environment, with a .env file loaded first if one exists.
// The key is treated as an opaque string — an empty or wrong value is not
// validated here, the feed simply rejects the handshake.
func (cfg *CoinAPIConfig) APIKey() string {
	if cfg.Environment == "prod" {
		return getParameterStoreValue(apiKeyParameterName, true)
	}

	_ = godotenv.Load() // best effort, env vars win anyway
	return os.Getenv(apiKeyEnvVar)
}

func getParameterStoreValue(parameterName string, decrypt bool) string {
	baseCtx := context.Background()
	ctxWithTimeout, cancel := context.WithTimeout(baseCtx, 5*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(ctxWithTimeout)
	if err != nil {
		return ""
	}

	client := ssm.NewFromConfig(cfg)

	input := &ssm.GetParameterInput{
		Name:           &parameterName,
		WithDecryption: &decrypt,
	}

	result, err := client.GetParameter(ctxWithTimeout, input)
	if err != nil {
		return ""
	}

	if result.Parameter.Value == nil {
		return ""
	}

	return *result.Parameter.Value
}
