// Package lambdaboot provides Lambda cold-start bootstrap logic.
//
// The API Lambda needs some subset of: AWS config, SSM parameter fetch, an
// admin store, S3 for generated photos, and startup logging. This package
// keeps those init patterns out of main so init() is a short composition
// of helpers.
package lambdaboot

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/config"
	"github.com/fpang/social-content-toolkit/internal/logging"
	"github.com/fpang/social-content-toolkit/internal/s3util"
	"github.com/fpang/social-content-toolkit/internal/store"
)

const (
	// APIKeyParamEnv overrides the SSM parameter holding the Gemini API key.
	APIKeyParamEnv = "SSM_API_KEY_PARAM"

	// DefaultAPIKeyParam is the SSM parameter read when APIKeyParamEnv is unset.
	DefaultAPIKeyParam = "/social-content-toolkit/prod/gemini-api-key"
)

// AWSClients holds the core AWS SDK clients.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// InitAWS loads the default AWS config and returns it along with common clients.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// InitPublisher returns an S3 photo publisher for bucket, or nil when no
// bucket is configured.
func InitPublisher(cfg aws.Config, bucket string) *s3util.Publisher {
	if bucket == "" {
		log.Info().Msg("Media bucket not set, photos are returned inline")
		return nil
	}
	return s3util.NewPublisher(s3.NewFromConfig(cfg), bucket)
}

// InitAdminStore picks the admin store from configuration: the RDS Data API
// when a cluster is named, else DynamoDB when a table is named, else the
// in-memory store.
func InitAdminStore(cfg aws.Config, admin config.AdminConfig) store.AdminStore {
	switch {
	case admin.ClusterARN != "":
		log.Debug().Str("cluster", admin.ClusterARN).Str("database", admin.Database).Msg("Admin store: RDS Data API")
		return store.NewDataAPIStore(rdsdata.NewFromConfig(cfg), admin.ClusterARN, admin.SecretARN, admin.Database)
	case admin.TableName != "":
		log.Debug().Str("table", admin.TableName).Msg("Admin store: DynamoDB")
		return store.NewDynamoStore(dynamodb.NewFromConfig(cfg), admin.TableName)
	default:
		log.Warn().Msg("No admin table or database configured, using in-memory store")
		return store.NewMemoryStore()
	}
}

// parameterGetter is satisfied by *ssm.Client.
type parameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// APIKeyParam returns the SSM parameter name holding the Gemini API key.
func APIKeyParam() string {
	return logging.EnvOrDefault(APIKeyParamEnv, DefaultAPIKeyParam)
}

// LoadGeminiKey fetches the Gemini API key from SSM Parameter Store if not
// already set via GEMINI_API_KEY env var. Fatals on error.
func LoadGeminiKey(ssmClient *ssm.Client) {
	if err := loadGeminiKey(context.Background(), ssmClient); err != nil {
		log.Fatal().Err(err).Str("param", APIKeyParam()).Msg("Failed to read API key from SSM")
	}
}

func loadGeminiKey(ctx context.Context, client parameterGetter) error {
	if os.Getenv("GEMINI_API_KEY") != "" {
		return nil
	}
	paramName := APIKeyParam()
	ssmStart := time.Now()
	result, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("get parameter %s: %w", paramName, err)
	}
	if result.Parameter == nil || aws.ToString(result.Parameter.Value) == "" {
		return fmt.Errorf("parameter %s is empty", paramName)
	}
	os.Setenv("GEMINI_API_KEY", *result.Parameter.Value)
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(ssmStart)).Msg("Gemini API key loaded from SSM")
	return nil
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
