package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"DEBUG ":  zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("abcdefghij", 4); got != "abcd...(truncated)" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestStartupLogger_Log(t *testing.T) {
	t.Setenv(LevelEnv, "info")
	t.Setenv("AWS_REGION", "us-east-1")
	var buf bytes.Buffer
	InitWithWriter(&buf)
	t.Cleanup(func() { log.Logger = zerolog.Nop() })

	NewStartupLogger("api-lambda").
		CommitHash("abc123").
		S3Bucket("media", "media-bucket").
		DynamoTable("admin", "admin-table").
		SSMParam("geminiKey", "/social-content-toolkit/prod/gemini-api-key").
		Database("admin", "arn:aws:rds:us-east-1:123:cluster:admin").
		Feature("originVerify", true).
		Config("model", "gemini-2.5-flash").
		InitDuration(150 * time.Millisecond).
		Log()

	var evt map[string]any
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("startup log is not JSON: %v\n%s", err, buf.String())
	}
	if evt["message"] != "Startup complete" {
		t.Errorf("message = %v", evt["message"])
	}

	lambda := evt["lambda"].(map[string]any)
	if lambda["name"] != "api-lambda" || lambda["commitHash"] != "abc123" || lambda["region"] != "us-east-1" {
		t.Errorf("lambda dict = %v", lambda)
	}

	resources := evt["resources"].(map[string]any)
	for _, key := range []string{"s3Buckets", "dynamoTables", "ssmParams", "databases"} {
		if _, ok := resources[key]; !ok {
			t.Errorf("resources missing %q: %v", key, resources)
		}
	}
	if evt["features"].(map[string]any)["originVerify"] != true {
		t.Errorf("features = %v", evt["features"])
	}
	if evt["config"].(map[string]any)["model"] != "gemini-2.5-flash" {
		t.Errorf("config = %v", evt["config"])
	}
}

func TestStartupLogger_OmitsEmptyResources(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf)
	t.Cleanup(func() { log.Logger = zerolog.Nop() })

	NewStartupLogger("content-web").Log()

	var evt map[string]any
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("startup log is not JSON: %v", err)
	}
	if _, ok := evt["resources"]; ok {
		t.Error("expected no resources key when none registered")
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("SOCIAL_TEST_VAR", "")
	if got := EnvOrDefault("SOCIAL_TEST_VAR", "fallback"); got != "fallback" {
		t.Errorf("got %q", got)
	}
	t.Setenv("SOCIAL_TEST_VAR", "set")
	if got := EnvOrDefault("SOCIAL_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("got %q", got)
	}
}
