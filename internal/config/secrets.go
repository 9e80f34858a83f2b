package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsAPI is the subset of the Secrets Manager client used to resolve
// database credentials.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// databaseSecret is the JSON document RDS stores for generated credentials.
type databaseSecret struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

func NewSecretsClient(ctx context.Context, region string) (*secretsmanager.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// ApplyDatabaseSecret replaces the connection settings of db with the
// credentials stored under db.SecretARN. It is a no-op when no ARN is set.
func ApplyDatabaseSecret(ctx context.Context, api SecretsAPI, db *DatabaseConfig) error {
	if db.SecretARN == "" {
		return nil
	}

	out, err := api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(db.SecretARN),
	})
	if err != nil {
		return fmt.Errorf("failed to get database secret: %w", err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return fmt.Errorf("database secret %s has no string value", db.SecretARN)
	}

	var secret databaseSecret
	if err := json.Unmarshal([]byte(*out.SecretString), &secret); err != nil {
		return fmt.Errorf("failed to decode database secret: %w", err)
	}

	db.URL = ""
	db.Host = secret.Host
	db.User = secret.Username
	db.Password = secret.Password
	db.Port = 5432
	if secret.Port != 0 {
		db.Port = secret.Port
	}
	if secret.DBName != "" {
		db.Name = secret.DBName
	}
	if db.SSLMode == "" || db.SSLMode == "disable" {
		db.SSLMode = "require"
	}
	return nil
}
