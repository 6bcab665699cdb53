// Package secrets resolves service secrets from AWS Secrets Manager.
package secrets

import (
	"context"
	"fmt"
	"os"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

// Getter returns the string value of a named secret.
type Getter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

type SecretsClient struct {
	client *secretsmanager.Client
	cache  map[string]string
	mu     sync.RWMutex
}

// NewSecretsClient loads the default AWS config. AWS_ENDPOINT points the client at
// LocalStack or another compatible endpoint.
func NewSecretsClient(ctx context.Context) (*SecretsClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	endpoint := os.Getenv("AWS_ENDPOINT")
	client := secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	})

	return &SecretsClient{client: client, cache: make(map[string]string)}, nil
}

func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &name})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	s.mu.Lock()
	s.cache[name] = *out.SecretString
	s.mu.Unlock()

	return *out.SecretString, nil
}

// Override replaces each target with the secret "<service>/<key>" when it resolves
// to a non-empty value. Failures keep the environment value.
func Override(ctx context.Context, getter Getter, service string, targets map[string]*string) {
	for key, target := range targets {
		name := service + "/" + key
		v, err := getter.GetSecret(ctx, name)
		if err != nil {
			zap.L().Warn("Secret lookup failed, keeping environment value",
				zap.String("secret", name),
				zap.Error(err),
			)
			continue
		}
		if v != "" {
			*target = v
		}
	}
}

// FromAWSIfEnabled applies Override against Secrets Manager when AWS_USE_SECRETS=true.
func FromAWSIfEnabled(ctx context.Context, service string, targets map[string]*string) {
	if os.Getenv("AWS_USE_SECRETS") != "true" {
		return
	}
	sm, err := NewSecretsClient(ctx)
	if err != nil {
		zap.L().Warn("Secrets Manager unavailable", zap.Error(err))
		return
	}
	Override(ctx, sm, service, targets)
}
