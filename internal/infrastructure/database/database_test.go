package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewDynamoDBConfig(t *testing.T) {
	t.Setenv("AWS_REGION", "ap-southeast-2")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	cfg, err := newDynamoDBConfig(context.Background(), "http://localhost:8000")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Region != "ap-southeast-2" {
		t.Fatalf("unexpected region: %s", cfg.Region)
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if creds.AccessKeyID != "local" || creds.SecretAccessKey != "local" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), mr.Addr(), "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer client.Close()

	addr := mr.Addr()
	mr.Close()
	if _, err := ConnectRedis(context.Background(), addr, ""); err == nil {
		t.Fatalf("expected ping failure against a closed server")
	}
}
