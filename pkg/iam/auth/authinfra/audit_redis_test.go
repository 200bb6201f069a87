package authinfra_test

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/vendia/pkg/iam/auth"
	"github.com/Abraxas-365/vendia/pkg/iam/auth/authinfra"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisAudit_PublishesToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := authinfra.NewRedisAuditService(client, "test:audit")
	svc.Record(context.Background(), auth.AuditEvent{
		Kind:     auth.AuditLogin,
		Username: "alice",
		Success:  false,
		Reason:   "password mismatch",
		At:       time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	})

	entries, err := client.XRange(context.Background(), "test:audit", "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one stream entry, got %d", len(entries))
	}

	values := entries[0].Values
	if values["kind"] != auth.AuditLogin {
		t.Errorf("kind = %v", values["kind"])
	}
	if values["username"] != "alice" {
		t.Errorf("username = %v", values["username"])
	}
	if values["success"] != "false" {
		t.Errorf("success = %v", values["success"])
	}
	if values["reason"] != "password mismatch" {
		t.Errorf("reason = %v", values["reason"])
	}
	if values["id"] == "" {
		t.Error("missing generated event id")
	}
}

func TestRedisAudit_DefaultStreamName(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := authinfra.NewRedisAuditService(client, "")
	svc.Record(context.Background(), auth.AuditEvent{Kind: auth.AuditRefresh, Username: "bob", Success: true})

	n, err := client.XLen(context.Background(), "vendia:auth:audit").Result()
	if err != nil {
		t.Fatalf("xlen: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one entry on the default stream, got %d", n)
	}
}

func TestRedisAudit_FailureIsSwallowed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()
	defer client.Close()

	// Record must not panic or surface the connection error.
	svc := authinfra.NewRedisAuditService(client, "test:audit")
	svc.Record(context.Background(), auth.AuditEvent{Kind: auth.AuditLogin, Username: "alice"})
}
