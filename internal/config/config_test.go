package config

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

func TestProcessDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"VB_TOKEN":    "123:abc",
		"VB_ADMINS":   "10,20",
		"VB_DOT_PATH": "/tmp/verifybot",
	}))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if cfg.DefaultLanguage != "en" {
		t.Fatalf("unexpected language: %q", cfg.DefaultLanguage)
	}
	if len(cfg.EnabledHandlers) != 2 || cfg.EnabledHandlers[0] != "verify_panel" {
		t.Fatalf("unexpected handlers: %v", cfg.EnabledHandlers)
	}
	if cfg.Pending.TTL != 0 {
		t.Fatalf("pending ttl should default to no expiry, got %s", cfg.Pending.TTL)
	}
	if cfg.DBFile != "bot.db" {
		t.Fatalf("unexpected db file: %q", cfg.DBFile)
	}
	if !reflect.DeepEqual(cfg.Admins, []int64{10, 20}) {
		t.Fatalf("configured admins not recognised: %v", cfg.Admins)
	}
}

func TestProcessRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil {
		t.Fatalf("expected error without token")
	}
}

func TestProcessRejectsNegativeTTL(t *testing.T) {
	t.Parallel()

	_, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"VB_TOKEN":       "123:abc",
		"VB_DOT_PATH":    "/tmp/verifybot",
		"VB_PENDING_TTL": "-1m",
	}))
	if err == nil {
		t.Fatalf("expected error for negative ttl")
	}
}

func TestProcessParsesPendingTTL(t *testing.T) {
	t.Parallel()

	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"VB_TOKEN":       "123:abc",
		"VB_DOT_PATH":    "/tmp/verifybot",
		"VB_PENDING_TTL": "15m",
	}))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if cfg.Pending.TTL != 15*time.Minute {
		t.Fatalf("unexpected ttl: %s", cfg.Pending.TTL)
	}
}

func TestNbFormatterPlainSortsFields(t *testing.T) {
	t.Parallel()

	entry := log.NewEntry(log.New()).WithFields(log.Fields{"b": 2, "a": "x"})
	entry.Message = "hello\nworld"
	entry.Level = log.InfoLevel

	out, err := (&NbFormatter{Plain: true}).Format(entry)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	line := string(out)
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("plain output contains escapes: %q", line)
	}
	if strings.Index(line, "a=") > strings.Index(line, "b=") {
		t.Fatalf("fields are not sorted: %q", line)
	}
	if !strings.HasSuffix(line, "\n") || strings.Count(line, "\n") != 1 {
		t.Fatalf("expected single line output: %q", line)
	}
	if !strings.Contains(line, "level=INFO") {
		t.Fatalf("missing level: %q", line)
	}
}
