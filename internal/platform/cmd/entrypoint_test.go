package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestParseConfigNil(t *testing.T) {
	if err := ParseConfig[struct{}](nil); err == nil {
		t.Fatal("expected error for nil config target")
	}
}

func TestParseConfigLoadsEnv(t *testing.T) {
	type cfg struct {
		Addr string `env:"GAMEPOT_ENTRYPOINT_TEST_ADDR" envDefault:"localhost:9999"`
	}
	var parsed cfg
	if err := ParseConfig(&parsed); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if parsed.Addr != "localhost:9999" {
		t.Fatalf("expected default addr, got %q", parsed.Addr)
	}
}

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	value := fs.String("value", "", "")
	if err := ParseArgs(fs, []string{"-value", "set"}); err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if *value != "set" {
		t.Fatalf("expected flag value, got %q", *value)
	}
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag set")
	}
}

func TestRunWithTelemetryValidation(t *testing.T) {
	err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty service name")
	}
	err = RunWithTelemetry(context.Background(), "server", nil)
	if err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryRuns(t *testing.T) {
	want := errors.New("run failed")
	err := RunWithTelemetry(context.Background(), "server", func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected run error, got %v", err)
	}
}
