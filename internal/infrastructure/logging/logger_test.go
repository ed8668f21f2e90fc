package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	cblog "github.com/charmbracelet/log"

	"github.com/spidercore/engine/internal/ports"
)

func TestLoggerIncludesCorrelationIDLayerAndSpider(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{
		Writer:     &buf,
		Level:      "debug",
		Formatter:  cblog.JSONFormatter,
		Layer:      LayerEngine,
		Component:  "setup",
		Spider:     "example-spider",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := ports.WithCorrelationID(context.Background(), "abc123")
	logger.Info(ctx, "engine setup starting", "role", "downloader")

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log output, got empty string")
	}

	payload := make(map[string]interface{})
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("failed to parse log line %q: %v", line, err)
	}

	if payload["layer"] != "engine" {
		t.Fatalf("expected layer to be engine, got %v", payload["layer"])
	}
	if payload["component"] != "setup" {
		t.Fatalf("expected component field, got %v", payload["component"])
	}
	if payload["spider"] != "example-spider" {
		t.Fatalf("expected spider field, got %v", payload["spider"])
	}
	if payload["correlation_id"] != "abc123" {
		t.Fatalf("expected correlation_id to be abc123, got %v", payload["correlation_id"])
	}
	if payload["role"] != "downloader" {
		t.Fatalf("expected role to be recorded, got %v", payload["role"])
	}
	if payload["msg"] != "engine setup starting" {
		t.Fatalf("expected message to be recorded, got %v", payload["msg"])
	}
}

func TestLoggerDefaultsLayerToEngine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{
		Writer:    &buf,
		Formatter: cblog.JSONFormatter,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info(context.Background(), "started")

	var payload map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse log line: %v", err)
	}
	if payload["layer"] != "engine" {
		t.Fatalf("expected default layer engine, got %v", payload["layer"])
	}
}

func TestLoggerWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{
		Writer:    &buf,
		Layer:     LayerStage,
		Formatter: cblog.JSONFormatter,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	child := logger.With("component", "refstage").(*Logger)
	child.Warn(context.Background(), "control ack timed out", "stage", "item_processor")

	line := strings.TrimSpace(buf.String())
	payload := make(map[string]interface{})
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("failed to parse log line: %v", err)
	}

	if payload["component"] != "refstage" {
		t.Fatalf("expected component=refstage, got %v", payload["component"])
	}
	if payload["stage"] != "item_processor" {
		t.Fatalf("expected stage item_processor, got %v", payload["stage"])
	}
	if payload["layer"] != "stage" {
		t.Fatalf("expected layer stage carried into child logger, got %v", payload["layer"])
	}
}

func TestNoOpLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{
		Writer:    &buf,
		Formatter: cblog.JSONFormatter,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noOp := NewNoOpLogger()
	noOp.Info(context.Background(), "hello world")

	if buf.Len() != 0 {
		t.Fatalf("expected no output from noop logger, got %s", buf.String())
	}

	if noOp.With("key", "value") != noOp {
		t.Fatalf("expected With to return same no-op logger instance")
	}

	logger.Info(context.Background(), "emitted")
	if buf.Len() == 0 {
		t.Fatal("expected base logger to write output")
	}
}

func TestLoggerWithOnNilReceiverReturnsNoOp(t *testing.T) {
	var nilLogger *Logger
	child := nilLogger.With("component", "x")
	if _, ok := child.(*NoOpLogger); !ok {
		t.Fatalf("expected With on a nil *Logger to fall back to NoOpLogger, got %T", child)
	}
}
