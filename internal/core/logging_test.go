package core

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerForwardsLevelsAndContext(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	logger, err := NewZapLogger(zap.New(obsCore))
	if err != nil {
		t.Fatalf("new zap logger: %v", err)
	}

	logger.Debug("debug msg", "key", "value")
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error("error msg", "operation", "create_lease")

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel || entries[0].Message != "debug msg" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if got := entries[0].ContextMap()["key"]; got != "value" {
		t.Fatalf("expected context key forwarded, got %v", got)
	}
	if entries[3].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %v", entries[3].Level)
	}
}

func TestZapLoggerDrivesServiceDiagnostics(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	logger, err := NewZapLogger(zap.New(obsCore))
	if err != nil {
		t.Fatalf("new zap logger: %v", err)
	}

	svc := NewInMemoryService(NewDefaultRulesEngine(), WithLogger(logger))
	if _, _, err := svc.CreateProperty(context.Background(), Property{Name: "Navy Yard Flats", Address: "77 Water St SE"}); err != nil {
		t.Fatalf("create property: %v", err)
	}
	if _, err := svc.DeleteProperty(context.Background(), "missing"); err == nil {
		t.Fatalf("expected delete of missing property to fail")
	}

	var sawCommit, sawReject bool
	for _, entry := range logs.All() {
		switch entry.Message {
		case "operation committed":
			sawCommit = true
		case "operation rejected":
			sawReject = true
		}
	}
	if !sawCommit || !sawReject {
		t.Fatalf("expected commit and reject diagnostics, got %+v", logs.All())
	}
}
