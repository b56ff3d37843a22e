package internal

import (
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.MCP.Transport != TransportStdio {
		t.Errorf("default transport = %q, want %q", cfg.MCP.Transport, TransportStdio)
	}
	if cfg.Notes.Path != "./notes" {
		t.Errorf("default notes path = %q", cfg.Notes.Path)
	}
}

func TestMCPConfig_EmptyTransportDefaultsStdio(t *testing.T) {
	cfg := MCPConfig{Transport: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty transport should default to stdio: %v", err)
	}
	if cfg.Transport != TransportStdio {
		t.Errorf("transport = %q, want %q", cfg.Transport, TransportStdio)
	}
}

func TestMCPConfig_InvalidTransport(t *testing.T) {
	cfg := MCPConfig{Transport: "carrier-pigeon"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid transport should fail validation")
	}
}

func TestMCPConfig_HTTPTransport(t *testing.T) {
	cfg := MCPConfig{Transport: TransportHTTP}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("http transport should validate: %v", err)
	}
}

func TestHTTPConfig_PortBounds(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
	cfg := HTTPConfig{Port: 8080}
	if err := cfg.Validate(); err != nil {
		t.Errorf("port 8080 should validate: %v", err)
	}
	if cfg.Address() != ":8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestNotesConfig_PathRequired(t *testing.T) {
	cfg := NotesConfig{Path: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty notes path should fail validation")
	}
}

func TestFullConfig_NotesValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("config with empty notes path should fail")
	}
}
