package jaegertrace

import "testing"

func TestLoadSamplerConfigDefaults(t *testing.T) {
	cfg, err := LoadSamplerConfig()
	if err != nil {
		t.Fatalf("LoadSamplerConfig: %v", err)
	}
	if cfg.Type != SamplerTypeRemoteConfig {
		t.Errorf("Type = %q, want %q", cfg.Type, SamplerTypeRemoteConfig)
	}
	if cfg.MaxOperations != 2000 {
		t.Errorf("MaxOperations = %d, want 2000", cfg.MaxOperations)
	}
}

func TestLoadReporterConfigDefaults(t *testing.T) {
	cfg, err := LoadReporterConfig()
	if err != nil {
		t.Fatalf("LoadReporterConfig: %v", err)
	}
	if cfg.QueueSize != 100 {
		t.Errorf("QueueSize = %d, want 100", cfg.QueueSize)
	}
	if cfg.LocalAgentHostPort != "127.0.0.1:6831" {
		t.Errorf("LocalAgentHostPort = %q, want 127.0.0.1:6831", cfg.LocalAgentHostPort)
	}
}
