package jaegertrace

import (
	"time"

	"github.com/jinzhu/configor"
)

// SamplerConfig selects and parameterizes the sampler hierarchy. It is
// constructible by hand, or loadable from YAML/env via
// LoadSamplerConfig.
type SamplerConfig struct {
	Type                    string        `yaml:"type" json:"type"`
	Param                   float64       `yaml:"param" json:"param"`
	SamplingServerURL       string        `yaml:"sampling_server_url" json:"samplingServerURL"`
	SamplingRefreshInterval time.Duration `yaml:"sampling_refresh_interval" json:"samplingRefreshInterval"`
	MaxOperations           int           `yaml:"max_operations" json:"maxOperations"`
}

const (
	SamplerTypeConstConfig         = "const"
	SamplerTypeProbabilisticConfig = "probabilistic"
	SamplerTypeRateLimitingConfig  = "ratelimiting"
	SamplerTypeRemoteConfig        = "remote"
)

// LoadSamplerConfig loads a SamplerConfig from the environment
// (JAEGER_SAMPLER_* by convention) and/or the given config files,
// starting from DefaultSamplerConfig, the same configor.New(...).Load
// idiom the teacher uses for its own per-collaborator configs.
func LoadSamplerConfig(files ...string) (SamplerConfig, error) {
	cfg := DefaultSamplerConfig()
	err := configor.New(&configor.Config{ENVPrefix: "JAEGER_SAMPLER"}).Load(&cfg, files...)
	return cfg, err
}

// LoadReporterConfig loads a ReporterConfig the same way.
func LoadReporterConfig(files ...string) (ReporterConfig, error) {
	cfg := DefaultReporterConfig()
	err := configor.New(&configor.Config{ENVPrefix: "JAEGER_REPORTER"}).Load(&cfg, files...)
	return cfg, err
}

// ReporterConfig parameterizes the RemoteReporter's queue and flush
// worker.
type ReporterConfig struct {
	BufferFlushInterval time.Duration `yaml:"buffer_flush_interval" json:"bufferFlushInterval"`
	QueueSize           int           `yaml:"queue_size" json:"queueSize"`
	LogSpans            bool          `yaml:"log_spans" json:"logSpans"`
	LocalAgentHostPort  string        `yaml:"local_agent_host_port" json:"localAgentHostPort"`
}

func DefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		BufferFlushInterval: time.Second,
		QueueSize:           100,
		LocalAgentHostPort:  "127.0.0.1:6831",
	}
}

func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Type:                    SamplerTypeRemoteConfig,
		Param:                   0.001,
		SamplingServerURL:       "http://127.0.0.1:5778/sampling",
		SamplingRefreshInterval: time.Minute,
		MaxOperations:           2000,
	}
}
