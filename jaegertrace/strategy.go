package jaegertrace

// StrategyType selects which sampling strategy a SamplingStrategyResponse carries.
type StrategyType int

const (
	StrategyTypeProbabilistic StrategyType = iota
	StrategyTypeRateLimiting
	StrategyTypeOperation
)

// ProbabilisticSamplingStrategy configures a ProbabilisticSampler.
type ProbabilisticSamplingStrategy struct {
	SamplingRate float64 `json:"samplingRate"`
}

// RateLimitingSamplingStrategy configures a RateLimitingSampler.
type RateLimitingSamplingStrategy struct {
	MaxTracesPerSecond float64 `json:"maxTracesPerSecond"`
}

// OperationSamplingStrategy is one entry of an OperationSamplingStrategies message.
type OperationSamplingStrategy struct {
	Operation             string                        `json:"operation"`
	ProbabilisticSampling ProbabilisticSamplingStrategy `json:"probabilisticSampling"`
}

// OperationSamplingStrategies configures a PerOperationSampler.
type OperationSamplingStrategies struct {
	DefaultSamplingProbability       float64                     `json:"defaultSamplingProbability"`
	DefaultLowerBoundTracesPerSecond float64                     `json:"defaultLowerBoundTracesPerSecond"`
	PerOperationStrategies           []OperationSamplingStrategy `json:"perOperationStrategies"`
}

// SamplingStrategyResponse is the manager's reply to a sampling
// strategy request for a given service.
type SamplingStrategyResponse struct {
	StrategyType          StrategyType                  `json:"strategyType"`
	ProbabilisticSampling *ProbabilisticSamplingStrategy `json:"probabilisticSampling,omitempty"`
	RateLimitingSampling  *RateLimitingSamplingStrategy  `json:"rateLimitingSampling,omitempty"`
	OperationSampling     *OperationSamplingStrategies   `json:"operationSampling,omitempty"`
}
