package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// weightSumTolerance bounds the accepted drift of a weight set from 1.0.
const weightSumTolerance = 1e-6

// Config is the full engine configuration. Invalid weights are the only
// fatal error class in the system and are rejected here, before any scoring
// pass runs.
type Config struct {
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Engine EngineConfig `yaml:"engine"`

	Families FamilyWeights `yaml:"family_weights"`

	// SubWeights optionally overrides the equal per-family sub-indicator
	// weights, keyed by family then sub-indicator name. Each family's
	// overrides must sum to 1.
	SubWeights map[string]map[string]float64 `yaml:"sub_weights,omitempty"`

	Timeframes TimeframeWeights `yaml:"timeframe_weights"`

	Kernel KernelConfig `yaml:"kernel"`

	Cache CacheConfig `yaml:"cache"`
}

// EngineConfig carries consensus-engine and scheduling parameters.
type EngineConfig struct {
	// BuyThreshold/SellThreshold are consumed by callers classifying the
	// final score; the engine itself is threshold-agnostic.
	BuyThreshold  float64 `yaml:"buy_threshold" default:"65" validate:"gte=0,lte=100"`
	SellThreshold float64 `yaml:"sell_threshold" default:"35" validate:"gte=0,lte=100"`

	// ConsensusDecay is the k in consensus = exp(-k * dispersion). An
	// empirically chosen constant, kept configurable.
	ConsensusDecay float64 `yaml:"consensus_decay" default:"2.0" validate:"gt=0"`

	PassTimeout time.Duration `yaml:"pass_timeout" default:"10s"`
	MaxWorkers  int           `yaml:"max_workers" default:"8" validate:"gte=1"`
}

// FamilyWeights weights the six indicator families in the consensus engine.
// They must sum to 1.
type FamilyWeights struct {
	Technical float64 `yaml:"technical" default:"0.15"`
	Volume    float64 `yaml:"volume" default:"0.15"`
	Orderflow float64 `yaml:"orderflow" default:"0.20"`
	Orderbook float64 `yaml:"orderbook" default:"0.20"`
	Sentiment float64 `yaml:"sentiment" default:"0.10"`
	Structure float64 `yaml:"structure" default:"0.20"`
}

// Sum returns the total weight.
func (w FamilyWeights) Sum() float64 {
	return w.Technical + w.Volume + w.Orderflow + w.Orderbook + w.Sentiment + w.Structure
}

// TimeframeWeights weights the timeframe tiers inside one family aggregate.
// Missing tiers renormalize at aggregation time; the configured set must
// still sum to 1.
type TimeframeWeights struct {
	Base float64 `yaml:"base" default:"0.40"` // e.g. 1m
	LTF  float64 `yaml:"ltf" default:"0.30"`  // e.g. 5m
	MTF  float64 `yaml:"mtf" default:"0.20"`  // e.g. 30m
	HTF  float64 `yaml:"htf" default:"0.10"`  // e.g. 4h
}

// Sum returns the total weight.
func (w TimeframeWeights) Sum() float64 {
	return w.Base + w.LTF + w.MTF + w.HTF
}

// KernelConfig carries the tunable kernel parameters. All defaults mirror
// the production constants; none is a load-bearing invariant.
type KernelConfig struct {
	SwingWindow      int     `yaml:"swing_window" default:"5" validate:"gte=1"`
	StructureNoise   float64 `yaml:"structure_noise" default:"0.001" validate:"gte=0"`
	RangeLookback    int     `yaml:"range_lookback" default:"50" validate:"gte=2"`
	RangeTouchTol    float64 `yaml:"range_touch_tolerance" default:"0.01" validate:"gt=0"`
	SweepThreshold   float64 `yaml:"sweep_threshold" default:"0.003" validate:"gt=0"`
	BlockBodyRatio   float64 `yaml:"block_body_ratio" default:"0.7" validate:"gt=0,lt=1"`
	BlockVolQuantile float64 `yaml:"block_volume_quantile" default:"0.8" validate:"gt=0,lt=1"`
	BlockMinDistance int     `yaml:"block_min_distance" default:"3" validate:"gte=1"`
	FlowWindowSec    int     `yaml:"flow_window_seconds" default:"60" validate:"gte=1"`
	AggressiveSize   float64 `yaml:"aggressive_size_multiple" default:"3.0" validate:"gt=1"`
	RSIPeriod        int     `yaml:"rsi_period" default:"14" validate:"gte=2"`
	EMAFast          int     `yaml:"ema_fast" default:"12" validate:"gte=1"`
	EMASlow          int     `yaml:"ema_slow" default:"26" validate:"gte=2"`
	MACDSignal       int     `yaml:"macd_signal" default:"9" validate:"gte=1"`
	BollingerWindow  int     `yaml:"bollinger_window" default:"20" validate:"gte=2"`
	BollingerMult    float64 `yaml:"bollinger_mult" default:"2.0" validate:"gt=0"`
	ATRPeriod        int     `yaml:"atr_period" default:"14" validate:"gte=2"`
	VolumeAvgWindow  int     `yaml:"volume_avg_window" default:"20" validate:"gte=2"`
	SRLookbacks      []int   `yaml:"sr_lookbacks" default:"[5,10,20]"`
}

// CacheConfig configures the optional indicator memoization facade.
type CacheConfig struct {
	Enabled      bool          `yaml:"enabled" default:"false"`
	Backend      string        `yaml:"backend" default:"memory" validate:"oneof=memory redis layered"`
	TTL          time.Duration `yaml:"ttl" default:"30s"`
	OpTimeout    time.Duration `yaml:"op_timeout" default:"2s"`
	ReadyTimeout time.Duration `yaml:"ready_timeout" default:"5s"`
	Redis        struct {
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" default:"0"`
		PoolSize int    `yaml:"pool_size" default:"10"`
		Prefix   string `yaml:"prefix" default:"confluence"`
	} `yaml:"redis"`
}

// Load reads, defaults, and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Default returns a fully defaulted, validated configuration for callers
// embedding the engine without a config file.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("config defaults invalid: %v", err))
	}
	return &c
}

// Validate enforces struct tags plus the weight-sum rules. A failure here is
// fatal: it is the only error class the engine refuses to degrade around.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("struct validation: %w", err)
	}
	if err := checkWeightSum("family_weights", c.Families.Sum()); err != nil {
		return err
	}
	if err := checkWeightSum("timeframe_weights", c.Timeframes.Sum()); err != nil {
		return err
	}
	for family, subs := range c.SubWeights {
		if !knownFamily(family) {
			return fmt.Errorf("sub_weights: unknown family %q", family)
		}
		sum := 0.0
		for _, w := range subs {
			if w < 0 {
				return fmt.Errorf("sub_weights.%s: negative weight", family)
			}
			sum += w
		}
		if err := checkWeightSum("sub_weights."+family, sum); err != nil {
			return err
		}
	}
	if c.Engine.SellThreshold >= c.Engine.BuyThreshold {
		return fmt.Errorf("engine: sell_threshold %.2f must be below buy_threshold %.2f",
			c.Engine.SellThreshold, c.Engine.BuyThreshold)
	}
	if c.Kernel.EMAFast >= c.Kernel.EMASlow {
		return fmt.Errorf("kernel: ema_fast must be below ema_slow")
	}
	return nil
}

func checkWeightSum(name string, sum float64) error {
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%s: weights must sum to 1, got %.6f", name, sum)
	}
	return nil
}

func knownFamily(name string) bool {
	switch name {
	case "technical", "volume", "orderflow", "orderbook", "sentiment", "structure":
		return true
	default:
		return false
	}
}
