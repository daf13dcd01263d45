package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/stochan/algorithms/common"
	"github.com/RyanBlaney/stochan/algorithms/integrate"
	"github.com/RyanBlaney/stochan/algorithms/spectral"
	"github.com/RyanBlaney/stochan/algorithms/synthesis"
	"github.com/RyanBlaney/stochan/models"
)

// EnvPrefix prefixes environment overrides, e.g. STOCHAN_OMEGA_MAX
const EnvPrefix = "STOCHAN"

// Config holds the discretisation domains and numeric settings shared by
// every analysis operation
type Config struct {
	// Domain bounds
	OmegaMax float64 `json:"omega_max" yaml:"omega_max" mapstructure:"omega_max" validate:"gt=0"`
	TauMax   float64 `json:"tau_max" yaml:"tau_max" mapstructure:"tau_max" validate:"gt=0"`
	TimeMax  float64 `json:"time_max" yaml:"time_max" mapstructure:"time_max" validate:"gt=0"`

	// Number of points of the default time, lag and frequency grids
	NDiscr int `json:"n_discr" yaml:"n_discr" mapstructure:"n_discr" validate:"gte=2"`

	// NLags overrides the number of correlation lags (0 derives it from TauMax)
	NLags int `json:"n_lags" yaml:"n_lags" mapstructure:"n_lags" validate:"gte=0"`

	// Workers bounds per-sample parallelism (0 means one per CPU)
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers" validate:"gte=0"`

	Quadrature integrate.Quadrature `json:"quadrature" yaml:"quadrature" mapstructure:"quadrature"`
	PSD        spectral.PSDOptions  `json:"psd" yaml:"psd" mapstructure:"psd"`
	Synthesis  synthesis.Options    `json:"synthesis" yaml:"synthesis" mapstructure:"synthesis"`

	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the default analysis domains
func Default() Config {
	return Config{
		OmegaMax:   10,
		TauMax:     10,
		TimeMax:    10,
		NDiscr:     100,
		Quadrature: *integrate.DefaultQuadrature(),
		PSD:        spectral.DefaultPSDOptions(),
		Synthesis:  synthesis.Options{Method: synthesis.IFFT},
		LogLevel:   "info",
	}
}

// Normalize raises TimeMax to at least TauMax, so that sample paths are
// long enough to estimate every requested lag
func (c *Config) Normalize() {
	c.TimeMax = math.Max(c.TimeMax, c.TauMax)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the quadrature settings
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Quadrature.Order < 1 || c.Quadrature.Panels < 1 {
		return fmt.Errorf("invalid config: quadrature order and panels must be positive")
	}

	return nil
}

// DefaultTimeGrid is linspace(0, TimeMax, NDiscr)
func (c Config) DefaultTimeGrid() []float64 {
	return common.Linspace(0, c.TimeMax, c.NDiscr)
}

// DefaultLagGrid is linspace(0, TauMax, NDiscr)
func (c Config) DefaultLagGrid() []float64 {
	return common.Linspace(0, c.TauMax, c.NDiscr)
}

// DefaultFrequencyGrid is linspace(0, OmegaMax, NDiscr)
func (c Config) DefaultFrequencyGrid() []float64 {
	return common.Linspace(0, c.OmegaMax, c.NDiscr)
}

// Session describes a full analysis run as driven from the command line
type Session struct {
	Name     string      `json:"name" yaml:"name" mapstructure:"name"`
	Analysis Config      `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Model    models.Spec `json:"model" yaml:"model" mapstructure:"model"`

	// Samples is the number of realizations to synthesise
	Samples int `json:"samples" yaml:"samples" mapstructure:"samples" validate:"gte=0"`

	// Methods lists the transform methods to run ("quad", "fft")
	Methods []string `json:"methods" yaml:"methods" mapstructure:"methods"`

	// Orders lists the spectral moment orders to report
	Orders []int `json:"orders" yaml:"orders" mapstructure:"orders" validate:"dive,gte=0"`
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("name", "analysis")
	v.SetDefault("samples", 50)
	v.SetDefault("methods", []string{"quad", "fft"})
	v.SetDefault("orders", []int{0, 1, 2, 3})

	v.SetDefault("model.kind", "exponential")
	v.SetDefault("model.variance", 1.0)
	v.SetDefault("model.scale", 1.0)

	v.SetDefault("analysis.omega_max", def.OmegaMax)
	v.SetDefault("analysis.tau_max", def.TauMax)
	v.SetDefault("analysis.time_max", def.TimeMax)
	v.SetDefault("analysis.n_discr", def.NDiscr)
	v.SetDefault("analysis.n_lags", def.NLags)
	v.SetDefault("analysis.workers", def.Workers)
	v.SetDefault("analysis.log_level", def.LogLevel)

	v.SetDefault("analysis.quadrature.order", def.Quadrature.Order)
	v.SetDefault("analysis.quadrature.panels", def.Quadrature.Panels)
	v.SetDefault("analysis.quadrature.max_panels", def.Quadrature.MaxPanels)
	v.SetDefault("analysis.quadrature.abs_tol", def.Quadrature.AbsTol)
	v.SetDefault("analysis.quadrature.rel_tol", def.Quadrature.RelTol)

	v.SetDefault("analysis.psd.window", string(def.PSD.Window))
	v.SetDefault("analysis.psd.segments", def.PSD.Segments)
	v.SetDefault("analysis.psd.detrend", def.PSD.Detrend)

	v.SetDefault("analysis.synthesis.method", string(def.Synthesis.Method))
	v.SetDefault("analysis.synthesis.seed", def.Synthesis.Seed)
	v.SetDefault("analysis.synthesis.frequency_cutoff", def.Synthesis.FrequencyCutoff)
}

// LoadSession reads a session from a YAML/JSON/TOML file (optional, "" uses
// defaults only) with STOCHAN_* environment overrides, e.g.
// STOCHAN_ANALYSIS_OMEGA_MAX=20
func LoadSession(path string) (*Session, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var session Session
	if err := v.Unmarshal(&session); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	session.Analysis.Normalize()

	if err := validate.Struct(&session); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if err := session.Analysis.Validate(); err != nil {
		return nil, err
	}

	return &session, nil
}
