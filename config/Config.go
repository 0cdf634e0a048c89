package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nkeidar/CivicBudget/budget"
)

const defaultExperimentsYAML = `# civic budget experiment configuration
logs_dir: logs
output_dir: visualization_output

experiments:
  - name: baseline
    wards: 2
    iterations: 2
    turns: 5
    subjects: [parks, transit, schools, libraries]
    total_budget: 100
    citizens:
      single_issue: 4
      even_split: 4
      noisy: 4
      adaptive: 8
    strategy: scan
    election_rule: copeland
    facility_cost: 60
    # tolerances:
    #   slope_epsilon: 1e-8
    #   segment_tolerance: 1e-9
    #   floor_tolerance: 1e-11
`

// PersonaCounts sets how many citizens of each persona an experiment runs.
type PersonaCounts struct {
	SingleIssue int `yaml:"single_issue"`
	EvenSplit   int `yaml:"even_split"`
	Noisy       int `yaml:"noisy"`
	Adaptive    int `yaml:"adaptive"`
}

func (pc PersonaCounts) Total() int {
	return pc.SingleIssue + pc.EvenSplit + pc.Noisy + pc.Adaptive
}

// MechanismTolerances overrides the aggregation rule's default tolerances.
// Zero fields keep the defaults.
type MechanismTolerances struct {
	SlopeEpsilon     float64 `yaml:"slope_epsilon,omitempty"`
	SegmentTolerance float64 `yaml:"segment_tolerance,omitempty"`
	FloorTolerance   float64 `yaml:"floor_tolerance,omitempty"`
}

// Experiment declares one simulation run.
type Experiment struct {
	Name        string        `yaml:"name"`
	Wards       int           `yaml:"wards"`
	Iterations  int           `yaml:"iterations"`
	Turns       int           `yaml:"turns"`
	Subjects    []string      `yaml:"subjects"`
	TotalBudget int           `yaml:"total_budget"`
	Citizens    PersonaCounts `yaml:"citizens"`

	Strategy     string               `yaml:"strategy,omitempty"`
	ElectionRule string               `yaml:"election_rule,omitempty"`
	FacilityCost float64              `yaml:"facility_cost,omitempty"`
	Tolerances   *MechanismTolerances `yaml:"tolerances,omitempty"`
	VerboseLevel int                  `yaml:"verbose_level,omitempty"`
}

// Config models the experiments file.
type Config struct {
	LogsDir     string       `yaml:"logs_dir"`
	OutputDir   string       `yaml:"output_dir"`
	Experiments []Experiment `yaml:"experiments"`
}

// Default returns the built-in configuration, one baseline experiment with a
// mixed persona population.
func Default() *Config {
	return &Config{
		LogsDir:   "logs",
		OutputDir: "visualization_output",
		Experiments: []Experiment{
			{
				Name:        "baseline",
				Wards:       2,
				Iterations:  2,
				Turns:       5,
				Subjects:    []string{"parks", "transit", "schools", "libraries"},
				TotalBudget: 100,
				Citizens: PersonaCounts{
					SingleIssue: 4,
					EvenSplit:   4,
					Noisy:       4,
					Adaptive:    8,
				},
				Strategy:     "scan",
				ElectionRule: "copeland",
				FacilityCost: 60,
			},
		},
	}
}

// Load reads and validates the experiments file at path. A missing file
// falls back to the built-in configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &parsed, nil
}

// Ensure writes the sample experiments file to path when none exists yet.
func Ensure(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultExperimentsYAML), 0644)
}

// Mechanism builds the experiment's aggregation rule from its strategy name
// and tolerance overrides.
func (e Experiment) Mechanism() (budget.Mechanism, error) {
	strategy, err := budget.ParseStrategy(e.Strategy)
	if err != nil {
		return budget.Mechanism{}, err
	}
	m := budget.DefaultMechanism()
	m.Strategy = strategy
	if e.Tolerances != nil {
		if e.Tolerances.SlopeEpsilon > 0 {
			m.SlopeEpsilon = e.Tolerances.SlopeEpsilon
		}
		if e.Tolerances.SegmentTolerance > 0 {
			m.SegmentTolerance = e.Tolerances.SegmentTolerance
		}
		if e.Tolerances.FloorTolerance > 0 {
			m.FloorTolerance = e.Tolerances.FloorTolerance
		}
	}
	return m, nil
}

func (c *Config) applyDefaults() {
	if c.LogsDir == "" {
		c.LogsDir = "logs"
	}
	if c.OutputDir == "" {
		c.OutputDir = "visualization_output"
	}
	for i := range c.Experiments {
		e := &c.Experiments[i]
		if e.Wards == 0 {
			e.Wards = 1
		}
		if e.Iterations == 0 {
			e.Iterations = 1
		}
		if e.Turns == 0 {
			e.Turns = 1
		}
	}
}

func (c *Config) normalize() {
	c.LogsDir = strings.TrimSpace(c.LogsDir)
	c.OutputDir = strings.TrimSpace(c.OutputDir)
	for i := range c.Experiments {
		e := &c.Experiments[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			e.Name = fmt.Sprintf("experiment-%d", i)
		}
		e.Strategy = strings.ToLower(strings.TrimSpace(e.Strategy))
		e.ElectionRule = strings.ToLower(strings.TrimSpace(e.ElectionRule))
		for j := range e.Subjects {
			e.Subjects[j] = strings.TrimSpace(e.Subjects[j])
		}
	}
}

func (c *Config) validate() error {
	if len(c.Experiments) == 0 {
		return fmt.Errorf("at least one experiment is required")
	}
	for i := range c.Experiments {
		if err := c.Experiments[i].validate(); err != nil {
			return fmt.Errorf("experiments[%d]: %w", i, err)
		}
	}
	return nil
}

func (e Experiment) validate() error {
	if e.Wards < 1 {
		return fmt.Errorf("wards must be >= 1")
	}
	if e.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1")
	}
	if e.Turns < 1 {
		return fmt.Errorf("turns must be >= 1")
	}
	if len(e.Subjects) == 0 {
		return fmt.Errorf("at least one subject is required")
	}
	for j, subject := range e.Subjects {
		if subject == "" {
			return fmt.Errorf("subjects[%d] is empty", j)
		}
	}
	if e.TotalBudget < 0 {
		return fmt.Errorf("total_budget must be >= 0")
	}
	if e.Citizens.Total() < 1 {
		return fmt.Errorf("at least one citizen is required")
	}
	if _, err := budget.ParseStrategy(e.Strategy); err != nil {
		return err
	}
	switch e.ElectionRule {
	case "", "copeland", "borda":
	default:
		return fmt.Errorf("election_rule must be 'copeland' or 'borda'")
	}
	if e.FacilityCost < 0 {
		return fmt.Errorf("facility_cost must be >= 0")
	}
	if e.Tolerances != nil {
		if e.Tolerances.SlopeEpsilon < 0 || e.Tolerances.SegmentTolerance < 0 || e.Tolerances.FloorTolerance < 0 {
			return fmt.Errorf("tolerances must be positive")
		}
	}
	return nil
}
