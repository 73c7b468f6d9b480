package config

import (
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/slowlang/sched/compiler/ir"
)

type (
	// Config is the optional file tuning the analysis.
	//
	//	latency:
	//	  load: 4
	//	  mult: 3
	Config struct {
		Latency map[string]int `yaml:"latency"`
	}
)

func Load(name string) (*Config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var c Config

	err := yaml.Unmarshal(data, &c)
	if err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}

	return &c, nil
}

// Latencies returns the default table with overrides from c applied.
func (c *Config) Latencies() (*ir.Latency, error) {
	lat := ir.DefaultLatency

	if c == nil {
		return &lat, nil
	}

	for name, v := range c.Latency {
		op, ok := ir.ParseOp(name)
		if !ok || op == ir.Nop {
			return nil, errors.New("latency: unknown opcode: %q", name)
		}

		lat[op] = v
	}

	if err := lat.Check(); err != nil {
		return nil, err
	}

	return &lat, nil
}
