package config

import (
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort  uint   `yaml:"listenPort"`
	Topic       string `yaml:"topic"`
	MetricsAddr string `yaml:"metricsAddr"`
	Loglevel    string `yaml:"loglevel"`

	StunServer string `yaml:"stunServer"`

	Sinks []Sink `yaml:"sinks"`
}

type Sink struct {
	Name string                 `yaml:"name"`
	Spec map[string]interface{} `yaml:"spec"`
}

// LoadSinkConfig decodes the free-form spec block into a concrete sink
// configuration.
func (s *Sink) LoadSinkConfig(target interface{}) error {
	return mapstructure.Decode(s.Spec, target)
}

func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
