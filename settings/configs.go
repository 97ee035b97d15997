package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type ConfigurationFile struct {
	Engine struct {
		TopIntervalMs int `yaml:"top-interval-ms"`
		Workers       []struct {
			Name         string `yaml:"name"`
			MaxRequests  int    `yaml:"max-requests"`
			MaxBatchSize int    `yaml:"max-batch-size"`
		} `yaml:"workers"`
	} `yaml:"engine"`
	DocumentSets []string `yaml:"document-sets"`
	Collections  []struct {
		Name       string `yaml:"name"`
		Dimensions int    `yaml:"dimensions"`
		Distance   string `yaml:"distance"`
	} `yaml:"collections"`
	Queries []struct {
		Collection string    `yaml:"collection"`
		Vector     []float64 `yaml:"vector"`
		TopK       int       `yaml:"top-k"`
		Priority   int       `yaml:"priority"`
	} `yaml:"queries"`
}

func ProcessConfigurationFile(path string) (*ConfigurationFile, error) {
	// read YAML file
	config := &ConfigurationFile{}

	yamlText, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration file %s: %v", path, err)
	}

	err = yaml.Unmarshal(yamlText, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing configuration file %s: %v", path, err)
	}

	return config, nil
}
