package app_config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

// This is the app config for the query pipeline.
type QueryAppConfig struct {
	// Ollama model used for generation and summarization.
	MODEL_NAME string `yaml:"MODEL_NAME"`
	// LIMIT hint embedded in the prompt instructions.
	RESULT_LIMIT int `yaml:"RESULT_LIMIT"`
	// TTL of cached completions in second. 0 disables the completion cache
	// even when redis is configured.
	COMPLETION_CACHE_TTL_SECOND int64 `yaml:"COMPLETION_CACHE_TTL_SECOND"`
}

func DefaultQueryAppConfig() QueryAppConfig {
	return QueryAppConfig{
		MODEL_NAME:                  "llama3.2",
		RESULT_LIMIT:                5,
		COMPLETION_CACHE_TTL_SECOND: 600,
	}
}

// ParseQueryAppConfig reads the YAML app config at path, falling back to the
// defaults when path is empty.
func ParseQueryAppConfig(path string) QueryAppConfig {
	if path == "" {
		return DefaultQueryAppConfig()
	}
	c := DefaultQueryAppConfig()
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		log.Fatal("Unmarshal: ", err)
	}
	return c
}
