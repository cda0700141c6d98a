// Package koanf loads docrag configuration from YAML and the environment.
package koanf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fwojciec/docrag"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: DOCRAG_VECTOR_STORE__INDEX_PATH sets vector_store.index_path.
const EnvPrefix = "DOCRAG_"

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "config.yaml"

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error. Provider API keys
// come from OPENAI_API_KEY and GEMINI_API_KEY unless set otherwise.
// The result is validated.
func Load(path string) (*docrag.Config, error) {
	k := koanf.New(".")
	cfg := docrag.DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, docrag.Errorf(docrag.ECONFIG, "reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, docrag.Errorf(docrag.ECONFIG, "accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, docrag.Errorf(docrag.ECONFIG, "loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, docrag.Errorf(docrag.ECONFIG, "decoding config: %w", err)
	}

	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Marshal renders cfg as YAML. API keys are never written.
func Marshal(cfg *docrag.Config) ([]byte, error) {
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}
