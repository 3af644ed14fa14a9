package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/Shopify/ejson"
	"github.com/caarlos0/env/v6"
	"github.com/ghodss/yaml"
)

const (
	ConfigEnvVar       = "PRIORBANK_CONFIG"
	EjsonSecretKeyEnv  = "PRIORBANK_EJSON_SECRET_KEY"
	importAfterLayout  = "01-02-2006"
	defaultCardsFile   = "cards.json"
	defaultCardDesc    = "cardDesc.json"
	defaultEjsonKeyDir = "/opt/ejson/keys"
)

var config Config
var secrets Secrets

func ReadConfig(configEnvVar, configFile, secretsFile string) error {
	_, err := readConfig(configEnvVar, configFile)
	if err != nil {
		return err
	}

	_, err = readSecrets(secretsFile)
	if err != nil {
		return err
	}
	return nil
}

func CurrentConfig() *Config {
	return &config
}

func CurrentSecrets() *Secrets {
	return &secrets
}

func CurrentPriorbankConfig() *PriorbankConfig {
	return &config.Priorbank
}

func CurrentInfluxSecrets() *InfluxSecrets {
	return &secrets.Influx
}

func CurrentSqlSecrets() *SqlSecrets {
	return &secrets.SQL
}

// CardsPath is the location of the card list response.
func (c *PriorbankConfig) CardsPath() string {
	return filepath.Join(c.SnapshotDir, c.CardsFile)
}

// CardDescPath is the location of the card description response.
func (c *PriorbankConfig) CardDescPath() string {
	return filepath.Join(c.SnapshotDir, c.CardDescFile)
}

// ImportAfter returns the zero time when no cutoff is configured.
func (c *PriorbankConfig) ImportAfter() (time.Time, error) {
	if c.ImportAfterDate == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(importAfterLayout, c.ImportAfterDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse import after date %s: %w", c.ImportAfterDate, err)
	}
	return t, nil
}

func readConfig(envName, filename string) (*Config, error) {
	var raw []byte
	var err error

	rawEnv := os.Getenv(envName)
	if rawEnv != "" {
		fmt.Printf("Reading config from environment variable %s\n", envName)
		raw = []byte(rawEnv)
	} else {
		raw, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	config = Config{}
	err = yaml.Unmarshal(raw, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Priorbank.CardsFile == "" {
		c.Priorbank.CardsFile = defaultCardsFile
	}
	if c.Priorbank.CardDescFile == "" {
		c.Priorbank.CardDescFile = defaultCardDesc
	}
	if c.Priorbank.SQL.TransactionsTable == "" {
		c.Priorbank.SQL.TransactionsTable = "transactions"
	}
	if c.Priorbank.SQL.AccountsTable == "" {
		c.Priorbank.SQL.AccountsTable = "accounts"
	}
	if c.Priorbank.Influx.Measurement == "" {
		c.Priorbank.Influx.Measurement = "transactions"
	}
}

func readSecrets(filename string) (*Secrets, error) {
	ejsonSecrets, ejsonErr := readEjsonSecrets(filename)

	envSecrets, envErr := readEnvSecrets()

	if ejsonErr == nil && envErr == nil {
		err := mergo.Merge(envSecrets, *ejsonSecrets)
		secrets = *envSecrets
		if err != nil {
			return nil, fmt.Errorf("Failed to merge secrets: %v", err)
		}
	} else if ejsonErr != nil && envErr == nil {
		fmt.Printf("Warning: Error to parse ejson secret. Ejson error: %v\n", ejsonErr)
		secrets = *envSecrets
	} else if ejsonErr == nil && envErr != nil {
		fmt.Printf("Warning: Error to parse env secret. Env error: %v\n", envErr)
		secrets = *ejsonSecrets
	} else {
		return nil, fmt.Errorf("Failed to parse secrets. Ejson error: %v. Env error: %v", ejsonErr, envErr)
	}

	return &secrets, nil
}

func readEjsonSecrets(filename string) (*Secrets, error) {
	ejsonSecrets := Secrets{}
	ejsonKeyFile := os.Getenv(EjsonSecretKeyEnv)
	ejsonKey := []byte{}
	var err error

	if ejsonKeyFile != "" {
		ejsonKey, err = os.ReadFile(ejsonKeyFile)
		if err != nil {
			return nil, err
		}
	}
	raw, err := ejson.DecryptFile(filename, defaultEjsonKeyDir, string(ejsonKey))
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(raw, &ejsonSecrets)
	return &ejsonSecrets, err
}

func readEnvSecrets() (*Secrets, error) {
	envSecrets := Secrets{}
	err := env.Parse(&envSecrets)
	return &envSecrets, err
}
