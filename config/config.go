// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var configPath = pflag.String("config", "config/config.yaml", "Path to the config.yaml file")

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigFile(*configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("server.host", "server_host")
	v.BindEnv("server.port", "server_port")
	v.BindEnv("server.debug", "server_debug")
	v.BindEnv("server.key", "server_key")
	v.BindEnv("server.tokenTime", "server_token_time")

	v.BindEnv("sql.host", "sql_host")
	v.BindEnv("sql.port", "sql_port")
	v.BindEnv("sql.username", "sql_username")
	v.BindEnv("sql.password", "sql_password")
	v.BindEnv("sql.database", "sql_database")

	v.BindEnv("storage.path", "storage_path")

	//
	// Defaults
	//
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.tokenTime", 7)
	v.SetDefault("server.adminUsername", "admin")
	v.SetDefault("server.adminAccount", "admin")
	v.SetDefault("server.version", "1.0.0")
	v.SetDefault("server.cors", []string{"http://localhost:5173"})

	v.SetDefault("sql.host", "none")
	v.SetDefault("sql.port", 5432)
	v.SetDefault("sql.database", "yingcang")

	v.SetDefault("storage.path", ".")

	if err := readExpanded(*configPath); err != nil {
		return err
	}

	if v.GetInt("server.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt("server.tokenTime") <= 0 {
		return errors.New("server.tokenTime must be bigger than 0")
	}

	if v.GetString("server.key") == "" {
		fmt.Println("WARNING: You haven't set a signing key, so one has been generated for you. Please set it as an environment variable or in the config.yaml file.\nYour random signing key:\n\n" + genSecret() + "\n\nPaste it into your config.yaml file.")
		os.Exit(0)
	}

	if v.GetString("sql.host") != "none" {
		if v.GetString("sql.username") == "" {
			return errors.New("sql.username can't be empty")
		}
		if v.GetString("sql.database") == "" {
			return errors.New("sql.database can't be empty")
		}
	}

	return nil
}

// readExpanded reads the config file with ${VAR} style environment
// variables expanded before the YAML is parsed
func readExpanded(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New("config.yaml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if err := v.MergeConfig(strings.NewReader(os.ExpandEnv(string(raw)))); err != nil {
		return fmt.Errorf("failed to parse config file, %w", err)
	}

	return nil
}

// Save writes the current configuration back to disk. Used by the
// settings endpoints which mutate the admin credentials and by the
// installer which persists the database connection.
func Save() error {
	return v.WriteConfigAs(*configPath)
}
