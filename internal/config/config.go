package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dfryer1193/gitpix/imagestore/domain"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultFolder = "images"
	defaultPort   = 8080
)

// Config holds everything the process reads from its environment. It is
// constructed once at startup and passed into the constructors that need it;
// nothing reads the environment after that.
type Config struct {
	GithubToken string
	RepoOwner   string
	RepoName    string
	ImageFolder string
	Port        int
}

// Load reads configuration from a .env file if one is present, then from the
// process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GithubToken: os.Getenv("GITHUB_TOKEN"),
		RepoOwner:   os.Getenv("GITHUB_OWNER"),
		RepoName:    os.Getenv("GITHUB_REPO"),
		ImageFolder: os.Getenv("IMAGE_FOLDER"),
		Port:        defaultPort,
	}

	if cfg.ImageFolder == "" {
		cfg.ImageFolder = defaultFolder
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, domain.ErrMisconfigured)
		}
		cfg.Port = port
	}

	if cfg.GithubToken == "" || cfg.RepoOwner == "" || cfg.RepoName == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN, GITHUB_OWNER and GITHUB_REPO must be set: %w", domain.ErrMisconfigured)
	}

	return cfg, nil
}
