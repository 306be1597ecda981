package cmd

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matroid/matroid-cli/internal/api"
	"github.com/matroid/matroid-cli/internal/config"
)

type clientFactory struct {
	timeout   time.Duration
	userAgent string
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("matroid-cli/%s", version),
	}
}

func (f *clientFactory) client() (*api.Client, error) {
	creds, err := f.credentials()
	if err != nil {
		return nil, err
	}

	cfg := api.Config{
		BaseURL:      creds.BaseURL,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		UserAgent:    f.userAgent,
	}
	if f.timeout > 0 {
		cfg.HTTP = &http.Client{Timeout: f.timeout}
	}
	return api.New(cfg), nil
}

func (f *clientFactory) credentials() (config.Credentials, error) {
	var creds config.Credentials
	var err error
	if flags.Profile != "" {
		creds, err = config.LoadProfile(flags.Profile)
	} else {
		creds, err = config.LoadCredentials()
	}
	if err != nil {
		return config.Credentials{}, err
	}
	if override := strings.TrimSpace(flags.BaseURL); override != "" {
		creds.BaseURL = strings.TrimSuffix(override, "/")
	}
	return creds, nil
}

// getClient creates an API client from stored credentials
func getClient() (*api.Client, error) {
	return newClientFactory().client()
}
