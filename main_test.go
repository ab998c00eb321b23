package main

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupBrowserInstallFailureDisablesSocial(t *testing.T) {
	cfg := &Config{EnableSocial: true}

	setupBrowser(cfg, func() error { return fmt.Errorf("driver download failed") })

	assert.False(t, cfg.EnableSocial, "a browserless process must not keep the scrape enabled")
}

func TestSetupBrowserInstallSuccessKeepsSocial(t *testing.T) {
	cfg := &Config{EnableSocial: true}
	installed := false

	setupBrowser(cfg, func() error { installed = true; return nil })

	assert.True(t, installed)
	assert.True(t, cfg.EnableSocial)
}

func TestSetupBrowserSkippedWhenSocialDisabled(t *testing.T) {
	cfg := &Config{EnableSocial: false}
	installed := false

	setupBrowser(cfg, func() error { installed = true; return nil })

	assert.False(t, installed, "no install when the scrape is off")
}

func TestStartupErrorResultShape(t *testing.T) {
	result := startupErrorResult(nil, "startup error: OPENAI_API_KEY environment variable is not set")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "OPENAI_API_KEY")
	assert.NotNil(t, result.Keywords)
	assert.NotNil(t, result.Metadata.SourcesUsed)
	assert.False(t, result.Metadata.Timestamp.IsZero())
	assert.Equal(t, exitStartupError, 2)
	assert.NotEqual(t, exitStartupError, exitPipelineError)
}

func TestStartupErrorResultEchoesBusinessWhenConfigured(t *testing.T) {
	cfg := &Config{Business: testBusiness}

	result := startupErrorResult(cfg, "startup error: bad log file")

	assert.Equal(t, testBusiness, result.Business)
}

func TestStartupErrorResultSerializesWithoutNulls(t *testing.T) {
	data, err := json.Marshal(startupErrorResult(nil, "startup error: boom"))
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"keywords":[]`)
	assert.Contains(t, body, `"sourcesUsed":[]`)
	assert.NotContains(t, body, "null")
}
