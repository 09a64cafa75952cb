package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
http:
  basic_auth:
    username: operator
    password: secret
`

func Test_NewConfigurationInstance_appliesDefaults(t *testing.T) {
	assertion := assert.New(t)

	raw, _ := ParseFromString(minimalConfig)
	sut, err := NewConfigurationInstance(raw)

	require.NoError(t, err)
	assertion.Equal(5000, sut.Global().HttpPort())
	assertion.Equal("operator", sut.Http().BasicAuth.Username)
	assertion.Nil(sut.Http().Tls)
	assertion.Equal(DefaultRootURL, sut.Remote().RootURL)
	assertion.Equal(10*time.Second, sut.Remote().RequestTimeout)
	assertion.Equal(5*time.Minute, sut.Remote().DownloadTimeout)
	assertion.Equal(DefaultMaxDepth, sut.Remote().MaxDepth)
	assertion.Equal(300*time.Second, sut.Cache().TTL)
	assertion.Nil(sut.Cache().InvalidateSchedule)
	assertion.True(sut.Files().IsPathIncluded("any/file.exe"))
}

func Test_NewConfigurationInstance_readsAllSections(t *testing.T) {
	assertion := assert.New(t)

	t.Setenv("RG_TOKEN", "abc123")

	raw, _ := ParseFromString(`
port: 8080
log_level: debug
http:
  basic_auth:
    username: operator
    password: secret
  tls:
    certificate: /tmp/cert.pem
    private_key: /tmp/key.pem
    strict: true
remote:
  root_url: https://example.com/contents/installers
  token: __${RG_TOKEN}__
  request_timeout: 3s
  download_timeout: 1h
  max_depth: 4
  requests_per_second: 2.5
cache:
  ttl: 1m 30s
  invalidate_schedule: "0 * * * *"
files:
  exclude:
    - "**/*.sha256"
`)
	sut, err := NewConfigurationInstance(raw)

	require.NoError(t, err)
	assertion.Equal(8080, sut.Global().HttpPort())
	assertion.Equal("debug", sut.Global().LogLevel().String())
	assertion.True(sut.Http().Tls.IsStrict)
	assertion.Equal("https://example.com/contents/installers", sut.Remote().RootURL)
	assertion.Equal("token abc123", sut.Remote().AuthorizationHeader())
	assertion.Equal(3*time.Second, sut.Remote().RequestTimeout)
	assertion.Equal(time.Hour, sut.Remote().DownloadTimeout)
	assertion.Equal(4, sut.Remote().MaxDepth)
	assertion.Equal(2.5, sut.Remote().RequestsPerSecond)
	assertion.Equal(90*time.Second, sut.Cache().TTL)
	assertion.NotNil(sut.Cache().InvalidateSchedule)
	assertion.Equal("0 * * * *", sut.Cache().InvalidateScheduleExpression)
	assertion.False(sut.Files().IsPathIncluded("win/app.exe.sha256"))
	assertion.True(sut.Files().IsPathIncluded("win/app.exe"))
}

func Test_NewConfigurationInstance_requiresOperatorCredentials(t *testing.T) {
	assertion := assert.New(t)

	raw, _ := ParseFromString(`
port: 8080
`)
	sut, err := NewConfigurationInstance(raw)
	assertion.Nil(sut)
	assertion.Error(err)

	// credentials interpolated from missing environment variables are empty as well
	raw, _ = ParseFromString(`
http:
  basic_auth:
    username: __${RG_MISSING_USERNAME}__
    password: __${RG_MISSING_PASSWORD}__
`)
	sut, err = NewConfigurationInstance(raw)
	assertion.Nil(sut)
	assertion.Error(err)
}

func Test_NewConfigurationInstance_rejectsRelativeRootURL(t *testing.T) {
	raw, _ := ParseFromString(minimalConfig + `
remote:
  root_url: contents/installers
`)
	_, err := NewConfigurationInstance(raw)

	assert.Error(t, err)
}

func Test_NewConfigurationInstance_rejectsInvalidSchedule(t *testing.T) {
	raw, _ := ParseFromString(minimalConfig + `
cache:
  invalidate_schedule: "not a cron expression"
`)
	_, err := NewConfigurationInstance(raw)

	assert.Error(t, err)
}

func Test_NewConfigurationInstance_fallsBackOnInvalidValues(t *testing.T) {
	assertion := assert.New(t)

	raw, _ := ParseFromString(minimalConfig + `
log_level: chatty
remote:
  request_timeout: soon
  max_depth: 0
  requests_per_second: -1
cache:
  ttl: 0
`)
	sut, err := NewConfigurationInstance(raw)

	require.NoError(t, err)
	assertion.Equal("info", sut.Global().LogLevel().String())
	assertion.Equal(DefaultRequestTimeout, sut.Remote().RequestTimeout)
	assertion.Equal(DefaultMaxDepth, sut.Remote().MaxDepth)
	assertion.Equal(0.0, sut.Remote().RequestsPerSecond)
	assertion.Equal(DefaultCacheTTL, sut.Cache().TTL)
}

func Test_RemoteConfiguration_AuthorizationHeader(t *testing.T) {
	assertion := assert.New(t)

	assertion.Equal("", (&RemoteConfiguration{TokenScheme: "token"}).AuthorizationHeader())
	assertion.Equal("token x", (&RemoteConfiguration{Token: "x", TokenScheme: "token"}).AuthorizationHeader())
	assertion.Equal("Bearer x", (&RemoteConfiguration{Token: "x", TokenScheme: "Bearer"}).AuthorizationHeader())
	assertion.Equal("x", (&RemoteConfiguration{Token: "x"}).AuthorizationHeader())
}

func Test_Load_readsExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	sut, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "secret", sut.Http().BasicAuth.Password)
}

func Test_Load_failsOnMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}
