package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewSinglePatternConfiguration_detectsRegex(t *testing.T) {
	assert := assert.New(t)

	sut, _ := NewSinglePatternConfiguration("/mystaticregex/")

	assert.True(sut.IsRegularExpression)
	assert.Equal("mystaticregex", sut.Pattern)
}

func Test_NewSinglePatternConfiguration_detectsRegexError(t *testing.T) {
	assert := assert.New(t)

	sut, err := NewSinglePatternConfiguration("/notendingregex(.*/")

	assert.Nil(sut)
	assert.NotNil(err)
}

func Test_NewSinglePatternConfiguration_detectsGlobError(t *testing.T) {
	assert := assert.New(t)

	sut, err := NewSinglePatternConfiguration("win/[unclosed")

	assert.Nil(sut)
	assert.NotNil(err)
}

func Test_GetPathStatus_simpleExclude(t *testing.T) {
	assert := assert.New(t)
	raw, _ := ParseFromString(
		`
exclude:
- "**/*.md"
`)
	cfg := ParseFilesSection(raw)

	status, appliedPolicy := GetPathStatus("docs/README.md", cfg)
	assert.Equal(FILES_POLICY_EXCLUDE, appliedPolicy)
	assert.Equal(FILES_BEHAVIOUR_EXCLUDE, status)

	status, appliedPolicy = GetPathStatus("win/setup.exe", cfg)
	assert.Equal(FILES_POLICY_NO_MATCH_FALLBACK, appliedPolicy)
	assert.Equal(FILES_BEHAVIOUR_INCLUDE, status)
}

func Test_GetPathStatus_includeListExcludesAllOthers(t *testing.T) {
	assert := assert.New(t)
	raw, _ := ParseFromString(
		`
include:
- "win/**"
- "/\\.msi$/"
`)
	cfg := ParseFilesSection(raw)

	status, appliedPolicy := GetPathStatus("win/x64/setup.exe", cfg)
	assert.Equal(FILES_BEHAVIOUR_INCLUDE, status)
	assert.Equal(FILES_POLICY_INCLUDE, appliedPolicy)

	status, appliedPolicy = GetPathStatus("linux/agent.msi", cfg)
	assert.Equal(FILES_BEHAVIOUR_INCLUDE, status)
	assert.Equal(FILES_POLICY_INCLUDE_BY_REGEX, appliedPolicy)

	status, _ = GetPathStatus("linux/agent.tar.gz", cfg)
	assert.Equal(FILES_BEHAVIOUR_EXCLUDE, status)
}

func Test_GetPathStatus_allOthersExplicitlyIncluded(t *testing.T) {
	assert := assert.New(t)
	raw, _ := ParseFromString(
		`
include:
- "win/**"
exclude:
- "/beta/"
all_others: include
`)
	cfg := ParseFilesSection(raw)

	status, appliedPolicy := GetPathStatus("win/setup-beta.exe", cfg)
	assert.Equal(FILES_BEHAVIOUR_EXCLUDE, status)
	assert.Equal(FILES_POLICY_EXCLUDE_BY_REGEX, appliedPolicy)

	status, _ = GetPathStatus("linux/agent.tar.gz", cfg)
	assert.Equal(FILES_BEHAVIOUR_INCLUDE, status)
}

func Test_ParseFilesSection_skipsInvalidPatterns(t *testing.T) {
	assert := assert.New(t)
	raw, _ := ParseFromString(
		`
exclude:
- "/broken(/"
- "*.txt"
`)
	cfg := ParseFilesSection(raw)

	assert.Equal(1, len(cfg.exclude))
	assert.False(cfg.IsPathIncluded("notes.txt"))
}

func Test_IsPathIncluded_nilConfigurationIncludesEverything(t *testing.T) {
	var cfg *FilesConfiguration

	assert.True(t, cfg.IsPathIncluded("anything"))
	assert.True(t, IncludeEverything().IsPathIncluded("anything"))
}
