package config

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func Test_VariableInterpolation_1_detectsRegex(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	assertion := assert.New(t)

	t.Setenv("MY_var", "SUCCESS")

	matchingExpression := "__${MY_var}__"
	sut := interpolate(matchingExpression)

	assertion.True(sut == "SUCCESS")
}

func Test_VariableInterpolation_2_failing(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	assertion := assert.New(t)

	failingExpression := "_-${MY_failing_expression}__"
	sut := interpolate(failingExpression)

	assertion.False(sut == "MY_failing_expression")
	assertion.True(sut == failingExpression)
}

func Test_VariableInterpolation_3_detectsRegexpWithNumbers(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	assertion := assert.New(t)

	t.Setenv("MY_var_with_1234_NUMBERS", "SUCCESS")

	matchingExpression := "__${MY_var_with_1234_NUMBERS}__"
	sut := interpolate(matchingExpression)

	assertion.True(sut == "SUCCESS")
}

func Test_VariableInterpolation_4_failsRegexpWithDashes(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	assertion := assert.New(t)

	failingExpression := "__${MY-var-with-DASHES}__"
	sut := interpolate(failingExpression)

	assertion.False(sut == "MY-var-with-DASHES")
	assertion.True(sut == failingExpression)
}

func Test_VariableInterpolation_5_EnvVariableMissing(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	assertion := assert.New(t)

	matchingExpression := "__${my_missing_var}__"
	sut := interpolate(matchingExpression)

	assertion.True(sut == "")
}

func Test_VariableInterpolation_6_interpolatesTemplateString(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	assertion := assert.New(t)

	t.Setenv("GH_OWNER", "ASD-T2")
	t.Setenv("GH_REPO", "ASD_Installer-repo")

	matchingExpression := "https://api.github.com/repos/__${GH_OWNER}__/__${GH_REPO}__/contents"
	sut := interpolate(matchingExpression)

	assertion.Equal("https://api.github.com/repos/ASD-T2/ASD_Installer-repo/contents", sut)
}

func Test_Raw_Duration(t *testing.T) {
	tests := []struct {
		value interface{}
		want  time.Duration
	}{
		{"10s", 10 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h 30m", 90 * time.Minute},
		{"2d", 48 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"250ms", 250 * time.Millisecond},
		{300, 300 * time.Second},
		{"nonsense", 0},
	}

	for _, tt := range tests {
		raw := Raw{"key": tt.value}
		assert.Equal(t, tt.want, raw.Duration("key"), "%v", tt.value)
	}
}

func Test_Raw_missingKeysYieldZeroValues(t *testing.T) {
	assertion := assert.New(t)
	raw := Raw{}

	assertion.Equal("", raw.String("missing"))
	assertion.Nil(raw.StringSlice("missing"))
	assertion.False(raw.Bool("missing"))
	assertion.Equal(int64(0), raw.Int64("missing"))
	assertion.Equal(0.0, raw.Float64("missing"))
	assertion.Equal(time.Duration(0), raw.Duration("missing"))
	assertion.Nil(raw.Sub("missing"))
}
