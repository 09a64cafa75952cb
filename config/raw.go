package config

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	Second = time.Second
	Minute = time.Minute
	Hour   = time.Hour
	Day    = 24 * Hour
	Week   = 7 * Day
)

var (
	durationExpr = regexp.MustCompile(`^` +
		`(?:(?P<week>[0-9]+)[wW])?\s*` +
		`(?:(?P<day>[0-9]+)[dD])?\s*` +
		`(?:(?P<hour>[0-9]+)h)?\s*` +
		`(?:(?P<minute>[0-9]+)m)?\s*` +
		`(?:(?P<second>[0-9]+)s)?\s*` +
		`(?:(?P<millisecond>[0-9]+)ms)?$`)
	interpolationExpr = regexp.MustCompile(`__\${(\w+)}__`)
)

type Raw map[string]interface{}

// ParseFromString Provide a YAML string and unmarshal it
func ParseFromString(content string) (Raw, error) {
	var out map[string]interface{}
	if err := yaml.Unmarshal([]byte(content), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func Parse(reader io.Reader) (Raw, error) {
	var out map[string]interface{}
	if err := yaml.NewDecoder(reader).Decode(&out); err != nil {
		if err == io.EOF {
			return Raw{}, nil
		}
		return nil, err
	}
	return out, nil
}

func (c Raw) Sub(key string) Raw {
	val := c[key]
	if val == nil {
		return nil
	}
	if reflect.TypeOf(val).Kind() == reflect.Map {
		switch v := val.(type) {
		case map[interface{}]interface{}:
			var sub = map[string]interface{}{}
			for key, elem := range v {
				if s, ok := key.(string); ok {
					sub[s] = elem
				}
			}
			return sub
		case map[string]interface{}:
			return v
		}
	}
	return nil
}

func (c Raw) Has(key string) bool {
	_, exists := c[key]
	return exists
}

func (c Raw) String(key string) string {
	return interpolate(asString(c[key]))
}

func (c Raw) StringSlice(key string) []string {
	val := c[key]
	if val == nil {
		return nil
	}
	if s, ok := val.([]string); ok {
		return s
	}
	if s, ok := val.([]interface{}); ok {
		slice := make([]string, 0, len(s))
		for _, raw := range s {
			if elem := interpolate(asString(raw)); elem != "" {
				slice = append(slice, elem)
			}
		}
		return slice
	}
	return nil
}

func (c Raw) Bool(key string) bool {
	return asBool(c[key])
}

func (c Raw) Int64(key string) int64 {
	return asInt64(c[key])
}

func (c Raw) Float64(key string) float64 {
	switch v := c[key].(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(interpolate(v), 64)
		if err == nil {
			return f
		}
		return 0
	default:
		return float64(asInt64(v))
	}
}

// Duration accepts humane durations like "1h 30m" or "10s"; plain numbers are seconds.
func (c Raw) Duration(key string) time.Duration {
	val := c[key]
	if val == nil {
		return 0
	}
	s, ok := val.(string)
	if !ok {
		return Second * time.Duration(asInt64(val))
	}

	match := durationExpr.FindStringSubmatch(interpolate(s))
	if match == nil {
		return 0
	}

	duration := time.Duration(0)
	// match[0] is the match for the whole regex
	duration += Week * asDuration(match[1])
	duration += Day * asDuration(match[2])
	duration += Hour * asDuration(match[3])
	duration += Minute * asDuration(match[4])
	duration += Second * asDuration(match[5])
	duration += time.Millisecond * asDuration(match[6])

	return duration
}

func asDuration(val string) time.Duration {
	i, err := strconv.ParseUint(val, 10, 63)
	if err != nil {
		return 0
	}
	return time.Duration(i)
}

func asString(val interface{}) string {
	if val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	if s, ok := val.(fmt.Stringer); ok && s != nil {
		return s.String()
	}
	return fmt.Sprintf("%v", val)
}

func asInt64(val interface{}) int64 {
	if val == nil {
		return 0
	}
	switch v := val.(type) {
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case uint:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		i, err := strconv.ParseInt(interpolate(v), 10, 64)
		if err == nil {
			return i
		}
	}
	return 0
}

func asBool(val interface{}) bool {
	if val == nil {
		return false
	}
	if b, ok := val.(bool); ok {
		return b
	}
	if s, ok := val.(string); ok {
		b, err := strconv.ParseBool(interpolate(s))
		if err == nil {
			return b
		}
	}
	return false
}

// interpolate replaces every __${NAME}__ with the value of the environment variable NAME
func interpolate(s string) string {
	return interpolationExpr.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(interpolationExpr.FindStringSubmatch(m)[1])
	})
}
