package config

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/sirupsen/logrus"
)

// behaviour enum
const (
	FILES_BEHAVIOUR_INCLUDE = iota
	FILES_BEHAVIOUR_EXCLUDE = iota
)

// applied policy enum
const (
	FILES_POLICY_INCLUDE           = "explicit_include_policy"
	FILES_POLICY_INCLUDE_BY_REGEX  = "explicit_include_by_regex_policy"
	FILES_POLICY_EXCLUDE           = "explicit_exclude_policy"
	FILES_POLICY_EXCLUDE_BY_REGEX  = "explicit_exclude_by_regex_policy"
	FILES_POLICY_NO_MATCH_FALLBACK = "not_matching_fallback_to_all_others"
)

// this is the transformed outcome of the `files:` section
type FilesConfiguration struct {
	include []SinglePatternConfiguration
	exclude []SinglePatternConfiguration
	// fallback to that behaviour if no pattern matches
	behaviourForAllOthers int
}

type SinglePatternConfiguration struct {
	// either a doublestar glob or the regular expression
	Pattern             string
	IsRegularExpression bool
	regex               *regexp.Regexp
}

// NewSinglePatternConfiguration accepts a glob like "**/*.exe" or a regex enclosed in slashes like "/\.md$/"
func NewSinglePatternConfiguration(globOrRegExp string) (*SinglePatternConfiguration, error) {
	isRegEx := len(globOrRegExp) > 1 && strings.HasPrefix(globOrRegExp, "/") && strings.HasSuffix(globOrRegExp, "/")

	if isRegEx {
		expr := strings.TrimSuffix(strings.TrimPrefix(globOrRegExp, "/"), "/")
		compiled, err := regexp.Compile(expr)

		if err != nil {
			return nil, err
		}

		return &SinglePatternConfiguration{Pattern: expr, IsRegularExpression: true, regex: compiled}, nil
	}

	if !doublestar.ValidatePattern(globOrRegExp) {
		return nil, doublestar.ErrBadPattern
	}

	return &SinglePatternConfiguration{Pattern: globOrRegExp}, nil
}

func (p *SinglePatternConfiguration) Matches(path string) bool {
	if p.IsRegularExpression {
		return p.regex.MatchString(path)
	}

	matched, err := doublestar.Match(p.Pattern, path)
	return err == nil && matched
}

// IncludeEverything is used when no `files:` section is configured
func IncludeEverything() *FilesConfiguration {
	return &FilesConfiguration{behaviourForAllOthers: FILES_BEHAVIOUR_INCLUDE}
}

// Return true if the given root relative path is defined as "included" through some policy
func (self *FilesConfiguration) IsPathIncluded(path string) bool {
	if self == nil {
		return true
	}

	status, appliedPolicy := GetPathStatus(path, self)

	if status == FILES_BEHAVIOUR_EXCLUDE {
		log.Debugf("File %s is excluded (%s)", path, appliedPolicy)

		return false
	}

	return true
}

func firstMatch(path string, patterns []SinglePatternConfiguration) *SinglePatternConfiguration {
	for i := range patterns {
		if patterns[i].Matches(path) {
			return &patterns[i]
		}
	}

	return nil
}

// Calculate the path's status based upon the defined policies; exclusion always wins
// @return (status, appliedPolicy)
func GetPathStatus(path string, filesConfiguration *FilesConfiguration) (status int, appliedPolicy string) {
	if excludedBy := firstMatch(path, filesConfiguration.exclude); excludedBy != nil {
		if excludedBy.IsRegularExpression {
			return FILES_BEHAVIOUR_EXCLUDE, FILES_POLICY_EXCLUDE_BY_REGEX
		}
		return FILES_BEHAVIOUR_EXCLUDE, FILES_POLICY_EXCLUDE
	}

	if includedBy := firstMatch(path, filesConfiguration.include); includedBy != nil {
		if includedBy.IsRegularExpression {
			return FILES_BEHAVIOUR_INCLUDE, FILES_POLICY_INCLUDE_BY_REGEX
		}
		return FILES_BEHAVIOUR_INCLUDE, FILES_POLICY_INCLUDE
	}

	// this applies to a path which has no match
	return filesConfiguration.behaviourForAllOthers, FILES_POLICY_NO_MATCH_FALLBACK
}

func ParseFilesSection(cfg Raw) *FilesConfiguration {
	r := IncludeEverything()

	if cfg == nil {
		return r
	}

	r.include = parsePatterns(cfg.StringSlice("include"))
	r.exclude = parsePatterns(cfg.StringSlice("exclude"))

	// an include list turns the default around unless all_others says otherwise
	if len(r.include) > 0 {
		r.behaviourForAllOthers = FILES_BEHAVIOUR_EXCLUDE
	}

	switch strings.ToLower(cfg.String("all_others")) {
	case "include":
		r.behaviourForAllOthers = FILES_BEHAVIOUR_INCLUDE
	case "exclude":
		r.behaviourForAllOthers = FILES_BEHAVIOUR_EXCLUDE
	}

	return r
}

func parsePatterns(raw []string) []SinglePatternConfiguration {
	patterns := make([]SinglePatternConfiguration, 0, len(raw))

	for _, pattern := range raw {
		parsed, err := NewSinglePatternConfiguration(pattern)

		if err != nil {
			log.Errorf("Ignoring invalid file pattern %#q: %s", pattern, err)
			continue
		}

		patterns = append(patterns, *parsed)
	}

	return patterns
}
