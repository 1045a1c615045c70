package config

import (
	"os"
	"strings"
)

// secretFields lists the settings that may reference the environment
func secretFields(cfg *Config) []*string {
	return []*string{
		&cfg.Devpool.Token,
		&cfg.Social.Endpoint,
		&cfg.Social.Token,
		&cfg.Xref.Path,
	}
}

// expandConfigEnvVars resolves ${NAME} references in secretFields
func expandConfigEnvVars(cfg *Config) {
	for _, f := range secretFields(cfg) {
		*f = expandEnvVars(*f)
	}
}

// expandEnvVars substitutes ${NAME} and ${NAME:-fallback}. A reference to an
// unset or empty variable without a fallback is left as written.
func expandEnvVars(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			break
		}
		end += start

		b.WriteString(s[:start])
		name, fallback, hasFallback := strings.Cut(s[start+2:end], ":-")
		switch value := os.Getenv(name); {
		case value != "":
			b.WriteString(value)
		case hasFallback:
			b.WriteString(fallback)
		default:
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}
