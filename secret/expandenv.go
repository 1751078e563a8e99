package secret

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands environment variables in s.
//
// Semantics:
//   - `$VAR` and `${VAR}` are expanded via os.ExpandEnv.
//   - A `${VAR}` whose VAR is absent from the environment is an error,
//     so a half-configured credential never resolves to an empty value.
//   - `$$` emits a literal `$`.
//
// Missing variables are reported once each, in order of appearance.
func ExpandEnvStrict(s string) (string, error) {
	const dollarSentinel = "\x00CONNECTOPS_SECRET_DOLLAR\x00"
	masked := strings.ReplaceAll(s, "$$", dollarSentinel)

	var missing []string
	seen := make(map[string]bool)
	for _, match := range envVarPattern.FindAllStringSubmatch(masked, -1) {
		key := match[1]
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := os.LookupEnv(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("secret: missing environment variables: %s", strings.Join(missing, ", "))
	}

	expanded := os.ExpandEnv(masked)
	return strings.ReplaceAll(expanded, dollarSentinel, "$"), nil
}
