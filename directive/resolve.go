package directive

import (
	"fmt"
	"os"
	"strings"
)

// EnvVar is the environment variable consulted before any directive supplied
// in code.
const EnvVar = "GO_LOG"

// FromEnv reads and parses the GO_LOG environment variable. The second
// return value is false when the variable is unset or does not parse.
func FromEnv() (Directive, bool) {
	v, ok := os.LookupEnv(EnvVar)
	if !ok {
		return Directive{}, false
	}
	d, err := Parse(v)
	if err != nil {
		return Directive{}, false
	}
	return d, true
}

// Resolve produces the effective directive: GO_LOG when it is set and valid,
// otherwise def. An invalid def is a configuration error and is the only
// failure Resolve can return.
func Resolve(def string) (Directive, error) {
	if d, ok := FromEnv(); ok {
		return d, nil
	}
	return Parse(def)
}

// PackageDirective builds a directive enabling level for both a library
// package and its binary namespace. The names are supplied by the embedding
// application's build step; dashes are normalized to underscores. When pkg
// and bin are the same a single clause is produced.
func PackageDirective(level, pkg, bin string) string {
	pkg = strings.ReplaceAll(pkg, "-", "_")
	bin = strings.ReplaceAll(bin, "-", "_")
	if pkg == bin {
		return fmt.Sprintf("%s=%s", pkg, level)
	}
	return fmt.Sprintf("%s=%s,%s=%s", pkg, level, bin, level)
}
