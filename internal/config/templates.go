package config

import (
	"fmt"
	"os"
)

// Template returns a commented config.toml with every supported key.
func Template() string {
	return template
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const template = `# pktdecode configuration

# trace | debug | info | warn | error | off
log_level = "info"

# plain | table
format = "plain"

# inputs are '0'/'1' strings instead of hex
binary = false

# print the decoded packet tree under each result
tree = false

# deepest packet nesting accepted, 0 = 1024, at most 65536
max_depth = 1024

# literal 5-bit groups per packet, 0 = unlimited
max_literal_groups = 0

# Prometheus text exposition written at exit, empty to disable
metrics_textfile = ""
`
