package config

import (
	"fmt"
	"os"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template), 0o600)
}

// Template documents every key with its default value.
const Template = `[decode]
# 0 disables a limit.
max_depth = 256
max_packets = 65536
max_input_nibbles = 1048576

[server]
name = "bitsctl"
addr = ":9400"
cors_origins = ["http://localhost:3000"]

[log]
# trace | debug | info | warn | error | off
level = "info"
`
