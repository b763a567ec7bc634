package defaults

import (
	"fmt"
	"time"

	"github.com/sahib/config"
)

func durationValidator(val interface{}) error {
	s, ok := val.(string)
	if !ok {
		return fmt.Errorf("duration is not a string: %v", val)
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	if dur <= 0 {
		return fmt.Errorf("duration must be positive: %s", s)
	}

	return nil
}

func enumValidator(choices ...string) func(val interface{}) error {
	return func(val interface{}) error {
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("value is not a string: %v", val)
		}

		for _, choice := range choices {
			if s == choice {
				return nil
			}
		}

		return fmt.Errorf("`%s` is not one of %v", s, choices)
	}
}

// DefaultsV0 is the default config validation for grass
var DefaultsV0 = config.DefaultMapping{
	"shell": config.DefaultMapping{
		"prompt": config.DefaultEntry{
			Default:      "> ",
			NeedsRestart: true,
			Docs:         "Prompt shown when waiting for input.",
		},
		"history_file": config.DefaultEntry{
			Default:      "~/.config/grass/history",
			NeedsRestart: true,
			Docs:         "Where the input history is stored. Empty disables it.",
		},
		"legacy_matching": config.DefaultEntry{
			Default:      false,
			NeedsRestart: true,
			Docs:         "Recognize get/put/exit anywhere in a line, not only as first word.",
		},
		"drain_grace": config.DefaultEntry{
			Default:      "25ms",
			NeedsRestart: true,
			Docs:         "How long to wait for more output of the peer after a reply arrived.",
			Validator:    durationValidator,
		},
		"color": config.DefaultEntry{
			Default:      true,
			NeedsRestart: true,
			Docs:         "Use colors for output (never used when stdout is not a terminal).",
		},
	},
	"transfer": config.DefaultMapping{
		"directory": config.DefaultEntry{
			Default:      ".",
			NeedsRestart: true,
			Docs:         "Directory where downloads are stored and uploads are read from.",
		},
		"progress": config.DefaultEntry{
			Default:      false,
			NeedsRestart: true,
			Docs:         "Show a progress bar on stderr for every transfer.",
		},
	},
	"journal": config.DefaultMapping{
		"enabled": config.DefaultEntry{
			Default:      true,
			NeedsRestart: true,
			Docs:         "Remember finished transfers (see »grass history«).",
		},
		"path": config.DefaultEntry{
			Default:      "~/.config/grass/journal",
			NeedsRestart: true,
			Docs:         "Directory of the transfer journal database.",
		},
	},
	"log": config.DefaultMapping{
		"level": config.DefaultEntry{
			Default:      "warning",
			NeedsRestart: true,
			Docs:         "Minimum severity of log messages (debug, info, warning, error).",
			Validator:    enumValidator("debug", "info", "warning", "error"),
		},
	},
}
