package cfgloader

import (
	"fmt"
	"log/slog"

	"github.com/rise-and-shine/lambdakit/mask"
	"gopkg.in/yaml.v3"
)

// printConfig writes the loaded config with `mask:"true"` fields hidden.
func printConfig(config any) {
	out, err := yaml.Marshal(mask.Event(config))
	if err != nil {
		slog.Error("[cfgloader]: failed to marshal config", "error", err.Error())
		return
	}
	slog.Info(fmt.Sprintf("[cfgloader]: loaded config:\n%s", string(out)))
}
