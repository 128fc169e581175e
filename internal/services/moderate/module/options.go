package module

import "reviewflow/internal/platform/config"

// Options holds configuration settings for the moderation module
type Options struct {
	Threshold int64
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	mf := cfg.Prefix("CORE_MODERATE_")
	return Options{
		Threshold: int64(mf.MayInt("THRESHOLD", 3)),
	}
}
