package config

import "github.com/abdul-hamid-achik/restmd/packages/core/state"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Shell:          "/bin/sh",
		Timeout:        state.DefaultTimeoutMs / 1000,
		Layout:         state.DefaultLayout.Orientation(),
		IncludeHeaders: BoolPtr(true),
		Translator:     TranslatorCurl,
		Parallel:       BoolPtr(false),
		Concurrency:    4,
		PrettyJSON:     BoolPtr(false),
		LogLevel:       "warn",
		LogFormat:      "text",
		NoColor:        BoolPtr(false),
		Curl: CurlConfig{
			Binary:          "curl",
			FollowRedirects: BoolPtr(false),
			Insecure:        BoolPtr(false),
		},
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	d := DefaultConfig()
	return c.Shell == d.Shell &&
		c.Timeout == d.Timeout &&
		c.Layout == d.Layout &&
		c.GetIncludeHeaders() == d.GetIncludeHeaders() &&
		c.Translator == d.Translator &&
		c.GetParallel() == d.GetParallel() &&
		c.Concurrency == d.Concurrency &&
		c.Rate == d.Rate &&
		c.GetPrettyJSON() == d.GetPrettyJSON() &&
		c.Output == d.Output &&
		c.EnvFile == d.EnvFile &&
		c.LogLevel == d.LogLevel &&
		c.LogFormat == d.LogFormat &&
		c.GetNoColor() == d.GetNoColor() &&
		c.Curl.Binary == d.Curl.Binary &&
		c.Curl.GetFollowRedirects() == d.Curl.GetFollowRedirects() &&
		c.Curl.GetInsecure() == d.Curl.GetInsecure() &&
		len(c.Curl.ExtraArgs) == 0
}
