package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	def := defaultConfig()
	return &Config{
		API: APIConfig{
			Endpoint:     "http://127.0.0.1:0/api/blogs",
			Format:       FormatJSON,
			HTTPTimeout:  5 * time.Second,
			UserAgent:    "blogr-test/1.0",
			FallbackScan: true,
		},
		Listing: def.Listing,
		Search:  def.Search,
		UI:      def.UI,
		Media:   def.Media,
		Log:     LogConfig{Level: "off"},
	}
}
