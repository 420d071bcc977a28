package countries

type Config struct {
	PerPage       int `env:"COUNTRIES_PER_PAGE" env-default:"20" validate:"min=1,max=100"`
	FeaturedLimit int `env:"COUNTRIES_FEATURED_LIMIT" env-default:"6" validate:"min=1,max=50"`
	SearchLimit   int `env:"COUNTRIES_SEARCH_LIMIT" env-default:"20" validate:"min=1,max=100"`
}

// DefaultConfig mirrors the env defaults for callers that skip the loader.
func DefaultConfig() *Config {
	return &Config{
		PerPage:       20,
		FeaturedLimit: 6,
		SearchLimit:   20,
	}
}
