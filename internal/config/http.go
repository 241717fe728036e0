package config

type HTTP struct {
	Port            uint32   `env:"HTTP_PORT" envDefault:"8000"`
	Swagger         bool     `env:"HTTP_SWAGGER" envDefault:"true"`
	DefaultPageSize int      `env:"HTTP_DEFAULT_PAGE_SIZE" envDefault:"10"`
	CorsOrigins     []string `env:"HTTP_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}
