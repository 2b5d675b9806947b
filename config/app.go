package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	Host        string `env:"APP_HOST"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	Env         string `env:"APP_ENV" default:"dev"`
}
