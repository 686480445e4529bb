package config

import "time"

type Config struct {
	HTTPHost     string        `envconfig:"HTTP_HOST" default:""`
	HTTPPort     string        `envconfig:"HTTP_PORT" default:"3000"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"60s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10m"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	MaxUploadSize  int64    `envconfig:"MAX_UPLOAD_SIZE" default:"52428800"`

	TempDir             string        `envconfig:"TEMP_DIR" default:"./tmp"`
	StaleAfter          time.Duration `envconfig:"STALE_AFTER" default:"30m"`
	SweepSchedule       string        `envconfig:"SWEEP_SCHEDULE" default:"*/5 * * * *"`
	CleanupDelay        time.Duration `envconfig:"CLEANUP_DELAY" default:"1s"`
	MaxActiveWorkspaces int           `envconfig:"MAX_ACTIVE_WORKSPACES" default:"16"`
	ImageWorkers        int           `envconfig:"IMAGE_WORKERS" default:"8"`

	GatewayURL        string        `envconfig:"GATEWAY_URL" default:"https://api.products.aspose.app/words/conversion"`
	GatewayLocale     string        `envconfig:"GATEWAY_LOCALE" default:"en"`
	GatewayRetries    int           `envconfig:"GATEWAY_RETRIES" default:"2"`
	GatewayRetryDelay time.Duration `envconfig:"GATEWAY_RETRY_DELAY" default:"5s"`
	GatewayTimeout    time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"120s"`
}
