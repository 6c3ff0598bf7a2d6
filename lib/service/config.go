package service

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	DatadogAgentUrl         string  `envconfig:"DATADOG_AGENT_URL"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	LogLevel                string  `envconfig:"LOG_LEVEL" default:"info"`
	JWTSecret               []byte  `envconfig:"JWT_SECRET" required:"true"`
	AdminToken              string  `envconfig:"ADMIN_TOKEN"`
	JWTSessionExpiry        int     `envconfig:"JWT_SESSION_EXPIRY" default:"86400"` // in seconds, default 1 day
	SecureCookies           bool    `envconfig:"SECURE_COOKIES" default:"false"`
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit        int     `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit         int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit          int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus        bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
	CacheTTL                int     `envconfig:"CACHE_TTL" default:"600"` // in seconds
	CacheCapacity           int     `envconfig:"CACHE_CAPACITY" default:"10000"`
	InvoicesPerPage         int     `envconfig:"INVOICES_PER_PAGE" default:"6"`
	WebhookUrl              string  `envconfig:"WEBHOOK_URL"`
	RabbitMQUri             string  `envconfig:"RABBITMQ_URI"`
	RabbitMQInvoiceExchange string  `envconfig:"RABBITMQ_INVOICE_EXCHANGE" default:"invoicehub_invoice"`
}
