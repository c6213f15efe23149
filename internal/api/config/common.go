package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Cron     CronConfig     `mapstructure:"cron"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver      string `mapstructure:"driver"` // mysql, postgres, sqlite
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// SessionConfig Cookie 会话配置
type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
	MaxAge int    `mapstructure:"max_age"` // 秒
	Secure bool   `mapstructure:"secure"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Issuer     string `mapstructure:"issuer"`
	Expiration int    `mapstructure:"expiration"` // 小时
}

type KafkaConfig struct {
	Enable        bool           `mapstructure:"enable"`
	Brokers       []string       `mapstructure:"brokers"`
	Sasl          SaslConfig     `mapstructure:"sasl"`
	Consumer      ConsumerConfig `mapstructure:"consumer"`
	CommentTopic  string         `mapstructure:"comment_topic"`
	NotifyGroupID string         `mapstructure:"notify_group_id"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type MongoConfig struct {
	Enable   bool   `mapstructure:"enable"`
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
	Level   string `mapstructure:"level"`
}

type CronConfig struct {
	CommentCountSpec string `mapstructure:"comment_count_spec"`
}
