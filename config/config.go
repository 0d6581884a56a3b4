package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config 扁平化配置结构体
type Config struct {
	// 服务器配置
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`

	// 数据库配置
	DBType              string        `mapstructure:"db_type"`
	DBHost              string        `mapstructure:"db_host"`
	DBPort              int           `mapstructure:"db_port"`
	DBUsername          string        `mapstructure:"db_username"`
	DBPassword          string        `mapstructure:"db_password"`
	DBName              string        `mapstructure:"db_name"`
	DBFilePath          string        `mapstructure:"db_file_path"`
	DBMaxOpenConns      int           `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns      int           `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime   int           `mapstructure:"db_conn_max_lifetime"`
	DBConnectRetries    int           `mapstructure:"db_connect_retries"`
	DBConnectRetryDelay time.Duration `mapstructure:"db_connect_retry_delay"`

	// 会话配置
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// 上传配置
	UploadDir       string `mapstructure:"upload_dir"`
	UploadMaxSizeMB int    `mapstructure:"upload_max_size_mb"`
	UploadMaxFiles  int    `mapstructure:"upload_max_files"`
	UploadDirMaxMB  int64  `mapstructure:"upload_dir_max_mb"`

	// 存储配置
	StorageType          string `mapstructure:"storage_type"`
	StorageMinioEndpoint string `mapstructure:"storage_minio_endpoint"`
	StorageMinioAccess   string `mapstructure:"storage_minio_access_key"`
	StorageMinioSecret   string `mapstructure:"storage_minio_secret_key"`
	StorageMinioBucket   string `mapstructure:"storage_minio_bucket"`
	StorageMinioUseSSL   bool   `mapstructure:"storage_minio_use_ssl"`

	// 缓存配置
	CacheType          string `mapstructure:"cache_type"`
	CacheRedisAddr     string `mapstructure:"cache_redis_addr"`
	CacheRedisPassword string `mapstructure:"cache_redis_password"`
	CacheRedisDB       int    `mapstructure:"cache_redis_db"`
	CacheGifTTL        int    `mapstructure:"cache_gif_ttl"`

	// 限流配置
	RateLimitApiRPS     float64       `mapstructure:"rate_limit_api_rps"`
	RateLimitApiBurst   int           `mapstructure:"rate_limit_api_burst"`
	RateLimitAuthRPS    float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst  int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Info: .env file not found, using defaults and environment variables")
	} else {
		fmt.Fprintln(os.Stderr, "Info: Loaded configuration from .env file")
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
}

// setDefaults 设置默认值
func setDefaults() {
	// 服务器配置默认值
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 3000)
	viper.SetDefault("server_domain", "")
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "30s")
	viper.SetDefault("server_idle_timeout", "120s")

	// 数据库配置默认值
	viper.SetDefault("db_type", "sqlite")
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_username", "postgres")
	viper.SetDefault("db_password", "")
	viper.SetDefault("db_name", "gif-bed")
	viper.SetDefault("db_file_path", "")
	viper.SetDefault("db_max_open_conns", 10)
	viper.SetDefault("db_max_idle_conns", 5)
	viper.SetDefault("db_conn_max_lifetime", 3600)
	viper.SetDefault("db_connect_retries", 5)
	viper.SetDefault("db_connect_retry_delay", "3s")

	// 会话配置默认值
	viper.SetDefault("session_ttl", "168h") // 7天

	// 上传配置默认值
	viper.SetDefault("upload_dir", "./uploads")
	viper.SetDefault("upload_max_size_mb", 50)
	viper.SetDefault("upload_max_files", 10)
	viper.SetDefault("upload_dir_max_mb", 0) // 0 表示不限制

	// 存储配置默认值
	viper.SetDefault("storage_type", "local")
	viper.SetDefault("storage_minio_endpoint", "localhost:9000")
	viper.SetDefault("storage_minio_access_key", "")
	viper.SetDefault("storage_minio_secret_key", "")
	viper.SetDefault("storage_minio_bucket", "gifs")
	viper.SetDefault("storage_minio_use_ssl", false)

	// 缓存配置默认值
	viper.SetDefault("cache_type", "memory")
	viper.SetDefault("cache_redis_addr", "localhost:6379")
	viper.SetDefault("cache_redis_password", "")
	viper.SetDefault("cache_redis_db", 0)
	viper.SetDefault("cache_gif_ttl", 3600)

	// 限流配置默认值
	viper.SetDefault("rate_limit_api_rps", 30.0)
	viper.SetDefault("rate_limit_api_burst", 60)
	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
	viper.SetDefault("rate_limit_expire_time", "10m")
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 3000
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL 返回基础 URL，用于生成分享链接
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return c.ServerDomain
	}
	// 默认使用 localhost
	host := c.ServerHost
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}

// MaxFileSizeBytes 返回单文件大小上限（字节）
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.UploadMaxSizeMB) << 20
}

// UploadDirMaxBytes 返回上传目录容量上限（字节），0 表示不限
func (c *Config) UploadDirMaxBytes() int64 {
	return c.UploadDirMaxMB << 20
}
