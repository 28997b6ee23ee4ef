package config

import (
	"os"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

func Init(filepath string) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		panic(err)
	}

	var conf ServiceConf
	if err := yaml.Unmarshal(content, &conf); err != nil {
		panic(err)
	}

	if err := validator.New().Struct(&conf); err != nil {
		panic(err)
	}
	globalConfig = conf

	hlog.Debugf("config debug: %+v", globalConfig)
}

func GetMySQLConf() MySQLConf {
	return globalConfig.MySQL
}

func GetRedisConf() RedisConf {
	return globalConfig.Redis
}

func GetLoggerConf() LoggerConf {
	return globalConfig.Logger
}

func GetPurgeConf() PurgeConf {
	return globalConfig.Purge
}

func GetMediaConf() MediaConf {
	return globalConfig.Media
}

func GetUploadsConf() UploadsConf {
	return globalConfig.Uploads
}

func GetMinioConf() MinioConf {
	return globalConfig.Minio
}

func GetSessionConf() SessionConf {
	return globalConfig.Session
}

func GetHookConf() HookConf {
	return globalConfig.Hook
}

var globalConfig ServiceConf

type ServiceConf struct {
	MySQL   MySQLConf   `yaml:"mysql"`
	Redis   RedisConf   `yaml:"redis"`
	Logger  LoggerConf  `yaml:"logger"`
	Purge   PurgeConf   `yaml:"purge"`
	Media   MediaConf   `yaml:"media"`
	Uploads UploadsConf `yaml:"uploads"`
	Minio   MinioConf   `yaml:"minio"`
	Session SessionConf `yaml:"session"`
	Hook    HookConf    `yaml:"hook"`
}

type MySQLConf struct {
	DBName   string `yaml:"db_name"`
	IP       string `yaml:"ip"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type RedisConf struct {
	IP       string `yaml:"ip"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

type LoggerConf struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=trace debug info notice warn error fatal"`
	Dir        string `yaml:"dir"`
	FileName   string `yaml:"file_name"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

type PurgeConf struct {
	// PostBatchSize bounds each read of a user's post index.
	PostBatchSize int `yaml:"post_batch_size" validate:"gte=0"`
	// TopicBatchSize bounds each read of a user's topic index.
	TopicBatchSize int `yaml:"topic_batch_size" validate:"gte=0"`
	// QueueBatchSize bounds each read of the global post queue.
	QueueBatchSize int `yaml:"queue_batch_size" validate:"gte=0"`

	// GuardBackend is "memory" (single process) or "redis" (shared lease).
	GuardBackend     string `yaml:"guard_backend" validate:"omitempty,oneof=memory redis"`
	GuardLeaseSecond int    `yaml:"guard_lease_seconds" validate:"gte=0"`

	HookTimeoutSecond int `yaml:"hook_timeout_seconds" validate:"gte=0"`
	// Audit enables the mysql deletion audit trail.
	Audit bool `yaml:"audit"`
}

type MediaConf struct {
	// Backend is "local" or "minio".
	Backend string `yaml:"backend" validate:"omitempty,oneof=local minio"`
	// Root is a directory for the local backend and an object prefix for minio.
	Root   string `yaml:"root"`
	Bucket string `yaml:"bucket"`
}

type UploadsConf struct {
	Backend string `yaml:"backend" validate:"omitempty,oneof=local minio"`
	Root    string `yaml:"root"`
	Bucket  string `yaml:"bucket"`
}

type MinioConf struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type SessionConf struct {
	StorePrefix string `yaml:"store_prefix"`
}

type HookConf struct {
	AMQPURL  string `yaml:"amqp_url" validate:"omitempty,url"`
	Exchange string `yaml:"exchange"`
}
