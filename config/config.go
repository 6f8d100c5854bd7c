package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 应用程序配置
type Config struct {
	APIPort   int
	LogLevel  string
	LogFile   LogFileConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Translate TranslateConfig
	Speech    SpeechConfig
	Retention RetentionConfig
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Enabled    bool   // 是否写入文件
	Path       string // 日志文件路径
	MaxSize    int    // 单个文件最大大小，单位MB
	MaxBackups int    // 最大保留旧文件数量
	MaxAge     int    // 最大保留天数
	Compress   bool   // 是否压缩
}

// DatabaseConfig MySQL数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

// TranslateConfig 翻译网关配置
type TranslateConfig struct {
	APIServer string // 翻译API服务器地址
	Timeout   int    // 单次请求超时时间，单位秒
}

// SpeechConfig 语音服务配置
type SpeechConfig struct {
	TTSServer string // 文本转语音服务地址
	STTServer string // 语音转文本服务地址
	APIKey    string // 服务访问密钥
	Voice     string // 默认音色
}

// RetentionConfig 数据保留配置
type RetentionConfig struct {
	InstructionDays int // 指令保留天数
	SoundEventDays  int // 声音事件保留天数
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// 加载.env文件
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	return &Config{
		APIPort:  envInt("API_PORT", 8080),
		LogLevel: os.Getenv("LOG_LEVEL"),
		LogFile: LogFileConfig{
			Enabled:    os.Getenv("LOG_FILE_ENABLED") == "true",
			Path:       os.Getenv("LOG_FILE_PATH"),
			MaxSize:    envInt("LOG_FILE_MAX_SIZE", 100),
			MaxBackups: envInt("LOG_FILE_MAX_BACKUPS", 7),
			MaxAge:     envInt("LOG_FILE_MAX_AGE", 30),
			Compress:   os.Getenv("LOG_FILE_COMPRESS") == "true",
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     envInt("DB_PORT", 3306),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     envInt("REDIS_PORT", 6379),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Translate: TranslateConfig{
			APIServer: envDefault("TRANSLATE_API_SERVER", "https://api.mymemory.translated.net"),
			Timeout:   envInt("TRANSLATE_TIMEOUT", 8),
		},
		Speech: SpeechConfig{
			TTSServer: os.Getenv("SPEECH_TTS_SERVER"),
			STTServer: os.Getenv("SPEECH_STT_SERVER"),
			APIKey:    os.Getenv("SPEECH_API_KEY"),
			Voice:     envDefault("SPEECH_VOICE", "alloy"),
		},
		Retention: RetentionConfig{
			InstructionDays: envInt("RETENTION_INSTRUCTION_DAYS", 90),
			SoundEventDays:  envInt("RETENTION_SOUND_EVENT_DAYS", 30),
		},
	}, nil
}

// envInt 读取整型环境变量，解析失败时返回默认值
func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// envDefault 读取环境变量，为空时返回默认值
func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
