package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database    Database    `json:"database"`
	App         App         `json:"app"`
	RedisClient RedisClient `json:"redisClient"`
	TikTok      TikTok      `json:"tiktok"`
	Scraper     Scraper     `json:"scraper"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

// TikTok holds research API credentials, endpoints and the standing search
// query (monitored usernames, hashtags and region codes).
type TikTok struct {
	ClientKey    string   `json:"clientKey"`
	ClientSecret string   `json:"clientSecret"`
	TokenURL     string   `json:"tokenURL"`
	QueryURL     string   `json:"queryURL"`
	DetailURL    string   `json:"detailURL"`
	UserURL      string   `json:"userURL"`
	Usernames    []string `json:"usernames"`
	Hashtags     []string `json:"hashtags"`
	RegionCodes  []string `json:"regionCodes"`
}

// Scraper holds pipeline tuning knobs. The defaults mirror the upstream rate
// limit contract: one request in flight, 10s cooldown after a transient
// error, session halt after 20 consecutive transient errors.
type Scraper struct {
	BatchSize           int `json:"batchSize"`
	EnqueueBatchSize    int `json:"enqueueBatchSize"`
	MaxCount            int `json:"maxCount"`
	TransportRetries    int `json:"transportRetries"`
	KillSwitchThreshold int `json:"killSwitchThreshold"`
	CooldownSeconds     int `json:"cooldownSeconds"`
	RequestTimeoutSecs  int `json:"requestTimeoutSecs"`
	Workers             int `json:"workers"`
	CacheTTLHours       int `json:"cacheTTLHours"`
	TestLimit           int `json:"testLimit"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initTikTok(&C)
	initScraper(&C)
	initApp(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = "localhost"
	}
}

func initTikTok(C *Config) {
	// Credentials come from the environment in every deployment; config file
	// values exist for local development only.
	if v := os.Getenv("TT_API_CLIENT_KEY"); v != "" {
		C.TikTok.ClientKey = v
	}
	if v := os.Getenv("TT_API_CLIENT_SECRET"); v != "" {
		C.TikTok.ClientSecret = v
	}
	if C.TikTok.TokenURL == "" {
		C.TikTok.TokenURL = "https://open.tiktokapis.com/v2/oauth/token/"
	}
	if C.TikTok.QueryURL == "" {
		C.TikTok.QueryURL = "https://open.tiktokapis.com/v2/research/video/query/"
	}
	if C.TikTok.DetailURL == "" {
		C.TikTok.DetailURL = "https://open.tiktokapis.com/v2/research/video/detail/"
	}
	if C.TikTok.UserURL == "" {
		C.TikTok.UserURL = "https://open.tiktokapis.com/v2/research/user/info/"
	}
	if len(C.TikTok.RegionCodes) == 0 {
		C.TikTok.RegionCodes = []string{"DE", "de", "AT", "at", "CH", "ch"}
	}
}

func initScraper(C *Config) {
	if C.Scraper.BatchSize <= 0 {
		C.Scraper.BatchSize = 500
	}
	if C.Scraper.EnqueueBatchSize <= 0 {
		C.Scraper.EnqueueBatchSize = 5000
	}
	if C.Scraper.MaxCount <= 0 {
		C.Scraper.MaxCount = 100
	}
	if C.Scraper.TransportRetries <= 0 {
		C.Scraper.TransportRetries = 3
	}
	if C.Scraper.KillSwitchThreshold <= 0 {
		C.Scraper.KillSwitchThreshold = 20
	}
	if C.Scraper.CooldownSeconds <= 0 {
		C.Scraper.CooldownSeconds = 10
	}
	if C.Scraper.RequestTimeoutSecs <= 0 {
		C.Scraper.RequestTimeoutSecs = 30
	}
	if C.Scraper.Workers <= 0 {
		C.Scraper.Workers = 1
	}
	if C.Scraper.CacheTTLHours <= 0 {
		C.Scraper.CacheTTLHours = 24
	}
	if C.Scraper.TestLimit <= 0 {
		C.Scraper.TestLimit = 10
	}
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
}

// PsqlDSN renders the gorm/pgx connection string for the configured database.
func (c *Config) PsqlDSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", c.Database.Psql.Host),
		fmt.Sprintf("port=%s", c.Database.Psql.Port),
		fmt.Sprintf("user=%s", c.Database.Psql.User),
		fmt.Sprintf("dbname=%s", c.Database.Psql.Name),
		"sslmode=disable",
	}
	if c.Database.Psql.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", c.Database.Psql.Password))
	}
	return strings.Join(parts, " ")
}
