package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env             string `mapstructure:"env"`
		Build           string `mapstructure:"build"`
		Debug           bool   `mapstructure:"debug"`
		TestMode        bool   `mapstructure:"testmode"`
		AppName         string `mapstructure:"appname"`
		SecretKey       string `mapstructure:"secretkey"`
		FrontendBaseURL string `mapstructure:"frontendbaseurl"`
		RollbarToken    string `mapstructure:"rollbartoken"`
		LogFile         string `mapstructure:"logfile"` // rotated JSON logs, in addition to stdout

		Server   ServerConfig   `mapstructure:"server"`
		Database DatabaseConfig `mapstructure:"database"`
		Mail     MailConfig     `mapstructure:"mail"`
	}

	ServerConfig struct {
		Host                      string        `mapstructure:"host"`
		Address                   string        `mapstructure:"address"`
		DebugHost                 string        `mapstructure:"debughost"`
		DisableReqLogs            bool          `mapstructure:"disablereqlogs"`
		ShutdownTimeout           time.Duration `mapstructure:"shutdowntimeout"`
		JWTExpirationDelta        time.Duration `mapstructure:"jwtexpirationdelta"`
		JWTRefreshExpirationDelta time.Duration `mapstructure:"jwtrefreshexpirationdelta"`
	}

	DatabaseConfig struct {
		Engine        string        `mapstructure:"engine"`
		Host          string        `mapstructure:"host"`
		Port          string        `mapstructure:"port"`
		Name          string        `mapstructure:"name"`
		User          string        `mapstructure:"user"`
		Password      string        `mapstructure:"password"`
		AdminUser     string        `mapstructure:"adminuser"`
		AdminPassword string        `mapstructure:"adminpassword"`
		DisableTLS    bool          `mapstructure:"disabletls"`
		FetchTimeout  time.Duration `mapstructure:"fetchtimeout"`
	}

	MailConfig struct {
		SendgridAPIKey   string `mapstructure:"sendgridapikey"`
		DefaultFromName  string `mapstructure:"defaultfromname"`
		DefaultFromEmail string `mapstructure:"defaultfromemail"`
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

func (mc MailConfig) DefaultFrom() mail.Address {
	return mail.Address{Name: mc.DefaultFromName, Address: mc.DefaultFromEmail}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Masomo Insights")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:8080")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("logFile", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "masomo")
	v.SetDefault("database.user", "masomo")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.fetchTimeout", 10*time.Second)

	v.SetDefault("mail.sendgridAPIKey", "")
	v.SetDefault("mail.defaultFromName", "Masomo")
	v.SetDefault("mail.defaultFromEmail", "noreply@localhost")
}

// NewConfig reads the configuration from defaults, an optional `config/.env.<env>` file
// and the environment, in increasing order of priority.
// Environment variables are prefixed with the current ENV, eg. PROD_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("debug", false)
	case "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		log.Fatalf("config.Unmarshal: %v", err)
	}
	conf.Env = env
	return conf
}
