package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	"github.com/vitrine-commerce/vitrine-backend/pkg/db"
	emailsending "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/email-sending"
	messagingTypes "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/types"
	smtpclient "github.com/vitrine-commerce/vitrine-backend/pkg/smtp-client"
	"github.com/vitrine-commerce/vitrine-backend/pkg/user-management/pwhash"
	"github.com/vitrine-commerce/vitrine-backend/pkg/utils"

	lojistaDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/lojista"
	supportDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/support"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_LOJISTA_DB_USERNAME = "LOJISTA_DB_USERNAME"
	ENV_LOJISTA_DB_PASSWORD = "LOJISTA_DB_PASSWORD"
	ENV_SUPPORT_DB_USERNAME = "SUPPORT_DB_USERNAME"
	ENV_SUPPORT_DB_PASSWORD = "SUPPORT_DB_PASSWORD"

	ENV_LOJISTA_JWT_SIGN_KEY = "LOJISTA_JWT_SIGN_KEY"
	ENV_MASTER_PASSWORD      = "MASTER_PASSWORD"
	ENV_SMTP_PASSWORD        = "SMTP_PASSWORD"
)

type StorefrontApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	// user management configs
	UserManagementConfig struct {
		PWHashing struct {
			BcryptCost int `json:"bcrypt_cost" yaml:"bcrypt_cost"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		LojistaJWTConfig struct {
			SignKey   string        `json:"sign_key" yaml:"sign_key"`
			ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
		} `json:"lojista_jwt_config" yaml:"lojista_jwt_config"`
		MasterPassword string `json:"master_password" yaml:"master_password"`
	} `json:"user_management_config" yaml:"user_management_config"`

	// DB configs
	DBConfigs struct {
		LojistaDB db.DBConfigYaml `json:"lojista_db" yaml:"lojista_db"`
		SupportDB db.DBConfigYaml `json:"support_db" yaml:"support_db"`
	} `json:"db_configs" yaml:"db_configs"`

	MessagingConfigs struct {
		Smtp                messagingTypes.SmtpConfig `json:"smtp" yaml:"smtp"`
		Branding            messagingTypes.Branding   `json:"branding" yaml:"branding"`
		ConfirmationPageURL string                    `json:"confirmation_page_url" yaml:"confirmation_page_url"`
	} `json:"messaging_configs" yaml:"messaging_configs"`
}

var (
	lojistaDBService *lojistaDB.LojistaDBService
	supportDBService *supportDB.SupportDBService
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
	)

	// Override secrets from environment variables
	secretsOverride()

	// Init DBs
	initDBs()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// init bcrypt
	pwhash.InitBcryptParams(conf.UserManagementConfig.PWHashing.BcryptCost)

	// init message sending
	initMessageSendingConfig()

	if conf.UserManagementConfig.LojistaJWTConfig.SignKey == "" {
		panic("lojista JWT sign key not set")
	}
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_LOJISTA_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.LojistaDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_LOJISTA_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.LojistaDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_SUPPORT_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.SupportDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_SUPPORT_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.SupportDB.Password = dbPassword
	}

	if jwtSignKey := os.Getenv(ENV_LOJISTA_JWT_SIGN_KEY); jwtSignKey != "" {
		conf.UserManagementConfig.LojistaJWTConfig.SignKey = jwtSignKey
	}

	if masterPassword := os.Getenv(ENV_MASTER_PASSWORD); masterPassword != "" {
		conf.UserManagementConfig.MasterPassword = masterPassword
	}

	if smtpPassword := os.Getenv(ENV_SMTP_PASSWORD); smtpPassword != "" {
		conf.MessagingConfigs.Smtp.Password = smtpPassword
	}
}

func initDBs() {
	var err error
	lojistaDBService, err = lojistaDB.NewLojistaDBService(db.DBConfigFromYamlObj(conf.DBConfigs.LojistaDB))
	if err != nil {
		slog.Error("Error connecting to Lojista DB", slog.String("error", err.Error()))
		panic(err)
	}

	supportDBService, err = supportDB.NewSupportDBService(db.DBConfigFromYamlObj(conf.DBConfigs.SupportDB))
	if err != nil {
		slog.Error("Error connecting to Support DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func initMessageSendingConfig() {
	smtpClient, err := smtpclient.NewSmtpClient(conf.MessagingConfigs.Smtp)
	if err != nil {
		slog.Error("Error connecting to SMTP server", slog.String("error", err.Error()))
		panic(err)
	}

	emailsending.InitMessageSendingVariables(
		smtpClient,
		conf.MessagingConfigs.Branding,
	)
}
