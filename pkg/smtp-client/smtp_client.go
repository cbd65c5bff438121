package smtp_client

import (
	"crypto/tls"
	"net/smtp"

	"github.com/jordan-wright/email"

	messagingTypes "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/types"
)

type SmtpClient struct {
	config messagingTypes.SmtpConfig
	pool   *email.Pool
}

func NewSmtpClient(config messagingTypes.SmtpConfig) (*SmtpClient, error) {
	pool, err := connectToPool(config)
	if err != nil {
		return nil, err
	}
	return &SmtpClient{
		config: config,
		pool:   pool,
	}, nil
}

func connectToPool(config messagingTypes.SmtpConfig) (*email.Pool, error) {
	auth := smtp.PlainAuth(
		"",
		config.Username,
		config.Password,
		config.Host,
	)
	if config.Username == "" && config.Password == "" {
		auth = nil
	}

	tlsOpts := &tls.Config{
		InsecureSkipVerify: config.InsecureSkipVerify,
		ServerName:         config.Host,
	}

	return email.NewPool(config.Host+":"+config.Port, config.Connections, auth, tlsOpts)
}
