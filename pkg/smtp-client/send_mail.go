package smtp_client

import (
	"log/slog"
	"net/textproto"
	"time"

	"github.com/jordan-wright/email"
)

func (sc *SmtpClient) SendMail(
	to []string,
	subject string,
	htmlContent string,
) error {
	replyTo := []string{}
	if sc.config.ReplyTo != "" {
		replyTo = append(replyTo, sc.config.ReplyTo)
	}

	e := &email.Email{
		To:      to,
		From:    sc.config.From,
		ReplyTo: replyTo,
		Subject: subject,
		HTML:    []byte(htmlContent),
		Headers: textproto.MIMEHeader{},
	}
	err := sc.pool.Send(e, time.Second*time.Duration(sc.config.SendTimeout))
	if err != nil {
		// close and try to reconnect
		slog.Error("error when trying to send email", slog.String("error", err.Error()))

		pool, errReconnect := connectToPool(sc.config)
		if errReconnect != nil {
			slog.Error("cannot reconnect pool", slog.String("error", errReconnect.Error()), slog.String("server", sc.config.Host))
		} else {
			slog.Info("reconnected to pool", slog.String("server", sc.config.Host))
			sc.pool = pool
		}
	}
	return err
}
