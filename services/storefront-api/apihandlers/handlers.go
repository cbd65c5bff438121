package apihandlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	lojistaDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/lojista"
	supportDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/support"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LojistaStore is the subset of the lojista DB service the handlers need.
type LojistaStore interface {
	CreateLojista(newLojista *lojistaDB.LojistaAccount) (*lojistaDB.LojistaAccount, error)
	GetLojistaByEmail(email string) (*lojistaDB.LojistaAccount, error)
	GetLojistaByID(id string) (*lojistaDB.LojistaAccount, error)
	RedeemVerificationToken(token string) (*lojistaDB.LojistaAccount, error)
	SetVerificationToken(id string, token string) error
	SetPasswordResetToken(id string, token string, expiresAt time.Time) error
	RedeemPasswordResetToken(token string, newPasswordHash string, securityToken string) (*lojistaDB.LojistaAccount, error)
	LockBySecurityToken(token string) (*lojistaDB.LojistaAccount, error)
	SetTwoFactorSecret(id string, secret string) error
	EnableTwoFactor(id string) error
	DisableTwoFactor(id string) error
	UpdateLastLogin(id string) error
}

// SupportStore covers the ticket and notification writes triggered by
// security incidents.
type SupportStore interface {
	UpsertOpenTicket(lojistaID string, tipo string, descricao string) (*supportDB.Ticket, error)
	CreateNotification(notification supportDB.Notificacao) (*supportDB.Notificacao, error)
	GetNotificationsForLojista(lojistaID string) ([]supportDB.Notificacao, error)
	MarkNotificationRead(id string, lojistaID string) error
}

type HttpEndpoints struct {
	lojistaDBConn       LojistaStore
	supportDBConn       SupportStore
	tokenSignKey        string
	tokenExpiresIn      time.Duration
	masterPassword      string
	brandName           string
	confirmationPageURL string
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	lojistaDBConn LojistaStore,
	supportDBConn SupportStore,
	masterPassword string,
	brandName string,
	confirmationPageURL string,
) *HttpEndpoints {
	return &HttpEndpoints{
		lojistaDBConn:       lojistaDBConn,
		supportDBConn:       supportDBConn,
		tokenSignKey:        tokenSignKey,
		tokenExpiresIn:      tokenExpiresIn,
		masterPassword:      masterPassword,
		brandName:           brandName,
		confirmationPageURL: confirmationPageURL,
	}
}
