package apihandlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	adminDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/admin-user"
	supportDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/support"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AdminStore is the subset of the admin-user DB service the handlers need.
type AdminStore interface {
	CountAdmins() (int64, error)
	CreateMasterAdmin(email string, passwordHash string) (*adminDB.AdminAccount, error)
	CreatePendingAdmin(email string, passwordHash string) (*adminDB.AdminAccount, error)
	GetAdminByEmail(email string) (*adminDB.AdminAccount, error)
	GetAdminByID(id string) (*adminDB.AdminAccount, error)
	GetAllAdmins() ([]adminDB.AdminAccount, error)
	ApproveAdmin(id string) (*adminDB.AdminAccount, error)
	DeleteAdmin(id string) error
	SetResetToken(id string, token string, expiresAt time.Time) error
	RedeemResetToken(token string, newPasswordHash string) (*adminDB.AdminAccount, error)
	UpdateLastLogin(id string) error
}

// TicketStore covers the support-ticket surface of the admin API.
type TicketStore interface {
	GetTickets(status string) ([]supportDB.Ticket, error)
	ResolveTicket(id string) (*supportDB.Ticket, error)
}

// LojistaLockStore clears a security lock once the matching ticket is
// resolved.
type LojistaLockStore interface {
	ClearSecurityLock(id string) error
}

type HttpEndpoints struct {
	adminDBConn    AdminStore
	ticketDBConn   TicketStore
	lojistaDBConn  LojistaLockStore
	tokenSignKey   string
	tokenExpiresIn time.Duration
	masterPassword string
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	adminDBConn AdminStore,
	ticketDBConn TicketStore,
	lojistaDBConn LojistaLockStore,
	masterPassword string,
) *HttpEndpoints {
	return &HttpEndpoints{
		adminDBConn:    adminDBConn,
		ticketDBConn:   ticketDBConn,
		lojistaDBConn:  lojistaDBConn,
		tokenSignKey:   tokenSignKey,
		tokenExpiresIn: tokenExpiresIn,
		masterPassword: masterPassword,
	}
}
