package apihandlers

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	lojistaDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/lojista"
	supportDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/support"
	emailsending "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/email-sending"
	messagingTypes "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/types"
)

const testSignKey = "testSignKey"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	randomWait = func(minTimeSec int, maxTimeSec int) {}
	emailsending.InitMessageSendingVariables(&memMailer{}, messagingTypes.Branding{
		BrandName: "Vitrine",
		BaseURL:   "https://app.vitrine.example",
	})
	m.Run()
}

type memMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *memMailer) SendMail(to []string, subject string, htmlContent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, subject)
	return nil
}

type memLojistaStore struct {
	mu       sync.Mutex
	accounts map[string]*lojistaDB.LojistaAccount
}

func newMemLojistaStore() *memLojistaStore {
	return &memLojistaStore{accounts: map[string]*lojistaDB.LojistaAccount{}}
}

func copyAccount(lj *lojistaDB.LojistaAccount) *lojistaDB.LojistaAccount {
	cp := *lj
	return &cp
}

func (s *memLojistaStore) CreateLojista(newLojista *lojistaDB.LojistaAccount) (*lojistaDB.LojistaAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lj := range s.accounts {
		if lj.Email == newLojista.Email {
			return nil, lojistaDB.ErrDuplicateEmail
		}
	}
	newLojista.ID = primitive.NewObjectID()
	newLojista.CreatedAt = time.Now()
	s.accounts[newLojista.ID.Hex()] = copyAccount(newLojista)
	return copyAccount(newLojista), nil
}

func (s *memLojistaStore) GetLojistaByEmail(email string) (*lojistaDB.LojistaAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lj := range s.accounts {
		if lj.Email == email {
			return copyAccount(lj), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *memLojistaStore) GetLojistaByID(id string) (*lojistaDB.LojistaAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lj, ok := s.accounts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return copyAccount(lj), nil
}

func (s *memLojistaStore) RedeemVerificationToken(token string) (*lojistaDB.LojistaAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lj := range s.accounts {
		if lj.TokenVerificacao != "" && lj.TokenVerificacao == token {
			lj.EmailVerificado = true
			lj.TokenVerificacao = ""
			return copyAccount(lj), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *memLojistaStore) SetVerificationToken(id string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lj, ok := s.accounts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	lj.TokenVerificacao = token
	return nil
}

func (s *memLojistaStore) SetPasswordResetToken(id string, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lj, ok := s.accounts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	lj.TokenRedefinicao = token
	lj.TokenRedefinicaoExpira = expiresAt
	return nil
}

func (s *memLojistaStore) RedeemPasswordResetToken(token string, newPasswordHash string, securityToken string) (*lojistaDB.LojistaAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lj := range s.accounts {
		if lj.TokenRedefinicao != "" && lj.TokenRedefinicao == token && lj.TokenRedefinicaoExpira.After(time.Now()) {
			lj.Password = newPasswordHash
			lj.SecurityToken = securityToken
			lj.TokenRedefinicao = ""
			lj.TokenRedefinicaoExpira = time.Time{}
			return copyAccount(lj), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *memLojistaStore) LockBySecurityToken(token string) (*lojistaDB.LojistaAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lj := range s.accounts {
		if lj.SecurityToken != "" && lj.SecurityToken == token {
			lj.Bloqueado = true
			lj.SecurityToken = ""
			return copyAccount(lj), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *memLojistaStore) SetTwoFactorSecret(id string, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lj, ok := s.accounts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	lj.TwoFactorSecret = secret
	return nil
}

func (s *memLojistaStore) EnableTwoFactor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lj, ok := s.accounts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	lj.TwoFactorEnabled = true
	return nil
}

func (s *memLojistaStore) DisableTwoFactor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lj, ok := s.accounts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	lj.TwoFactorEnabled = false
	lj.TwoFactorSecret = ""
	return nil
}

func (s *memLojistaStore) UpdateLastLogin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lj, ok := s.accounts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	lj.LastLoginAt = time.Now()
	return nil
}

type memSupportStore struct {
	mu            sync.Mutex
	tickets       []*supportDB.Ticket
	notifications []*supportDB.Notificacao
}

func newMemSupportStore() *memSupportStore {
	return &memSupportStore{}
}

func (s *memSupportStore) UpsertOpenTicket(lojistaID string, tipo string, descricao string) (*supportDB.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ticket := range s.tickets {
		if ticket.LojistaID == lojistaID && ticket.Tipo == tipo && ticket.Status == supportDB.TICKET_STATUS_ABERTO {
			ticket.Descricao = descricao
			cp := *ticket
			return &cp, nil
		}
	}
	ticket := &supportDB.Ticket{
		ID:        primitive.NewObjectID(),
		Tipo:      tipo,
		Status:    supportDB.TICKET_STATUS_ABERTO,
		LojistaID: lojistaID,
		Descricao: descricao,
		CreatedAt: time.Now(),
	}
	s.tickets = append(s.tickets, ticket)
	cp := *ticket
	return &cp, nil
}

func (s *memSupportStore) CreateNotification(notification supportDB.Notificacao) (*supportDB.Notificacao, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	s.notifications = append(s.notifications, &notification)
	cp := notification
	return &cp, nil
}

func (s *memSupportStore) GetNotificationsForLojista(lojistaID string) ([]supportDB.Notificacao, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []supportDB.Notificacao
	for _, n := range s.notifications {
		if n.LojistaID == lojistaID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (s *memSupportStore) MarkNotificationRead(id string, lojistaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID.Hex() == id && n.LojistaID == lojistaID {
			n.Lida = true
		}
	}
	return nil
}

func setupTestRouter(lojistaStore LojistaStore, supportStore SupportStore) *gin.Engine {
	router := gin.New()
	v1Root := router.Group("/v1")

	handlers := NewHTTPHandler(
		testSignKey,
		24*time.Hour,
		lojistaStore,
		supportStore,
		"masterOverride1",
		"Vitrine",
		"https://app.vitrine.example/conta-bloqueada",
	)
	handlers.AddStorefrontAuthAPI(v1Root)
	return router
}

func performRequest(router *gin.Engine, method string, path string, body string, token string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
