package apihandlers

import (
	"net/http"
	"testing"

	lojistaDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/lojista"
	supportDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/support"
)

func TestSecurityReport(t *testing.T) {
	store := newMemLojistaStore()
	supportStore := newMemSupportStore()
	router := setupTestRouter(store, supportStore)
	acc := seedLojista(t, store, lojistaDB.LojistaAccount{
		Email:           "maria@example.com",
		Password:        mustHash(t, "senhaSegura1"),
		Nome:            "Maria",
		EmailVerificado: true,
		SecurityToken:   "securityToken1",
	})

	w := performRequest(router, http.MethodGet, "/v1/auth/security-report?token=securityToken1", "", "")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "https://app.vitrine.example/conta-bloqueada" {
		t.Errorf("unexpected redirect target: %s", loc)
	}

	after, err := store.GetLojistaByID(acc.ID.Hex())
	if err != nil {
		t.Fatalf("failed to fetch account: %v", err)
	}
	if !after.Bloqueado {
		t.Error("expected account to be locked")
	}
	if after.SecurityToken != "" {
		t.Error("expected security token to be cleared")
	}

	if len(supportStore.tickets) != 1 {
		t.Fatalf("expected exactly one ticket, got %d", len(supportStore.tickets))
	}
	ticket := supportStore.tickets[0]
	if ticket.Tipo != supportDB.TICKET_TYPE_COMPROMISSO_CONTA || ticket.Status != supportDB.TICKET_STATUS_ABERTO {
		t.Errorf("unexpected ticket: %+v", ticket)
	}
	if ticket.LojistaID != acc.ID.Hex() {
		t.Errorf("ticket references wrong lojista: %s", ticket.LojistaID)
	}

	if len(supportStore.notifications) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(supportStore.notifications))
	}
	if supportStore.notifications[0].Tipo != supportDB.NOTIFICATION_TYPE_SEGURANCA {
		t.Errorf("unexpected notification type: %s", supportStore.notifications[0].Tipo)
	}

	t.Run("second report with the same token fails", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/v1/auth/security-report?token=securityToken1", "", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		if len(supportStore.tickets) != 1 {
			t.Errorf("no additional ticket may be created, got %d", len(supportStore.tickets))
		}
	})

	t.Run("unknown token fails", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/v1/auth/security-report?token=neverIssued", "", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
