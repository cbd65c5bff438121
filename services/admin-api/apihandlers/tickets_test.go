package apihandlers

import (
	"net/http"
	"testing"

	supportDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/support"
)

func TestResolveCompromiseTicketClearsLock(t *testing.T) {
	store := newMemAdminStore()
	ticketStore := newMemTicketStore()
	lockStore := newMemLojistaLockStore()
	router := setupTestRouter(store, ticketStore, lockStore)

	master, err := store.CreateMasterAdmin("a@x.com", mustHash(t, "secret1"))
	if err != nil {
		t.Fatalf("failed to seed master: %v", err)
	}
	token := adminToken(t, master.ID.Hex())

	lockStore.locked["lojista1"] = true
	ticket := ticketStore.addTicket("lojista1", supportDB.TICKET_TYPE_COMPROMISSO_CONTA)

	w := performRequest(router, http.MethodPatch, "/v1/tickets/"+ticket.ID.Hex()+"/resolve", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if lockStore.locked["lojista1"] {
		t.Error("expected security lock to be cleared")
	}

	t.Run("second resolution fails", func(t *testing.T) {
		w := performRequest(router, http.MethodPatch, "/v1/tickets/"+ticket.ID.Hex()+"/resolve", "", token)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for already resolved ticket, got %d", w.Code)
		}
	})
}

func TestResolveOtherTicketTypeDoesNotUnlock(t *testing.T) {
	store := newMemAdminStore()
	ticketStore := newMemTicketStore()
	lockStore := newMemLojistaLockStore()
	router := setupTestRouter(store, ticketStore, lockStore)

	master, err := store.CreateMasterAdmin("a@x.com", mustHash(t, "secret1"))
	if err != nil {
		t.Fatalf("failed to seed master: %v", err)
	}
	token := adminToken(t, master.ID.Hex())

	lockStore.locked["lojista1"] = true
	ticket := ticketStore.addTicket("lojista1", "cobranca")

	w := performRequest(router, http.MethodPatch, "/v1/tickets/"+ticket.ID.Hex()+"/resolve", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !lockStore.locked["lojista1"] {
		t.Error("resolving an unrelated ticket type must not clear the lock")
	}
}

func TestListTickets(t *testing.T) {
	store := newMemAdminStore()
	ticketStore := newMemTicketStore()
	router := setupTestRouter(store, ticketStore, newMemLojistaLockStore())

	master, err := store.CreateMasterAdmin("a@x.com", mustHash(t, "secret1"))
	if err != nil {
		t.Fatalf("failed to seed master: %v", err)
	}
	token := adminToken(t, master.ID.Hex())

	ticketStore.addTicket("lojista1", supportDB.TICKET_TYPE_COMPROMISSO_CONTA)
	ticketStore.addTicket("lojista2", "cobranca")

	w := performRequest(router, http.MethodGet, "/v1/tickets?status=aberto", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	t.Run("unknown status filter", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/v1/tickets?status=pendente", "", token)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for unknown status, got %d", w.Code)
		}
	})
}
