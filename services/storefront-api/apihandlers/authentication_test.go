package apihandlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	libtotp "github.com/pquerna/otp/totp"

	lojistaDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/lojista"
	jwthandling "github.com/vitrine-commerce/vitrine-backend/pkg/jwt-handling"
	"github.com/vitrine-commerce/vitrine-backend/pkg/user-management/pwhash"
	"github.com/vitrine-commerce/vitrine-backend/pkg/user-management/totp"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := pwhash.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return hash
}

func seedLojista(t *testing.T, store *memLojistaStore, lj lojistaDB.LojistaAccount) *lojistaDB.LojistaAccount {
	t.Helper()
	created, err := store.CreateLojista(&lj)
	if err != nil {
		t.Fatalf("failed to seed lojista: %v", err)
	}
	return created
}

func TestSignupAndEmailVerificationFlow(t *testing.T) {
	store := newMemLojistaStore()
	router := setupTestRouter(store, newMemSupportStore())

	w := performRequest(router, http.MethodPost, "/v1/auth/signup",
		`{"nome":"Maria","email":"maria@example.com","telefone":"11999990000","password":"senhaSegura1"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// unverified login is refused and discloses the reason
	w = performRequest(router, http.MethodPost, "/v1/auth/login",
		`{"email":"maria@example.com","password":"senhaSegura1"}`, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["email_nao_verificado"] != true {
		t.Errorf("expected email_nao_verificado flag, got %v", resp)
	}
	if resp["email"] != "maria@example.com" {
		t.Errorf("expected email in response, got %v", resp)
	}

	acc, err := store.GetLojistaByEmail("maria@example.com")
	if err != nil {
		t.Fatalf("account not stored: %v", err)
	}

	w = performRequest(router, http.MethodGet, "/v1/auth/verificar-email?token="+acc.TokenVerificacao, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// the verification token is single use
	w = performRequest(router, http.MethodGet, "/v1/auth/verificar-email?token="+acc.TokenVerificacao, "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on second redemption, got %d", w.Code)
	}

	w = performRequest(router, http.MethodPost, "/v1/auth/login",
		`{"email":"maria@example.com","password":"senhaSegura1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after verification, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["token"] == nil || resp["token"] == "" {
		t.Error("expected a session token")
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	store := newMemLojistaStore()
	router := setupTestRouter(store, newMemSupportStore())
	seedLojista(t, store, lojistaDB.LojistaAccount{
		Email:           "maria@example.com",
		Password:        mustHash(t, "senhaSegura1"),
		Nome:            "Maria",
		EmailVerificado: true,
	})

	wrongPassword := performRequest(router, http.MethodPost, "/v1/auth/login",
		`{"email":"maria@example.com","password":"wrongPassword1"}`, "")
	unknownEmail := performRequest(router, http.MethodPost, "/v1/auth/login",
		`{"email":"nobody@example.com","password":"senhaSegura1"}`, "")

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", wrongPassword.Code, unknownEmail.Code)
	}
	// wrong password and unknown email must be indistinguishable
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("responses differ: %s vs %s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestLockoutPrecedence(t *testing.T) {
	store := newMemLojistaStore()
	router := setupTestRouter(store, newMemSupportStore())

	enrollment, err := totp.GenerateEnrollment("Vitrine", "maria@example.com")
	if err != nil {
		t.Fatalf("failed to generate enrollment: %v", err)
	}
	acc := seedLojista(t, store, lojistaDB.LojistaAccount{
		Email:            "maria@example.com",
		Password:         mustHash(t, "senhaSegura1"),
		Nome:             "Maria",
		EmailVerificado:  true,
		Bloqueado:        true,
		TwoFactorEnabled: true,
		TwoFactorSecret:  enrollment.Secret,
	})

	t.Run("correct password is refused", func(t *testing.T) {
		locked := performRequest(router, http.MethodPost, "/v1/auth/login",
			`{"email":"maria@example.com","password":"senhaSegura1"}`, "")
		if locked.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d: %s", locked.Code, locked.Body.String())
		}
		// the lock must not be distinguishable from wrong credentials
		wrongPassword := performRequest(router, http.MethodPost, "/v1/auth/login",
			`{"email":"maria@example.com","password":"wrongPassword1"}`, "")
		if locked.Body.String() != wrongPassword.Body.String() {
			t.Errorf("responses differ: %s vs %s", locked.Body.String(), wrongPassword.Body.String())
		}
	})

	t.Run("master password is refused", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/v1/auth/login",
			`{"email":"maria@example.com","password":"masterOverride1"}`, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("valid 2fa step up is refused", func(t *testing.T) {
		tempToken, err := jwthandling.GenerateNewLojistaToken(partialTokenTTL, acc.ID.Hex(), acc.ID.Hex(), true, testSignKey)
		if err != nil {
			t.Fatalf("failed to generate temp token: %v", err)
		}
		code, err := libtotp.GenerateCode(enrollment.Secret, time.Now().UTC())
		if err != nil {
			t.Fatalf("failed to generate code: %v", err)
		}
		w := performRequest(router, http.MethodPost, "/v1/auth/verify-login-2fa",
			fmt.Sprintf(`{"tempToken":%q,"code":%q}`, tempToken, code), "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d: %s", w.Code, w.Body.String())
		}
		var resp map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp["token"] != nil {
			t.Error("no token may be issued for a locked account")
		}
	})

	t.Run("me treats locked account as anonymous", func(t *testing.T) {
		fullToken, err := jwthandling.GenerateNewLojistaToken(time.Hour, acc.ID.Hex(), acc.ID.Hex(), false, testSignKey)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		w := performRequest(router, http.MethodGet, "/v1/auth/me", "", fullToken)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp["lojista"] != nil {
			t.Errorf("expected null identity, got %v", resp)
		}
	})
}

func TestTwoFactorStepUp(t *testing.T) {
	store := newMemLojistaStore()
	router := setupTestRouter(store, newMemSupportStore())

	enrollment, err := totp.GenerateEnrollment("Vitrine", "maria@example.com")
	if err != nil {
		t.Fatalf("failed to generate enrollment: %v", err)
	}
	seedLojista(t, store, lojistaDB.LojistaAccount{
		Email:            "maria@example.com",
		Password:         mustHash(t, "senhaSegura1"),
		Nome:             "Maria",
		EmailVerificado:  true,
		TwoFactorEnabled: true,
		TwoFactorSecret:  enrollment.Secret,
	})

	w := performRequest(router, http.MethodPost, "/v1/auth/login",
		`{"email":"maria@example.com","password":"senhaSegura1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var loginResp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if loginResp["require2FA"] != true {
		t.Fatalf("expected require2FA, got %v", loginResp)
	}
	if loginResp["token"] != nil {
		t.Fatal("no full token may be issued before step up")
	}
	tempToken, ok := loginResp["tempToken"].(string)
	if !ok || tempToken == "" {
		t.Fatalf("expected tempToken, got %v", loginResp)
	}

	// a wrong code does not consume the temp token
	w = performRequest(router, http.MethodPost, "/v1/auth/verify-login-2fa",
		fmt.Sprintf(`{"tempToken":%q,"code":"000000"}`, tempToken), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong code, got %d", w.Code)
	}

	code, err := libtotp.GenerateCode(enrollment.Secret, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}
	w = performRequest(router, http.MethodPost, "/v1/auth/verify-login-2fa",
		fmt.Sprintf(`{"tempToken":%q,"code":%q}`, tempToken, code), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after retry with correct code, got %d: %s", w.Code, w.Body.String())
	}
	var stepUpResp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &stepUpResp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if stepUpResp["token"] == nil || stepUpResp["token"] == "" {
		t.Error("expected a full session token")
	}
}

func TestMasterPasswordBypasses2FA(t *testing.T) {
	store := newMemLojistaStore()
	router := setupTestRouter(store, newMemSupportStore())

	enrollment, err := totp.GenerateEnrollment("Vitrine", "maria@example.com")
	if err != nil {
		t.Fatalf("failed to generate enrollment: %v", err)
	}
	seedLojista(t, store, lojistaDB.LojistaAccount{
		Email:            "maria@example.com",
		Password:         mustHash(t, "senhaSegura1"),
		Nome:             "Maria",
		EmailVerificado:  true,
		TwoFactorEnabled: true,
		TwoFactorSecret:  enrollment.Secret,
	})

	w := performRequest(router, http.MethodPost, "/v1/auth/login",
		`{"email":"maria@example.com","password":"masterOverride1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["require2FA"] == true {
		t.Error("master password login must not require 2fa")
	}
	if resp["token"] == nil || resp["token"] == "" {
		t.Error("expected a full session token")
	}
}

func TestPartialTokenContainment(t *testing.T) {
	store := newMemLojistaStore()
	router := setupTestRouter(store, newMemSupportStore())
	acc := seedLojista(t, store, lojistaDB.LojistaAccount{
		Email:           "maria@example.com",
		Password:        mustHash(t, "senhaSegura1"),
		Nome:            "Maria",
		EmailVerificado: true,
	})

	partialToken, err := jwthandling.GenerateNewLojistaToken(partialTokenTTL, acc.ID.Hex(), acc.ID.Hex(), true, testSignKey)
	if err != nil {
		t.Fatalf("failed to generate partial token: %v", err)
	}

	protected := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/v1/auth/2fa/enroll", ""},
		{http.MethodPost, "/v1/auth/2fa/enable", `{"code":"000000"}`},
		{http.MethodPost, "/v1/auth/2fa/disable", `{"password":"senhaSegura1"}`},
		{http.MethodGet, "/v1/notificacoes", ""},
	}

	for _, ep := range protected {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			w := performRequest(router, ep.method, ep.path, ep.body, partialToken)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 for partial token, got %d", w.Code)
			}
		})
	}

	t.Run("me ignores partial token", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/v1/auth/me", "", partialToken)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp["lojista"] != nil {
			t.Errorf("expected null identity for partial token, got %v", resp)
		}
	})
}

func TestGetMe(t *testing.T) {
	store := newMemLojistaStore()
	router := setupTestRouter(store, newMemSupportStore())
	acc := seedLojista(t, store, lojistaDB.LojistaAccount{
		Email:           "maria@example.com",
		Password:        mustHash(t, "senhaSegura1"),
		Nome:            "Maria",
		EmailVerificado: true,
	})

	t.Run("anonymous", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/v1/auth/me", "", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp["lojista"] != nil {
			t.Errorf("expected null identity, got %v", resp)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		token, err := jwthandling.GenerateNewLojistaToken(time.Hour, acc.ID.Hex(), acc.ID.Hex(), false, testSignKey)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		w := performRequest(router, http.MethodGet, "/v1/auth/me", "", token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp map[string]map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp["lojista"]["email"] != "maria@example.com" {
			t.Errorf("unexpected identity: %v", resp)
		}
	})
}

func TestAntiEnumeration(t *testing.T) {
	store := newMemLojistaStore()
	router := setupTestRouter(store, newMemSupportStore())
	seedLojista(t, store, lojistaDB.LojistaAccount{
		Email:    "maria@example.com",
		Password: mustHash(t, "senhaSegura1"),
		Nome:     "Maria",
	})

	t.Run("redefinir-senha", func(t *testing.T) {
		existing := performRequest(router, http.MethodPost, "/v1/auth/redefinir-senha",
			`{"email":"maria@example.com"}`, "")
		missing := performRequest(router, http.MethodPost, "/v1/auth/redefinir-senha",
			`{"email":"nobody@example.com"}`, "")
		if existing.Code != http.StatusOK || missing.Code != http.StatusOK {
			t.Fatalf("expected 200 for both, got %d and %d", existing.Code, missing.Code)
		}
		if existing.Body.String() != missing.Body.String() {
			t.Errorf("responses differ: %s vs %s", existing.Body.String(), missing.Body.String())
		}
	})

	t.Run("reenviar-verificacao", func(t *testing.T) {
		existing := performRequest(router, http.MethodPost, "/v1/auth/reenviar-verificacao",
			`{"email":"maria@example.com"}`, "")
		missing := performRequest(router, http.MethodPost, "/v1/auth/reenviar-verificacao",
			`{"email":"nobody@example.com"}`, "")
		if existing.Code != http.StatusOK || missing.Code != http.StatusOK {
			t.Fatalf("expected 200 for both, got %d and %d", existing.Code, missing.Code)
		}
		if existing.Body.String() != missing.Body.String() {
			t.Errorf("responses differ: %s vs %s", existing.Body.String(), missing.Body.String())
		}
	})
}
