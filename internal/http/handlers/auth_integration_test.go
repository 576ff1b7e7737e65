package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindcare/mindcare-be/internal/auth"
	"github.com/mindcare/mindcare-be/internal/logging"
	"github.com/mindcare/mindcare-be/internal/middleware"
	"github.com/mindcare/mindcare-be/internal/models/dto"
	"github.com/mindcare/mindcare-be/internal/storage/postgres"
)

// TestAuthIntegration exercises register, login and profile against a live Postgres database.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := mustGetEnv(t, "DATABASE_URL")

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret: mustGetEnv(t, "JWT_SECRET"),
		Issuer: os.Getenv("JWT_ISSUER"),
		TTL:    mustGetTTL(t),
	}, auth.RealClock{})
	cookie := auth.NewSessionCookie(false, tokens.TTL())
	log := logging.Discard()

	mux := http.NewServeMux()
	NewAuthHandler(store, auth.NewPasswordHasher(bcrypt.MinCost), tokens, cookie, log).Register(mux)
	NewUserHandler(store, cookie, log).Register(mux, middleware.NewGuard(tokens, cookie, log))

	ts := httptest.NewServer(mux)
	defer ts.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar}

	username := fmt.Sprintf("apitest_%d", time.Now().UnixNano())
	email := fmt.Sprintf("%s@example.com", username)
	password := fmt.Sprintf("Pass!%d", time.Now().UnixNano())

	registered := requestSession(t, client, ts.URL+"/auth/register", http.StatusCreated, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if registered.Username != username {
		t.Fatalf("register mismatch: got %+v", registered)
	}
	defer func() {
		if err := store.DeleteUser(ctx, registered.ID); err != nil {
			t.Logf("cleanup user %s: %v", registered.ID, err)
		}
	}()

	loggedIn := requestSession(t, client, ts.URL+"/auth/login", http.StatusOK, map[string]string{
		"email":    strings.ToUpper(email),
		"password": password,
	})
	if loggedIn.ID != registered.ID {
		t.Fatalf("login returned wrong user id: want %s got %s", registered.ID, loggedIn.ID)
	}

	resp, err := client.Get(ts.URL + "/user/profile/" + registered.ID)
	if err != nil {
		t.Fatalf("profile request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d", resp.StatusCode)
	}
	var profile struct {
		Data dto.ProfileResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile response: %v", err)
	}
	if profile.Data.Email != email {
		t.Fatalf("profile email = %q, want %q", profile.Data.Email, email)
	}

	t.Logf("created user %s (id=%s), logged in and read the profile", username, registered.ID)
}

func requestSession(t *testing.T, client *http.Client, url string, wantStatus int, payload map[string]string) dto.SessionResponse {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}

	var out struct {
		Data dto.SessionResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out.Data
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func mustGetTTL(t *testing.T) time.Duration {
	t.Helper()
	minutesStr := os.Getenv("JWT_TTL_MINUTES")
	if minutesStr == "" {
		return time.Hour
	}
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes <= 0 {
		t.Fatalf("invalid JWT_TTL_MINUTES value: %q", minutesStr)
	}
	return time.Duration(minutes) * time.Minute
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
