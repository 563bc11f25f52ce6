package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eogo/server/internal/config"
	"github.com/eogo/server/internal/persist"
)

const cookieName = "access_token"

// Server is the optional JSON sidecar for account tooling. It shares the
// SQL pool with the game server but never touches live world state.
type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	accounts *persist.AccountRepo
	chars    *persist.CharacterRepo
	tokens   *persist.TokenRepo

	http *http.Server
}

func New(cfg *config.Config, log *zap.Logger, accounts *persist.AccountRepo, chars *persist.CharacterRepo, tokens *persist.TokenRepo) *Server {
	s := &Server{
		cfg:      cfg,
		log:      log,
		accounts: accounts,
		chars:    chars,
		tokens:   tokens,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/user", s.handleUser)
	s.http = &http.Server{
		Addr:         cfg.HTTP.BindAddress,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Run blocks serving requests until Shutdown.
func (s *Server) Run() error {
	s.log.Info("http api listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and sets the access-token cookie. A
// decoy hash runs for unknown usernames so timing does not leak existence.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Database.QueryTimeout)
	defer cancel()

	acct, err := s.accounts.Load(ctx, username)
	if err != nil {
		s.log.Warn("http login query failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if acct == nil {
		persist.DecoyVerify(req.Password)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	ok, _ := persist.VerifyPassword(acct.PasswordHash, username, req.Password, s.cfg.Account.PasswordSalt)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := s.tokens.Issue(ctx, acct.ID, s.cfg.HTTP.TokenTTL)
	if err != nil {
		s.log.Warn("token issue failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/api",
		Expires:  time.Now().Add(s.cfg.HTTP.TokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

type characterJSON struct {
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Class  int    `json:"class"`
	Gender int    `json:"gender"`
	MapID  int    `json:"map_id"`
	Guild  string `json:"guild,omitempty"`
}

// handleUser returns the character list for the cookie's account.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Database.QueryTimeout)
	defer cancel()

	accountID, err := s.tokens.AccountFor(ctx, cookie.Value)
	if err != nil {
		s.log.Warn("token lookup failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if accountID == 0 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	rows, err := s.chars.ListByAccount(ctx, accountID)
	if err != nil {
		s.log.Warn("character list failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	out := make([]characterJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, characterJSON{
			Name:   row.Name,
			Level:  row.Level,
			Class:  row.Class,
			Gender: row.Gender,
			MapID:  row.MapID,
			Guild:  row.GuildTag,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"account_id": accountID,
		"characters": out,
	})
}
