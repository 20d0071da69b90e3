package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/config"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/hakobu-dev/hakobu-backend-go/internal/service/tracker"
)

// trackerd reads position fixes from stdin as newline-delimited JSON
// and forwards them to the ingestion endpoint as the configured driver.
func main() {
	cfg, err := config.LoadTracker()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	identity, accessToken, err := login(cfg)
	if err != nil {
		fmt.Println("Login failed:", err)
		os.Exit(1)
	}
	slog.Info("Logged in", "user_id", identity.UserID, "role", identity.Role)

	opts := tracker.DefaultWatchOptions()
	opts.Timeout = cfg.FixTimeout

	sink := tracker.NewHTTPSink(cfg.ServerURL, accessToken)
	sink.OnUnauthorized(func(ctx context.Context) (string, error) {
		_, token, err := login(cfg)
		return token, err
	})

	t := tracker.New(
		tracker.NewStreamProvider(os.Stdin),
		sink,
		opts,
	)

	sub, err := t.Start(context.Background(), identity)
	if err != nil {
		fmt.Println("Failed to start tracking:", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("Stopping tracker")
		sub.Stop()
	case <-sub.Done():
		slog.Info("Watch ended")
	}
}

func login(cfg *config.TrackerConfig) (auth.Identity, string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    cfg.Email,
		"password": cfg.Password,
	})
	if err != nil {
		return auth.Identity{}, "", err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(cfg.ServerURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return auth.Identity{}, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return auth.Identity{}, "", fmt.Errorf("login rejected with status %d: %s", resp.StatusCode, detail)
	}

	var envelope struct {
		Data struct {
			User struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
			Token struct {
				AccessToken string `json:"access_token"`
			} `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return auth.Identity{}, "", fmt.Errorf("failed to decode login response: %w", err)
	}

	identity := auth.Identity{
		UserID: envelope.Data.User.ID,
		Email:  envelope.Data.User.Email,
		Name:   envelope.Data.User.Name,
		Role:   user.Role(envelope.Data.User.Role),
	}
	return identity, envelope.Data.Token.AccessToken, nil
}
