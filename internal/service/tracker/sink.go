package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
)

// TokenFunc obtains a fresh access token, typically by logging in again.
type TokenFunc func(ctx context.Context) (string, error)

// HTTPSink delivers fixes to the backend's location ingestion endpoint
// as the authenticated driver. Access tokens expire while the watch
// keeps running, so a 401 triggers one renewal and retry per send.
type HTTPSink struct {
	baseURL string
	client  *http.Client
	renew   TokenFunc

	mu    sync.Mutex
	token string
}

func NewHTTPSink(baseURL, accessToken string) *HTTPSink {
	return &HTTPSink{
		baseURL: baseURL,
		token:   accessToken,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// OnUnauthorized installs the renewal hook. Without one, expired tokens
// surface as send errors and the fixes are dropped.
func (s *HTTPSink) OnUnauthorized(renew TokenFunc) {
	s.renew = renew
}

func (s *HTTPSink) Send(ctx context.Context, identity auth.Identity, fix Fix) error {
	status, err := s.post(ctx, fix)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}

	if status == http.StatusUnauthorized && s.renew != nil {
		slog.Info("Access token rejected, renewing", "user_id", identity.UserID)
		token, renewErr := s.renew(ctx)
		if renewErr != nil {
			return fmt.Errorf("failed to renew access token: %w", renewErr)
		}
		s.setToken(token)

		status, err = s.post(ctx, fix)
		if err != nil {
			return err
		}
		if status == http.StatusOK {
			return nil
		}
	}

	return fmt.Errorf("ingestion rejected with status %d", status)
}

func (s *HTTPSink) post(ctx context.Context, fix Fix) (int, error) {
	body, err := json.Marshal(fix)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal fix: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/locations", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build ingestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.currentToken())

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ingestion request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode, nil
}

func (s *HTTPSink) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *HTTPSink) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}
