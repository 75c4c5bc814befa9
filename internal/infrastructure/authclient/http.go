package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
	shelferrors "github.com/alexisbeaulieu97/shelf/pkg/errors"
)

const (
	loginPath    = "/api/v1/users/login"
	registerPath = "/api/v1/users/register"

	maxBodyBytes = 1 << 20
)

// Application codes returned by the bookstore API envelope.
const (
	codeOK              = 0
	codeUnauthorized    = 40100
	codeInvalidPassword = 40103
	codeUserNotFound    = 40401
	codeEmailDuplicate  = 40003
	codeWeakPassword    = 40005
	codeInvalidParams   = 40900
	codeBindError       = 40901
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type userInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type loginData struct {
	User         userInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
}

type tokenClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// HTTPService talks to the bookstore REST API. It is an AuthService: every
// failure surfaces as InvalidCredentials or ServiceUnavailable.
type HTTPService struct {
	baseURL string
	client  *http.Client
	logger  ports.Logger
}

// NewHTTPService creates a client for baseURL. A zero timeout leaves
// deadlines to the caller's context.
func NewHTTPService(baseURL string, timeout time.Duration, logger ports.Logger) *HTTPService {
	return &HTTPService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Verify posts credentials to the login endpoint.
func (s *HTTPService) Verify(ctx context.Context, creds shop.Credentials) (shop.User, error) {
	var data loginData
	if err := s.post(ctx, loginPath, map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	}, &data); err != nil {
		return shop.User{}, err
	}

	user := shop.User{
		ID:    strconv.FormatUint(uint64(data.User.ID), 10),
		Name:  data.User.Nickname,
		Email: data.User.Email,
	}
	if data.AccessToken != "" {
		claims, err := parseClaims(data.AccessToken)
		if err != nil {
			return shop.User{}, shop.NewError(shop.ErrCodeServiceUnavailable, "malformed access token", err, nil)
		}
		if data.User.ID == 0 {
			user.ID = claims.Subject
			user.Email = claims.Email
			user.Name = claims.Nickname
		}
	}
	if user.ID == "" || user.ID == "0" {
		return shop.User{}, shop.NewError(shop.ErrCodeServiceUnavailable, "login response carried no user", nil, nil)
	}
	return user, nil
}

// Register creates the account. The API does not issue a token on
// registration, so the returned user is built from the response body.
func (s *HTTPService) Register(ctx context.Context, reg shop.Registration) (shop.User, error) {
	var data userInfo
	if err := s.post(ctx, registerPath, map[string]string{
		"email":    reg.Email,
		"password": reg.Password,
		"nickname": reg.Name,
	}, &data); err != nil {
		return shop.User{}, err
	}
	if data.ID == 0 {
		return shop.User{}, shop.NewError(shop.ErrCodeServiceUnavailable, "registration response carried no user", nil, nil)
	}
	return shop.User{
		ID:    strconv.FormatUint(uint64(data.ID), 10),
		Name:  data.Nickname,
		Email: data.Email,
	}, nil
}

func (s *HTTPService) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return shop.NewError(shop.ErrCodeInternal, "encode request", err, nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return shop.NewError(shop.ErrCodeServiceUnavailable, "build request", err, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := ports.GetCorrelationID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return shop.NewError(shop.ErrCodeServiceUnavailable, "auth service unreachable",
			shelferrors.NewRemoteError(path, 0, 0, "", err), nil)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return shop.NewError(shop.ErrCodeServiceUnavailable, "read response",
			shelferrors.NewRemoteError(path, resp.StatusCode, 0, "", err), nil)
	}
	s.debug(ctx, "auth request", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return shop.NewError(shop.ErrCodeServiceUnavailable, "unexpected response",
			shelferrors.NewRemoteError(path, resp.StatusCode, 0, "", err), nil)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return shop.NewError(shop.ErrCodeServiceUnavailable, "auth service error",
			shelferrors.NewRemoteError(path, resp.StatusCode, env.Code, env.Message, nil), nil)
	}
	if env.Code != codeOK {
		return classify(path, resp.StatusCode, env)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return shop.NewError(shop.ErrCodeServiceUnavailable, "unexpected response payload",
				shelferrors.NewRemoteError(path, resp.StatusCode, env.Code, "", err), nil)
		}
	}
	return nil
}

func classify(path string, status int, env envelope) error {
	remote := shelferrors.NewRemoteError(path, status, env.Code, env.Message, nil)
	switch env.Code {
	case codeUnauthorized, codeInvalidPassword, codeUserNotFound:
		return shop.NewError(shop.ErrCodeInvalidCredentials, "email or password is incorrect", remote, nil)
	case codeEmailDuplicate:
		return shop.NewError(shop.ErrCodeInvalidCredentials, "email is already registered", remote, nil)
	case codeWeakPassword, codeInvalidParams, codeBindError:
		return shop.NewError(shop.ErrCodeInvalidCredentials, "details were rejected", remote, nil)
	default:
		return shop.NewError(shop.ErrCodeServiceUnavailable, "auth service error", remote, nil)
	}
}

// parseClaims reads the token payload without verifying the signature; the
// client does not hold the signing secret and only uses it for display data.
func parseClaims(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" && claims.UserID != 0 {
		claims.Subject = strconv.FormatUint(uint64(claims.UserID), 10)
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func (s *HTTPService) debug(ctx context.Context, msg string, fields ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(ctx, msg, fields...)
	}
}

func (s *HTTPService) String() string {
	return fmt.Sprintf("http auth (%s)", s.baseURL)
}

var _ ports.AuthService = (*HTTPService)(nil)
