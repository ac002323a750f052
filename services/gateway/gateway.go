package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/darasa/darasa-client/core"
	"github.com/darasa/darasa-client/core/session"
)

// publicEndpoints never carry a bearer credential and are exempt from the
// refresh-and-retry rule.
var publicEndpoints = []string{
	"/auth/login",
	"/auth/register",
	"/auth/refresh",
	"/auth/google",
}

type (
	// SessionStore is the slice of the session store the gateway needs.
	// session.Service satisfies it.
	SessionStore interface {
		AccessToken() string
		SetAccessToken(token string)
		Clear()
	}

	// Gateway is the single choke point for outbound API calls. It attaches
	// the bearer credential to protected requests and resolves an expired
	// credential with exactly one refresh-and-retry before giving up.
	Gateway struct {
		client *resty.Client
		log    core.Logger

		mu            sync.Mutex
		session       SessionStore
		onAuthExpired func()
		refreshMu     sync.Mutex
	}

	// envelope is the wire shape of every API response.
	envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
)

func New(conf *core.Config, log core.Logger) *Gateway {
	client := resty.New().
		SetBaseURL(conf.APIBaseURL).
		SetHeader("Accept", "application/json")
	if conf.RequestTimeout > 0 {
		client.SetTimeout(conf.RequestTimeout)
	}

	gw := &Gateway{client: client, log: log}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if isPublic(req.URL) {
			return nil
		}
		if sess := gw.sessionStore(); sess != nil {
			if token := sess.AccessToken(); token != "" {
				req.SetHeader("Authorization", "Bearer "+token)
			}
		}
		return nil
	})
	return gw
}

// InjectSession wires the process-wide session store. The gateway is
// constructible without one (tests exercise it bare); production wires it
// exactly once at startup rather than reaching through a hidden global.
func (gw *Gateway) InjectSession(sess SessionStore) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.session = sess
}

// OnAuthExpired registers the redirect-to-login side effect fired when a
// refresh attempt fails.
func (gw *Gateway) OnAuthExpired(fn func()) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.onAuthExpired = fn
}

func (gw *Gateway) sessionStore() SessionStore {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	return gw.session
}

func isPublic(path string) bool {
	for _, p := range publicEndpoints {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

func (gw *Gateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	return gw.doQuery(ctx, method, path, nil, body, out)
}

// doQuery runs one JSON request through the pipeline. A 401 on a protected,
// not-yet-retried request triggers exactly one refresh; only if that
// succeeds is the original request retried, once, with the new credential.
func (gw *Gateway) doQuery(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	public := isPublic(path)

	resp, err := gw.execute(ctx, method, path, query, body)
	if err != nil {
		return core.NewNetworkError(err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && !public {
		if rErr := gw.refreshCredential(ctx); rErr != nil {
			gw.expire()
			return core.NewAuthorizationError("session expired")
		}
		resp, err = gw.execute(ctx, method, path, query, body)
		if err != nil {
			return core.NewNetworkError(err)
		}
	}
	return gw.decode(resp, out, public)
}

func (gw *Gateway) execute(ctx context.Context, method, path string, query url.Values, body interface{}) (*resty.Response, error) {
	req := gw.client.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	return req.Execute(method, path)
}

// refreshCredential performs the dedicated refresh call and installs the new
// access token. Concurrent expiries share one refresh at a time.
func (gw *Gateway) refreshCredential(ctx context.Context) error {
	gw.refreshMu.Lock()
	defer gw.refreshMu.Unlock()

	sess := gw.sessionStore()
	if sess == nil {
		return errors.New("gateway: no session store injected")
	}

	resp, err := gw.execute(ctx, http.MethodPost, "/auth/refresh", nil, nil)
	if err != nil {
		return core.NewNetworkError(err)
	}
	var auth session.AuthResponse
	if err := gw.decode(resp, &auth, true); err != nil {
		return err
	}
	if auth.AccessToken == "" {
		return errors.New("gateway: refresh returned no access token")
	}
	sess.SetAccessToken(auth.AccessToken)
	return nil
}

// expire clears the session and fires the redirect-to-login hook.
func (gw *Gateway) expire() {
	gw.mu.Lock()
	sess := gw.session
	fn := gw.onAuthExpired
	gw.mu.Unlock()

	if sess != nil {
		sess.Clear()
	}
	if fn != nil {
		fn()
	}
}

// decode unwraps the response envelope into out, or maps a failure status to
// the error taxonomy with the envelope message as the user-facing string.
func (gw *Gateway) decode(resp *resty.Response, out interface{}, public bool) error {
	var env envelope
	if body := resp.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil && !resp.IsError() {
			return errors.Wrap(err, "gateway: decoding response")
		}
	}
	if resp.IsError() {
		return mapStatus(resp.StatusCode(), env.Message, public)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrap(err, "gateway: decoding response data")
	}
	return nil
}

func mapStatus(code int, msg string, public bool) error {
	if msg == "" {
		msg = http.StatusText(code)
	}
	switch code {
	case http.StatusBadRequest:
		return core.NewValidationError(errors.New(msg))
	case http.StatusUnauthorized:
		// bad credentials on a public endpoint; on a protected one the
		// retry already ran, so the credential is beyond saving
		if public {
			return core.NewAuthenticationError(msg)
		}
		return core.NewAuthorizationError(msg)
	case http.StatusForbidden:
		return core.NewAuthorizationError(msg)
	case http.StatusNotFound:
		return core.NewNotFoundError(msg)
	case http.StatusConflict:
		return core.NewConflictError(msg)
	default:
		return core.NewUnknownError(msg)
	}
}
