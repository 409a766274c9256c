// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manager

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.githedgehog.com/catalystwan/api/meta"
	"go.githedgehog.com/catalystwan/pkg/version"
	"golang.org/x/sync/singleflight"
)

const (
	LoginPath  = "/j_security_check"
	TokenPath  = "/dataservice/client/token"
	ServerPath = "/dataservice/client/server"

	XSRFHeader = "X-XSRF-TOKEN"

	DefaultTimeout = 60 * time.Second
)

var ErrLoginFailed = errors.New("login failed")

// APIError is returned for all non-2xx Manager responses
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}

	return msg
}

// IsStatus checks if err is an APIError with the given HTTP status
func IsStatus(err error, status int) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Details string `json:"details"`
		Code    string `json:"code"`
	} `json:"error"`
}

type dataResponse[T any] struct {
	Data T `json:"data"`
}

type ServerInfo struct {
	PlatformVersion string `json:"platformVersion"`
	TenancyMode     string `json:"tenancyMode,omitempty"`
}

type Options struct {
	URL                string
	Username           string
	Password           string
	InsecureSkipVerify bool
	Timeout            time.Duration
	// Registerer is used for the session metrics, metrics aren't registered if nil
	Registerer prometheus.Registerer
}

// Session is the authenticated Manager API client, it's safe for concurrent use
type Session struct {
	base    *url.URL
	opts    Options
	client  *http.Client
	metrics *metrics
	sf      *singleflight.Group

	lock    sync.RWMutex
	token   string
	version *semver.Version
}

// NewSession logs in into the Manager and detects its version
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.URL == "" {
		return nil, errors.New("manager url is required")
	}
	if opts.Username == "" || opts.Password == "" {
		return nil, errors.New("manager username and password are required")
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	base, err := url.Parse(strings.TrimSuffix(opts.URL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing manager url %s", opts.URL)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("manager url %s should be http or https", opts.URL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrapf(err, "creating cookie jar")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	s := &Session{
		base: base,
		opts: opts,
		client: &http.Client{
			Jar:       jar,
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		metrics: newMetrics(opts.Registerer),
		sf:      &singleflight.Group{},
	}

	if err := s.Login(ctx); err != nil {
		return nil, err
	}

	server := &dataResponse[ServerInfo]{}
	if err := s.Get(ctx, ServerPath, server); err != nil {
		return nil, errors.Wrapf(err, "getting server info")
	}

	ver, err := meta.ParseVersion(server.Data.PlatformVersion)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing manager version")
	}

	s.lock.Lock()
	s.version = ver
	s.lock.Unlock()

	slog.Info("Connected to Manager", "url", base.String(), "user", opts.Username, "version", ver.String())

	return s, nil
}

func (s *Session) URL() string {
	return s.base.String()
}

// Version returns the Manager version detected during the session creation
func (s *Session) Version() *semver.Version {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.version
}

// RequireVersion returns an error if the Manager version doesn't satisfy the constraint, e.g. ">= 20.12"
func (s *Session) RequireVersion(constraint string) error {
	return errors.Wrapf(meta.CheckVersion(s.Version(), constraint), "manager %s", s.base.Host)
}

// Login authenticates the session and fetches the XSRF token
func (s *Session) Login(ctx context.Context) error {
	form := url.Values{}
	form.Set("j_username", s.opts.Username)
	form.Set("j_password", s.opts.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base.String()+LoginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrapf(err, "creating login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "logging in")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading login response")
	}

	s.metrics.logins.Inc()

	// Manager responds with the login page instead of the empty body if credentials are wrong
	if resp.StatusCode != http.StatusOK || len(bytes.TrimSpace(body)) > 0 {
		return errors.Wrapf(ErrLoginFailed, "user %s: status %d", s.opts.Username, resp.StatusCode)
	}

	token := ""
	if err := s.doRequest(ctx, http.MethodGet, TokenPath, nil, &token); err != nil {
		return errors.Wrapf(err, "getting xsrf token")
	}

	s.lock.Lock()
	s.token = token
	s.lock.Unlock()

	slog.Debug("Logged in", "url", s.base.String(), "user", s.opts.Username)

	return nil
}

func (s *Session) relogin(ctx context.Context) error {
	_, err, _ := s.sf.Do("login", func() (any, error) {
		slog.Debug("Session expired, logging in again")

		return nil, s.Login(ctx)
	})

	return err //nolint:wrapcheck
}

func (s *Session) Get(ctx context.Context, path string, out any) error {
	return s.Do(ctx, http.MethodGet, path, nil, out)
}

func (s *Session) Post(ctx context.Context, path string, in, out any) error {
	return s.Do(ctx, http.MethodPost, path, in, out)
}

func (s *Session) Put(ctx context.Context, path string, in, out any) error {
	return s.Do(ctx, http.MethodPut, path, in, out)
}

func (s *Session) Delete(ctx context.Context, path string) error {
	return s.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends JSON request and decodes JSON response into out (if not nil), session is re-established once if
// Manager reports it as expired
func (s *Session) Do(ctx context.Context, method, path string, in, out any) error {
	err := s.doRequest(ctx, method, path, in, out)
	if IsStatus(err, http.StatusUnauthorized) {
		if err := s.relogin(ctx); err != nil {
			return errors.Wrapf(err, "re-login")
		}

		err = s.doRequest(ctx, method, path, in, out)
	}

	return err
}

func (s *Session) doRequest(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "marshaling %s %s request", method, path)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base.String()+path, body)
	if err != nil {
		return errors.Wrapf(err, "creating %s %s request", method, path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s.lock.RLock()
	if s.token != "" {
		req.Header.Set(XSRFHeader, s.token)
	}
	s.lock.RUnlock()

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.observe(method, "error", start)

		return errors.Wrapf(err, "sending %s %s", method, path)
	}
	defer resp.Body.Close()

	s.metrics.observe(method, fmt.Sprint(resp.StatusCode), start)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading %s %s response", method, path)
	}

	slog.Debug("Manager request", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
		eb := &errorBody{}
		if json.Unmarshal(data, eb) == nil {
			apiErr.Message = eb.Error.Message
			apiErr.Details = eb.Error.Details
		}

		return apiErr
	}

	// expired session is redirected to the login page
	if isHTML(resp.Header.Get("Content-Type")) || resp.StatusCode == http.StatusFound {
		return &APIError{Method: method, Path: path, StatusCode: http.StatusUnauthorized, Message: "session expired"}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if str, ok := out.(*string); ok && !json.Valid(data) {
		*str = string(data)

		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "parsing %s %s response", method, path)
	}

	return nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)

	return err == nil && mediaType == "text/html"
}
