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

// Package managertest provides the in-memory fake of the Manager REST API for tests
package managertest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin"
	DefaultVersion  = "20.12.2"

	sessionCookie = "JSESSIONID"
)

type Options struct {
	Username string
	Password string
	Version  string
}

type Profile struct {
	ID          string
	Type        parcelapi.ProfileType
	Name        string
	Description string
}

type Parcel struct {
	ID        string
	ProfileID string
	ParentID  string
	Type      parcelapi.Type
	Name      string
	Payload   json.RawMessage
}

// Server is the fake Manager, it's safe for concurrent use
type Server struct {
	*httptest.Server

	opts Options

	lock             sync.Mutex
	sessions         map[string]string
	logins           int
	featureTemplates map[string]*ftapi.FeatureTemplate
	deviceTemplates  map[string]*ftapi.DeviceTemplate
	profiles         map[string]*Profile
	parcels          map[string]*Parcel
}

func NewServer(opts Options) *Server {
	if opts.Username == "" {
		opts.Username = DefaultUsername
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}

	s := &Server{
		opts:             opts,
		sessions:         map[string]string{},
		featureTemplates: map[string]*ftapi.FeatureTemplate{},
		deviceTemplates:  map[string]*ftapi.DeviceTemplate{},
		profiles:         map[string]*Profile{},
		parcels:          map[string]*Parcel{},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/j_security_check", s.handleLogin)

	r.Route("/dataservice", func(r chi.Router) {
		r.Use(s.authenticated)

		r.Get("/client/token", s.handleToken)
		r.Get("/client/server", s.handleServer)

		r.Get("/template/feature", s.handleListFeatureTemplates)
		r.Get("/template/feature/object/{id}", s.handleGetFeatureTemplate)
		r.Get("/template/device", s.handleListDeviceTemplates)
		r.Get("/template/device/object/{id}", s.handleGetDeviceTemplate)

		r.Route("/v1/feature-profile/sdwan/{profileType}", func(r chi.Router) {
			r.Get("/", s.handleListProfiles)
			r.Post("/", s.handleCreateProfile)
			r.Delete("/{profileID}", s.handleDeleteProfile)
			r.HandleFunc("/{profileID}/*", s.handleParcel)
		})
	})

	s.Server = httptest.NewServer(r)

	return s
}

// AddFeatureTemplate stores the template assigning an ID if it's missing and returns the ID
func (s *Server) AddFeatureTemplate(tmpl *ftapi.FeatureTemplate) string {
	s.lock.Lock()
	defer s.lock.Unlock()

	if tmpl.TemplateID == "" {
		tmpl.TemplateID = uuid.NewString()
	}
	s.featureTemplates[tmpl.TemplateID] = tmpl

	return tmpl.TemplateID
}

// AddDeviceTemplate stores the template assigning an ID if it's missing and returns the ID
func (s *Server) AddDeviceTemplate(tmpl *ftapi.DeviceTemplate) string {
	s.lock.Lock()
	defer s.lock.Unlock()

	if tmpl.TemplateID == "" {
		tmpl.TemplateID = uuid.NewString()
	}
	s.deviceTemplates[tmpl.TemplateID] = tmpl

	return tmpl.TemplateID
}

// ExpireSessions drops all sessions so the next request gets unauthorized
func (s *Server) ExpireSessions() {
	s.lock.Lock()
	defer s.lock.Unlock()

	clear(s.sessions)
}

func (s *Server) Logins() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.logins
}

func (s *Server) Profiles() []Profile {
	s.lock.Lock()
	defer s.lock.Unlock()

	res := []Profile{}
	for _, p := range s.profiles {
		res = append(res, *p)
	}
	slices.SortFunc(res, func(a, b Profile) int { return strings.Compare(a.Name, b.Name) })

	return res
}

// Parcels returns the parcels of the profile sorted by type and name
func (s *Server) Parcels(profileID string) []Parcel {
	s.lock.Lock()
	defer s.lock.Unlock()

	res := []Parcel{}
	for _, p := range s.parcels {
		if p.ProfileID == profileID {
			res = append(res, *p)
		}
	}
	slices.SortFunc(res, func(a, b Parcel) int {
		if c := strings.Compare(string(a.Type), string(b.Type)); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})

	return res
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	// Manager returns the login page on failures
	if r.PostForm.Get("j_username") != s.opts.Username || r.PostForm.Get("j_password") != s.opts.Password {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>login</body></html>"))

		return
	}

	id := uuid.NewString()

	s.lock.Lock()
	s.sessions[id] = ""
	s.logins++
	s.lock.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "no session")

			return
		}

		s.lock.Lock()
		token, ok := s.sessions[cookie.Value]
		s.lock.Unlock()

		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired")

			return
		}

		if r.URL.Path != "/dataservice/client/token" && r.Header.Get("X-XSRF-TOKEN") != token {
			writeError(w, http.StatusForbidden, "invalid xsrf token")

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	cookie, _ := r.Cookie(sessionCookie)
	token := strings.ReplaceAll(uuid.NewString(), "-", "")

	s.lock.Lock()
	s.sessions[cookie.Value] = token
	s.lock.Unlock()

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(token))
}

func (s *Server) handleServer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"platformVersion": s.opts.Version,
			"tenancyMode":     "SingleTenant",
		},
	})
}

func (s *Server) handleListFeatureTemplates(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	data := []ftapi.FeatureTemplateInfo{}
	for _, tmpl := range s.featureTemplates {
		data = append(data, tmpl.FeatureTemplateInfo)
	}
	slices.SortFunc(data, func(a, b ftapi.FeatureTemplateInfo) int { return strings.Compare(a.Name, b.Name) })

	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) handleGetFeatureTemplate(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	tmpl, ok := s.featureTemplates[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "feature template not found")

		return
	}

	writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleListDeviceTemplates(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	data := []ftapi.DeviceTemplateInfo{}
	for _, tmpl := range s.deviceTemplates {
		data = append(data, tmpl.DeviceTemplateInfo)
	}
	slices.SortFunc(data, func(a, b ftapi.DeviceTemplateInfo) int { return strings.Compare(a.Name, b.Name) })

	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) handleGetDeviceTemplate(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	tmpl, ok := s.deviceTemplates[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "device template not found")

		return
	}

	writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	typ := parcelapi.ProfileType(chi.URLParam(r, "profileType"))

	s.lock.Lock()
	defer s.lock.Unlock()

	data := []map[string]any{}
	for _, p := range s.profiles {
		if p.Type != typ {
			continue
		}
		data = append(data, map[string]any{
			"profileId":   p.ID,
			"profileName": p.Name,
			"profileType": p.Type,
			"description": p.Description,
		})
	}

	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	typ := parcelapi.ProfileType(chi.URLParam(r, "profileType"))
	if !slices.Contains(parcelapi.ProfileTypes, typ) {
		writeError(w, http.StatusNotFound, "unknown profile type")

		return
	}

	req := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}
	if req.Name == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "name and description are required")

		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	for _, p := range s.profiles {
		if p.Type == typ && p.Name == req.Name {
			writeError(w, http.StatusConflict, "profile "+req.Name+" already exists")

			return
		}
	}

	id := uuid.NewString()
	s.profiles[id] = &Profile{ID: id, Type: typ, Name: req.Name, Description: req.Description}

	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "profileID")

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.profiles[id]; !ok {
		writeError(w, http.StatusNotFound, "profile not found")

		return
	}

	delete(s.profiles, id)
	for parcelID, p := range s.parcels {
		if p.ProfileID == id {
			delete(s.parcels, parcelID)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// handleParcel serves <type>, <type>/<id> and <parent type>/<parent id>/<child type> paths
func (s *Server) handleParcel(w http.ResponseWriter, r *http.Request) {
	profileType := parcelapi.ProfileType(chi.URLParam(r, "profileType"))
	profileID := chi.URLParam(r, "profileID")
	rest := strings.Trim(chi.URLParam(r, "*"), "/")

	s.lock.Lock()
	defer s.lock.Unlock()

	profile, ok := s.profiles[profileID]
	if !ok || profile.Type != profileType {
		writeError(w, http.StatusNotFound, "profile not found")

		return
	}

	typ, id, child := splitParcelPath(rest)

	switch {
	case r.Method == http.MethodPost && id == "":
		s.createParcel(w, r, profile, typ, "")
	case r.Method == http.MethodPost && child != "":
		parent, ok := s.parcels[id]
		if !ok || parent.ProfileID != profileID || parent.Type != typ {
			writeError(w, http.StatusNotFound, "parent parcel not found")

			return
		}
		s.createParcel(w, r, profile, typ+"/"+parcelapi.Type(child), id)
	case r.Method == http.MethodGet && id != "" && child == "":
		p, ok := s.parcels[id]
		if !ok || p.ProfileID != profileID || p.Type != typ {
			writeError(w, http.StatusNotFound, "parcel not found")

			return
		}
		writeJSON(w, http.StatusOK, &parcelapi.Envelope{
			ParcelID:   p.ID,
			ParcelType: p.Type,
			CreatedBy:  s.opts.Username,
			Payload:    p.Payload,
		})
	case r.Method == http.MethodDelete && id != "" && child == "":
		p, ok := s.parcels[id]
		if !ok || p.ProfileID != profileID {
			writeError(w, http.StatusNotFound, "parcel not found")

			return
		}
		delete(s.parcels, id)
		for subID, sub := range s.parcels {
			if sub.ParentID == id {
				delete(s.parcels, subID)
			}
		}
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported parcel request")
	}
}

func (s *Server) createParcel(w http.ResponseWriter, r *http.Request, profile *Profile, typ parcelapi.Type, parentID string) {
	if !parcelapi.SupportedIn(typ, profile.Type) {
		writeError(w, http.StatusBadRequest, "parcel "+string(typ)+" isn't supported in "+string(profile.Type)+" profile")

		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	p, err := parcelapi.Decode(typ, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	for _, existing := range s.parcels {
		if existing.ProfileID == profile.ID && existing.Type == typ && existing.Name == p.GetName() {
			writeError(w, http.StatusConflict, "parcel "+p.GetName()+" already exists")

			return
		}
	}

	id := uuid.NewString()
	s.parcels[id] = &Parcel{
		ID:        id,
		ProfileID: profile.ID,
		ParentID:  parentID,
		Type:      typ,
		Name:      p.GetName(),
		Payload:   body,
	}

	slog.Debug("Fake parcel created", "profile", profile.Name, "type", typ, "name", p.GetName())

	writeJSON(w, http.StatusOK, map[string]any{"parcelId": id})
}

func splitParcelPath(rest string) (parcelapi.Type, string, string) {
	parts := strings.Split(rest, "/")
	for idx, part := range parts {
		if uuid.Validate(part) == nil {
			return parcelapi.Type(strings.Join(parts[:idx], "/")), part, strings.Join(parts[idx+1:], "/")
		}
	}

	return parcelapi.Type(rest), "", ""
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"code":    http.StatusText(status),
		},
	})
}
