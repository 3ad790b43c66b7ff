package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/cyz/app-mentoria/internal/config"
	"github.com/cyz/app-mentoria/internal/enrollment"
	"github.com/cyz/app-mentoria/internal/identity"
	"github.com/cyz/app-mentoria/internal/model"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mentoria_http_requests_total",
	Help: "HTTP requests handled, by method and status code.",
}, []string{"method", "code"})

type Server struct {
	cfg      config.Config
	service  *enrollment.Service
	identity *identity.Evaluator
	redis    *redis.Client

	// Guards all store access: the store handle caches documents without
	// its own synchronization, so readers take the shared lock and
	// mutations the exclusive one.
	mu sync.RWMutex
}

func NewServer(cfg config.Config, service *enrollment.Service, evaluator *identity.Evaluator, redisClient *redis.Client) *Server {
	return &Server{
		cfg:      cfg,
		service:  service,
		identity: evaluator,
		redis:    redisClient,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/activities", s.handleListActivities)
	r.Post("/activities", s.handleCreateActivity)
	r.Get("/activities/{title}", s.handleGetActivity)
	r.Put("/activities/{title}", s.handleUpdateActivity)
	r.Delete("/activities/{title}", s.handleDeleteActivity)
	r.Post("/activities/{title}/signup", s.handleSignup)
	r.Delete("/activities/{title}/cancel", s.handleCancel)

	r.Get("/users/current", s.handleCurrentUser)
	r.Get("/users/current/activities", s.handleCurrentUserActivities)
	r.Get("/users/profiles", s.handleListProfiles)
	r.Post("/users/switch-profile", s.handleSwitchProfile)

	if s.cfg.StaticDir != "" {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
		})
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))
	}

	return r
}

// Middleware

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		requestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

// Activity handlers

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	if payload, ok := s.cachedListing(r.Context()); ok {
		writeRawJSON(w, http.StatusOK, payload)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	views, err := s.service.ListActivities()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	payload, err := json.Marshal(views)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	s.storeListing(r.Context(), payload)
	writeRawJSON(w, http.StatusOK, payload)
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view, err := s.service.Activity(chi.URLParam(r, "title"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type createActivityRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	MentorName      string   `json:"mentor_name"`
	MentorEmail     string   `json:"mentor_email"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	SoftSkillsFocus []string `json:"soft_skills_focus"`
	Requirements    *string  `json:"requirements"`
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requirePermission(w, identity.PermCreate) {
		return
	}
	var req createActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	err := s.service.Create(req.Title, model.Activity{
		Description:     req.Description,
		MentorName:      req.MentorName,
		MentorEmail:     req.MentorEmail,
		Schedule:        req.Schedule,
		MaxParticipants: req.MaxParticipants,
		SoftSkillsFocus: req.SoftSkillsFocus,
		Requirements:    req.Requirements,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.invalidateListing(r.Context())
	view, err := s.service.Activity(req.Title)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requirePermission(w, identity.PermCreate) {
		return
	}
	var update enrollment.ActivityUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	title := chi.URLParam(r, "title")
	if err := s.service.Update(title, update); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.invalidateListing(r.Context())
	view, err := s.service.Activity(title)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requirePermission(w, identity.PermDelete) {
		return
	}
	title := chi.URLParam(r, "title")
	if err := s.service.Delete(title); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.invalidateListing(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "activity deleted: " + title})
}

// Roster handlers. Self-managing users act only on their own identity,
// which is substituted here and never taken from the request; managers must
// name the participant explicitly.

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, perms, ok := s.currentIdentity(w)
	if !ok {
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	switch {
	case identity.Has(perms, identity.PermSelfManage):
		name, email = user.Name, user.Email
		if email == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}
	case identity.Has(perms, identity.PermManageParticipants):
		if name == "" || email == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}
	default:
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	title := chi.URLParam(r, "title")
	if err := s.service.Signup(title, name, email); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.invalidateListing(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "participant " + email + " registered in activity: " + title,
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, perms, ok := s.currentIdentity(w)
	if !ok {
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	switch {
	case identity.Has(perms, identity.PermSelfManage):
		email = user.Email
		if email == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}
	case identity.Has(perms, identity.PermManageParticipants), identity.Has(perms, identity.PermDelete):
		if email == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}
	default:
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	title := chi.URLParam(r, "title")
	if err := s.service.Cancel(title, email); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.invalidateListing(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "registration of " + email + " cancelled from activity: " + title,
	})
}

// User handlers

func (s *Server) handleCurrentUser(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, err := s.identity.CurrentUser()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	perms, err := s.identity.PermissionsOf(user)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":        user,
		"permissions": perms,
	})
}

func (s *Server) handleCurrentUserActivities(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, err := s.identity.CurrentUser()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	titles, err := s.service.UserActivities(user.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"activities": titles})
}

func (s *Server) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles, err := s.identity.Profiles()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleSwitchProfile(w http.ResponseWriter, r *http.Request) {
	profileName := strings.TrimSpace(r.URL.Query().Get("profile_name"))
	if profileName == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.identity.Switch(profileName); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "switched to profile: " + profileName})
}

// Permissions

func (s *Server) currentIdentity(w http.ResponseWriter) (model.User, []string, bool) {
	user, err := s.identity.CurrentUser()
	if err != nil {
		s.writeServiceError(w, err)
		return model.User{}, nil, false
	}
	perms, err := s.identity.PermissionsOf(user)
	if err != nil {
		s.writeServiceError(w, err)
		return model.User{}, nil, false
	}
	return user, perms, true
}

func (s *Server) requirePermission(w http.ResponseWriter, perm string) bool {
	allowed, err := s.identity.HasPermission(perm)
	if err != nil {
		s.writeServiceError(w, err)
		return false
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

// Listing cache. All helpers are nil-safe no-ops when Redis is not
// configured; a cache failure falls through to the store.

const listingCacheKey = "activities:list"

func (s *Server) cachedListing(ctx context.Context) ([]byte, bool) {
	if s.redis == nil {
		return nil, false
	}
	payload, err := s.redis.Get(ctx, listingCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (s *Server) storeListing(ctx context.Context, payload []byte) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, listingCacheKey, payload, s.cfg.ListingCacheTTL).Err(); err != nil {
		log.Printf("listing cache set error: %v", err)
	}
}

func (s *Server) invalidateListing(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, listingCacheKey).Err(); err != nil {
		log.Printf("listing cache del error: %v", err)
	}
}

// Utilities

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var conflict *enrollment.ConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":                "schedule_conflict",
			"conflicting_activity": conflict.Activity,
			"day":                  conflict.Day,
		})
	case errors.Is(err, enrollment.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "activity_not_found")
	case errors.Is(err, enrollment.ErrActivityExists):
		writeError(w, http.StatusBadRequest, "already_exists")
	case errors.Is(err, enrollment.ErrAlreadyRegistered):
		writeError(w, http.StatusBadRequest, "already_registered")
	case errors.Is(err, enrollment.ErrActivityFull):
		writeError(w, http.StatusBadRequest, "activity_full")
	case errors.Is(err, enrollment.ErrNotRegistered):
		writeError(w, http.StatusBadRequest, "not_registered")
	case errors.Is(err, enrollment.ErrActivityNotEmpty):
		writeError(w, http.StatusBadRequest, "activity_not_empty")
	case errors.Is(err, enrollment.ErrNoFieldsProvided):
		writeError(w, http.StatusBadRequest, "no_fields_provided")
	case errors.Is(err, enrollment.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "missing_fields")
	case errors.Is(err, enrollment.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, "invalid_capacity")
	case errors.Is(err, identity.ErrUnknownProfile):
		writeError(w, http.StatusBadRequest, "unknown_profile")
	default:
		log.Printf("storage error: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_error")
	}
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
