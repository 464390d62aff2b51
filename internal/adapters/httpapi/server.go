package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/itinerary"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/plans"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/recommendations"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/sharing"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/statistics"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/users"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/idempotency"
)

const maxBodyBytes = 1 << 20

// Services bundles the application services wired into the HTTP adapter.
type Services struct {
	Users           *users.Service
	Plans           *plans.Service
	Sharing         *sharing.Service
	Itinerary       *itinerary.Service
	Recommendations *recommendations.Service
	Statistics      *statistics.Service
}

// Server is the HTTP adapter over the application services.
type Server struct {
	Services
	Idem idempotency.Store

	validate *validator.Validate
}

func NewServer(svc Services, idem idempotency.Store) *Server {
	return &Server{
		Services: svc,
		Idem:     idem,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in validation details.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RequireUser loads the provisioned user for the authenticated subject.
//
// Subjects without a user profile get 401 USER_NOT_PROVISIONED; they must POST /me first.
func (s *Server) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, ok := SubjectFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
			return
		}
		u, err := s.Users.GetMe(r.Context(), domain.SubjectID(sub))
		if err != nil {
			if errors.Is(err, apperr.NotFound) {
				writeError(w, r, http.StatusUnauthorized, "USER_NOT_PROVISIONED", "No user profile exists for the authenticated subject.", nil)
				return
			}
			writeAppError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

func (s *Server) subject(w http.ResponseWriter, r *http.Request) (domain.SubjectID, bool) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return "", false
	}
	return domain.SubjectID(sub), true
}

func (s *Server) actor(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "USER_NOT_PROVISIONED", "No user profile exists for the authenticated subject.", nil)
		return "", false
	}
	return u.ID, true
}

// decode reads a JSON body into dst and runs struct validation. It writes the error response
// and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing request body", nil)
			return false
		}
		writeError(w, r, http.StatusBadRequest, "MALFORMED_JSON", "request body is not valid JSON", map[string]any{"reason": err.Error()})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeValidationError(w, r, err)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	details := make(map[string]any, len(ves))
	for _, fe := range ves {
		problem := fe.Tag()
		if fe.Param() != "" {
			problem += "=" + fe.Param()
		}
		details[fe.Field()] = problem
	}
	writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "request validation failed", details)
}

func planIDParam(r *http.Request) domain.PlanID {
	return domain.PlanID(chi.URLParam(r, "planId"))
}

// intParam parses a path or query integer, reporting a validation error under field.
func intParam(w http.ResponseWriter, r *http.Request, raw, field string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid "+field, map[string]any{field: "must be an integer"})
		return 0, false
	}
	return n, true
}
