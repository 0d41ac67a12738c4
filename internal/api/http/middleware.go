package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/lakemont/admissions/internal/service"
)

type contextKey string

const staffClaimsKey contextKey = "staff-claims"

// requireStaff verifies the bearer staff grant and stores its claims on the
// request context.
func (s *Server) requireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := ValidateStaffGrant(bearerToken(r.Header.Get("Authorization")), s.staffGrants)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), staffClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// staffActor returns the actor for the staff claims on the context. Handlers
// outside requireStaff get a zero actor, recorded as a system action.
func staffActor(ctx context.Context) service.Actor {
	claims, ok := ctx.Value(staffClaimsKey).(StaffClaims)
	if !ok {
		return service.Actor{}
	}
	return service.Actor{
		AdminID: claims.AdminID,
		Team:    claims.Team,
		Role:    claims.Role,
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
