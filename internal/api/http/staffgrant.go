package http

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/lakemont/admissions/internal/platform/errors"
	"github.com/lakemont/admissions/internal/service"
)

// staffGrantEnv holds raw env values before post-parse validation.
type staffGrantEnv struct {
	Issuer    string `env:"ADMISSIONS_STAFF_GRANT_ISSUER"`
	Audience  string `env:"ADMISSIONS_STAFF_GRANT_AUDIENCE"`
	PublicKey string `env:"ADMISSIONS_STAFF_GRANT_PUBLIC_KEY"`
}

// StaffGrantConfig defines how staff grants are verified.
type StaffGrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// StaffClaims captures the validated identity of a staff member.
type StaffClaims struct {
	AdminID string
	Team    string
	Role    service.Role
}

// staffGrantClaims is the internal claims type used for JWT parsing.
type staffGrantClaims struct {
	jwt.RegisteredClaims
	AdminID string `json:"admin_id"`
	Team    string `json:"team"`
	Role    string `json:"role"`
}

// LoadStaffGrantConfigFromEnv reads staff grant verification configuration.
func LoadStaffGrantConfigFromEnv(now func() time.Time) (StaffGrantConfig, error) {
	var raw staffGrantEnv
	if err := env.Parse(&raw); err != nil {
		return StaffGrantConfig{}, fmt.Errorf("parse staff grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return StaffGrantConfig{}, fmt.Errorf("ADMISSIONS_STAFF_GRANT_ISSUER is required")
	}
	if audience == "" {
		return StaffGrantConfig{}, fmt.Errorf("ADMISSIONS_STAFF_GRANT_AUDIENCE is required")
	}
	if publicKey == "" {
		return StaffGrantConfig{}, fmt.Errorf("ADMISSIONS_STAFF_GRANT_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return StaffGrantConfig{}, fmt.Errorf("decode staff grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return StaffGrantConfig{}, fmt.Errorf("staff grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return StaffGrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// ValidateStaffGrant verifies a staff grant token and returns its claims.
func ValidateStaffGrant(grant string, cfg StaffGrantConfig) (StaffClaims, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return StaffClaims{}, apperrors.New(apperrors.CodeStaffGrantInvalid, "staff grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return StaffClaims{}, errors.New("staff grant verifier is not configured")
	}

	var parsed staffGrantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return StaffClaims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return StaffClaims{}, apperrors.WithMetadata(
			apperrors.CodeStaffGrantInvalid,
			"staff grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return StaffClaims{}, apperrors.WithMetadata(
			apperrors.CodeStaffGrantInvalid,
			"staff grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if parsed.ExpiresAt == nil {
		return StaffClaims{}, apperrors.New(apperrors.CodeStaffGrantInvalid, "staff grant exp is required")
	}

	now := cfg.Now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return StaffClaims{}, apperrors.New(apperrors.CodeStaffGrantInvalid, "staff grant is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return StaffClaims{}, apperrors.New(apperrors.CodeStaffGrantInvalid, "staff grant not active yet")
	}

	if strings.TrimSpace(parsed.AdminID) == "" {
		return StaffClaims{}, apperrors.New(apperrors.CodeStaffGrantInvalid, "staff grant admin_id is required")
	}
	role := service.Role(strings.TrimSpace(parsed.Role))
	if role != service.RoleReviewer && role != service.RoleDirector {
		return StaffClaims{}, apperrors.WithMetadata(
			apperrors.CodeStaffRoleDisallowed,
			fmt.Sprintf("staff role %q is not allowed", parsed.Role),
			map[string]string{"Role": parsed.Role},
		)
	}

	return StaffClaims{
		AdminID: parsed.AdminID,
		Team:    strings.TrimSpace(parsed.Team),
		Role:    role,
	}, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeStaffGrantInvalid, "staff grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeStaffGrantInvalid, "staff grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeStaffGrantInvalid, "staff grant is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
