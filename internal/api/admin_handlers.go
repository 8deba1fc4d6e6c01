package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/CyrilRPG/diploma/internal/api/presenter"
	"github.com/CyrilRPG/diploma/internal/core"
)

// handleAdminAudits retrieves recent audit log entries, optionally
// filtered by identity or credential fingerprint.
func (s *Server) handleAdminAudits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	q := r.URL.Query()
	limitStr := q.Get("limit")

	filterIdentity := q.Get("identity")
	filterFingerprint := q.Get("fingerprint")

	limit := 50
	if limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			logger.Warn().Err(err).Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	var entries []core.AuditEntry
	var err error

	if filterIdentity != "" || filterFingerprint != "" {
		entries, err = s.authService.Audits(func(entry core.AuditEntry) bool {
			if filterIdentity != "" && entry.Identity != filterIdentity {
				return false
			}
			if filterFingerprint != "" && entry.Fingerprint != filterFingerprint {
				return false
			}
			return true
		}, limit)
	} else {
		entries, err = s.authService.RecentAudits(limit)
	}

	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve audit logs")
		presenter.Error(w, r, "failed to retrieve audit logs", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}

// handleAdminSessions retrieves the current session entries per identity.
func (s *Server) handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, s.authService.Sessions(), http.StatusOK)
}

type RevocationsResponse struct {
	Count        int      `json:"count"`
	Fingerprints []string `json:"fingerprints"`
}

// handleAdminRevocations lists the revoked credential fingerprints.
func (s *Server) handleAdminRevocations(w http.ResponseWriter, r *http.Request) {
	fingerprints := s.authService.RevokedFingerprints()
	presenter.JSON(w, r, RevocationsResponse{
		Count:        len(fingerprints),
		Fingerprints: fingerprints,
	}, http.StatusOK)
}

type RevokePayload struct {
	// Token is the raw credential to revoke.
	Token string `json:"token"`
}

type RevokeResponse struct {
	Status string `json:"status"`
}

// handleAdminRevoke force-revokes a credential.
func (s *Server) handleAdminRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload RevokePayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode revoke request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Token == "" {
		presenter.Error(w, r, "missing token", http.StatusBadRequest)
		return
	}

	s.authService.Revoke(ctx, payload.Token)
	presenter.JSON(w, r, RevokeResponse{Status: "revoked"}, http.StatusOK)
}

// DecodePayload decodes a JSON request body strictly.
func DecodePayload(r *http.Request, dest any, allowEmpty bool) error {
	switch r.Header.Get("Content-Type") {
	case "application/json", "":
		// strict encoding for JSON
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dest); err != nil {
			if !errors.Is(err, io.EOF) || !allowEmpty {
				return err
			}
		}
		// ensure there's no extra data
		if dec.More() {
			return errors.New("extra data in request body")
		}
		return nil
	default:
		return errors.New("unsupported content type")
	}
}
