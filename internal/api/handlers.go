package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/CyrilRPG/diploma/internal/api/presenter"
	"github.com/CyrilRPG/diploma/internal/buildinfo"
	"github.com/CyrilRPG/diploma/internal/core"
)

// handleHealth responds with a simple OK status to indicate the server is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAbout responds with service information including version and commit hash.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

// handleValidate runs the authorization decision for the credential in the
// "token" query parameter, or for the credential behind the "link"
// parameter. Authorization rejections are 200 responses with ok:false;
// only a failed upstream check yields a 500.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	q := r.URL.Query()
	credential := q.Get("token")

	if link := q.Get("link"); link != "" && credential == "" {
		resolved, ok := s.authService.ResolveLink(link)
		if !ok {
			logger.Info().Msg("unknown link token presented")
			presenter.JSON(w, r, core.Result{
				OK:     false,
				Reason: core.ReasonMalformed,
			}, http.StatusOK)
			return
		}
		credential = resolved
	}

	result, err := s.authService.Validate(ctx, credential)
	if err != nil {
		logger.Error().Err(err).Msg("validation could not be completed")
		presenter.Err(w, r, err, "validation failed")
		return
	}

	presenter.JSON(w, r, result, http.StatusOK)
}

type GenerateLinkResponse struct {
	OK        bool   `json:"ok"`
	LinkToken string `json:"linkToken,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// handleGenerateLink mints an opaque link ID for a decodable credential.
func (s *Server) handleGenerateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	credential := r.URL.Query().Get("token")
	link, err := s.authService.GenerateLink(credential)
	if err != nil {
		logger.Warn().Err(err).Msg("link generation refused")
		presenter.JSON(w, r, GenerateLinkResponse{
			OK:     false,
			Reason: core.ReasonMalformed,
		}, http.StatusOK)
		return
	}

	presenter.JSON(w, r, GenerateLinkResponse{
		OK:        true,
		LinkToken: link,
	}, http.StatusOK)
}
