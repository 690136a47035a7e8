// File path: internal/api/convert_handler.go
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edgeport/edgeport/internal/common"
	"github.com/edgeport/edgeport/internal/convert"
)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing function name"))
		return
	}

	key := resultCacheKey(req.Name, req.Source)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			logger.Debug("api: convert served from cache", "function", req.Name)
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result := s.converter.Convert(r.Context(), convert.SourceFunction{
		Name:       req.Name,
		RawText:    req.Source,
		OriginPath: req.OriginPath,
	})
	if s.cache != nil {
		s.cache.Add(key, result)
	}
	logger.Info("api: function converted",
		"function", req.Name,
		"preserved_pct", result.PreservedLogicPct,
		"review_items", result.ManualReviewCount,
	)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req bundleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no files submitted"))
		return
	}

	fns := convert.FunctionsFromFiles(req.Files)
	bundle, err := s.converter.ConvertAll(r.Context(), fns)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("convert batch: %w", err))
		return
	}
	id := uuid.NewString()
	logger.Info("api: bundle converted", "bundle_id", id, "functions", len(fns))
	writeJSON(w, http.StatusOK, bundleResponse{BundleID: id, Bundle: bundle})
}

func (s *Server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	function := r.URL.Query().Get("function")
	if function == "" {
		function = "your-function"
	}
	advisory := s.converter.Advisories().Advise(convert.WebhookKind(provider), function)
	writeJSON(w, http.StatusOK, advisoryResponse{Function: function, Advisory: advisory})
}

func resultCacheKey(name, source string) string {
	sum := sha256.Sum256([]byte(name + "\x00" + source))
	return hex.EncodeToString(sum[:])
}
