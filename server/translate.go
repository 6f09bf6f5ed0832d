package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/drivelane/lingo"
)

type translateRequest struct {
	Text           string   `json:"text"`
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"targetLanguage"`
	SourceLanguage string   `json:"sourceLanguage"`
}

type translationResult struct {
	TranslatedText         string `json:"translatedText"`
	DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
}

type translateResponse struct {
	Success      bool                `json:"success"`
	Translations []translationResult `json:"translations"`
}

// handleTranslate forwards one or many strings to the provider.
// Validation failures return 400 before any provider call; provider failures
// return a generic 500 with the detail logged server-side only.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	texts := req.Texts
	if len(texts) == 0 && strings.TrimSpace(req.Text) != "" {
		texts = []string{req.Text}
	}

	if len(texts) == 0 {
		respondError(w, http.StatusBadRequest, "Missing required field: text")
		return
	}
	if strings.TrimSpace(req.TargetLanguage) == "" {
		respondError(w, http.StatusBadRequest, "Missing required field: targetLanguage")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	provReq := lingo.Request{
		Texts:      texts,
		TargetLang: req.TargetLanguage,
		SourceLang: req.SourceLanguage,
	}
	if s.glossary != nil {
		provReq.Glossary = s.glossary.Terms
		provReq.ExcludedTerms = s.glossary.Excluded
		provReq.Context = s.glossary.Context
	}

	results, err := s.provider.Translate(ctx, provReq)
	if err != nil {
		s.logger.Error().Err(err).
			Str("target", req.TargetLanguage).
			Int("texts", len(texts)).
			Msg("provider translation failed")
		respondError(w, http.StatusInternalServerError, "Translation failed")
		return
	}

	translations := make([]translationResult, len(results))
	for i, res := range results {
		translations[i] = translationResult{
			TranslatedText:         res.Text,
			DetectedSourceLanguage: res.DetectedSource,
		}
	}

	writeJSON(w, http.StatusOK, translateResponse{
		Success:      true,
		Translations: translations,
	})
}

type detectResponse struct {
	Success          bool   `json:"success"`
	DetectedLanguage string `json:"detectedLanguage"`
}

// handleDetect identifies the language of the text query parameter.
// Concurrent detections of the same text share one provider call.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if strings.TrimSpace(text) == "" {
		respondError(w, http.StatusBadRequest, "Missing required query parameter: text")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	detected, err, _ := s.detects.Do(lingo.HashText(text), func() (any, error) {
		return s.provider.Detect(ctx, text)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("provider language detection failed")
		respondError(w, http.StatusInternalServerError, "Language detection failed")
		return
	}

	writeJSON(w, http.StatusOK, detectResponse{
		Success:          true,
		DetectedLanguage: detected.(string),
	})
}
