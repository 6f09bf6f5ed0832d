package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/drivelane/lingo"
)

// ProxyClient is the client-side provider. It talks exclusively to the proxy
// API (server package), which holds the actual provider credential; a client
// never reaches the managed translation provider directly.
//
// It also implements lingo.PreferenceStore over the /language endpoints, so a
// LanguageContext can persist its preference in the proxy's cookie.
type ProxyClient struct {
	baseURL string
	http    *http.Client
}

// ProxyConfig holds configuration for the proxy client.
type ProxyConfig struct {
	BaseURL string        // Proxy API base URL, e.g. "https://example.com/api"
	Timeout time.Duration // Per-request timeout (default 10s)
	Client  *http.Client  // Optional pre-configured client (proxies, transports)
}

// NewProxyClient creates a proxy API client with its own cookie jar.
func NewProxyClient(cfg ProxyConfig) *ProxyClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := cfg.Client
	if client == nil {
		jar, _ := cookiejar.New(nil)
		client = &http.Client{Jar: jar}
	}
	client.Timeout = timeout

	return &ProxyClient{
		baseURL: cfg.BaseURL,
		http:    client,
	}
}

type translateRequest struct {
	Text           string   `json:"text,omitempty"`
	Texts          []string `json:"texts,omitempty"`
	TargetLanguage string   `json:"targetLanguage"`
	SourceLanguage string   `json:"sourceLanguage,omitempty"`
}

type translateResponse struct {
	Success      bool `json:"success"`
	Translations []struct {
		TranslatedText         string `json:"translatedText"`
		DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
	} `json:"translations"`
	Error string `json:"error,omitempty"`
}

// Translate implements Provider over POST /translate.
func (c *ProxyClient) Translate(ctx context.Context, req Request) ([]Translation, error) {
	if len(req.Texts) == 0 {
		return []Translation{}, nil
	}

	source := req.SourceLang
	if source == lingo.SourceAuto {
		source = ""
	}

	body := translateRequest{
		Texts:          req.Texts,
		TargetLanguage: req.TargetLang,
		SourceLanguage: source,
	}

	var out translateResponse
	if err := c.do(ctx, http.MethodPost, "/translate", body, &out); err != nil {
		return nil, err
	}

	if len(out.Translations) != len(req.Texts) {
		return nil, &lingo.CountMismatchError{
			Expected: len(req.Texts),
			Got:      len(out.Translations),
		}
	}

	results := make([]Translation, len(out.Translations))
	for i, tr := range out.Translations {
		results[i] = Translation{
			Text:           tr.TranslatedText,
			DetectedSource: tr.DetectedSourceLanguage,
		}
	}

	return results, nil
}

// Detect implements Provider over GET /translate?text=.
func (c *ProxyClient) Detect(ctx context.Context, text string) (string, error) {
	var out struct {
		Success          bool   `json:"success"`
		DetectedLanguage string `json:"detectedLanguage"`
		Error            string `json:"error,omitempty"`
	}

	path := "/translate?text=" + url.QueryEscape(text)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	if out.DetectedLanguage == "" {
		return "", &lingo.ProviderError{Message: "proxy returned no detected language"}
	}

	return out.DetectedLanguage, nil
}

// Language reads the language preference from GET /language.
func (c *ProxyClient) Language(ctx context.Context) (lingo.Language, error) {
	var out struct {
		Success  bool   `json:"success"`
		Language string `json:"language"`
	}

	if err := c.do(ctx, http.MethodGet, "/language", nil, &out); err != nil {
		return "", err
	}

	return lingo.ParseLanguage(out.Language)
}

// SetLanguage persists the language preference via POST /language. The
// confirmation cookie lands in the client's jar.
func (c *ProxyClient) SetLanguage(ctx context.Context, lang lingo.Language) error {
	body := map[string]string{"language": string(lang)}

	var out struct {
		Success  bool   `json:"success"`
		Language string `json:"language"`
		Error    string `json:"error,omitempty"`
	}

	return c.do(ctx, http.MethodPost, "/language", body, &out)
}

// Load implements lingo.PreferenceStore.
func (c *ProxyClient) Load() (lingo.Language, bool) {
	lang, err := c.Language(context.Background())
	if err != nil {
		return "", false
	}
	return lang, true
}

// Save implements lingo.PreferenceStore.
func (c *ProxyClient) Save(lang lingo.Language) error {
	return c.SetLanguage(context.Background(), lang)
}

func (c *ProxyClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", lingo.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return &lingo.ProviderError{
			Message:   "proxy request failed",
			Cause:     err,
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)

		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return &lingo.ValidationError{Message: apiErr.Error}
		}

		return &lingo.ProviderError{
			Message:   fmt.Sprintf("proxy returned status %d", resp.StatusCode),
			Cause:     errors.New(apiErr.Error),
			Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &lingo.ProviderError{
				Message: "malformed proxy response",
				Cause:   err,
			}
		}
	}

	return nil
}

var (
	_ Provider              = (*ProxyClient)(nil)
	_ lingo.PreferenceStore = (*ProxyClient)(nil)
)
