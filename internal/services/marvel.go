package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
)

const (
	defaultMarvelBaseURL = "https://gateway.marvel.com/v1/public"
	defaultPageSize      = 20
	maxPageSize          = 100

	// Path segment the API uses for its placeholder artwork.
	imageNotAvailable = "image_not_available"
)

// MarvelService is the remote character source backed by the Marvel public API.
//
// Every request is signed with ts, apikey and hash = md5(ts + privateKey + publicKey) and paced by a token bucket.
type MarvelService struct {
	baseURL    string
	publicKey  string
	privateKey string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	now        func() time.Time
}

// MarvelOption customizes a [MarvelService].
type MarvelOption func(*MarvelService)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) MarvelOption {
	return func(m *MarvelService) { m.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) MarvelOption {
	return func(m *MarvelService) { m.logger = shared.WithLogger(l, "component", "marvel") }
}

// WithClock replaces the timestamp source used for signing.
func WithClock(now func() time.Time) MarvelOption {
	return func(m *MarvelService) { m.now = now }
}

// NewMarvelService creates a Marvel API client from cfg.
//
// Returns [shared.ErrMissingCredentials] when either key is unset.
func NewMarvelService(cfg shared.MarvelConfig, opts ...MarvelOption) (*MarvelService, error) {
	if !cfg.HasKeys() {
		return nil, fmt.Errorf("%w: marvel public_key and private_key are required", shared.ErrMissingCredentials)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultMarvelBaseURL
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	m := &MarvelService{
		baseURL:    baseURL,
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     shared.WithLogger(shared.DiscardLogger(), "component", "marvel"),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Name returns the service name.
func (m *MarvelService) Name() string {
	return "Marvel"
}

// PageQuery selects one page of the character listing.
type PageQuery struct {
	Offset         int
	Limit          int
	NameStartsWith string
}

// Page is one page of characters plus the paging totals reported by the API.
type Page struct {
	Offset     int
	Limit      int
	Total      int
	Characters []models.MarvelCharacter
}

// HasMore reports whether characters remain after this page.
func (p Page) HasMore() bool {
	return p.Offset+len(p.Characters) < p.Total
}

// FetchCharacterList returns the first page of characters.
func (m *MarvelService) FetchCharacterList(ctx context.Context) models.Result[[]models.MarvelCharacter] {
	page, err := m.FetchCharacterPage(ctx, PageQuery{})
	if err != nil {
		return models.Error[[]models.MarvelCharacter](err)
	}
	return models.Success(page.Characters)
}

// SearchCharacters returns the first page of characters whose name starts with query.
func (m *MarvelService) SearchCharacters(ctx context.Context, query string) models.Result[[]models.MarvelCharacter] {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Error[[]models.MarvelCharacter](fmt.Errorf("%w: search query is empty", shared.ErrInvalidInput))
	}

	page, err := m.FetchCharacterPage(ctx, PageQuery{NameStartsWith: query})
	if err != nil {
		return models.Error[[]models.MarvelCharacter](err)
	}
	return models.Success(page.Characters)
}

// FetchCharacterByID fetches one character. id may be a numeric id or a character resource URL.
func (m *MarvelService) FetchCharacterByID(ctx context.Context, id string) models.Result[models.MarvelCharacter] {
	id = models.CharacterID(id)
	if id == "" {
		return models.Error[models.MarvelCharacter](fmt.Errorf("%w: character id is empty", shared.ErrInvalidInput))
	}

	var env marvelEnvelope
	if err := m.doRequest(ctx, "/characters/"+url.PathEscape(id), nil, &env); err != nil {
		return models.Error[models.MarvelCharacter](err)
	}

	if len(env.Data.Results) == 0 {
		return models.Error[models.MarvelCharacter](fmt.Errorf("%w: character %s", shared.ErrNotFound, id))
	}

	return models.Success(env.Data.Results[0].character())
}

// FetchCharacterPage fetches one page of the character listing.
func (m *MarvelService) FetchCharacterPage(ctx context.Context, q PageQuery) (*Page, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = m.pageSize
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("orderBy", "name")
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.NameStartsWith != "" {
		params.Set("nameStartsWith", q.NameStartsWith)
	}

	var env marvelEnvelope
	if err := m.doRequest(ctx, "/characters", params, &env); err != nil {
		return nil, err
	}

	page := &Page{
		Offset:     env.Data.Offset,
		Limit:      env.Data.Limit,
		Total:      env.Data.Total,
		Characters: make([]models.MarvelCharacter, 0, len(env.Data.Results)),
	}
	for _, r := range env.Data.Results {
		page.Characters = append(page.Characters, r.character())
	}

	return page, nil
}

// sign adds the ts, apikey and hash query parameters.
func (m *MarvelService) sign(params url.Values) {
	ts := strconv.FormatInt(m.now().UnixMilli(), 10)
	sum := md5.Sum([]byte(ts + m.privateKey + m.publicKey))

	params.Set("ts", ts)
	params.Set("apikey", m.publicKey)
	params.Set("hash", hex.EncodeToString(sum[:]))
}

func (m *MarvelService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	m.sign(params)

	apiURL := m.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	m.logger.Debug("marvel request", "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrNetwork, err)
	}

	return nil
}

// statusError maps a non-2xx response to an error carrying the API's own message.
func statusError(resp *http.Response) error {
	var apiErr struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	detail := ""
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
		detail = apiErr.Status
		if detail == "" {
			detail = apiErr.Message
		}
	}

	msg := fmt.Sprintf("marvel API error: status %d", resp.StatusCode)
	if detail != "" {
		msg = fmt.Sprintf("marvel API error (status %d): %s", resp.StatusCode, detail)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w: %s", shared.ErrNetwork, shared.ErrNotFound, msg)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %w: %s", shared.ErrNetwork, shared.ErrMissingCredentials, msg)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %w: %s", shared.ErrNetwork, shared.ErrServiceUnavailable, msg)
	default:
		return fmt.Errorf("%w: %s", shared.ErrNetwork, msg)
	}
}

type marvelEnvelope struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Offset  int               `json:"offset"`
		Limit   int               `json:"limit"`
		Total   int               `json:"total"`
		Count   int               `json:"count"`
		Results []marvelCharacter `json:"results"`
	} `json:"data"`
}

type marvelCharacter struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   struct {
		Path      string `json:"path"`
		Extension string `json:"extension"`
	} `json:"thumbnail"`
	ResourceURI string `json:"resourceURI"`
}

// character maps an API result to the domain entity. The placeholder artwork counts as no thumbnail.
func (c marvelCharacter) character() models.MarvelCharacter {
	thumb := ""
	if p := c.Thumbnail.Path; p != "" && !strings.Contains(p, imageNotAvailable) {
		thumb = strings.Replace(p, "http://", "https://", 1)
		if c.Thumbnail.Extension != "" {
			thumb += "." + c.Thumbnail.Extension
		}
	}

	return models.MarvelCharacter{
		ID:           strconv.Itoa(c.ID),
		Name:         c.Name,
		Description:  strings.TrimSpace(c.Description),
		ThumbnailURL: thumb,
	}
}
