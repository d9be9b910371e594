package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	defaultTable   = "books"
	defaultTimeout = 30 * time.Second
	restPath       = "/rest/v1/"
)

// RemoteGateway talks to a PostgREST endpoint such as the one exposed by
// Supabase. The key is sent both as the apikey header and as a bearer token.
type RemoteGateway struct {
	httpClient     *http.Client
	baseURL        string
	key            string
	table          string
	progressColumn bool
}

// NewRemoteGateway creates a REST gateway for table at baseURL.
func NewRemoteGateway(baseURL, key, table string, timeout time.Duration) *RemoteGateway {
	if table == "" {
		table = defaultTable
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &RemoteGateway{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(baseURL, "/"),
		key:            key,
		table:          table,
		progressColumn: true,
	}
}

// SetProgressColumn controls whether progress is written. Tables without a
// progress column reject any write that names it.
func (g *RemoteGateway) SetProgressColumn(enabled bool) {
	g.progressColumn = enabled
}

// postgrestError is the error body PostgREST returns for 4xx responses.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (g *RemoteGateway) Describe() string {
	return "remote " + g.baseURL
}

func (g *RemoteGateway) ListAll(ctx context.Context) ([]entities.Record, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	var rows []wireRecord
	if err := g.do(ctx, "list books", http.MethodGet, q, nil, &rows); err != nil {
		return nil, err
	}
	return records(rows), nil
}

func (g *RemoteGateway) InsertOne(ctx context.Context, record entities.Record) (entities.Record, error) {
	const op = "insert book"

	var rows []wireRecord
	if err := g.do(ctx, op, http.MethodPost, url.Values{}, []entities.Record{g.writable(record)}, &rows); err != nil {
		return entities.Record{}, err
	}
	created := records(rows)
	if len(created) == 0 {
		return entities.Record{}, queryError(op, "store returned no rows")
	}
	return created[0], nil
}

func (g *RemoteGateway) UpdateOne(ctx context.Context, id string, patch entities.Record) error {
	const op = "update book"

	var updated []wireRecord
	if err := g.do(ctx, op, http.MethodPatch, byID(id), g.writable(patch), &updated); err != nil {
		return err
	}
	if len(updated) == 0 {
		return notFoundError(op, id)
	}
	return nil
}

func (g *RemoteGateway) DeleteOne(ctx context.Context, id string) error {
	const op = "delete book"

	var deleted []wireRecord
	if err := g.do(ctx, op, http.MethodDelete, byID(id), nil, &deleted); err != nil {
		return err
	}
	if len(deleted) == 0 {
		return notFoundError(op, id)
	}
	return nil
}

func (g *RemoteGateway) do(ctx context.Context, op, method string, q url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return queryError(op, fmt.Sprintf("encode request: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := g.baseURL + restPath + g.table
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return queryError(op, fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("apikey", g.key)
	req.Header.Set("Authorization", "Bearer "+g.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return connectionError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classify(op, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return queryError(op, fmt.Sprintf("decode response: %v", err))
	}
	return nil
}

// classify maps an error response onto the gateway error kinds.
func classify(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var pgErr postgrestError
	_ = json.Unmarshal(raw, &pgErr)

	message := pgErr.Message
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, message)

	switch {
	case resp.StatusCode >= 500:
		return &Error{Kind: ErrConnection, Op: op, Message: message}
	case strings.HasPrefix(pgErr.Code, "23"), strings.HasPrefix(pgErr.Code, "22"):
		return validationError(op, message)
	case resp.StatusCode == http.StatusConflict, resp.StatusCode == http.StatusUnprocessableEntity:
		return validationError(op, message)
	default:
		return queryError(op, message)
	}
}

// writable strips the columns the store owns, and progress when the table
// has no such column.
func (g *RemoteGateway) writable(r entities.Record) entities.Record {
	r.ID = ""
	r.Genre = nil
	r.CreatedAt = nil
	r.LastUpdated = nil
	if !g.progressColumn {
		r.Progress = nil
	}
	return r
}

func byID(id string) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return q
}
