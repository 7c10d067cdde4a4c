// Package client is the typed HTTP wrapper around the municipal
// project-funding API. Transport, auth and query encoding live here;
// response envelopes are normalized at this boundary so nothing above it
// ever re-checks shapes.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"munifund/internal/model"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	http *resty.Client
	log  *zap.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = resty.NewWithClient(hc) }
}

func New(baseURL, token string, options ...Option) *Client {
	c := &Client{http: resty.New().SetTimeout(defaultTimeout), log: zap.NewNop()}
	for _, option := range options {
		option(c)
	}

	c.http.
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.http.SetAuthToken(token)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body any) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr := &APIError{
			Status:  resp.StatusCode(),
			Message: extractMessage(resp.Body(), resp.Header().Get("Content-Type"), resp.StatusCode()),
		}
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}
	return resp.Body(), nil
}

// ListProjects fetches one page of listings. params comes from
// query.Params; the caller owns pagination.
func (c *Client) ListProjects(ctx context.Context, params map[string]string) ([]model.Project, error) {
	body, err := c.do(ctx, http.MethodGet, "/projects", params, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Project](body)
}

// ValueRanges fetches the observed min/max bounds used to calibrate the
// range filters.
func (c *Client) ValueRanges(ctx context.Context) (model.ValueRanges, error) {
	body, err := c.do(ctx, http.MethodGet, "/projects/value-ranges", nil, nil)
	if err != nil {
		return model.ValueRanges{}, err
	}
	return decodeRecord[model.ValueRanges](body)
}

func (c *Client) GetProject(ctx context.Context, ref string, includeDocuments bool) (model.Project, error) {
	params := map[string]string{}
	if includeDocuments {
		params["include_documents"] = "true"
	}
	body, err := c.do(ctx, http.MethodGet, "/projects/"+ref, params, nil)
	if err != nil {
		return model.Project{}, err
	}
	return decodeRecord[model.Project](body)
}

func (c *Client) CreateCommitment(ctx context.Context, commitment model.Commitment) (model.Commitment, error) {
	body, err := c.do(ctx, http.MethodPost, "/commitments/", nil, commitment)
	if err != nil {
		return model.Commitment{}, err
	}
	return decodeRecord[model.Commitment](body)
}

type favoriteRequest struct {
	UserID     string `json:"user_id"`
	ProjectRef string `json:"project_reference_id"`
}

func (c *Client) AddFavorite(ctx context.Context, userID, ref string) error {
	_, err := c.do(ctx, http.MethodPost, "/project-favorites/", nil, favoriteRequest{UserID: userID, ProjectRef: ref})
	return err
}

func (c *Client) RemoveFavorite(ctx context.Context, userID, ref string) error {
	params := map[string]string{"user_id": userID, "project_reference_id": ref}
	_, err := c.do(ctx, http.MethodDelete, "/project-favorites/", params, nil)
	return err
}

func (c *Client) ListQuestions(ctx context.Context, ref string) ([]model.Question, error) {
	body, err := c.do(ctx, http.MethodGet, "/questions", map[string]string{"project_reference_id": ref}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Question](body)
}

func (c *Client) AskQuestion(ctx context.Context, q model.Question) (model.Question, error) {
	body, err := c.do(ctx, http.MethodPost, "/questions", nil, q)
	if err != nil {
		return model.Question{}, err
	}
	return decodeRecord[model.Question](body)
}

func (c *Client) UpdateQuestion(ctx context.Context, q model.Question) (model.Question, error) {
	body, err := c.do(ctx, http.MethodPut, "/questions/"+q.ID, nil, q)
	if err != nil {
		return model.Question{}, err
	}
	return decodeRecord[model.Question](body)
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/questions/"+id, nil, nil)
	return err
}

func (c *Client) ListNotes(ctx context.Context, userID, ref string) ([]model.Note, error) {
	params := map[string]string{"project_reference_id": ref, "user_id": userID}
	body, err := c.do(ctx, http.MethodGet, "/project-notes/", params, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Note](body)
}

func (c *Client) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	body, err := c.do(ctx, http.MethodPost, "/project-notes/", nil, note)
	if err != nil {
		return model.Note{}, err
	}
	return decodeRecord[model.Note](body)
}

func (c *Client) CreateDraft(ctx context.Context, draft model.ProjectDraft) (model.ProjectDraft, error) {
	body, err := c.do(ctx, http.MethodPost, "/project-drafts/", nil, draft)
	if err != nil {
		return model.ProjectDraft{}, err
	}
	return decodeRecord[model.ProjectDraft](body)
}

func (c *Client) UpdateDraft(ctx context.Context, draft model.ProjectDraft) (model.ProjectDraft, error) {
	body, err := c.do(ctx, http.MethodPut, "/project-drafts/"+draft.ID, nil, draft)
	if err != nil {
		return model.ProjectDraft{}, err
	}
	return decodeRecord[model.ProjectDraft](body)
}

func (c *Client) SubmitDraft(ctx context.Context, id string) (model.Project, error) {
	body, err := c.do(ctx, http.MethodPost, "/project-drafts/"+id+"/submit", nil, nil)
	if err != nil {
		return model.Project{}, err
	}
	return decodeRecord[model.Project](body)
}

func (c *Client) ListDocumentRequests(ctx context.Context, ref string) ([]model.DocumentRequest, error) {
	body, err := c.do(ctx, http.MethodGet, "/document-requests", map[string]string{"project_reference_id": ref}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.DocumentRequest](body)
}

func (c *Client) CreateDocumentRequest(ctx context.Context, req model.DocumentRequest) (model.DocumentRequest, error) {
	body, err := c.do(ctx, http.MethodPost, "/document-requests/", nil, req)
	if err != nil {
		return model.DocumentRequest{}, err
	}
	return decodeRecord[model.DocumentRequest](body)
}

func (c *Client) ListMeetings(ctx context.Context, ref string) ([]model.Meeting, error) {
	body, err := c.do(ctx, http.MethodGet, "/meetings", map[string]string{"project_reference_id": ref}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Meeting](body)
}

func (c *Client) ScheduleMeeting(ctx context.Context, meeting model.Meeting) (model.Meeting, error) {
	body, err := c.do(ctx, http.MethodPost, "/meetings/", nil, meeting)
	if err != nil {
		return model.Meeting{}, err
	}
	return decodeRecord[model.Meeting](body)
}

// DownloadFile streams a document blob to w and reports the byte count.
func (c *Client) DownloadFile(ctx context.Context, id string, w io.Writer) (int64, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get("/files/" + id + "/download")
	if err != nil {
		return 0, fmt.Errorf("GET /files/%s/download: %w", id, err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.IsError() {
		body, _ := io.ReadAll(io.LimitReader(raw, 64<<10))
		return 0, &APIError{
			Status:  resp.StatusCode(),
			Message: extractMessage(body, resp.Header().Get("Content-Type"), resp.StatusCode()),
		}
	}
	return io.Copy(w, raw)
}
