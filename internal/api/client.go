// Package api is the client for the roster backend's HTTP API.
//
// JSON endpoints are called through Connect unary clients using a plain
// JSON codec. File downloads, text responses, multipart uploads and the
// server-rendered pages go through the same *http.Client directly.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/publicsuffix"

	"github.com/mmynk/rollcall/internal/middleware"
	"github.com/mmynk/rollcall/internal/models"
)

// Backend paths.
const (
	PathIndex          = "/"
	PathEdit           = "/edit"
	PathMembers        = "/get_members"
	PathSubmitAction   = "/submit_action"
	PathUpdateEntry    = "/api/update_entry"
	PathDeleteEntry    = "/api/delete_entry"
	PathExportCSV      = "/api/exportCSV-group"
	PathExportPDF      = "/api/exportPDF-group"
	PathExportLogs     = "/api/export-logs"
	PathExportGroups   = "/api/export-groups"
	PathExportASV      = "/api/export-asv"
	PathDeleteLog      = "/api/delete-log"
	PathImportASV      = "/api/import-asv"
	PathGenerateGroups = "/api/generate-groups"
	PathImportGroups   = "/api/import-groups"
)

// DefaultTimeout bounds every request unless WithHTTPClient overrides it.
const DefaultTimeout = 30 * time.Second

// Client talks to one backend.
type Client struct {
	baseURL string
	http    *http.Client

	members        *connect.Client[MembersRequest, MembersResponse]
	submit         *connect.Client[SubmitRequest, SubmitResponse]
	updateEntry    *connect.Client[UpdateEntryRequest, UpdateEntryResponse]
	deleteEntry    *connect.Client[models.Entry, DeleteEntryResponse]
	generateGroups *connect.Client[ConfirmRequest, MessageResponse]
}

type options struct {
	http    *http.Client
	metrics *middleware.Metrics
	timeout time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient uses hc instead of a fresh client with a cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.http = hc }
}

// WithMetrics records every request on m.
func WithMetrics(m *middleware.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}

	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.http
	if hc == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		hc = &http.Client{Jar: jar, Timeout: o.timeout}
	}
	if o.metrics != nil {
		instrumented := *hc
		instrumented.Transport = middleware.InstrumentTransport(o.metrics, hc.Transport)
		hc = &instrumented
	}

	// Connect calls get {error} bodies lifted into their error message.
	connectHC := *hc
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	connectHC.Transport = serverErrors{next: next}

	base := strings.TrimRight(baseURL, "/")
	connectOpts := []connect.ClientOption{
		Codec(),
		connect.WithInterceptors(middleware.LoggingInterceptor()),
	}

	return &Client{
		baseURL:        base,
		http:           hc,
		members:        connect.NewClient[MembersRequest, MembersResponse](&connectHC, base+PathMembers, connectOpts...),
		submit:         connect.NewClient[SubmitRequest, SubmitResponse](&connectHC, base+PathSubmitAction, connectOpts...),
		updateEntry:    connect.NewClient[UpdateEntryRequest, UpdateEntryResponse](&connectHC, base+PathUpdateEntry, connectOpts...),
		deleteEntry:    connect.NewClient[models.Entry, DeleteEntryResponse](&connectHC, base+PathDeleteEntry, connectOpts...),
		generateGroups: connect.NewClient[ConfirmRequest, MessageResponse](&connectHC, base+PathGenerateGroups, connectOpts...),
	}, nil
}

// BaseURL returns the backend URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func callUnary[Req, Res any](ctx context.Context, client *connect.Client[Req, Res], path string, req *Req) (*Res, error) {
	ctx = middleware.WithProcedure(ctx, path)
	resp, err := client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		if se := serverError(path, err); se != nil {
			return nil, se
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return resp.Msg, nil
}

// Members returns the roster of group.
func (c *Client) Members(ctx context.Context, group string) ([]models.Member, error) {
	resp, err := callUnary(ctx, c.members, PathMembers, &MembersRequest{Group: group})
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &ServerError{Path: PathMembers, Message: resp.Error}
	}
	return resp.Members, nil
}

// SubmitAction logs req.Action for req.People.
func (c *Client) SubmitAction(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	resp, err := callUnary(ctx, c.submit, PathSubmitAction, &req)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &ServerError{Path: PathSubmitAction, Message: resp.Error}
	}
	return resp, nil
}

// UpdateEntry asks the backend to replace the record matching original.
// It reports whether the backend applied the update.
func (c *Client) UpdateEntry(ctx context.Context, original models.Entry, updated models.EntryUpdate) (bool, error) {
	resp, err := callUnary(ctx, c.updateEntry, PathUpdateEntry, &UpdateEntryRequest{
		Original: original,
		Updated:  updated,
	})
	if err != nil {
		return false, err
	}
	return resp.Updated, nil
}

// DeleteEntry asks the backend to remove the record matching original.
// It reports whether the backend removed it.
func (c *Client) DeleteEntry(ctx context.Context, original models.Entry) (bool, error) {
	resp, err := callUnary(ctx, c.deleteEntry, PathDeleteEntry, &original)
	if err != nil {
		return false, err
	}
	return resp.Removed, nil
}

// GenerateGroups rebuilds the group rosters from the imported ASV data.
func (c *Client) GenerateGroups(ctx context.Context) (string, error) {
	resp, err := callUnary(ctx, c.generateGroups, PathGenerateGroups, &ConfirmRequest{Confirm: true})
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", &ServerError{Path: PathGenerateGroups, Message: resp.Error}
	}
	return resp.Message, nil
}
