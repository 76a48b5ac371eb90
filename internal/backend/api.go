package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/soaringjerry/Candor/internal/form"
	"github.com/soaringjerry/Candor/internal/lifecycle"
	"github.com/soaringjerry/Candor/internal/models"
	"github.com/soaringjerry/Candor/internal/submission"
)

// LoginResult carries the account the backend authenticated and the cookies
// it set, which are relayed to the browser.
type LoginResult struct {
	Account models.Employee
	Token   string
	Cookies []*http.Cookie
}

func (c *Client) Login(ctx context.Context, area models.Role, creds models.Credentials) (LoginResult, error) {
	r, ok := authRoutes[area]
	if !ok {
		return LoginResult{}, ErrUnsupportedArea
	}
	var res LoginResult
	h, err := c.send(ctx, http.MethodPost, r.Login, nil, "", creds, &res.Account)
	if err != nil {
		return LoginResult{}, err
	}
	res.Cookies = cookiesFrom(h)
	for _, ck := range res.Cookies {
		if ck.Name == c.cookie {
			res.Token = ck.Value
		}
	}
	return res, nil
}

func (c *Client) Logout(ctx context.Context, area models.Role, token string) ([]*http.Cookie, error) {
	r, ok := authRoutes[area]
	if !ok {
		return nil, ErrUnsupportedArea
	}
	h, err := c.send(ctx, http.MethodPost, r.Logout, nil, token, nil, nil)
	if err != nil {
		return nil, err
	}
	return cookiesFrom(h), nil
}

func (c *Client) Signup(ctx context.Context, area models.Role, creds models.Credentials) error {
	r, ok := authRoutes[area]
	if !ok || r.Signup == "" {
		return ErrUnsupportedArea
	}
	_, err := c.send(ctx, http.MethodPost, r.Signup, nil, "", creds, nil)
	return err
}

func (c *Client) CreateForm(ctx context.Context, token string, def form.Definition) (form.Definition, error) {
	out := def
	_, err := c.send(ctx, http.MethodPost, routeCreateForm, nil, token, def, &out)
	return out, err
}

func (c *Client) ListForms(ctx context.Context, token string) ([]form.Definition, error) {
	var out []form.Definition
	err := c.get(ctx, routeListForms, nil, token, &out)
	return out, err
}

func (c *Client) ListEmployees(ctx context.Context, token string) ([]models.Employee, error) {
	var out []models.Employee
	err := c.get(ctx, routeEmployees, nil, token, &out)
	return out, err
}

// NewRequest is the body of a feedback request.
type NewRequest struct {
	PeerID   string    `json:"peerId"`
	Message  string    `json:"message"`
	Deadline time.Time `json:"deadline"`
}

func (c *Client) SendRequest(ctx context.Context, token string, nr NewRequest) (lifecycle.Request, error) {
	var out lifecycle.Request
	_, err := c.send(ctx, http.MethodPost, routeSendRequest, nil, token, nr, &out)
	return out, err
}

// RequestedFeedback lists the requests the caller sent.
func (c *Client) RequestedFeedback(ctx context.Context, token string) ([]lifecycle.Request, error) {
	var out []lifecycle.Request
	err := c.get(ctx, routeRequestedFeedback, nil, token, &out)
	return out, err
}

// ReceivedRequests lists requests addressed to the caller with the given
// stored status.
func (c *Client) ReceivedRequests(ctx context.Context, token string, status lifecycle.Status) ([]lifecycle.Request, error) {
	q := url.Values{}
	q.Set("status", string(status))
	var out []lifecycle.Request
	err := c.get(ctx, routeReceived, q, token, &out)
	return out, err
}

func (c *Client) AllReceivedRequests(ctx context.Context, token string) ([]lifecycle.Request, error) {
	var out []lifecycle.Request
	err := c.get(ctx, routeAllReceived, nil, token, &out)
	return out, err
}

func (c *Client) SubmitFeedback(ctx context.Context, token string, p submission.Payload) error {
	_, err := c.send(ctx, http.MethodPost, routeSubmitFeedback, nil, token, p, nil)
	return err
}

func (c *Client) RejectRequest(ctx context.Context, token, id string) error {
	q := url.Values{}
	q.Set("id", id)
	_, err := c.send(ctx, http.MethodPatch, routeRejectRequest, q, token, nil, nil)
	return err
}

// Detail is a request together with the response given to it, if any.
type Detail struct {
	lifecycle.Request
	Feedback *models.Feedback `json:"feedback,omitempty"`
}

func (c *Client) RequestDetail(ctx context.Context, token, id string) (Detail, error) {
	q := url.Values{}
	q.Set("id", id)
	var out Detail
	err := c.get(ctx, routeRequestDetail, q, token, &out)
	return out, err
}

func (c *Client) FeedbackMessages(ctx context.Context, token string) ([]models.Feedback, error) {
	var out []models.Feedback
	err := c.get(ctx, routeFeedbackMessages, nil, token, &out)
	return out, err
}

func (c *Client) DepartmentFeedback(ctx context.Context, token, department string) ([]models.Feedback, error) {
	q := url.Values{}
	q.Set("department", department)
	var out []models.Feedback
	err := c.get(ctx, routeDepartmentFeedback, q, token, &out)
	return out, err
}
