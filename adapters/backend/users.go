package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"repairdesk/core/types"
	"repairdesk/internal/errors"
)

// ClientQuery filters the /users/ listing
type ClientQuery struct {
	Search string
	Role   string
	Page   int
}

func (q ClientQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Role != "" {
		v.Set("role_name", q.Role)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// ListClients returns one page of clients
func (c *Client) ListClients(ctx context.Context, q ClientQuery) (types.Page[types.Client], error) {
	var out types.Page[types.Client]
	err := c.get(ctx, "users/", q.values(), &out)
	return out, err
}

// GetClient fetches one client
func (c *Client) GetClient(ctx context.Context, id int) (types.Client, error) {
	var out types.Client
	if err := c.get(ctx, fmt.Sprintf("users/%d/", id), nil, &out); err != nil {
		return types.Client{}, err
	}
	return out, nil
}

type createUserRequest struct {
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Password  string        `json:"password"`
	Profile   types.Profile `json:"profile"`
}

// CreateClient registers a client and returns the stored record.
// The account gets a random password; clients never log in.
func (c *Client) CreateClient(ctx context.Context, n types.NewClient) (types.Client, error) {
	if !n.Complete() {
		return types.Client{}, errors.Input("new client requires first name, last name and phone")
	}
	req := createUserRequest{
		Username:  n.Username(),
		Email:     strings.TrimSpace(n.Email),
		FirstName: strings.TrimSpace(n.FirstName),
		LastName:  strings.TrimSpace(n.LastName),
		Password:  uuid.NewString(),
		Profile:   types.Profile{PhoneNumber: strings.TrimSpace(n.Phone), RoleName: "client"},
	}

	var created types.Client
	if err := c.send(ctx, http.MethodPost, "users/", req, &created); err != nil {
		return types.Client{}, err
	}
	if created.ID == 0 {
		return types.Client{}, errors.New(errors.TypeDecode, "created client has no id")
	}
	return c.GetClient(ctx, created.ID)
}
