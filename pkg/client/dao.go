package client

import (
	"context"
	"net/url"

	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
)

// ProfileInput is the body of POST /profile.
type ProfileInput struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
	Role   Role     `json:"role"`
}

// ProductInput is the body of POST /products.
type ProductInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	AttachmentURL string `json:"attachmentURL,omitempty"`
	Price         uint64 `json:"price"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ProposalCreated is the answer to CreateProposal.
type ProposalCreated struct {
	Message  string    `json:"message"`
	ID       string    `json:"id"`
	Proposal *Proposal `json:"proposal"`
}

// UpsertProfile creates or replaces a profile and returns the confirmation message.
func (c *Client) UpsertProfile(ctx context.Context, in ProfileInput) (string, error) {
	var resp messageResponse
	if err := c.POST(ctx, "/profile", in, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := c.GET(ctx, "/profile/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProposal(ctx context.Context, title, description string) (*ProposalCreated, error) {
	var resp ProposalCreated
	if err := c.POST(ctx, "/proposal", map[string]string{"title": title, "description": description}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Vote records userID's vote; a later vote by the same user replaces it.
func (c *Client) Vote(ctx context.Context, proposalID, userID string, vote bool) (string, error) {
	body := struct {
		UserID string `json:"userId"`
		Vote   bool   `json:"vote"`
	}{userID, vote}
	var resp messageResponse
	if err := c.POST(ctx, "/proposal/"+url.PathEscape(proposalID)+"/vote", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) CloseProposal(ctx context.Context, proposalID string) (string, error) {
	var resp messageResponse
	if err := c.POST(ctx, "/proposal/"+url.PathEscape(proposalID)+"/close", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) GetProposal(ctx context.Context, id string) (*Proposal, error) {
	var p Proposal
	if err := c.GET(ctx, "/proposal/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var p Product
	if err := c.POST(ctx, "/products", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetProducts(ctx context.Context) ([]Product, error) {
	var list []Product
	if err := c.GET(ctx, "/products", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := c.GET(ctx, "/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// BuyProduct approves the backend to spend the product price on the ICRC
// ledger, then places the order. The two steps are not atomic: a failed
// order leaves the allowance in place.
func (c *Client) BuyProduct(ctx context.Context, product Product) (*Order, error) {
	if c.spender == "" {
		return nil, apperror.InvalidInput("backend principal not configured", nil)
	}
	if _, err := c.Approve(ctx, c.spender, product.Price); err != nil {
		return nil, err
	}
	var o Order
	if err := c.POST(ctx, "/orders", map[string]string{"productId": product.ID}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// AddressFromPrincipal asks the backend for the ledger account id of a principal.
func (c *Client) AddressFromPrincipal(ctx context.Context, principal string) (string, error) {
	var addr string
	if err := c.GET(ctx, "/principal-to-address/"+url.PathEscape(principal), nil, &addr); err != nil {
		return "", err
	}
	return addr, nil
}
