package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Veraticus/topsheet/internal/model"
)

// ListContactsParams filters a contact listing.
type ListContactsParams struct {
	Search string
	Type   string
	Tags   []string
}

func (p ListContactsParams) params() Params {
	return Params{
		"search": optional(p.Search),
		"type":   optional(p.Type),
		"tags":   p.Tags,
	}
}

// ListContacts returns workspace contacts.
func (c *Client) ListContacts(ctx context.Context, params ListContactsParams) ([]model.Contact, error) {
	result, err := c.Request(ctx, http.MethodGet, "/contacts", nil, params.params())
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return decodeList[model.Contact](result)
}

// GetContact returns one contact.
func (c *Client) GetContact(ctx context.Context, contactID string) (*model.Contact, error) {
	var contact model.Contact
	if err := c.Get(ctx, "/contacts/"+segment(contactID), nil, &contact); err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", contactID, err)
	}
	return &contact, nil
}

// CreateContact creates a contact.
func (c *Client) CreateContact(ctx context.Context, input model.ContactInput) (*model.Contact, error) {
	var contact model.Contact
	if err := c.Post(ctx, "/contacts", input, nil, &contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return &contact, nil
}

// UpdateContact applies a partial update to a contact.
func (c *Client) UpdateContact(ctx context.Context, contactID string, input model.ContactInput) (*model.Contact, error) {
	var contact model.Contact
	if err := c.Patch(ctx, "/contacts/"+segment(contactID), input, nil, &contact); err != nil {
		return nil, fmt.Errorf("failed to update contact %s: %w", contactID, err)
	}
	return &contact, nil
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, contactID string) error {
	if err := c.Delete(ctx, "/contacts/"+segment(contactID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", contactID, err)
	}
	return nil
}
