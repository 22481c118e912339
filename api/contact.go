package api

import "context"

// Contact is an address book entry
type Contact struct {
	ID          int            `json:"id,omitempty"`
	DisplayName string         `json:"display_name"`
	FirstName   string         `json:"first_name,omitempty"`
	LastName    string         `json:"last_name,omitempty"`
	Company     string         `json:"company,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Birthday    string         `json:"birthday,omitempty"`
	PhotoURL    string         `json:"photo_url,omitempty"`
	LastUpdate  int64          `json:"last_update,omitempty"`
	Numbers     []ContactField `json:"numbers,omitempty"`
	Emails      []ContactField `json:"emails,omitempty"`
	URLs        []ContactField `json:"urls,omitempty"`
	Groups      []ContactGroup `json:"groups,omitempty"`
}

// ContactField is a typed number, email or URL of a contact
type ContactField struct {
	ID        int    `json:"id,omitempty"`
	ContactID int    `json:"contact_id,omitempty"`
	Type      string `json:"type"` // fixed, mobile, work, fax, other, home
	Number    string `json:"number,omitempty"`
	Email     string `json:"email,omitempty"`
	URL       string `json:"url,omitempty"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// ContactGroup groups contacts
type ContactGroup struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"nb_contact"`
}

// ContactBook exposes contact/ endpoints. Requires the contacts permission.
type ContactBook struct {
	c Caller
}

// NewContactBook creates the contact module
func NewContactBook(c Caller) *ContactBook {
	return &ContactBook{c: c}
}

// List returns every contact
func (m *ContactBook) List(ctx context.Context) ([]Contact, error) {
	return decode[[]Contact](m.c.Get(ctx, "contact/"))
}

// Get returns one contact
func (m *ContactBook) Get(ctx context.Context, id int) (Contact, error) {
	return decode[Contact](m.c.Get(ctx, "contact/"+itoa(id)))
}

// Create adds a contact and returns it with its id
func (m *ContactBook) Create(ctx context.Context, contact Contact) (Contact, error) {
	contact.ID = 0
	return decode[Contact](m.c.Post(ctx, "contact/", contact))
}

// Update replaces a contact
func (m *ContactBook) Update(ctx context.Context, id int, contact Contact) (Contact, error) {
	contact.ID = id
	return decode[Contact](m.c.Put(ctx, "contact/"+itoa(id), contact))
}

// Delete removes a contact
func (m *ContactBook) Delete(ctx context.Context, id int) error {
	return done(m.c.Delete(ctx, "contact/"+itoa(id), nil))
}

// Count returns the number of contacts
func (m *ContactBook) Count(ctx context.Context) (int, error) {
	result, err := decode[struct {
		Count int `json:"count"`
	}](m.c.Get(ctx, "contact/count"))
	return result.Count, err
}

// Groups lists contact groups
func (m *ContactBook) Groups(ctx context.Context) ([]ContactGroup, error) {
	return decode[[]ContactGroup](m.c.Get(ctx, "contact/groups"))
}
