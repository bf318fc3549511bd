package model

// Contact represents a single address-book record
type Contact struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Birthday       string `json:"birthday"` // stored as YYYY-MM-DD, no timezone
	AdditionalData string `json:"additional_data"`
}

// ContactRequest is the payload for creating or fully replacing a contact.
// Update semantics are wholesale: every field overwrites the stored value.
type ContactRequest struct {
	FirstName      string `json:"first_name" binding:"required,min=3,max=16"`
	LastName       string `json:"last_name" binding:"required,min=3,max=16"`
	Email          string `json:"email" binding:"required,email"`
	PhoneNumber    string `json:"phone_number" binding:"required,min=9,max=16"`
	Birthday       string `json:"birthday" binding:"required,datetime=2006-01-02"`
	AdditionalData string `json:"additional_data"`
}

// ContactFilters contains the optional equality filters for listing contacts.
// When more than one is supplied, a record matching ANY of them qualifies
// (OR-combined, not AND).
type ContactFilters struct {
	FirstName string
	LastName  string
	Email     string
}

// Empty reports whether no filter field is set.
func (f ContactFilters) Empty() bool {
	return f.FirstName == "" && f.LastName == "" && f.Email == ""
}
