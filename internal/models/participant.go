package models

// Participant represents a person who can be part of an expense split.
// The split engine never modifies participants; it copies the display
// fields onto the share entries it produces.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format when
	// generated by the directory, but any non-empty string is accepted).
	ID string `json:"id"`

	// Name is the display name shown next to the share.
	Name string `json:"name"`

	// Email is the participant's contact address.
	Email string `json:"email,omitempty"`

	// ImageURL references the participant's avatar.
	ImageURL string `json:"image_url,omitempty"`
}

// Group represents a reusable participant list.
// Groups are the directory from which expense participants are resolved.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// Members is the ordered list of participants in this group.
	Members []Participant `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}
