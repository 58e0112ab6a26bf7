package models

import "time"

// Request types

type CreatePollRequest struct {
	Title              string   `json:"title" validate:"max=200"`
	Description        string   `json:"description" validate:"max=1000"`
	Options            []string `json:"options" validate:"dive,max=200"`
	AllowMultipleVotes bool     `json:"allowMultipleVotes"`
	HideResults        bool     `json:"hideResults"`
}

type SubmitVoteRequest struct {
	OptionID string `json:"optionId"`
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response types

// Result is the tagged result shape shared by every mutating call:
// {success} | {success, pollId} | {error}.
type Result struct {
	Success bool   `json:"success,omitempty"`
	PollID  string `json:"pollId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type PollsResponse struct {
	Polls []Poll `json:"polls"`
}

type PollResponse struct {
	Poll *PollWithOptions `json:"poll"`
}

type SessionResponse struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Token   string `json:"token,omitempty"`
}

// Domain types

// User is the identity of an authenticated caller.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Poll struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        *string   `json:"description"`
	UserID             string    `json:"user_id"`
	CreatedAt          time.Time `json:"created_at"`
	AllowMultipleVotes bool      `json:"allow_multiple_votes"`
	HideResults        bool      `json:"hide_results"`
	TotalVotes         int       `json:"total_votes"`
}

type PollOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type PollWithOptions struct {
	Poll
	Options []PollOption `json:"poll_options"`
}

type Vote struct {
	ID           string    `json:"id"`
	PollID       string    `json:"poll_id"`
	PollOptionID string    `json:"poll_option_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsOwner reports whether u created the poll. A nil user owns nothing.
func (p Poll) IsOwner(u *User) bool {
	return u != nil && u.ID == p.UserID
}
