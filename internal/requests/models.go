package requests

import (
	"time"

	"github.com/EmpoweredVote/civic-requests/internal/auth"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Request is a citizen's appointment request to a department.
type Request struct {
	ID          int64     `gorm:"primaryKey"`
	Department  string    `gorm:"not null"`
	Date        time.Time `gorm:"not null"`
	Description *string
	Status      Status     `gorm:"type:text;not null;default:'PENDING';index"`
	UserID      int64      `gorm:"not null;index"`
	User        *auth.User `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Request) TableName() string { return "app_requests.requests" }

// Submitter is the part of the owning user an admin sees next to a request.
type Submitter struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// RequestView is the API representation of a Request.
type RequestView struct {
	ID          int64      `json:"id"`
	Department  string     `json:"department"`
	Date        time.Time  `json:"date"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	UserID      int64      `json:"userId"`
	User        *Submitter `json:"user,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (r *Request) View() RequestView {
	v := RequestView{
		ID:          r.ID,
		Department:  r.Department,
		Date:        r.Date,
		Description: r.Description,
		Status:      r.Status,
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.User != nil {
		v.User = &Submitter{
			FirstName: r.User.FirstName,
			LastName:  r.User.LastName,
			Email:     r.User.Email,
		}
	}
	return v
}
