package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

// ListShifts fetches all shifts whose date falls within [start, end].
func (c *Client) ListShifts(ctx context.Context, token string, start, end time.Time) ([]domain.Shift, error) {
	query := url.Values{}
	query.Set("start", start.Format("2006-01-02"))
	query.Set("end", end.Format("2006-01-02"))

	var res struct {
		Shifts []domain.Shift `json:"shifts"`
	}
	if err := c.do(ctx, http.MethodGet, "/shifts?"+query.Encode(), token, nil, &res); err != nil {
		return nil, err
	}

	return res.Shifts, nil
}

type CreateShiftRequest struct {
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime     string   `json:"startTime" validate:"required,datetime=15:04"`
	EndTime       string   `json:"endTime" validate:"required,datetime=15:04"`
	Type          string   `json:"type"`
	RequiredStaff int      `json:"requiredStaff" validate:"required,min=1"`
	Staff         []string `json:"staff"`
}

func (c *Client) CreateShift(ctx context.Context, token string, req *CreateShiftRequest) (*domain.Shift, error) {
	shift := &domain.Shift{}
	if err := c.do(ctx, http.MethodPost, "/shifts", token, req, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

// UpdateShiftRequest carries only the fields to change; nil means untouched.
type UpdateShiftRequest struct {
	Date      *string             `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string             `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime   *string             `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	Status    *domain.ShiftStatus `json:"status,omitempty"`
}

func (c *Client) UpdateShift(ctx context.Context, token string, id int64, req *UpdateShiftRequest) (*domain.Shift, error) {
	shift := &domain.Shift{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/shifts/%d", id), token, req, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

func (c *Client) DeleteShift(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/shifts/%d", id), token, nil, nil)
}

// SetShiftAvailability records the named staff member's availability status
// on a shift. The username must be the authenticated user's own unless the
// caller is a manager or admin; the server enforces this.
func (c *Client) SetShiftAvailability(ctx context.Context, token string, shiftID int64, username string, status domain.AssignmentStatus) error {
	req := struct {
		Username string                  `json:"username"`
		Status   domain.AssignmentStatus `json:"status"`
	}{Username: username, Status: status}

	return c.do(ctx, http.MethodPost, fmt.Sprintf("/shifts/%d/staff", shiftID), token, req, nil)
}
