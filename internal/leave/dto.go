package leave

import (
	"strings"

	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
)

type SubmitDTO struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (d *SubmitDTO) Normalize() {
	d.LeaveType = strings.ToLower(strings.TrimSpace(d.LeaveType))
	d.StartDate = strings.TrimSpace(d.StartDate)
	d.EndDate = strings.TrimSpace(d.EndDate)
	d.Reason = strings.TrimSpace(d.Reason)
}

func (d SubmitDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("leave_type", d.LeaveType).Required().OneOf(Types...)
	v.Field("start_date", d.StartDate).Required().Date()
	v.Field("end_date", d.EndDate).Required().Date()
	v.Field("reason", d.Reason).Required().MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ReviewDTO struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (d *ReviewDTO) Normalize() {
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	if d.Notes != nil {
		n := strings.TrimSpace(*d.Notes)
		if n == "" {
			d.Notes = nil
		} else {
			d.Notes = &n
		}
	}
}

func (d ReviewDTO) Validate() error {
	if d.Status != string(StatusApproved) && d.Status != string(StatusRejected) {
		return ErrInvalidLeaveStatus
	}
	v := validation.NewValidator()
	v.Field("notes", d.Notes).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
