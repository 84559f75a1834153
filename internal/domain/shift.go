package domain

type ShiftStatus string

const (
	ShiftStatusNone                  ShiftStatus = "no-shift"
	ShiftStatusHasShift              ShiftStatus = "has-shift"
	ShiftStatusPendingAvailability   ShiftStatus = "pending-availability"
	ShiftStatusConfirmedAvailability ShiftStatus = "confirmed-availability"
	ShiftStatusCancelledAvailability ShiftStatus = "cancelled-availability"
)

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentAvailable AssignmentStatus = "available"
	AssignmentOffered   AssignmentStatus = "offered"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Assignment links one staff member to a shift together with their
// availability status for it.
type Assignment struct {
	UserID   int64            `json:"id"`
	Username string           `json:"username"`
	Name     string           `json:"name,omitempty"`
	Status   AssignmentStatus `json:"status"`
}

// Shift is a scheduled work period requiring a target number of staff. The
// server is the source of truth; nothing here is enforced locally.
type Shift struct {
	ID            int64        `json:"id"`
	Date          string       `json:"date"`      // YYYY-MM-DD
	StartTime     string       `json:"startTime"` // HH:MM
	EndTime       string       `json:"endTime"`   // HH:MM
	Type          string       `json:"type"`
	RequiredStaff int          `json:"requiredStaff"`
	Staff         []Assignment `json:"staff"`
	Status        ShiftStatus  `json:"status"`
}

// ConfirmedCount reports how many assigned staff have confirmed.
func (s *Shift) ConfirmedCount() int {
	n := 0
	for _, a := range s.Staff {
		if a.Status == AssignmentConfirmed {
			n++
		}
	}
	return n
}

// FullyStaffed is a display-only derivation, never an enforced invariant.
func (s *Shift) FullyStaffed() bool {
	return s.RequiredStaff >= 1 && s.ConfirmedCount() >= s.RequiredStaff
}

// AssignmentFor returns the assignment of the given user, if any.
func (s *Shift) AssignmentFor(username string) (Assignment, bool) {
	for _, a := range s.Staff {
		if a.Username == username {
			return a, true
		}
	}
	return Assignment{}, false
}
