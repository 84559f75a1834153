package domain

import "testing"

func TestRoleCapabilityTable(t *testing.T) {
	tests := []struct {
		role Role
		view View
		want bool
	}{
		{RoleBaker, ViewSchedule, true},
		{RoleBaker, ViewAvailability, true},
		{RoleBaker, ViewProfile, true},
		{RoleBaker, ViewStaff, false},
		{RoleBaker, ViewSettings, false},

		{RoleManager, ViewSchedule, true},
		{RoleManager, ViewStaff, true},
		{RoleManager, ViewSettings, false},

		{RoleAdmin, ViewStaff, true},
		{RoleAdmin, ViewSettings, true},

		{Role("intern"), ViewSchedule, false},
		{Role(""), ViewProfile, false},
	}

	for _, tt := range tests {
		if got := tt.role.CanView(tt.view); got != tt.want {
			t.Errorf("%q.CanView(%q) = %v, want %v", tt.role, tt.view, got, tt.want)
		}
	}
}

func TestCanManageShifts(t *testing.T) {
	if RoleBaker.CanManageShifts() {
		t.Error("bakers must not manage shifts")
	}
	if !RoleManager.CanManageShifts() || !RoleAdmin.CanManageShifts() {
		t.Error("managers and admins must manage shifts")
	}
}

func TestShiftDerivations(t *testing.T) {
	shift := &Shift{
		RequiredStaff: 2,
		Staff: []Assignment{
			{Username: "alice", Status: AssignmentConfirmed},
			{Username: "bob", Status: AssignmentPending},
		},
	}

	if got := shift.ConfirmedCount(); got != 1 {
		t.Errorf("ConfirmedCount() = %d, want 1", got)
	}
	if shift.FullyStaffed() {
		t.Error("shift with 1/2 confirmed must not be fully staffed")
	}

	shift.Staff[1].Status = AssignmentConfirmed
	if !shift.FullyStaffed() {
		t.Error("shift with 2/2 confirmed must be fully staffed")
	}

	if _, ok := shift.AssignmentFor("carol"); ok {
		t.Error("AssignmentFor must miss for unassigned users")
	}
	if a, ok := shift.AssignmentFor("alice"); !ok || a.Status != AssignmentConfirmed {
		t.Errorf("AssignmentFor(alice) = %+v, %v", a, ok)
	}
}
