package domain

import "slices"

// View names a navigation destination of the web client.
type View string

const (
	ViewSchedule     View = "schedule"
	ViewAvailability View = "availability"
	ViewStaff        View = "staff"
	ViewSettings     View = "settings"
	ViewProfile      View = "profile"
)

// DefaultView is where authenticated users land, including after being
// bounced off a view their role cannot reach.
const DefaultView = ViewSchedule

// viewsByRole is the single capability table. Views are gated here and
// nowhere else; individual handlers must not re-check role strings.
var viewsByRole = map[Role][]View{
	RoleBaker:   {ViewSchedule, ViewAvailability, ViewProfile},
	RoleManager: {ViewSchedule, ViewAvailability, ViewStaff, ViewProfile},
	RoleAdmin:   {ViewSchedule, ViewAvailability, ViewStaff, ViewSettings, ViewProfile},
}

// CanView reports whether the role may reach the given view. Unknown roles
// can reach nothing.
func (r Role) CanView(v View) bool {
	return slices.Contains(viewsByRole[r], v)
}

// Views lists the reachable views in navigation order.
func (r Role) Views() []View {
	return viewsByRole[r]
}

// CanManageShifts reports whether the role may create, update or delete
// shifts. Bakers only read the schedule and mark their own availability.
func (r Role) CanManageShifts() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanManageStaff reports whether the role may administer user records.
func (r Role) CanManageStaff() bool {
	return r == RoleAdmin || r == RoleManager
}
