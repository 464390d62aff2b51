package domain

// Access is the permission an actor holds on a plan. Levels are ordered: a higher level
// implies every capability of the lower ones.
type Access int

const (
	AccessNone Access = iota
	AccessViewOnly
	AccessViewAndEdit
	AccessOwner
)

func (a Access) String() string {
	switch a {
	case AccessViewOnly:
		return "VIEW_ONLY"
	case AccessViewAndEdit:
		return "VIEW_AND_EDIT"
	case AccessOwner:
		return "OWNER"
	default:
		return "NONE"
	}
}

func (a Access) CanView() bool { return a >= AccessViewOnly }
func (a Access) CanEdit() bool { return a >= AccessViewAndEdit }

// ResolveAccess computes the actor's access to a plan from the plan itself and the actor's
// share on it (nil when there is none).
//
// Sharing never grants Owner, and public visibility never grants edit.
func ResolveAccess(p Plan, actor UserID, share *Share) Access {
	if actor != "" && p.OwnerID == actor {
		return AccessOwner
	}
	best := AccessNone
	if share != nil && share.PlanID == p.ID && share.InviteeID == actor && share.Status == ShareStatusAccepted {
		if share.CanEdit {
			best = AccessViewAndEdit
		} else {
			best = AccessViewOnly
		}
	}
	if best < AccessViewOnly && p.IsPublic() {
		best = AccessViewOnly
	}
	return best
}
