package domain

// SubjectID is the authenticated subject supplied by the identity provider (typically JWT "sub").
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// UserID is an internal identifier for a user record.
type UserID string

// PlanID is an internal identifier for a travel plan.
type PlanID string

// ItemID is an internal identifier for an itinerary item.
type ItemID string

// ShareID is an internal identifier for a plan share (invitation).
type ShareID string
