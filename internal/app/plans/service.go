package plans

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	clockport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/geocoder"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/planrepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/sharerepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/txn"
)

// AccessResolver authorizes an actor on a plan. *sharing.Service implements it.
type AccessResolver interface {
	Authorize(ctx context.Context, planID domain.PlanID, actor domain.UserID, min domain.Access) (domain.Plan, domain.Access, error)
}

const (
	shareCodeAttempts = 3
	defaultQRSize     = 256
)

type Service struct {
	plans  planrepo.Repository
	items  itemrepo.Repository
	shares sharerepo.Repository
	access AccessResolver
	tx     txn.Runner
	clk    clockport.Clock

	geo           geocoder.Geocoder
	publicBaseURL string

	newPlanID    func() domain.PlanID
	newShareCode func() string
}

type Option func(*Service)

// WithGeocoder resolves destination coordinates that callers leave out.
func WithGeocoder(g geocoder.Geocoder) Option {
	return func(s *Service) { s.geo = g }
}

// WithPublicBaseURL sets the prefix of public plan links, e.g. "https://trips.example.com".
func WithPublicBaseURL(u string) Option {
	return func(s *Service) { s.publicBaseURL = strings.TrimRight(strings.TrimSpace(u), "/") }
}

func NewService(plans planrepo.Repository, items itemrepo.Repository, shares sharerepo.Repository, access AccessResolver, tx txn.Runner, clk clockport.Clock, opts ...Option) *Service {
	s := &Service{
		plans:  plans,
		items:  items,
		shares: shares,
		access: access,
		tx:     tx,
		clk:    clk,
		newPlanID: func() domain.PlanID {
			return domain.PlanID(uuid.NewString())
		},
		newShareCode: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetNewPlanIDForTest overrides plan ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewPlanIDForTest(fn func() domain.PlanID) {
	if fn != nil {
		s.newPlanID = fn
	}
}

// SetNewShareCodeForTest overrides share code generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewShareCodeForTest(fn func() string) {
	if fn != nil {
		s.newShareCode = fn
	}
}

func planNotFound() *apperr.Error {
	return apperr.New(apperr.NotFound, "plan not found").WithCode("PLAN_NOT_FOUND")
}

func (s *Service) CreatePlan(ctx context.Context, owner domain.UserID, in CreatePlanInput) (PlanView, error) {
	title := domain.NormalizeHumanName(in.Title)
	if title == "" {
		return PlanView{}, apperr.Validation("title", "must be non-empty")
	}
	destination := domain.NormalizeHumanName(in.Destination)
	if destination == "" {
		return PlanView{}, apperr.Validation("destination", "must be non-empty")
	}
	if in.StartDate.IsZero() {
		return PlanView{}, apperr.Validation("startDate", "is required")
	}
	if in.EndDate.IsZero() {
		return PlanView{}, apperr.Validation("endDate", "is required")
	}
	if err := validateBudget(in.Budget); err != nil {
		return PlanView{}, err
	}
	vis, err := parseVisibility(in.Visibility)
	if err != nil {
		return PlanView{}, err
	}

	coord, err := s.destinationCoord(ctx, destination, in.DestinationCoord)
	if err != nil {
		return PlanView{}, err
	}

	now := s.clk.Now().UTC()
	p := domain.Plan{
		ID:               s.newPlanID(),
		OwnerID:          owner,
		Title:            title,
		Destination:      destination,
		DestinationCoord: coord,
		StartDate:        domain.DateOnly(in.StartDate),
		EndDate:          domain.DateOnly(in.EndDate),
		Budget:           cloneFloatPtr(in.Budget),
		Interests:        normalizeInterests(in.Interests),
		Visibility:       domain.VisibilityPrivate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if p.EndDate.Before(p.StartDate) {
		return PlanView{}, dateRangeError()
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.plans.Create(ctx, p); err != nil {
			if errors.Is(err, planrepo.ErrAlreadyExists) {
				return apperr.New(apperr.Conflict, "plan id conflict").WithCode("PLAN_ID_CONFLICT")
			}
			return err
		}
		if vis == domain.VisibilityPublic {
			p, err = s.publish(ctx, p)
			return err
		}
		return nil
	})
	if err != nil {
		return PlanView{}, err
	}
	return s.view(p, domain.AccessOwner), nil
}

// GetPlan returns a plan the actor can view. An empty actor is an anonymous visitor.
func (s *Service) GetPlan(ctx context.Context, actor domain.UserID, planID domain.PlanID) (PlanView, error) {
	p, access, err := s.access.Authorize(ctx, planID, actor, domain.AccessViewOnly)
	if err != nil {
		return PlanView{}, err
	}
	return s.view(p, access), nil
}

// GetByShareCode resolves a public link. Private plans are reported as missing.
func (s *Service) GetByShareCode(ctx context.Context, code string) (domain.Plan, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Plan{}, planNotFound()
	}
	p, err := s.plans.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, planrepo.ErrNotFound) {
			return domain.Plan{}, planNotFound()
		}
		return domain.Plan{}, err
	}
	if !p.IsPublic() {
		return domain.Plan{}, planNotFound()
	}
	return p, nil
}

// ListOwned lists the owner's plans, latest start first.
func (s *Service) ListOwned(ctx context.Context, owner domain.UserID) ([]PlanView, error) {
	ps, err := s.plans.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]PlanView, 0, len(ps))
	for _, p := range ps {
		out = append(out, s.view(p, domain.AccessOwner))
	}
	return out, nil
}

func (s *Service) UpdatePlan(ctx context.Context, owner domain.UserID, planID domain.PlanID, in UpdatePlanInput) (PlanView, error) {
	// Geocoding happens outside the transaction.
	var resolved *domain.Coordinate
	if in.Destination.IsSpecified() && !in.Destination.IsNull() && !in.DestinationCoord.IsSpecified() {
		if dest := domain.NormalizeHumanName(in.Destination.Value()); dest != "" {
			resolved = s.lookupDestination(ctx, dest)
		}
	}

	var out domain.Plan
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, _, err := s.access.Authorize(ctx, planID, owner, domain.AccessOwner)
		if err != nil {
			return err
		}

		if in.Title.IsSpecified() {
			if in.Title.IsNull() {
				return apperr.Validation("title", "cannot be null")
			}
			title := domain.NormalizeHumanName(in.Title.Value())
			if title == "" {
				return apperr.Validation("title", "must be non-empty")
			}
			p.Title = title
		}

		if in.Destination.IsSpecified() {
			if in.Destination.IsNull() {
				return apperr.Validation("destination", "cannot be null")
			}
			dest := domain.NormalizeHumanName(in.Destination.Value())
			if dest == "" {
				return apperr.Validation("destination", "must be non-empty")
			}
			if dest != p.Destination {
				p.Destination = dest
				p.DestinationCoord = resolved
			}
		}

		if in.DestinationCoord.IsSpecified() {
			if in.DestinationCoord.IsNull() {
				p.DestinationCoord = nil
			} else {
				c := in.DestinationCoord.Value()
				if !c.Valid() {
					return coordinateError()
				}
				p.DestinationCoord = &c
			}
		}

		if in.StartDate.IsSpecified() {
			if in.StartDate.IsNull() {
				return apperr.Validation("startDate", "cannot be null")
			}
			p.StartDate = domain.DateOnly(in.StartDate.Value())
		}
		if in.EndDate.IsSpecified() {
			if in.EndDate.IsNull() {
				return apperr.Validation("endDate", "cannot be null")
			}
			p.EndDate = domain.DateOnly(in.EndDate.Value())
		}
		if p.EndDate.Before(p.StartDate) {
			return dateRangeError()
		}

		if in.Budget.IsSpecified() {
			if in.Budget.IsNull() {
				p.Budget = nil
			} else {
				v := in.Budget.Value()
				if err := validateBudget(&v); err != nil {
					return err
				}
				p.Budget = &v
			}
		}

		if in.Interests.IsSpecified() {
			if in.Interests.IsNull() {
				p.Interests = ""
			} else {
				p.Interests = normalizeInterests(in.Interests.Value())
			}
		}

		p.UpdatedAt = s.clk.Now().UTC()
		if err := s.plans.Save(ctx, p); err != nil {
			if errors.Is(err, planrepo.ErrNotFound) {
				return planNotFound()
			}
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return PlanView{}, err
	}
	return s.view(out, domain.AccessOwner), nil
}

// DeletePlan removes the plan together with its items and shares.
func (s *Service) DeletePlan(ctx context.Context, owner domain.UserID, planID domain.PlanID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, _, err := s.access.Authorize(ctx, planID, owner, domain.AccessOwner); err != nil {
			return err
		}
		if err := s.items.DeleteByPlan(ctx, planID); err != nil {
			return err
		}
		if err := s.shares.DeleteByPlan(ctx, planID); err != nil {
			return err
		}
		if err := s.plans.Delete(ctx, planID); err != nil {
			if errors.Is(err, planrepo.ErrNotFound) {
				return planNotFound()
			}
			return err
		}
		return nil
	})
}

// SetVisibility makes a plan public or private. Public plans always carry a share code; the
// code is kept when the plan goes private so the same link works if it is published again.
func (s *Service) SetVisibility(ctx context.Context, owner domain.UserID, planID domain.PlanID, v domain.Visibility) (PlanView, error) {
	vis, err := parseVisibility(v)
	if err != nil {
		return PlanView{}, err
	}
	var out domain.Plan
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		p, _, err := s.access.Authorize(ctx, planID, owner, domain.AccessOwner)
		if err != nil {
			return err
		}
		if vis == domain.VisibilityPublic {
			out, err = s.publish(ctx, p)
			return err
		}
		p.Visibility = domain.VisibilityPrivate
		p.UpdatedAt = s.clk.Now().UTC()
		if err := s.plans.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return PlanView{}, err
	}
	return s.view(out, domain.AccessOwner), nil
}

// RotateShareCode issues a new share code, invalidating the old link.
func (s *Service) RotateShareCode(ctx context.Context, owner domain.UserID, planID domain.PlanID) (PlanView, error) {
	var out domain.Plan
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, _, err := s.access.Authorize(ctx, planID, owner, domain.AccessOwner)
		if err != nil {
			return err
		}
		p.ShareCode = nil
		out, err = s.saveWithNewCode(ctx, p)
		return err
	})
	if err != nil {
		return PlanView{}, err
	}
	return s.view(out, domain.AccessOwner), nil
}

// ShareQRCode renders the public link of a plan as a PNG QR code.
func (s *Service) ShareQRCode(ctx context.Context, actor domain.UserID, planID domain.PlanID, size int) ([]byte, error) {
	p, access, err := s.access.Authorize(ctx, planID, actor, domain.AccessViewOnly)
	if err != nil {
		return nil, err
	}
	link := s.view(p, access).ShareURL
	if link == "" {
		return nil, apperr.New(apperr.InvalidState, "plan is not public").WithCode("PLAN_NOT_PUBLIC")
	}
	if size <= 0 {
		size = defaultQRSize
	}
	if size > 1024 {
		return nil, apperr.Validation("size", "must be at most 1024")
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}

func (s *Service) publish(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	p.Visibility = domain.VisibilityPublic
	if p.ShareCode != nil {
		p.UpdatedAt = s.clk.Now().UTC()
		return p, s.plans.Save(ctx, p)
	}
	return s.saveWithNewCode(ctx, p)
}

func (s *Service) saveWithNewCode(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	p.UpdatedAt = s.clk.Now().UTC()
	for i := 0; i < shareCodeAttempts; i++ {
		code := s.newShareCode()
		p.ShareCode = &code
		err := s.plans.Save(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, planrepo.ErrShareCodeTaken) {
			return domain.Plan{}, err
		}
	}
	return domain.Plan{}, apperr.New(apperr.Conflict, "could not allocate a share code").WithCode("SHARE_CODE_CONFLICT")
}

func (s *Service) view(p domain.Plan, access domain.Access) PlanView {
	v := PlanView{Plan: p, Access: access}
	if p.IsPublic() && p.ShareCode != nil {
		v.ShareURL = s.publicBaseURL + "/p/" + *p.ShareCode
	}
	return v
}

func (s *Service) destinationCoord(ctx context.Context, destination string, given *domain.Coordinate) (*domain.Coordinate, error) {
	if given != nil {
		if !given.Valid() {
			return nil, coordinateError()
		}
		c := *given
		return &c, nil
	}
	return s.lookupDestination(ctx, destination), nil
}

// lookupDestination is best-effort: a plan without a coordinate is still valid.
func (s *Service) lookupDestination(ctx context.Context, destination string) *domain.Coordinate {
	if s.geo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	place, err := s.geo.Lookup(ctx, destination)
	if err != nil {
		return nil
	}
	c := place.Coord
	return &c
}

func parseVisibility(v domain.Visibility) (domain.Visibility, error) {
	switch domain.Visibility(strings.ToUpper(strings.TrimSpace(string(v)))) {
	case "", domain.VisibilityPrivate:
		return domain.VisibilityPrivate, nil
	case domain.VisibilityPublic:
		return domain.VisibilityPublic, nil
	default:
		return "", apperr.Validation("visibility", "must be PRIVATE or PUBLIC")
	}
}

func validateBudget(b *float64) error {
	if b == nil {
		return nil
	}
	if *b < 0 || math.IsNaN(*b) || math.IsInf(*b, 0) {
		return apperr.Validation("budget", "must be a non-negative number")
	}
	return nil
}

func normalizeInterests(raw string) string {
	return strings.Join(domain.InterestTokens(raw), ", ")
}

func dateRangeError() *apperr.Error {
	return apperr.New(apperr.MalformedInput, "invalid date range").WithDetails(map[string]any{"endDate": "must be on or after startDate"})
}

func coordinateError() *apperr.Error {
	return apperr.Validation("destinationCoord", "latitude must be within [-90, 90] and longitude within [-180, 180]")
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
