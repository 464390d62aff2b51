package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	clockport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/geocoder"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/userrepo"
)

type Service struct {
	repo userrepo.Repository
	geo  geocoder.Geocoder
	clk  clockport.Clock

	newUserID func() domain.UserID
}

// NewService builds the user profile service. geo may be nil, in which case homes can only be
// set from explicit coordinates.
func NewService(repo userrepo.Repository, geo geocoder.Geocoder, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		geo:  geo,
		clk:  clk,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

// SetNewUserIDForTest overrides user ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

func notProvisioned() *apperr.Error {
	return apperr.New(apperr.NotFound, "No user profile exists for the authenticated subject.").WithCode("USER_NOT_PROVISIONED")
}

func alreadyExists() *apperr.Error {
	return apperr.New(apperr.Conflict, "A user profile already exists for the authenticated subject.").WithCode("USER_ALREADY_EXISTS")
}

func emailInUse() *apperr.Error {
	return apperr.New(apperr.Conflict, "email address is already in use").WithCode("EMAIL_ALREADY_IN_USE")
}

func (s *Service) GetMe(ctx context.Context, subject domain.SubjectID) (domain.User, error) {
	u, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, notProvisioned()
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) CreateMe(ctx context.Context, subject domain.SubjectID, in CreateMeInput) (domain.User, error) {
	if _, err := s.repo.GetBySubject(ctx, subject); err == nil {
		return domain.User{}, alreadyExists()
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		return domain.User{}, err
	}

	displayName := domain.NormalizeHumanName(in.DisplayName)
	if displayName == "" {
		return domain.User{}, apperr.Validation("displayName", "must be non-empty")
	}
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return domain.User{}, apperr.Validation("email", err.Error())
	}

	now := s.clk.Now().UTC()
	u := domain.User{
		ID:          s.newUserID(),
		Subject:     subject,
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, userrepo.ErrSubjectAlreadyBound):
			return domain.User{}, alreadyExists()
		case errors.Is(err, userrepo.ErrEmailTaken):
			return domain.User{}, emailInUse()
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) UpdateMe(ctx context.Context, subject domain.SubjectID, in UpdateMeInput) (domain.User, error) {
	u, err := s.GetMe(ctx, subject)
	if err != nil {
		return domain.User{}, err
	}

	if in.DisplayName.IsSpecified() {
		if in.DisplayName.IsNull() {
			return domain.User{}, apperr.Validation("displayName", "cannot be null")
		}
		displayName := domain.NormalizeHumanName(in.DisplayName.Value())
		if displayName == "" {
			return domain.User{}, apperr.Validation("displayName", "must be non-empty")
		}
		u.DisplayName = displayName
	}

	if in.Email.IsSpecified() {
		if in.Email.IsNull() {
			return domain.User{}, apperr.Validation("email", "cannot be null")
		}
		email := strings.TrimSpace(in.Email.Value())
		if err := validateEmail(email); err != nil {
			return domain.User{}, apperr.Validation("email", err.Error())
		}
		u.Email = email
	}

	return s.save(ctx, u)
}

// SetHome stores the home location used as the origin of distance statistics.
func (s *Service) SetHome(ctx context.Context, subject domain.SubjectID, in SetHomeInput) (domain.User, error) {
	u, err := s.GetMe(ctx, subject)
	if err != nil {
		return domain.User{}, err
	}

	address := strings.TrimSpace(in.Address)
	var home domain.HomeLocation
	switch {
	case in.Coord != nil:
		if !in.Coord.Valid() {
			return domain.User{}, apperr.Validation("coordinate", "latitude must be within [-90, 90] and longitude within [-180, 180]")
		}
		home = domain.HomeLocation{Address: address, Coord: *in.Coord}
	case address == "":
		return domain.User{}, apperr.Validation("address", "must be non-empty when no coordinate is given")
	case s.geo == nil:
		return domain.User{}, apperr.New(apperr.UpstreamUnavailable, "address lookup is not configured").WithCode("GEOCODER_UNAVAILABLE")
	default:
		place, err := s.geo.Lookup(ctx, address)
		if err != nil {
			if errors.Is(err, geocoder.ErrNoMatch) {
				return domain.User{}, apperr.New(apperr.MalformedInput, "address could not be located").
					WithCode("ADDRESS_NOT_FOUND").
					WithDetails(map[string]any{"address": address})
			}
			return domain.User{}, apperr.New(apperr.UpstreamUnavailable, "address lookup failed").WithCode("GEOCODER_UNAVAILABLE").WithCause(err)
		}
		home = domain.HomeLocation{Address: address, Coord: place.Coord}
		if home.Address == "" {
			home.Address = place.DisplayName
		}
	}

	u.Home = &home
	return s.save(ctx, u)
}

func (s *Service) ClearHome(ctx context.Context, subject domain.SubjectID) (domain.User, error) {
	u, err := s.GetMe(ctx, subject)
	if err != nil {
		return domain.User{}, err
	}
	u.Home = nil
	return s.save(ctx, u)
}

func (s *Service) save(ctx context.Context, u domain.User) (domain.User, error) {
	u.UpdatedAt = s.clk.Now().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, userrepo.ErrEmailTaken):
			return domain.User{}, emailInUse()
		case errors.Is(err, userrepo.ErrNotFound):
			return domain.User{}, notProvisioned()
		}
		return domain.User{}, err
	}
	return u, nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return err
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}
