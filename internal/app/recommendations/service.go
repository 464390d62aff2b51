package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/generator"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/respcache"
)

const (
	EndpointActivities = "ai_recommendations"
	EndpointOverview   = "location_overview"

	DefaultTimeout = 20 * time.Second
)

// AccessResolver authorizes an actor on a plan. *sharing.Service implements it.
type AccessResolver interface {
	Authorize(ctx context.Context, planID domain.PlanID, actor domain.UserID, min domain.Access) (domain.Plan, domain.Access, error)
}

// Service calls the text generator through the response cache. Failures are never retried here.
type Service struct {
	access  AccessResolver
	gen     generator.Generator
	cache   respcache.Cache
	timeout time.Duration
}

// NewService wires the gateway. A non-positive timeout uses DefaultTimeout.
func NewService(access AccessResolver, gen generator.Generator, cache respcache.Cache, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{access: access, gen: gen, cache: cache, timeout: timeout}
}

type cachedActivity struct {
	Activity    string   `json:"activity"`
	Location    string   `json:"location"`
	Cost        float64  `json:"cost"`
	Description string   `json:"description"`
	TimeSpent   string   `json:"time_spent"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// RecommendActivities suggests up to MaxActivities activities for one day of a plan the actor
// can view.
func (s *Service) RecommendActivities(ctx context.Context, actor domain.UserID, planID domain.PlanID, day int) (DayRecommendations, error) {
	p, _, err := s.access.Authorize(ctx, planID, actor, domain.AccessViewOnly)
	if err != nil {
		return DayRecommendations{}, err
	}
	if day < 1 {
		return DayRecommendations{}, apperr.Validation("day", "must be at least 1")
	}

	out := DayRecommendations{PlanID: planID, Day: day}
	params := activityParams(p, day)
	if payload, ok := s.lookup(ctx, EndpointActivities, params); ok {
		var cached []cachedActivity
		if err := json.Unmarshal(payload, &cached); err == nil {
			out.Activities = fromCached(cached)
			out.Cached = true
			return out, nil
		}
	}

	text, err := s.generate(ctx, activityPrompt(p, day))
	if err != nil {
		return DayRecommendations{}, err
	}
	acts, err := ParseActivities(text)
	if err != nil {
		return DayRecommendations{}, err
	}
	if payload, err := json.Marshal(toCached(acts)); err == nil {
		s.store(ctx, EndpointActivities, params, payload)
	}
	out.Activities = acts
	return out, nil
}

// LocationOverview returns a markdown travel overview of a location.
func (s *Service) LocationOverview(ctx context.Context, location string) (Overview, error) {
	location = domain.NormalizeHumanName(location)
	if location == "" {
		return Overview{}, apperr.Validation("location", "is required")
	}

	out := Overview{Location: location}
	params := respcache.Params{"location": strings.ToLower(location)}
	if payload, ok := s.lookup(ctx, EndpointOverview, params); ok && len(payload) > 0 {
		out.Markdown = string(payload)
		out.Cached = true
		return out, nil
	}

	text, err := s.generate(ctx, overviewPrompt(location))
	if err != nil {
		return Overview{}, err
	}
	md := CleanOverview(text)
	if md == "" {
		return Overview{}, malformed("overview is empty")
	}
	s.store(ctx, EndpointOverview, params, []byte(md))
	out.Markdown = md
	return out, nil
}

func activityParams(p domain.Plan, day int) respcache.Params {
	interests := domain.InterestTokens(p.Interests)
	for i := range interests {
		interests[i] = strings.ToLower(interests[i])
	}
	return respcache.Params{
		"destination": slug.Make(p.Destination),
		"interests":   strings.Join(interests, ","),
		"start_date":  p.StartDate.Format("2006-01-02"),
		"end_date":    p.EndDate.Format("2006-01-02"),
		"day":         day,
	}
}

// lookup treats cache failures as misses.
func (s *Service) lookup(ctx context.Context, endpoint string, params respcache.Params) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, hit, err := s.cache.Get(ctx, endpoint, params)
	if err != nil {
		log.Printf("recommendations: cache get %s: %v", endpoint, err)
		return nil, false
	}
	return payload, hit
}

// store is best-effort; a failed write only costs a later upstream call.
func (s *Service) store(ctx context.Context, endpoint string, params respcache.Params, payload []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(context.WithoutCancel(ctx), endpoint, params, payload); err != nil {
		log.Printf("recommendations: cache put %s: %v", endpoint, err)
	}
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.gen == nil {
		return "", apperr.New(apperr.UpstreamUnavailable, "recommendation service is not configured").WithCode("UPSTREAM_UNAVAILABLE")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("recommendations: upstream: %v", err)
		msg := "recommendation service is unavailable"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = "recommendation service timed out"
		}
		return "", apperr.New(apperr.UpstreamUnavailable, "%s", msg).WithCode("UPSTREAM_UNAVAILABLE").WithCause(err)
	}
	return text, nil
}

func activityPrompt(p domain.Plan, day int) string {
	interests := p.Interests
	if strings.TrimSpace(interests) == "" {
		interests = "Not specified"
	}
	return fmt.Sprintf(`Recommend %d different activities for Day %d of the following travel plan:

Destination: %s
Trip dates: %s to %s
Interests: %s

Return only a JSON array of %d objects with these fields:
[
  {
    "activity": "Activity name",
    "location": "Location",
    "cost": estimated cost as a number,
    "description": "Brief description",
    "time_spent": "Estimated time (e.g. 2 hours)",
    "latitude": approximate latitude as a number,
    "longitude": approximate longitude as a number
  }
]`, MaxActivities, day, p.Destination, p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"), interests, MaxActivities)
}

func overviewPrompt(location string) string {
	return fmt.Sprintf(`Provide interesting information about %s that would be useful for a traveler.
Include:
1. A brief overview
2. 3-5 interesting facts
3. Top 5 must-visit attractions
4. Best time to visit
5. Local cuisine specialties

Format your response using markdown.`, location)
}

func toCached(acts []Activity) []cachedActivity {
	out := make([]cachedActivity, 0, len(acts))
	for _, a := range acts {
		c := cachedActivity{
			Activity:    a.Label,
			Location:    a.Location,
			Cost:        a.Cost,
			Description: a.Description,
			TimeSpent:   a.TimeSpent,
		}
		if a.Coord != nil {
			lat, lng := a.Coord.Lat, a.Coord.Lng
			c.Lat, c.Lng = &lat, &lng
		}
		out = append(out, c)
	}
	return out
}

func fromCached(cs []cachedActivity) []Activity {
	out := make([]Activity, 0, len(cs))
	for _, c := range cs {
		out = append(out, Activity{
			Label:       c.Activity,
			Location:    c.Location,
			Cost:        c.Cost,
			Description: c.Description,
			TimeSpent:   c.TimeSpent,
			Coord:       domain.CoordinateFromPtrs(c.Lat, c.Lng),
		})
	}
	return out
}
