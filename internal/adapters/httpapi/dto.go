package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/itinerary"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/plans"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/recommendations"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/sharing"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/statistics"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/users"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

// Requests

type createMeRequest struct {
	DisplayName string              `json:"displayName" validate:"required"`
	Email       openapi_types.Email `json:"email" validate:"required,email"`
}

type updateMeRequest struct {
	DisplayName nullable.Nullable[string] `json:"displayName"`
	Email       nullable.Nullable[string] `json:"email"`
}

type setHomeRequest struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude" validate:"required_with=Longitude"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude"`
}

type createPlanRequest struct {
	Title       string             `json:"title" validate:"required"`
	Destination string             `json:"destination" validate:"required"`
	Latitude    *float64           `json:"latitude" validate:"required_with=Longitude"`
	Longitude   *float64           `json:"longitude" validate:"required_with=Latitude"`
	StartDate   openapi_types.Date `json:"startDate" validate:"required"`
	EndDate     openapi_types.Date `json:"endDate" validate:"required"`
	Budget      *float64           `json:"budget" validate:"omitempty,gte=0"`
	Interests   string             `json:"interests"`
	Visibility  string             `json:"visibility"`
}

type updatePlanRequest struct {
	Title       nullable.Nullable[string]             `json:"title"`
	Destination nullable.Nullable[string]             `json:"destination"`
	Latitude    nullable.Nullable[float64]            `json:"latitude"`
	Longitude   nullable.Nullable[float64]            `json:"longitude"`
	StartDate   nullable.Nullable[openapi_types.Date] `json:"startDate"`
	EndDate     nullable.Nullable[openapi_types.Date] `json:"endDate"`
	Budget      nullable.Nullable[float64]            `json:"budget"`
	Interests   nullable.Nullable[string]             `json:"interests"`
}

type visibilityRequest struct {
	Visibility string `json:"visibility" validate:"required"`
}

type inviteRequest struct {
	Email   string `json:"email" validate:"required_without=UserID,omitempty,email"`
	UserID  string `json:"userId" validate:"required_without=Email"`
	CanEdit bool   `json:"canEdit"`
}

type respondRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

type addItemRequest struct {
	Day       int      `json:"day" validate:"min=1"`
	Time      *string  `json:"time"`
	Activity  string   `json:"activity" validate:"required"`
	Location  *string  `json:"location"`
	Latitude  *float64 `json:"latitude" validate:"required_with=Longitude"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude"`
	Cost      *float64 `json:"cost"`
	Notes     string   `json:"notes"`
}

// scheduleRequest moves an item. Time must be present; null unschedules it within the day.
type scheduleRequest struct {
	Day  int                       `json:"day" validate:"min=1"`
	Time nullable.Nullable[string] `json:"time"`
}

func usersOptional[T any](n nullable.Nullable[T]) users.Optional[T] {
	if !n.IsSpecified() {
		return users.Unspecified[T]()
	}
	if n.IsNull() {
		return users.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return users.Unspecified[T]()
	}
	return users.Some(v)
}

func plansOptional[T any](n nullable.Nullable[T]) plans.Optional[T] {
	if !n.IsSpecified() {
		return plans.Unspecified[T]()
	}
	if n.IsNull() {
		return plans.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return plans.Unspecified[T]()
	}
	return plans.Some(v)
}

func plansOptionalDate(n nullable.Nullable[openapi_types.Date]) plans.Optional[time.Time] {
	o := plansOptional(n)
	switch {
	case !o.IsSpecified():
		return plans.Unspecified[time.Time]()
	case o.IsNull():
		return plans.Null[time.Time]()
	default:
		return plans.Some(o.Value().Time)
	}
}

func coordinate(lat, lng *float64) *domain.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.Coordinate{Lat: *lat, Lng: *lng}
}

// Responses

type homeResponse struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type userResponse struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"displayName"`
	Email       string        `json:"email"`
	Home        *homeResponse `json:"home"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type userSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type planResponse struct {
	ID           string             `json:"id"`
	OwnerID      string             `json:"ownerId"`
	Title        string             `json:"title"`
	Destination  string             `json:"destination"`
	Latitude     *float64           `json:"latitude"`
	Longitude    *float64           `json:"longitude"`
	StartDate    openapi_types.Date `json:"startDate"`
	EndDate      openapi_types.Date `json:"endDate"`
	DurationDays int                `json:"durationDays"`
	Budget       *float64           `json:"budget"`
	Interests    string             `json:"interests"`
	Visibility   string             `json:"visibility"`
	Access       string             `json:"access,omitempty"`
	ShareCode    *string            `json:"shareCode,omitempty"`
	ShareURL     string             `json:"shareUrl,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type itemResponse struct {
	ID          string    `json:"id"`
	PlanID      string    `json:"planId"`
	Day         int       `json:"day"`
	Time        *string   `json:"time"`
	DisplayTime string    `json:"displayTime,omitempty"`
	Activity    string    `json:"activity"`
	Category    string    `json:"category"`
	Location    *string   `json:"location"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Cost        float64   `json:"cost"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type dayResponse struct {
	Day   int                `json:"day"`
	Date  openapi_types.Date `json:"date"`
	Items []itemResponse     `json:"items"`
}

type categoryCostResponse struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type viewsResponse struct {
	Items           []itemResponse         `json:"items"`
	Days            []dayResponse          `json:"days"`
	TotalCost       float64                `json:"totalCost"`
	CostBreakdown   []categoryCostResponse `json:"costBreakdown"`
	DayDates        []openapi_types.Date   `json:"dayDates"`
	Budget          *float64               `json:"budget"`
	RemainingBudget *float64               `json:"remainingBudget"`
}

type itineraryResponse struct {
	Plan      planResponse  `json:"plan"`
	Itinerary viewsResponse `json:"itinerary"`
}

type itemMutationResponse struct {
	Item      itemResponse  `json:"item"`
	Itinerary viewsResponse `json:"itinerary"`
}

type shareResponse struct {
	ID           string    `json:"id"`
	PlanID       string    `json:"planId"`
	InviterID    string    `json:"inviterId"`
	InviteeID    string    `json:"inviteeId"`
	InviteeEmail string    `json:"inviteeEmail,omitempty"`
	CanEdit      bool      `json:"canEdit"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type shareListingResponse struct {
	Share   shareResponse `json:"share"`
	Invitee userSummary   `json:"invitee"`
}

type invitationResponse struct {
	Share   shareResponse `json:"share"`
	Plan    planResponse  `json:"plan"`
	Inviter userSummary   `json:"inviter"`
}

type sharedPlanResponse struct {
	Plan  planResponse  `json:"plan"`
	Share shareResponse `json:"share"`
	Owner userSummary   `json:"owner"`
}

type activityResponse struct {
	Label       string   `json:"label"`
	Location    string   `json:"location"`
	Cost        float64  `json:"cost"`
	Description string   `json:"description"`
	TimeSpent   string   `json:"timeSpent"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type recommendationsResponse struct {
	PlanID     string             `json:"planId"`
	Day        int                `json:"day"`
	Activities []activityResponse `json:"activities"`
	Cached     bool               `json:"cached"`
}

type overviewResponse struct {
	Location string `json:"location"`
	Markdown string `json:"markdown"`
	Cached   bool   `json:"cached"`
}

type countResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type monthResponse struct {
	Month string  `json:"month"`
	Trips int     `json:"trips"`
	Spend float64 `json:"spend"`
}

type insightResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type trendResponse struct {
	Months              []monthResponse   `json:"months"`
	RecentAverageSpend  float64           `json:"recentAverageSpend"`
	MonthlyAverageSpend float64           `json:"monthlyAverageSpend"`
	Insights            []insightResponse `json:"insights"`
}

type mapPointResponse struct {
	PlanID    string  `json:"planId"`
	Title     string  `json:"title"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type statisticsResponse struct {
	TotalTrips           int                    `json:"totalTrips"`
	TotalDays            int                    `json:"totalDays"`
	TotalDistanceKm      float64                `json:"totalDistanceKm"`
	TotalCost            float64                `json:"totalCost"`
	CostBreakdown        []categoryCostResponse `json:"costBreakdown"`
	VisitedCities        []string               `json:"visitedCities"`
	VisitedCountries     []string               `json:"visitedCountries"`
	CitiesThisYear       []string               `json:"citiesThisYear"`
	TopInterests         []string               `json:"topInterests"`
	DurationDistribution []countResponse        `json:"durationDistribution"`
	SeasonalDistribution []countResponse        `json:"seasonalDistribution"`
	DestinationFrequency []countResponse        `json:"destinationFrequency"`
	Trend                trendResponse          `json:"trend"`
	MapPoints            []mapPointResponse     `json:"mapPoints"`
}

type suggestionResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

// Mapping

func userFromDomain(u domain.User) userResponse {
	out := userResponse{
		ID:          string(u.ID),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.Home != nil {
		out.Home = &homeResponse{Address: u.Home.Address, Latitude: u.Home.Coord.Lat, Longitude: u.Home.Coord.Lng}
	}
	return out
}

func userSummaryFromDomain(u domain.User) userSummary {
	return userSummary{ID: string(u.ID), DisplayName: u.DisplayName}
}

// planFromDomain renders a plan for a caller with the given access. The share code is only
// shown to the owner; the share URL is supplied by the plans service for public plans.
func planFromDomain(p domain.Plan, access domain.Access, shareURL string) planResponse {
	out := planResponse{
		ID:           string(p.ID),
		OwnerID:      string(p.OwnerID),
		Title:        p.Title,
		Destination:  p.Destination,
		StartDate:    openapi_types.Date{Time: p.StartDate},
		EndDate:      openapi_types.Date{Time: p.EndDate},
		DurationDays: p.DurationDays(),
		Budget:       p.Budget,
		Interests:    p.Interests,
		Visibility:   string(p.Visibility),
		ShareURL:     shareURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if access != domain.AccessNone {
		out.Access = access.String()
	}
	if p.DestinationCoord != nil {
		lat, lng := p.DestinationCoord.Lat, p.DestinationCoord.Lng
		out.Latitude, out.Longitude = &lat, &lng
	}
	if access == domain.AccessOwner {
		out.ShareCode = p.ShareCode
	}
	return out
}

func planViewFromApp(v plans.PlanView) planResponse {
	return planFromDomain(v.Plan, v.Access, v.ShareURL)
}

func itemFromDomain(it domain.ItineraryItem) itemResponse {
	out := itemResponse{
		ID:        string(it.ID),
		PlanID:    string(it.PlanID),
		Day:       it.Day,
		Time:      it.Time,
		Activity:  it.Activity,
		Category:  domain.ActivityCategory(it.Activity),
		Location:  it.Location,
		Cost:      it.Cost,
		Notes:     it.Notes,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
	if it.Time != nil {
		out.DisplayTime = domain.FormatTimeOfDay(*it.Time)
	}
	if it.Coord != nil {
		lat, lng := it.Coord.Lat, it.Coord.Lng
		out.Latitude, out.Longitude = &lat, &lng
	}
	return out
}

func itemsFromDomain(items []domain.ItineraryItem) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemFromDomain(it))
	}
	return out
}

func viewsFromApp(v itinerary.Views) viewsResponse {
	out := viewsResponse{
		Items:           itemsFromDomain(v.Items),
		Days:            make([]dayResponse, 0, len(v.Days)),
		TotalCost:       v.TotalCost,
		CostBreakdown:   make([]categoryCostResponse, 0, len(v.CostBreakdown)),
		DayDates:        make([]openapi_types.Date, 0, len(v.DayDates)),
		Budget:          v.Budget,
		RemainingBudget: v.RemainingBudget,
	}
	for _, d := range v.Days {
		out.Days = append(out.Days, dayResponse{Day: d.Day, Date: openapi_types.Date{Time: d.Date}, Items: itemsFromDomain(d.Items)})
	}
	for _, c := range v.CostBreakdown {
		out.CostBreakdown = append(out.CostBreakdown, categoryCostResponse{Category: c.Category, Total: c.Total})
	}
	for _, d := range v.DayDates {
		out.DayDates = append(out.DayDates, openapi_types.Date{Time: d})
	}
	return out
}

func shareFromDomain(s domain.Share) shareResponse {
	return shareResponse{
		ID:           string(s.ID),
		PlanID:       string(s.PlanID),
		InviterID:    string(s.InviterID),
		InviteeID:    string(s.InviteeID),
		InviteeEmail: s.InviteeEmail,
		CanEdit:      s.CanEdit,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func shareListingsFromApp(ls []sharing.ShareListing) []shareListingResponse {
	out := make([]shareListingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, shareListingResponse{Share: shareFromDomain(l.Share), Invitee: userSummaryFromDomain(l.Invitee)})
	}
	return out
}

func activitiesFromApp(acts []recommendations.Activity) []activityResponse {
	out := make([]activityResponse, 0, len(acts))
	for _, a := range acts {
		r := activityResponse{
			Label:       a.Label,
			Location:    a.Location,
			Cost:        a.Cost,
			Description: a.Description,
			TimeSpent:   a.TimeSpent,
		}
		if a.Coord != nil {
			lat, lng := a.Coord.Lat, a.Coord.Lng
			r.Latitude, r.Longitude = &lat, &lng
		}
		out = append(out, r)
	}
	return out
}

func countsFromApp(cs []statistics.Count) []countResponse {
	out := make([]countResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, countResponse{Label: c.Label, Count: c.Count})
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func statisticsFromApp(st statistics.Statistics) statisticsResponse {
	out := statisticsResponse{
		TotalTrips:           st.TotalTrips,
		TotalDays:            st.TotalDays,
		TotalDistanceKm:      st.TotalDistanceKm,
		TotalCost:            st.TotalCost,
		CostBreakdown:        make([]categoryCostResponse, 0, len(st.CostBreakdown)),
		VisitedCities:        nonNilStrings(st.VisitedCities),
		VisitedCountries:     nonNilStrings(st.VisitedCountries),
		CitiesThisYear:       nonNilStrings(st.CitiesThisYear),
		TopInterests:         nonNilStrings(st.TopInterests),
		DurationDistribution: countsFromApp(st.DurationDistribution),
		SeasonalDistribution: countsFromApp(st.SeasonalDistribution),
		DestinationFrequency: countsFromApp(st.DestinationFrequency),
		Trend: trendResponse{
			Months:              make([]monthResponse, 0, len(st.Trend.Months)),
			RecentAverageSpend:  st.Trend.RecentAverageSpend,
			MonthlyAverageSpend: st.Trend.MonthlyAverageSpend,
			Insights:            make([]insightResponse, 0, len(st.Trend.Insights)),
		},
		MapPoints: make([]mapPointResponse, 0, len(st.MapPoints)),
	}
	for _, c := range st.CostBreakdown {
		out.CostBreakdown = append(out.CostBreakdown, categoryCostResponse{Category: c.Category, Total: c.Total})
	}
	for _, m := range st.Trend.Months {
		out.Trend.Months = append(out.Trend.Months, monthResponse{Month: m.Month, Trips: m.Trips, Spend: m.Spend})
	}
	for _, in := range st.Trend.Insights {
		out.Trend.Insights = append(out.Trend.Insights, insightResponse{Kind: string(in.Kind), Message: in.Message})
	}
	for _, p := range st.MapPoints {
		out.MapPoints = append(out.MapPoints, mapPointResponse{
			PlanID:    string(p.PlanID),
			Title:     p.Title,
			Name:      p.Name,
			Latitude:  p.Coord.Lat,
			Longitude: p.Coord.Lng,
		})
	}
	return out
}
