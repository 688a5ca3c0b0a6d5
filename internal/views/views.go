package views

import (
	"strings"

	"github.com/dealdesk/merchant-portal/internal/analytics"
	"github.com/google/uuid"
)

// Name is the route segment of a dashboard screen.
type Name string

const (
	NameOverview   Name = "overview"
	NameAnalytics  Name = "analytics"
	NameDeals      Name = "deals"
	NameCreateDeal Name = "create-deal"
	NameProfile    Name = "profile"
	NameRedeem     Name = "redeem"
)

// Names lists every screen in navigation order.
var Names = []Name{NameOverview, NameAnalytics, NameDeals, NameCreateDeal, NameProfile, NameRedeem}

// View is one dashboard screen together with the state it is opened with.
// The set of variants is closed; Render switches over all of them.
type View interface {
	Name() Name
	view()
}

type Overview struct {
	Query analytics.Query
}

type Analytics struct {
	Query analytics.Query
}

type Deals struct {
	Status string
}

// CreateDeal opens the wizard, resuming DraftID when set.
type CreateDeal struct {
	DraftID *uuid.UUID
}

type Profile struct{}

type Redeem struct{}

func (Overview) Name() Name   { return NameOverview }
func (Analytics) Name() Name  { return NameAnalytics }
func (Deals) Name() Name      { return NameDeals }
func (CreateDeal) Name() Name { return NameCreateDeal }
func (Profile) Name() Name    { return NameProfile }
func (Redeem) Name() Name     { return NameRedeem }

func (Overview) view()   {}
func (Analytics) view()  {}
func (Deals) view()      {}
func (CreateDeal) view() {}
func (Profile) view()    {}
func (Redeem) view()     {}

// Params carries the query string values a screen may read.
type Params struct {
	Query  analytics.Query
	Status string
	Draft  *uuid.UUID
}

// Parse maps a route segment to its view. Older camelCase names from the
// dashboard are accepted. ok is false for unknown screens.
func Parse(name string, p Params) (View, bool) {
	switch Name(normalize(name)) {
	case NameOverview:
		return Overview{Query: p.Query}, true
	case NameAnalytics:
		return Analytics{Query: p.Query}, true
	case NameDeals:
		return Deals{Status: p.Status}, true
	case NameCreateDeal:
		return CreateDeal{DraftID: p.Draft}, true
	case NameProfile:
		return Profile{}, true
	case NameRedeem:
		return Redeem{}, true
	default:
		return nil, false
	}
}

func normalize(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "createdeal", "create_deal":
		return string(NameCreateDeal)
	case "", "dashboard":
		return string(NameOverview)
	default:
		return n
	}
}
