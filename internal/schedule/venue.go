// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule models the supported conference listing sites and parses
// their schedule, event, and speaker pages into paper records.
package schedule

import (
	"fmt"

	"github.com/pdiddy/confscout/pkg/types"
)

// Venue is one conference listing site. Base carries the scheme so tests can
// point a Venue at an httptest server.
type Venue struct {
	Name      types.Venue
	Base      string
	FirstYear int
}

// Venues lists the supported conferences with the first year each one
// published its schedule in the maincard format.
var Venues = []Venue{
	{Name: types.VenueICML, Base: "https://icml.cc", FirstYear: 2017},
	{Name: types.VenueNeurIPS, Base: "https://neurips.cc", FirstYear: 2006},
	{Name: types.VenueICLR, Base: "https://iclr.cc", FirstYear: 2018},
}

// EarliestYear returns the first year any venue supports.
func EarliestYear() int {
	earliest := Venues[0].FirstYear
	for _, v := range Venues[1:] {
		if v.FirstYear < earliest {
			earliest = v.FirstYear
		}
	}
	return earliest
}

// ScheduleURL is the listing page for one year.
func (v Venue) ScheduleURL(year int) string {
	return fmt.Sprintf("%s/Conferences/%d/Schedule", v.Base, year)
}

// EventURL is the detail page for one poster event.
func (v Venue) EventURL(year int, eventID string) string {
	return fmt.Sprintf("%s?showEvent=%s", v.ScheduleURL(year), eventID)
}

// SpeakerURL is the profile page for one speaker.
func (v Venue) SpeakerURL(year int, speakerID string) string {
	return fmt.Sprintf("%s?showSpeaker=%s", v.ScheduleURL(year), speakerID)
}
