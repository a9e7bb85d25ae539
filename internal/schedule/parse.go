// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/confscout/pkg/types"
)

// speakerIDPattern extracts the speaker ID from the onclick handler of the
// author buttons on event pages, e.g. showSpeaker('12199-0').
var speakerIDPattern = regexp.MustCompile(`showSpeaker\('([\d-]+)'\)`)

// SpeakerRef is an author button on an event page: the displayed name and
// the site's speaker ID used to fetch the affiliation page.
type SpeakerRef struct {
	ID   string
	Name string
}

// ParseEventIDs extracts poster event IDs from a schedule listing page.
// A listing with no poster cards yields an empty slice, not an error.
func ParseEventIDs(pageRef string, body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ParseError{Kind: types.ParseMalformed, PageRef: pageRef, Err: err}
	}

	var ids []string
	doc.Find(".maincard.poster").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if ok && strings.HasPrefix(id, "maincard_") {
			ids = append(ids, strings.TrimPrefix(id, "maincard_"))
		}
	})
	return ids, nil
}

// ParseEvent extracts the paper title and speaker references from an event
// detail page.
func ParseEvent(pageRef string, body []byte) (string, []SpeakerRef, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", nil, &types.ParseError{Kind: types.ParseMalformed, PageRef: pageRef, Err: err}
	}

	card := doc.Find(".maincard").First()
	if card.Length() == 0 {
		return "", nil, &types.ParseError{Kind: types.ParseMalformed, PageRef: pageRef}
	}
	box := card.Parent()

	title := strings.TrimSpace(box.Find(".maincardBody").First().Text())
	if title == "" {
		return "", nil, &types.ParseError{Kind: types.ParseMalformed, PageRef: pageRef}
	}

	var speakers []SpeakerRef
	box.Find("button").Each(func(_ int, s *goquery.Selection) {
		onclick, _ := s.Attr("onclick")
		m := speakerIDPattern.FindStringSubmatch(onclick)
		if m == nil {
			return
		}
		name := strings.TrimSpace(s.Text())
		if name != "" {
			speakers = append(speakers, SpeakerRef{ID: m[1], Name: name})
		}
	})
	return title, speakers, nil
}

// ParseSpeaker extracts the display name and affiliation from a speaker
// page. A missing affiliation is returned as an empty string; only a missing
// name makes the page malformed.
func ParseSpeaker(pageRef string, body []byte) (name, affiliation string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", &types.ParseError{Kind: types.ParseMalformed, PageRef: pageRef, Err: err}
	}

	card := doc.Find(".maincard").First()
	if card.Length() == 0 {
		return "", "", &types.ParseError{Kind: types.ParseMalformed, PageRef: pageRef}
	}
	box := card.Parent()

	name = strings.TrimSpace(box.Find("h3").First().Text())
	if name == "" {
		return "", "", &types.ParseError{Kind: types.ParseMalformed, PageRef: pageRef}
	}
	affiliation = strings.TrimSpace(box.Find("h4").First().Text())
	return name, affiliation, nil
}
