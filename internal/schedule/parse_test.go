// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/confscout/pkg/types"
)

const sampleListingHTML = `<!DOCTYPE html>
<html><body>
<div class="col-xs-12">
  <div class="maincard narrower poster" id="maincard_10001"><div class="maincardBody">Paper A</div></div>
</div>
<div class="col-xs-12">
  <div class="maincard narrower poster" id="maincard_10002"><div class="maincardBody">Paper B</div></div>
</div>
<div class="col-xs-12">
  <div class="maincard narrower talk" id="maincard_10003"><div class="maincardBody">Invited Talk</div></div>
</div>
</body></html>`

const sampleEventHTML = `<!DOCTYPE html>
<html><body>
<div class="col-xs-12">
  <div class="maincard narrower poster" id="maincard_10001">
    <div class="maincardType">Poster</div>
    <div class="maincardBody">Attention Is Not All You Need</div>
  </div>
  <button class="btn invisible" onclick="showDetail()">Detail</button>
  <button class="btn" onclick="showSpeaker('101-0')">Alice Smith</button>
  <button class="btn" onclick="showSpeaker('102-0')">Bob Lee</button>
</div>
</body></html>`

const sampleSpeakerHTML = `<!DOCTYPE html>
<html><body>
<div class="col-xs-12">
  <div class="maincard narrower" id="maincard_101"></div>
  <h3>Alice Smith</h3>
  <h4>Stanford University</h4>
</div>
</body></html>`

const speakerNoAffiliationHTML = `<!DOCTYPE html>
<html><body>
<div class="col-xs-12">
  <div class="maincard" id="maincard_102"></div>
  <h3>Bob Lee</h3>
  <h4></h4>
</div>
</body></html>`

func TestParseEventIDs(t *testing.T) {
	ids, err := ParseEventIDs("listing", []byte(sampleListingHTML))
	require.NoError(t, err)
	// Only poster cards count; the talk card is skipped.
	assert.Equal(t, []string{"10001", "10002"}, ids)
}

func TestParseEventIDsEmptyListing(t *testing.T) {
	ids, err := ParseEventIDs("listing", []byte(`<html><body><p>Nothing scheduled.</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestParseEvent(t *testing.T) {
	title, speakers, err := ParseEvent("event-10001", []byte(sampleEventHTML))
	require.NoError(t, err)

	assert.Equal(t, "Attention Is Not All You Need", title)
	require.Len(t, speakers, 2)
	assert.Equal(t, SpeakerRef{ID: "101-0", Name: "Alice Smith"}, speakers[0])
	assert.Equal(t, SpeakerRef{ID: "102-0", Name: "Bob Lee"}, speakers[1])
}

func TestParseEventMalformed(t *testing.T) {
	_, _, err := ParseEvent("event-x", []byte(`<html><body><div class="unrelated"></div></body></html>`))
	require.Error(t, err)

	var pe *types.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, types.ParseMalformed, pe.Kind)
	assert.Equal(t, "event-x", pe.PageRef)
}

func TestParseSpeaker(t *testing.T) {
	name, affiliation, err := ParseSpeaker("speaker-101", []byte(sampleSpeakerHTML))
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", name)
	assert.Equal(t, "Stanford University", affiliation)
}

func TestParseSpeakerMissingAffiliation(t *testing.T) {
	name, affiliation, err := ParseSpeaker("speaker-102", []byte(speakerNoAffiliationHTML))
	require.NoError(t, err)
	assert.Equal(t, "Bob Lee", name)
	assert.Empty(t, affiliation)
}

func TestParseSpeakerMalformed(t *testing.T) {
	_, _, err := ParseSpeaker("speaker-x", []byte(`<html><body></body></html>`))
	var pe *types.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, types.ParseMalformed, pe.Kind)
}

func TestVenueURLs(t *testing.T) {
	v := Venue{Name: types.VenueNeurIPS, Base: "https://neurips.cc", FirstYear: 2006}
	assert.Equal(t, "https://neurips.cc/Conferences/2023/Schedule", v.ScheduleURL(2023))
	assert.Equal(t, "https://neurips.cc/Conferences/2023/Schedule?showEvent=10001", v.EventURL(2023, "10001"))
	assert.Equal(t, "https://neurips.cc/Conferences/2023/Schedule?showSpeaker=101-0", v.SpeakerURL(2023, "101-0"))
}

func TestEarliestYear(t *testing.T) {
	assert.Equal(t, 2006, EarliestYear())
}
