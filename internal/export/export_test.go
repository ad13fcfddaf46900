package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orlic/leadtap/internal/model"
)

var exportFixtures = []model.BusinessRecord{
	{
		ID:          "a1",
		Name:        "Pine Coffee Roasters",
		Category:    "Coffee shop",
		Address:     "123 Pine St, Seattle, WA",
		Phone:       "(206) 555-0134",
		Email:       "hello@pinecoffee.example.com",
		Website:     "https://pinecoffee.example.com",
		Rating:      4.6,
		ReviewCount: 128,
		Hours:       "Mon-Fri 7:00-17:00",
		Source:      model.PlatformGoogleMaps,
		ScrapedAt:   time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC),
	},
	{
		Name:    `Elm "Street" Bakery`,
		Address: "45 Elm St",
		Source:  model.PlatformFacebook,
	},
}

func TestRenderEmptyDataset(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatJSON, FormatXLSX} {
		_, err := Render(format, nil)
		require.ErrorIs(t, err, ErrEmptyDataset, "format %s", format)
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := Render(FormatCSV, exportFixtures)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Name,Category,Address,Phone,Email,Website,Rating,Reviews,Hours,Scraped At", lines[0])
	require.Equal(t, `Pine Coffee Roasters,Coffee shop,"123 Pine St, Seattle, WA",(206) 555-0134,hello@pinecoffee.example.com,https://pinecoffee.example.com,4.6,128,Mon-Fri 7:00-17:00,2026-08-14T09:30:00Z`, lines[1])

	// Quotes are escaped and the zero-valued rating, reviews and timestamp
	// come out as empty cells rather than "0".
	require.Equal(t, `"Elm ""Street"" Bakery",,45 Elm St,,,,,,,`, lines[2])
}

func TestRenderJSONRoundTrip(t *testing.T) {
	out, err := Render(FormatJSON, exportFixtures)
	require.NoError(t, err)

	var got []model.BusinessRecord
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got, 2)
	require.Equal(t, "Pine Coffee Roasters", got[0].Name)
	require.Equal(t, 4.6, got[0].Rating)
	require.Equal(t, model.PlatformFacebook, got[1].Source)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"csv", "json", "xlsx"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		require.Equal(t, s, f.Ext())
	}

	_, err := ParseFormat("pdf")
	require.Error(t, err)
	require.Contains(t, err.Error(), "pdf")
}
