package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orlic/leadtap/internal/model"
)

// fakePage serves a fixed HTML body, or fails navigation.
type fakePage struct {
	html    string
	navErr  error
	visited string
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.visited = url
	return p.navErr
}

func (p *fakePage) WaitVisible(context.Context, string, time.Duration) bool { return true }

func (p *fakePage) HTML(context.Context) (string, error) { return p.html, nil }

const detailHTML = `<html><body>
	<h1>Pine Coffee Roasters</h1>
	<a href="tel:2065550134">(206) 555-0134</a>
	<footer>info@pinecoffee.com</footer>
	<a href="https://pinecoffee.example.com">our site</a>
</body></html>`

func TestProfileFillsAbsentFields(t *testing.T) {
	page := &fakePage{html: detailHTML}
	base := model.BusinessRecord{
		Name:      "Pine Coffee Roasters",
		Phone:     "(206) 555-9999", // already known, must survive
		DetailURL: "https://maps.example.com/place/pine",
	}

	got := Profile(context.Background(), page, base, Options{
		Wait:          time.Second,
		IncludeEmails: true,
		IncludePhones: true,
	})

	require.Equal(t, base.DetailURL, page.visited)
	require.Equal(t, "(206) 555-9999", got.Phone)
	require.Equal(t, "info@pinecoffee.com", got.Email)
	require.Equal(t, "https://pinecoffee.example.com", got.Website)
}

func TestProfileRespectsFieldToggles(t *testing.T) {
	page := &fakePage{html: detailHTML}
	base := model.BusinessRecord{Name: "Pine", DetailURL: "https://example.com/pine"}

	got := Profile(context.Background(), page, base, Options{Wait: time.Second})

	require.Empty(t, got.Email)
	require.Empty(t, got.Phone)
}

func TestProfileWithoutDetailURL(t *testing.T) {
	page := &fakePage{html: detailHTML}
	base := model.BusinessRecord{Name: "Pine"}

	got := Profile(context.Background(), page, base, Options{IncludeEmails: true})

	require.Equal(t, base, got)
	require.Empty(t, page.visited)
}

func TestProfileNavigationFailureReturnsBase(t *testing.T) {
	page := &fakePage{navErr: errors.New("tab crashed")}
	base := model.BusinessRecord{Name: "Pine", DetailURL: "https://example.com/pine"}

	got := Profile(context.Background(), page, base, Options{IncludeEmails: true})

	require.Equal(t, base, got)
}

func TestMergeBaseWins(t *testing.T) {
	base := model.BusinessRecord{Name: "Pine", Phone: "1", Rating: 4.5}
	extra := model.BusinessRecord{Phone: "2", Rating: 3.0, Email: "a@b.com", Hours: "9-5"}

	got := Merge(base, extra)

	require.Equal(t, "1", got.Phone)
	require.Equal(t, 4.5, got.Rating)
	require.Equal(t, "a@b.com", got.Email)
	require.Equal(t, "9-5", got.Hours)
}
