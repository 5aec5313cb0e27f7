package sitemap

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	activities []PageRef
	campAreas  []PageRef
	events     []PageRef
	regions    []PageRef
}

func (f *fakeSource) ActivityPages(context.Context) ([]PageRef, error) { return f.activities, nil }
func (f *fakeSource) CampAreaPages(context.Context) ([]PageRef, error) { return f.campAreas, nil }
func (f *fakeSource) EventPages(context.Context) ([]PageRef, error)    { return f.events, nil }
func (f *fakeSource) RegionPages(context.Context) ([]PageRef, error)   { return f.regions, nil }

func TestRenderIncludesStaticAndDynamicPages(t *testing.T) {
	activityID := uuid.New()
	regionID := uuid.New()
	updated := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	src := &fakeSource{
		activities: []PageRef{{ID: activityID, UpdatedAt: updated}},
		regions:    []PageRef{{ID: regionID, UpdatedAt: updated}},
	}
	svc, err := NewService("https://temankemah.id/", src)
	require.NoError(t, err)

	body, err := svc.Render(context.Background())
	require.NoError(t, err)
	doc := string(body)

	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
	assert.Contains(t, doc, "<loc>https://temankemah.id/</loc>")
	assert.Contains(t, doc, "<loc>https://temankemah.id/camp-areas</loc>")
	assert.Contains(t, doc, "<loc>https://temankemah.id/activities/"+activityID.String()+"</loc>")
	assert.Contains(t, doc, "<loc>https://temankemah.id/regions/"+regionID.String()+"</loc>")
	assert.Contains(t, doc, "<lastmod>2026-03-14</lastmod>")
	assert.NotContains(t, doc, "https://temankemah.id//activities")
}
