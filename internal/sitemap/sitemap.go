package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
)

// PageRef is one database-backed page with its last modification time.
type PageRef struct {
	ID        uuid.UUID
	UpdatedAt time.Time
}

type source interface {
	ActivityPages(ctx context.Context) ([]PageRef, error)
	CampAreaPages(ctx context.Context) ([]PageRef, error)
	EventPages(ctx context.Context) ([]PageRef, error)
	RegionPages(ctx context.Context) ([]PageRef, error)
}

// staticPaths are the always-present routes of the web frontend.
var staticPaths = []string{
	"/",
	"/activities",
	"/camp-areas",
	"/events",
	"/regions",
	"/gear",
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Service renders the sitemap XML document.
type Service struct {
	baseURL string
	source  source
}

// NewService constructs a sitemap service rooted at baseURL.
func NewService(baseURL string, src source) (*Service, error) {
	if src == nil {
		return nil, fmt.Errorf("sitemap source is required")
	}
	return &Service{baseURL: strings.TrimRight(baseURL, "/"), source: src}, nil
}

// Render builds the complete urlset document, XML header included.
func (s *Service) Render(ctx context.Context) ([]byte, error) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	for _, path := range staticPaths {
		set.URLs = append(set.URLs, urlEntry{Loc: s.baseURL + path})
	}

	sections := []struct {
		prefix string
		fetch  func(context.Context) ([]PageRef, error)
	}{
		{"/activities/", s.source.ActivityPages},
		{"/camp-areas/", s.source.CampAreaPages},
		{"/events/", s.source.EventPages},
		{"/regions/", s.source.RegionPages},
	}
	for _, section := range sections {
		pages, err := section.fetch(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sitemap pages")
		}
		for _, page := range pages {
			set.URLs = append(set.URLs, urlEntry{
				Loc:     s.baseURL + section.prefix + page.ID.String(),
				LastMod: page.UpdatedAt.UTC().Format("2006-01-02"),
			})
		}
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal sitemap")
	}
	return append([]byte(xml.Header), body...), nil
}
