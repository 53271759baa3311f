package timetable

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hassaan22/minaret/internal/model"
)

// row labels as they appear on typical mosque portal pages.
var portalLabels = map[string]model.EventKind{
	"fajr":    model.KindFajr,
	"sunrise": model.KindSunrise,
	"shuruq":  model.KindSunrise,
	"dhuhr":   model.KindDhuhr,
	"zuhr":    model.KindDhuhr,
	"asr":     model.KindAsr,
	"maghrib": model.KindMaghrib,
	"isha":    model.KindIsha,
}

// PortalProvider scrapes a prayer-time table from a mosque portal page.
type PortalProvider struct {
	url    string
	client *http.Client
}

func NewPortalProvider(url string) *PortalProvider {
	return &PortalProvider{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *PortalProvider) Fetch(ctx context.Context, day time.Time) (*model.TimeTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: portal returned %d", ErrSourceUnavailable, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	times := make(map[model.EventKind]time.Time)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells := rowCells(n)
			if len(cells) >= 2 {
				label := strings.ToLower(strings.TrimSpace(cells[0]))
				if kind, ok := portalLabels[label]; ok {
					if at, err := parseClock(strings.TrimSpace(cells[1]), day); err == nil {
						// first matching row wins; later tables often hold iqama times
						if _, seen := times[kind]; !seen {
							times[kind] = at
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(times) < len(model.Kinds) {
		return nil, fmt.Errorf("%w: portal page yielded %d of %d event rows",
			ErrParse, len(times), len(model.Kinds))
	}

	return &model.TimeTable{
		Day:    day,
		Source: model.SourcePortal,
		Method: p.url,
		Times:  times,
	}, nil
}

// rowCells collects the text content of each td/th in a table row.
func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, nodeText(c))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
