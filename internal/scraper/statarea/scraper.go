// Package statarea scrapes daily win percentages from the Statarea predictions page.
package statarea

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/omarshaarawi/hapdaily/internal/api/rest"
	"github.com/omarshaarawi/hapdaily/internal/models"
)

const (
	DefaultBaseURL       = "https://old.statarea.com/predictions"
	DefaultMinPercentage = 60
	SourceName           = "statarea"
	League               = "Various Leagues"
	userAgent            = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	minCells             = 8
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-zA-Z0-9]`)
	whitespace = regexp.MustCompile(`\s+`)
)

type Scraper struct {
	rest          *rest.Client
	minPercentage float64
	now           func() time.Time
}

func NewScraper(baseURL string, minPercentage float64, opts ...rest.Option) *Scraper {
	if minPercentage <= 0 {
		minPercentage = DefaultMinPercentage
	}
	opts = append([]rest.Option{
		rest.WithHeader("User-Agent", userAgent),
		rest.WithHeader("Accept", "text/html,application/xhtml+xml"),
	}, opts...)
	return &Scraper{
		rest:          rest.NewClient(SourceName, baseURL, opts...),
		minPercentage: minPercentage,
		now:           time.Now,
	}
}

// Scrape fetches today's page and returns every row where either side reaches the minimum
// percentage. A failed fetch is fatal; a bad row is skipped.
func (s *Scraper) Scrape(ctx context.Context) (models.ScrapingResult, error) {
	runTime := s.now().UTC()
	body, err := s.rest.GetRaw(ctx, "/"+runTime.Format("2006-01-02"), nil)
	if err != nil {
		return models.ScrapingResult{}, fmt.Errorf("fetching predictions page: %w", err)
	}

	result, err := s.Parse(body, runTime)
	if err != nil {
		return models.ScrapingResult{}, err
	}
	slog.Info("Scraped predictions", "source", SourceName, "rows", result.RowsSeen,
		"skipped", result.RowsSkipped, "accepted", len(result.Fixtures))
	return result, nil
}

// Parse extracts fixtures from a predictions page. Times are placed on runTime's date.
func (s *Scraper) Parse(page []byte, runTime time.Time) (models.ScrapingResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return models.ScrapingResult{}, fmt.Errorf("parsing predictions page: %w", err)
	}

	var result models.ScrapingResult
	doc.Find("table tbody tr").Each(func(i int, tr *goquery.Selection) {
		result.RowsSeen++
		f, ok := s.parseRow(i, tr, runTime)
		if !ok {
			result.RowsSkipped++
			return
		}
		if f.WinningPercentage < s.minPercentage {
			return
		}
		result.Fixtures = append(result.Fixtures, f)
	})
	return result, nil
}

func (s *Scraper) parseRow(i int, tr *goquery.Selection, runTime time.Time) (f models.ScrapedFixture, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Failed to parse prediction row", "row", i, "panic", r)
			ok = false
		}
	}()

	cells := tr.Find("td")
	if cells.Length() < minCells {
		return f, false
	}
	cell := func(n int) string { return strings.TrimSpace(cells.Eq(n).Text()) }

	timeText := cell(0)
	home, away := cell(1), cell(2)
	if timeText == "" || home == "" || away == "" {
		return f, false
	}

	homePct := ParsePercentage(cell(6))
	awayPct := ParsePercentage(cell(7))

	kickoff, err := ParseTime(timeText, runTime)
	approximate := false
	if err != nil {
		slog.Warn("Using run time for unparsable kickoff", "row", i, "time", timeText, "error", err)
		kickoff = runTime
		approximate = true
	}

	f = models.ScrapedFixture{
		ID:                    fixtureID(home, away, timeText, runTime),
		HomeTeam:              home,
		AwayTeam:              away,
		League:                League,
		KickoffTime:           kickoff,
		ApproximateKickoff:    approximate,
		HomeWinningPercentage: homePct,
		AwayWinningPercentage: awayPct,
		SelectedTeam:          models.Home,
		WinningPercentage:     max(homePct, awayPct),
	}
	if awayPct > homePct {
		f.SelectedTeam = models.Away
	}
	return f, true
}

func fixtureID(home, away, timeText string, runTime time.Time) string {
	return strings.Join([]string{
		whitespace.ReplaceAllString(home, "-"),
		whitespace.ReplaceAllString(away, "-"),
		nonAlnum.ReplaceAllString(timeText, ""),
		strconv.FormatInt(runTime.UnixMilli(), 10),
		uuid.NewString()[:5],
	}, "-")
}

// ParsePercentage reads values like "72.5%" or "72,5". Anything unparsable is 0.
func ParsePercentage(text string) float64 {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "%")
	text = strings.Replace(text, ",", ".", 1)
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseTime reads "15:30", "15.30" or "1530" as a UTC time on day's date.
func ParseTime(text string, day time.Time) (time.Time, error) {
	clean := whitespace.ReplaceAllString(strings.TrimSpace(text), "")

	var hh, mm string
	switch {
	case strings.Contains(clean, ":"):
		hh, mm, _ = strings.Cut(clean, ":")
	case strings.Contains(clean, "."):
		hh, mm, _ = strings.Cut(clean, ".")
	case len(clean) == 4:
		hh, mm = clean[:2], clean[2:]
	default:
		return time.Time{}, fmt.Errorf("invalid time format %q", text)
	}

	hours, err := strconv.Atoi(hh)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hours in %q: %w", text, err)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minutes in %q: %w", text, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return time.Time{}, fmt.Errorf("time out of range %q", text)
	}

	day = day.UTC()
	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, time.UTC), nil
}
