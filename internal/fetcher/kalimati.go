package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	resty "github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"kalimati-price-tracker/internal/storage"
)

const (
	languagePath = "/lang/en"
	pricePath    = "/price"

	tokenSelector = "input#csrf"
	formSelector  = "#queryFormDues"
	rowSelector   = "#commodityPriceParticular tbody tr"

	dateFieldName = "datePricing"
)

// KalimatiOptions parameterise the Kalimati market fetcher.
type KalimatiOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Kalimati fetches the daily price table from the Kalimati market site. The
// site issues a per-session CSRF token on the query page; the token must be
// posted back together with the requested date.
type Kalimati struct {
	opts    KalimatiOptions
	logger  zerolog.Logger
	client  *resty.Client
	baseURL string
}

// NewKalimati constructs a Kalimati fetcher.
func NewKalimati(opts KalimatiOptions, logger zerolog.Logger) *Kalimati {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://kalimatimarket.gov.np"
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = "kalimati-tracker/1.0"
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Kalimati{
		opts:    opts,
		logger:  logger.With().Str("component", "kalimati_fetcher").Logger(),
		client:  client,
		baseURL: baseURL,
	}
}

// FetchRows loads the query page, extracts the session token, submits the
// date form, and returns the cell texts of every table row as rendered. The
// placeholder "no data" row is returned as-is; the caller decides what counts
// as an empty day.
func (k *Kalimati) FetchRows(ctx context.Context, date time.Time) ([][]string, error) {
	// Visiting the language endpoint first pins the session to English so
	// that commodity names are stable keys.
	if _, err := k.client.R().SetContext(ctx).Get(k.baseURL + languagePath); err != nil {
		return nil, fmt.Errorf("select language: %w", err)
	}

	res, err := k.client.R().SetContext(ctx).Get(k.baseURL + pricePath)
	if err != nil {
		return nil, fmt.Errorf("load query page: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("load query page: unexpected status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse query page: %w", err)
	}

	form, err := k.collectForm(doc, date)
	if err != nil {
		return nil, err
	}

	res, err = k.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(k.baseURL + pricePath)
	if err != nil {
		return nil, fmt.Errorf("submit date form: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("submit date form: unexpected status %d", res.StatusCode())
	}

	doc, err = goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse result page: %w", err)
	}

	selection := doc.Find(rowSelector)
	if selection.Length() == 0 {
		k.logger.Warn().Str("date", date.Format(storage.DateFormat)).Msg("no data table on result page")
		return nil, ErrTableUnavailable
	}

	rows := make([][]string, 0, selection.Length())
	selection.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, td.Text())
		})
		rows = append(rows, row)
	})

	k.logger.Debug().Str("date", date.Format(storage.DateFormat)).Int("rows", len(rows)).Msg("fetched price table")
	return rows, nil
}

// collectForm gathers the hidden inputs of the query form (the CSRF token
// among them) and overrides the date field.
func (k *Kalimati) collectForm(doc *goquery.Document, date time.Time) (map[string]string, error) {
	token := doc.Find(tokenSelector).AttrOr("value", "")
	if token == "" {
		k.logger.Warn().Msg("csrf token input not found on query page")
		return nil, ErrTableUnavailable
	}

	form := map[string]string{}
	doc.Find(formSelector + " input").Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		form[name] = input.AttrOr("value", "")
	})
	form[dateFieldName] = date.Format(storage.DateFormat)

	return form, nil
}

var _ PriceTableFetcher = (*Kalimati)(nil)
