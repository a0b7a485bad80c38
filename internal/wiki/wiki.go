// Package wiki is the MediaWiki API client: article fetching, random
// title generation, and intro extracts, per supported wiki language.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wikihop/wikihop/internal/wikihop"
)

var (
	// ErrPageNotFound means the wiki has no article under the title.
	ErrPageNotFound = errors.New("wiki: page not found")
	// ErrUnsupportedLang rejects a language outside the supported set.
	ErrUnsupportedLang = errors.New("wiki: unsupported language")
)

// Lang is a supported wiki language.
type Lang struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Langs is the supported language set. The code doubles as the wiki
// subdomain.
var Langs = []Lang{
	{Code: "en", Label: "English"},
	{Code: "fi", Label: "Suomi"},
	{Code: "de", Label: "Deutsch"},
	{Code: "sv", Label: "Svenska"},
}

// Supported reports whether the language code is in the supported set.
func Supported(code string) bool {
	for _, l := range Langs {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Client talks to the MediaWiki action API. BaseURL carries a %s
// placeholder for the language subdomain.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// New returns a client against the live Wikipedia API. A non-positive
// timeout falls back to 10 seconds.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: "https://%s.wikipedia.org/w/api.php",
	}
}

func (c *Client) endpoint(lang string) (string, error) {
	if !Supported(lang) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLang, lang)
	}
	return fmt.Sprintf(c.BaseURL, lang), nil
}

func (c *Client) get(ctx context.Context, lang string, params url.Values, out any) error {
	base, err := c.endpoint(lang)
	if err != nil {
		return err
	}
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wiki: api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type parseResponse struct {
	Error *apiError `json:"error"`
	Parse struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"parse"`
}

// FetchPage fetches an article's rendered body, following redirects to
// the canonical title.
func (c *Client) FetchPage(ctx context.Context, lang, title string) (wikihop.Page, error) {
	params := url.Values{
		"action":    {"parse"},
		"page":      {title},
		"prop":      {"text"},
		"redirects": {"1"},
	}

	var out parseResponse
	if err := c.get(ctx, lang, params, &out); err != nil {
		return wikihop.Page{}, err
	}
	if out.Error != nil {
		if out.Error.Code == "missingtitle" {
			return wikihop.Page{}, fmt.Errorf("%w: %q", ErrPageNotFound, title)
		}
		return wikihop.Page{}, fmt.Errorf("wiki: %s: %s", out.Error.Code, out.Error.Info)
	}
	if out.Parse.Title == "" {
		return wikihop.Page{}, fmt.Errorf("%w: %q", ErrPageNotFound, title)
	}
	return wikihop.Page{Title: out.Parse.Title, HTML: out.Parse.Text}, nil
}

type randomResponse struct {
	Query struct {
		Random []struct {
			Title string `json:"title"`
		} `json:"random"`
	} `json:"query"`
}

// RandomTitle draws one random main-namespace article title.
func (c *Client) RandomTitle(ctx context.Context, lang string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"list":        {"random"},
		"rnnamespace": {"0"},
		"rnlimit":     {"1"},
	}

	var out randomResponse
	if err := c.get(ctx, lang, params, &out); err != nil {
		return "", err
	}
	if len(out.Query.Random) == 0 {
		return "", errors.New("wiki: empty random result")
	}
	return out.Query.Random[0].Title, nil
}

type extractResponse struct {
	Query struct {
		Pages []struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Missing bool   `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
}

// FirstParagraph fetches the plain-text intro of an article, used as the
// target preview. A missing or empty extract degrades to a placeholder.
func (c *Client) FirstParagraph(ctx context.Context, lang, title string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"titles":      {title},
		"redirects":   {"1"},
	}

	var out extractResponse
	if err := c.get(ctx, lang, params, &out); err != nil {
		return "", err
	}
	if len(out.Query.Pages) == 0 || out.Query.Pages[0].Missing {
		return "No preview available.", nil
	}
	extract := strings.TrimSpace(out.Query.Pages[0].Extract)
	if extract == "" {
		return "No preview available.", nil
	}
	if i := strings.IndexByte(extract, '\n'); i > 0 {
		extract = extract[:i]
	}
	return extract, nil
}
