package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/nps-nearby/pkg/urlutil"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Parse park service HTML into a DOM tree
- Locate the state menu, the park list and the contact card
- Turn them into plain records

Failure Policy
- A page missing its container (no state menu, no park list) is an error
- A missing or blank field inside a found container is a sentinel, never an error
*/

const (
	stateMenuSelector   = "ul.dropdown-menu.SearchBar-keywordSearch"
	parkListSelector    = "div#parkListResults"
	titleSelector       = "div.Hero-titleContainer a.Hero-title"
	designationSelector = "div.Hero-designationContainer span.Hero-designation"
	vcardSelector       = "div.vcard"

	siteIndexPage = "/index.htm"
)

// ParseStateIndex reads the state drop-down of the home page and maps each
// lower-cased state name to the absolute URL of its listing page.
func ParseStateIndex(body []byte, baseURL string) (map[string]string, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	menu := doc.Find(stateMenuSelector).First()
	if menu.Length() == 0 {
		return nil, &ExtractionError{
			Message:   fmt.Sprintf("no element matches %q", stateMenuSelector),
			Retryable: true,
			Cause:     ErrCauseStructureMissing,
		}
	}

	states := make(map[string]string)
	menu.ChildrenFiltered("li").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		name := strings.ToLower(cleanText(link.Text()))
		if name == "" {
			return
		}
		states[name] = urlutil.JoinPath(baseURL, href)
	})
	return states, nil
}

// ParseStateListing returns the detail page URL of every park heading on a
// state listing page, in document order.
func ParseStateListing(body []byte, baseURL string) ([]string, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	list := doc.Find(parkListSelector).First()
	if list.Length() == 0 {
		return nil, &ExtractionError{
			Message:   fmt.Sprintf("no element matches %q", parkListSelector),
			Retryable: true,
			Cause:     ErrCauseStructureMissing,
		}
	}

	siteURLs := make([]string, 0)
	list.Find("h3").Each(func(_ int, heading *goquery.Selection) {
		href, ok := heading.Find("a[href]").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		siteURLs = append(siteURLs, SiteURL(baseURL, href))
	})
	return siteURLs, nil
}

// SiteURL builds the detail page URL for a park href such as "/isro/".
// The trailing slash of href is dropped, so "/isro/" gives
// "<base>/isro/index.htm" and not "<base>/isro//index.htm". Cache files
// holding the doubled-slash keys miss on every detail page.
func SiteURL(baseURL string, href string) string {
	return urlutil.JoinPath(baseURL, strings.TrimRight(strings.TrimSpace(href), "/")) + siteIndexPage
}

// ParseSiteDetail reads a park detail page. It never fails: fields that
// cannot be found, including every field of an unparseable page, become
// sentinels.
func ParseSiteDetail(body []byte, siteURL string) Site {
	site := Site{URL: siteURL}

	doc, err := parseDocument(body)
	if err == nil {
		card := doc.Find(vcardSelector).First()

		site.Name = firstText(doc.Selection, titleSelector)
		site.Category = firstText(doc.Selection, designationSelector)
		site.Address = joinAddress(
			firstText(card, `span[itemprop="addressLocality"]`),
			firstText(card, `span[itemprop="addressRegion"]`),
		)
		site.Zipcode = firstText(card, `span[itemprop="postalCode"]`)
		site.Phone = firstText(card, `span[itemprop="telephone"]`)
	}

	site.Name = orSentinel(site.Name, NoName)
	site.Category = orSentinel(site.Category, NoCategory)
	site.Address = orSentinel(site.Address, NoAddress)
	site.Zipcode = orSentinel(site.Zipcode, NoZipcode)
	site.Phone = orSentinel(site.Phone, NoTelephone)
	return site
}

func parseDocument(body []byte) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ExtractionError{
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
			Retryable: true,
			Cause:     ErrCauseStructureMissing,
		}
	}
	// Use goquery as convenience wrapper
	return goquery.NewDocumentFromNode(root), nil
}

// firstText is the trimmed text of the first match, or "" when nothing matches.
func firstText(scope *goquery.Selection, selector string) string {
	if scope == nil || scope.Length() == 0 {
		return ""
	}
	return cleanText(scope.Find(selector).First().Text())
}

// joinAddress needs both parts; a half address is treated as missing.
func joinAddress(locality string, region string) string {
	if locality == "" || region == "" {
		return ""
	}
	return locality + ", " + region
}

// cleanText trims s and collapses interior runs of whitespace to one space.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
