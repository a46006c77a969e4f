// Package gallery extracts dress records from gallery page markup.
//
// A gallery page lists dresses as elements carrying the gallery-item class.
// Each item may describe itself through data-* attributes on the item
// element; anything missing is recovered from the item's content (image,
// price tag, caption paragraph) and finally from fixed defaults, so an item
// always yields a record.
package gallery

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
)

// ItemSelector matches one gallery entry.
const ItemSelector = ".gallery-item"

var (
	priceRe       = regexp.MustCompile(`[$£€]?\s*([0-9]+)`)
	leadingIntRe  = regexp.MustCompile(`^[$£€]?\s*([0-9]+)`)
	dataAttrRe    = regexp.MustCompile(`^data-(\w+)$`)
	weddingMarker = "wedding"
)

// item holds the raw pieces found in one gallery entry before fallbacks
// are applied.
type item struct {
	data    map[string]string
	imgSrc  string
	imgAlt  string
	hasImg  bool
	price   string
	caption string
}

// Extract returns one record per gallery item in document order, with ids
// 1..N. Malformed markup never fails; it only triggers more fallbacks.
func Extract(htmlText string) []dress.Record {
	records, err := ExtractReader(strings.NewReader(htmlText))
	if err != nil {
		logger.Warn("gallery markup could not be read", "error", err)
		return []dress.Record{}
	}
	return records
}

// ExtractReader parses markup from r. The only error it returns comes from
// reading r.
func ExtractReader(r io.Reader) ([]dress.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gallery markup: %w", err)
	}
	return ExtractDocument(doc), nil
}

// ExtractDocument extracts records from an already parsed document.
func ExtractDocument(doc *goquery.Document) []dress.Record {
	records := make([]dress.Record, 0)
	doc.Find(ItemSelector).Each(func(_ int, s *goquery.Selection) {
		records = append(records, scanItem(s).record(len(records)+1))
	})
	logger.Debug("gallery extraction complete", "items", len(records))
	return records
}

func scanItem(s *goquery.Selection) item {
	it := item{data: dataAttrs(s.Nodes[0])}

	own(s, "img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if strings.TrimSpace(src) == "" {
			return true
		}
		it.hasImg = true
		it.imgSrc = src
		it.imgAlt, _ = img.Attr("alt")
		return false
	})

	if price := own(s, ".price").First(); price.Length() > 0 {
		if m := priceRe.FindStringSubmatch(price.Text()); m != nil {
			it.price = m[1]
		}
	}

	own(s, "p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if len(p.Nodes[0].Attr) > 0 || p.Children().Length() > 0 {
			return true
		}
		if text := strings.TrimSpace(p.Text()); text != "" {
			it.caption = text
			return false
		}
		return true
	})

	return it
}

// own returns the descendants of item s matching sel, leaving out those that
// belong to a gallery item nested inside s. Nested items are extracted as
// records of their own.
func own(s *goquery.Selection, sel string) *goquery.Selection {
	return s.Find(sel).FilterFunction(func(_ int, c *goquery.Selection) bool {
		return c.ParentsFiltered(ItemSelector).First().IsSelection(s)
	})
}

// dataAttrs collects data-<key> attributes. Later duplicates overwrite
// earlier ones.
func dataAttrs(n *html.Node) map[string]string {
	data := make(map[string]string)
	for _, a := range n.Attr {
		if m := dataAttrRe.FindStringSubmatch(a.Key); m != nil {
			data[m[1]] = a.Val
		}
	}
	return data
}

// record resolves every field through its fallback chain.
func (it item) record(id int) dress.Record {
	image := strings.TrimSpace(it.imgSrc)
	if !it.hasImg {
		image = it.data["image"]
	}

	name := it.data["name"]
	if name == "" {
		switch {
		case strings.TrimSpace(it.imgAlt) != "":
			name = strings.TrimSpace(it.imgAlt)
		case it.caption != "":
			name = it.caption
		default:
			name = fmt.Sprintf("Dress %d", id)
		}
	}

	price, ok := parseLeadingInt(it.data["price"])
	if !ok {
		price, ok = parseLeadingInt(it.price)
	}
	if !ok {
		price = 0
	}

	rawType := it.data["type"]
	if rawType == "" {
		if strings.Contains(strings.ToLower(name), weddingMarker) {
			rawType = string(dress.TypeWedding)
		} else {
			rawType = string(dress.TypeCasual)
		}
	}

	var rawSizes []string
	if v := it.data["sizes"]; v != "" {
		rawSizes = strings.Split(v, ",")
	}

	colour := it.data["colour"]
	if colour == "" {
		colour = "unknown"
		if strings.Contains(strings.ToLower(image), "white") {
			colour = "white"
		}
	}

	return dress.Record{
		ID:     id,
		Name:   name,
		Price:  price,
		Type:   dress.SanitizeType(rawType),
		Sizes:  dress.SanitizeSizes(rawSizes),
		Colour: colour,
		Image:  image,
	}
}

func parseLeadingInt(s string) (int, bool) {
	m := leadingIntRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
