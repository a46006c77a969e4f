package gallery

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<h1>Gallery</h1>
<div class="gallery">
  <div class="gallery-item" data-type="WEDDING" data-sizes="XS, s,xl,m" data-price="299">
    <img src=" images/white-lace.jpg " alt="Elegant Wedding Dress">
    <p class="price">$310</p>
  </div>
  <div class="gallery-item" data-type="bogus">
    <img src="images/blue.jpg" alt="">
    <p>Casual Summer Dress</p>
    <p class="price">$149 / week</p>
  </div>
  <div class="gallery-item"></div>
</div>
</body></html>`

func TestExtract_SamplePage(t *testing.T) {
	got := Extract(samplePage)

	want := []dress.Record{
		{
			ID: 1, Name: "Elegant Wedding Dress", Price: 299, Type: dress.TypeWedding,
			Sizes: []dress.Size{dress.SizeXS, dress.SizeS, dress.SizeM}, Colour: "white",
			Image: "images/white-lace.jpg",
		},
		{
			ID: 2, Name: "Casual Summer Dress", Price: 149, Type: dress.TypeCasual,
			Sizes: []dress.Size{dress.SizeS, dress.SizeM, dress.SizeL}, Colour: "unknown",
			Image: "images/blue.jpg",
		},
		{
			ID: 3, Name: "Dress 3", Price: 0, Type: dress.TypeCasual,
			Sizes: []dress.Size{dress.SizeS, dress.SizeM, dress.SizeL}, Colour: "unknown",
			Image: "",
		},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestExtract_EmptyBlockDefaults(t *testing.T) {
	got := Extract(`<section class="gallery-item"><span>nothing here</span></section>`)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	r := got[0]
	if r.Name != "Dress 1" {
		t.Errorf("Name = %q, want %q", r.Name, "Dress 1")
	}
	if r.Price != 0 {
		t.Errorf("Price = %d, want 0", r.Price)
	}
	if r.Type != dress.TypeCasual {
		t.Errorf("Type = %q, want casual", r.Type)
	}
	if !reflect.DeepEqual(r.Sizes, []dress.Size{dress.SizeS, dress.SizeM, dress.SizeL}) {
		t.Errorf("Sizes = %v, want [s m l]", r.Sizes)
	}
	if r.Colour != "unknown" {
		t.Errorf("Colour = %q, want unknown", r.Colour)
	}
	if r.Image != "" {
		t.Errorf("Image = %q, want empty", r.Image)
	}
}

func TestExtract_SequentialIDs(t *testing.T) {
	var b strings.Builder
	const n = 25
	for i := 0; i < n; i++ {
		if i%3 == 0 {
			b.WriteString(`<div class="gallery-item" data-name="named"><img src="x.jpg" alt="x"></div>`)
		} else {
			b.WriteString(`<li class="card gallery-item"><p class="price">£12</p></li>`)
		}
	}

	got := Extract(b.String())
	if len(got) != n {
		t.Fatalf("expected %d records, got %d", n, len(got))
	}
	for i, r := range got {
		if r.ID != i+1 {
			t.Errorf("record %d has id %d, want %d", i, r.ID, i+1)
		}
	}
}

func TestExtract_TypeSanitization(t *testing.T) {
	got := Extract(`
<div class="gallery-item" data-type="WEDDING"></div>
<div class="gallery-item" data-type="bogus"></div>`)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Type != dress.TypeWedding {
		t.Errorf("first type = %q, want wedding", got[0].Type)
	}
	if got[1].Type != dress.TypeCasual {
		t.Errorf("second type = %q, want casual", got[1].Type)
	}
}

func TestExtract_NameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"data attribute wins",
			`<div class="gallery-item" data-name="From Data"><img src="a.jpg" alt="From Alt"><p>From P</p></div>`,
			"From Data",
		},
		{
			"image alt",
			`<div class="gallery-item"><img src="a.jpg" alt=" From Alt "><p>From P</p></div>`,
			"From Alt",
		},
		{
			"plain paragraph",
			`<div class="gallery-item"><p class="price">$5</p><p><b>bold</b></p><p> From P </p></div>`,
			"From P",
		},
		{
			"empty data attribute falls through",
			`<div class="gallery-item" data-name=""><p>Caption</p></div>`,
			"Caption",
		},
		{
			"synthesized",
			`<div class="gallery-item"><p class="caption">styled</p></div>`,
			"Dress 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.html)
			if len(got) != 1 {
				t.Fatalf("expected 1 record, got %d", len(got))
			}
			if got[0].Name != tt.want {
				t.Errorf("Name = %q, want %q", got[0].Name, tt.want)
			}
		})
	}
}

func TestExtract_PriceFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{"data price", `<div class="gallery-item" data-price="120"><p class="price">$99</p></div>`, 120},
		{"non numeric data price", `<div class="gallery-item" data-price="tba"><p class="price">$99</p></div>`, 99},
		{"price marker", `<div class="gallery-item"><span class="price tag"> $ 45.50</span></div>`, 45},
		{"no digits", `<div class="gallery-item"><p class="price">ask us</p></div>`, 0},
		{"none", `<div class="gallery-item"></div>`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.html)
			if len(got) != 1 {
				t.Fatalf("expected 1 record, got %d", len(got))
			}
			if got[0].Price != tt.want {
				t.Errorf("Price = %d, want %d", got[0].Price, tt.want)
			}
		})
	}
}

func TestExtract_TypeFromName(t *testing.T) {
	got := Extract(`<div class="gallery-item"><img src="a.jpg" alt="Lace Wedding Gown"></div>`)
	if got[0].Type != dress.TypeWedding {
		t.Errorf("Type = %q, want wedding", got[0].Type)
	}
}

func TestExtract_ImageAndColour(t *testing.T) {
	got := Extract(`
<div class="gallery-item" data-image="from-data.jpg"></div>
<div class="gallery-item" data-colour="red"><img src="WHITE-dress.jpg" alt=""></div>
<div class="gallery-item"><img src="Offwhite.png"></div>`)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Image != "from-data.jpg" || got[0].Colour != "unknown" {
		t.Errorf("record 1 = %+v", got[0])
	}
	if got[1].Image != "WHITE-dress.jpg" || got[1].Colour != "red" {
		t.Errorf("record 2 = %+v", got[1])
	}
	if got[2].Colour != "white" {
		t.Errorf("record 3 colour = %q, want white", got[2].Colour)
	}
}

func TestExtract_NestedItemDoesNotTruncate(t *testing.T) {
	got := Extract(`
<div class="gallery-item" data-name="Outer">
  <div class="inner"><span>wrapper</span></div>
  <img src="outer.jpg" alt="outer">
</div>`)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Image != "outer.jpg" {
		t.Errorf("Image = %q, want outer.jpg", got[0].Image)
	}
}

func TestExtract_NestedGalleryItems(t *testing.T) {
	got := Extract(`
<div class="gallery-item" data-name="Outer">
  <p>Outer caption</p>
  <div class="gallery-item" data-name="Inner">
    <img src="inner.jpg" alt="inner">
    <p class="price">$50</p>
    <p>Inner caption</p>
  </div>
</div>
<div class="gallery-item"><img src="last.jpg"></div>`)

	want := []dress.Record{
		{ID: 1, Name: "Outer", Price: 0, Type: dress.TypeCasual, Sizes: dress.DefaultSizes(), Colour: "unknown", Image: ""},
		{ID: 2, Name: "Inner", Price: 50, Type: dress.TypeCasual, Sizes: dress.DefaultSizes(), Colour: "unknown", Image: "inner.jpg"},
		{ID: 3, Name: "Dress 3", Price: 0, Type: dress.TypeCasual, Sizes: dress.DefaultSizes(), Colour: "unknown", Image: "last.jpg"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestExtract_NestedItemCaptionStaysInside(t *testing.T) {
	got := Extract(`<div class="gallery-item"><div class="gallery-item"><p>Inner only</p></div></div>`)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Name != "Dress 1" || got[1].Name != "Inner only" {
		t.Errorf("names = %q, %q; want Dress 1, Inner only", got[0].Name, got[1].Name)
	}
}

func TestExtract_EmptyImageSrcFallsBackToData(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantImage string
		wantName  string
	}{
		{"empty src", `<div class="gallery-item" data-image="white-gown.jpg"><img src="" alt="Gown"></div>`, "white-gown.jpg", "Dress 1"},
		{"blank src", `<div class="gallery-item" data-image="white-gown.jpg"><img src="  " alt="Gown"></div>`, "white-gown.jpg", "Dress 1"},
		{"later image used", `<div class="gallery-item"><img src=""><img src="b.jpg" alt="Second"></div>`, "b.jpg", "Second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.html)
			if len(got) != 1 {
				t.Fatalf("expected 1 record, got %d", len(got))
			}
			if got[0].Image != tt.wantImage {
				t.Errorf("Image = %q, want %q", got[0].Image, tt.wantImage)
			}
			if got[0].Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got[0].Name, tt.wantName)
			}
		})
	}

	got := Extract(`<div class="gallery-item" data-image="white-gown.jpg"><img src=""></div>`)
	if got[0].Colour != "white" {
		t.Errorf("Colour = %q, want white from the data image", got[0].Colour)
	}
}

func TestDataAttrs(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div class="gallery-item" data-type="party" data-colour="red" data-foo-bar="x" id="a"></div>`))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	got := dataAttrs(doc.Find(ItemSelector).Nodes[0])
	want := map[string]string{"type": "party", "colour": "red"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dataAttrs() = %v, want %v", got, want)
	}
}

func TestExtract_MalformedMarkup(t *testing.T) {
	got := Extract(`<div class="gallery-item" data-price="12"><img src="a.jpg" alt="A"<p>unterminated`)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Price != 12 {
		t.Errorf("Price = %d, want 12", got[0].Price)
	}
}

func TestExtract_NoItems(t *testing.T) {
	got := Extract("<html><body><p>empty</p></body></html>")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
