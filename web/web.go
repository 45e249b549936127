// Package web holds the embedded map page, the detail panel templates and the
// browser assets.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"toilet-finder/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

const maxStars = 5

// PageData is rendered into the map page.
type PageData struct {
	Title string
}

// ReviewRow is one review in the detail panel with its star row.
type ReviewRow struct {
	models.Review
	Stars []bool
}

// PanelData is the detail panel of the selected toilet. Toilet is nil when
// nothing is selected. RouteError explains a missing route.
type PanelData struct {
	Toilet        *models.Toilet
	DirectionsURL string
	RouteError    string
	Reviews       []ReviewRow
	Amenities     []string
	NearbyStops   []models.NearbyStop
}

// NewPanelData prepares the panel for t. A nil t renders the placeholder.
func NewPanelData(t *models.Toilet, directionsURL string) PanelData {
	p := PanelData{Toilet: t, DirectionsURL: directionsURL}
	if t == nil {
		return p
	}

	if t.WheelchairAccessible {
		p.Amenities = append(p.Amenities, "Accessible")
	}
	if t.FamilyFriendly {
		p.Amenities = append(p.Amenities, "Family Friendly")
	}
	if t.Showers {
		p.Amenities = append(p.Amenities, "Showers Available")
	}

	for _, r := range t.Reviews {
		p.Reviews = append(p.Reviews, ReviewRow{Review: r, Stars: starRow(r.Rating)})
	}
	p.NearbyStops = models.SampleNearbyStops()
	return p
}

func starRow(rating int) []bool {
	stars := make([]bool, maxStars)
	for i := range stars {
		stars[i] = i < rating
	}
	return stars
}

func RenderPage(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = "Toilet Finder"
	}
	return templates.ExecuteTemplate(w, "page.html", data)
}

func RenderPanel(w io.Writer, data PanelData) error {
	return templates.ExecuteTemplate(w, "panel.html", data)
}

// Static serves the embedded JS and CSS under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
