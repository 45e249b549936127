package services

import (
	"strings"
	"toilet-finder/models"
)

// DirectionsURL builds the external "open directions" link for a destination:
// <base>/directions?to=<lat>,<lng>.
func DirectionsURL(baseURL string, to models.Coordinate) string {
	return strings.TrimRight(baseURL, "/") + "/directions?to=" + to.String()
}
