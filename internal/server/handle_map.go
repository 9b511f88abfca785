package server

import (
	"net/http"

	"github.com/playperu/mapguess/internal/mapguess"
)

// MapView is the initial viewport and base layer the client map starts from.
type MapView struct {
	Center      mapguess.Coordinate `json:"center"`
	Zoom        int                 `json:"zoom"`
	TileURL     string              `json:"tileUrl"`
	MaxZoom     int                 `json:"maxZoom"`
	Attribution string              `json:"attribution"`
}

var defaultMapView = MapView{
	Center:      mapguess.Coordinate{Lat: 52.154912, Lon: 5.386841},
	Zoom:        7,
	TileURL:     "https://{s}.basemaps.cartocdn.com/rastertiles/voyager_nolabels/{z}/{x}/{y}{r}.png",
	MaxZoom:     19,
	Attribution: `&copy; <a href="http://www.openstreetmap.org/copyright">OpenStreetMap</a>`,
}

func handleMapView(view MapView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, view)
	}
}
