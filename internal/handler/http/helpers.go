package http

import (
	"net/http"
	"strconv"

	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httputil"
)

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	httputil.WriteJSON(w, status, httputil.Response{Data: v})
}

// parseCoordinates reads and bounds-checks lat/lon query parameters.
func parseCoordinates(r *http.Request) (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, apperrors.InvalidInput("lat must be a number between -90 and 90")
	}

	lon, err = strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, apperrors.InvalidInput("lon must be a number between -180 and 180")
	}

	return lat, lon, nil
}
