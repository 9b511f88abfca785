// Package dataset reads the store location export used to build a game
// catalog. The export is OSM XML converted to JSON: every node carries
// underscore-prefixed attributes and a list of k/v tags.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/playperu/mapguess/internal/mapguess"
)

type Loader struct {
	http   *resty.Client
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger, timeout time.Duration) *Loader {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Loader{http: client, logger: logger}
}

// Load reads source, a file path or an http(s) URL, and builds a catalog.
// Every failure matches mapguess.ErrDataset. Nothing is retried.
func (l *Loader) Load(ctx context.Context, source string) (*mapguess.Catalog, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, mapguess.NewDatasetError("reading "+source, err)
	}

	locations, err := Parse(data)
	if err != nil {
		return nil, err
	}

	catalog, err := mapguess.LoadCatalog(locations)
	if err != nil {
		return nil, err
	}

	l.logger.Info("dataset loaded",
		"source", source,
		"locations", catalog.Len(),
		"valid", catalog.ValidLen(),
	)
	return catalog, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.ReadFile(source)
	}

	resp, err := l.http.R().SetContext(ctx).Get(source)
	if err != nil {
		return nil, fmt.Errorf("fetching dataset: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching dataset: unexpected status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

type document struct {
	OSM struct {
		Node []node `json:"node"`
	} `json:"osm"`
}

type node struct {
	ID   flexString      `json:"_id"`
	Lat  flexString      `json:"_lat"`
	Lon  flexString      `json:"_lon"`
	Tags json.RawMessage `json:"tag"`
}

type tag struct {
	K string `json:"_k"`
	V string `json:"_v"`
}

// Parse decodes an export into locations. Nodes with unusable coordinates
// make the whole dataset malformed; nodes without address tags are kept and
// left for the catalog to filter.
func Parse(data []byte) ([]mapguess.Location, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, mapguess.NewDatasetError("decoding json", err)
	}
	if len(doc.OSM.Node) == 0 {
		return nil, mapguess.NewDatasetError("no nodes in osm document", nil)
	}

	locations := make([]mapguess.Location, 0, len(doc.OSM.Node))
	for i, n := range doc.OSM.Node {
		loc, err := n.location()
		if err != nil {
			return nil, mapguess.NewDatasetError(fmt.Sprintf("node %d", i), err)
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

func (n node) location() (mapguess.Location, error) {
	var loc mapguess.Location

	if n.ID != "" {
		id, err := strconv.ParseInt(string(n.ID), 10, 64)
		if err != nil {
			return loc, fmt.Errorf("parsing id %q: %w", n.ID, err)
		}
		loc.ID = id
	}

	lat, err := strconv.ParseFloat(string(n.Lat), 64)
	if err != nil {
		return loc, fmt.Errorf("parsing latitude %q: %w", n.Lat, err)
	}
	lon, err := strconv.ParseFloat(string(n.Lon), 64)
	if err != nil {
		return loc, fmt.Errorf("parsing longitude %q: %w", n.Lon, err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return loc, fmt.Errorf("coordinate out of range: %v,%v", lat, lon)
	}
	loc.Lat, loc.Lon = lat, lon

	tags, err := decodeTags(n.Tags)
	if err != nil {
		return loc, err
	}
	loc.Tags = make(map[string]string, len(tags))
	for _, t := range tags {
		loc.Tags[t.K] = t.V
	}
	return loc, nil
}

// decodeTags accepts a list of tags, a single tag object (the XML converter
// collapses one-element lists), or nothing.
func decodeTags(raw json.RawMessage) ([]tag, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '{' {
		var t tag
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("decoding tag: %w", err)
		}
		return []tag{t}, nil
	}
	var tags []tag
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return tags, nil
}

// flexString holds a JSON string or number as text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
