package dataset_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/playperu/mapguess/internal/dataset"
	"github.com/playperu/mapguess/internal/mapguess"
)

const export = `{
  "osm": {
    "node": [
      {
        "_id": "42",
        "_lat": "52.3731",
        "_lon": "4.8922",
        "tag": [
          {"_k": "addr:street", "_v": "Damrak"},
          {"_k": "addr:housenumber", "_v": "12"},
          {"_k": "addr:city", "_v": "Amsterdam"},
          {"_k": "shop", "_v": "supermarket"}
        ]
      },
      {
        "_id": 43,
        "_lat": 51.9225,
        "_lon": 4.4792,
        "tag": {"_k": "shop", "_v": "supermarket"}
      },
      {
        "_id": "44",
        "_lat": "52.0907",
        "_lon": "5.1214"
      }
    ]
  }
}`

func TestParse(t *testing.T) {
	locations, err := dataset.Parse([]byte(export))
	require.NoError(t, err)
	require.Len(t, locations, 3)

	first := locations[0]
	require.Equal(t, int64(42), first.ID)
	require.InDelta(t, 52.3731, first.Lat, 1e-9)
	require.Equal(t, "Damrak 12, Amsterdam", first.Address())
	require.True(t, first.Valid())

	require.Equal(t, int64(43), locations[1].ID)
	require.Equal(t, "supermarket", locations[1].Tags["shop"])
	require.False(t, locations[1].Valid())

	require.Empty(t, locations[2].Tags)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `<osm/>`},
		{"no nodes", `{"osm": {"node": []}}`},
		{"bad latitude", `{"osm": {"node": [{"_id": "1", "_lat": "north", "_lon": "5"}]}}`},
		{"missing longitude", `{"osm": {"node": [{"_id": "1", "_lat": "52"}]}}`},
		{"out of range", `{"osm": {"node": [{"_id": "1", "_lat": "152", "_lon": "5"}]}}`},
		{"bad tags", `{"osm": {"node": [{"_id": "1", "_lat": "52", "_lon": "5", "tag": "x"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.Parse([]byte(tt.data))
			require.ErrorIs(t, err, mapguess.ErrDataset)
		})
	}
}

func TestLoaderLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o600))

	catalog, err := dataset.NewLoader(slog.Default(), time.Second).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 3, catalog.Len())
	require.Equal(t, 1, catalog.ValidLen())
}

func TestLoaderLoadMissingFile(t *testing.T) {
	_, err := dataset.NewLoader(slog.Default(), time.Second).
		Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, mapguess.ErrDataset)
}

func TestLoaderLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/locations/locations.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(export))
	}))
	defer srv.Close()

	loader := dataset.NewLoader(slog.Default(), time.Second)

	catalog, err := loader.Load(context.Background(), srv.URL+"/locations/locations.json")
	require.NoError(t, err)
	require.Equal(t, 1, catalog.ValidLen())

	_, err = loader.Load(context.Background(), srv.URL+"/missing.json")
	require.ErrorIs(t, err, mapguess.ErrDataset)
}

func TestLoaderNoValidLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	data := `{"osm": {"node": [{"_id": "1", "_lat": "52", "_lon": "5", "tag": {"_k": "addr:city", "_v": "Utrecht"}}]}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	_, err := dataset.NewLoader(slog.Default(), time.Second).Load(context.Background(), path)
	require.ErrorIs(t, err, mapguess.ErrDataset)
}

func TestLoadBundledDataset(t *testing.T) {
	l := dataset.NewLoader(slog.Default(), time.Second)

	catalog, err := l.Load(context.Background(), filepath.Join("..", "..", "data", "locations.json"))
	require.NoError(t, err)
	require.Equal(t, 8, catalog.Len())
	require.Equal(t, 7, catalog.ValidLen())
}
