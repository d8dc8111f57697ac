package artifact

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeZip(t *testing.T, entries ...Entry) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		require.Nil(t, err)
		_, err = w.Write(e.Data)
		require.Nil(t, err)
	}
	require.Nil(t, zw.Close())

	return buf.Bytes()
}

func TestSelect(t *testing.T) {
	tables := []struct {
		name    string
		entries []Entry
		want    string
		err     error
	}{
		{
			"first match wins",
			[]Entry{{"result.png", []byte("png")}, {"out/lum.pfm", []byte("a")}, {"b.pfm", []byte("b")}},
			"a",
			nil,
		},
		{
			"extension anywhere in name",
			[]Entry{{"lum.pfm.bak", []byte("c")}},
			"c",
			nil,
		},
		{
			"missing",
			[]Entry{{"result.png", nil}},
			"",
			ErrArtifactNotFound,
		},
		{
			"empty",
			nil,
			"",
			ErrArtifactNotFound,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			data, _, err := Select(table.entries)
			if table.err != nil {
				assert.True(t, errors.Is(err, table.err))
				return
			}
			require.Nil(t, err)
			assert.Equal(t, table.want, string(data))
		})
	}
}

func TestUnzip(t *testing.T) {
	b := makeZip(t, Entry{"dir/", nil}, Entry{"dir/a.txt", []byte("hello")}, Entry{"b.pfm", []byte("raster")})

	entries, err := Unzip(b)
	require.Nil(t, err)
	assert.Equal(t, []Entry{{"dir/a.txt", []byte("hello")}, {"b.pfm", []byte("raster")}}, entries)

	_, err = Unzip([]byte("not a zip"))
	assert.NotNil(t, err)
}

func TestFetch(t *testing.T) {
	archive := makeZip(t, Entry{"mask.png", []byte("x")}, Entry{"luminance.pfm", []byte("raster")})

	var (
		gotName  string
		gotPhoto []byte
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		f, fh, err := r.FormFile(FormField)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotName = fh.Filename
		gotPhoto, _ = io.ReadAll(f)
		_, _ = w.Write(archive)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	data, name, err := c.Fetch(context.Background(), "photo.jpg", []byte("jpeg bytes"))
	require.Nil(t, err)
	assert.Equal(t, "raster", string(data))
	assert.Equal(t, "luminance.pfm", name)
	assert.Equal(t, "photo.jpg", gotName)
	assert.Equal(t, []byte("jpeg bytes"), gotPhoto)
}

func TestFetchFailures(t *testing.T) {
	status := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer status.Close()

	_, _, err := NewClient(status.URL).Fetch(context.Background(), "p.jpg", nil)
	assert.True(t, errors.Is(err, ErrFetch))

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a zip"))
	}))
	defer garbage.Close()

	_, _, err = NewClient(garbage.URL).Fetch(context.Background(), "p.jpg", nil)
	assert.True(t, errors.Is(err, ErrFetch))

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(makeZip(t, Entry{"mask.png", []byte("x")}))
	}))
	defer empty.Close()

	_, _, err = NewClient(empty.URL).Fetch(context.Background(), "p.jpg", nil)
	assert.True(t, errors.Is(err, ErrArtifactNotFound))

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	_, _, err = NewClient(url).Fetch(context.Background(), "p.jpg", nil)
	assert.True(t, errors.Is(err, ErrFetch))
}
