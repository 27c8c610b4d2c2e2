package metabohunter

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"metabohunter/internal/catalog"
	"metabohunter/internal/peaks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitForm(t *testing.T) {
	list := peaks.List{{Shift: 3.14, Intensity: 100}, {Shift: 5, Intensity: 50}}

	t.Run("defaults", func(t *testing.T) {
		form, err := SubmitForm(list, catalog.Defaults())
		require.NoError(t, err)
		assert.Equal(t, "upload_file.php", form.Get("posturl"))
		assert.Equal(t, "yes", form.Get("useall"))
		assert.Equal(t, "3.14 100\n5 50", form.Get("peaks_list"))
		assert.Equal(t, "HMDB", form.Get("dbsource"))
		assert.Equal(t, "All", form.Get("metabotype"))
		assert.Equal(t, "ph7", form.Get("sampleph"))
		assert.Equal(t, "water", form.Get("solvent"))
		assert.Equal(t, "600", form.Get("freq"))
		assert.Equal(t, "HighestNumberNeighbourhood", form.Get("method"))
		assert.Equal(t, "0", form.Get("noise"))
		assert.Equal(t, "0.4", form.Get("thres"))
		assert.Equal(t, "0.1", form.Get("neighbourhood"))
		assert.Equal(t, "Find matches", form.Get("submit"))
	})

	t.Run("invalid parameter", func(t *testing.T) {
		p := catalog.Defaults()
		p.Metabotype = "Unknown"
		_, err := SubmitForm(list, p)
		assert.ErrorIs(t, err, catalog.ErrInvalidParameter)
	})
}

func TestFormatDecimal(t *testing.T) {
	cases := map[float64]string{
		0:      "0",
		0.1:    "0.1",
		3.14:   "3.14",
		100:    "100",
		1.2345: "1.2345",
		-0.5:   "-0.5",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDecimal(in), "FormatDecimal(%v)", in)
	}
}

func TestMatchedPeaksForm(t *testing.T) {
	resp := RankingResponse{TableText: "1\tA\ta\t0.9 (1/1)\tx", SampleFile: "tmp/s1"}
	form := NewMatchedPeaksForm(resp, 0.25)

	assert.Equal(t, "tmp/s1", form.SampleFile)
	assert.Equal(t, "tmp/s1_matched_spectra.txt", form.MatchedPeaksFile)
	assert.Equal(t, "0.25", form.Noise)
	assert.Equal(t, HitsHeader+"\r\n1\tA\ta\t0.9 (1/1)\tx\r\n", form.Hits)

	body, contentType, err := form.Encode()
	require.NoError(t, err)
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	parts := map[string]string{}
	files := map[string]string{}
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			files[part.FormName()] = string(data)
			continue
		}
		parts[part.FormName()] = string(data)
	}
	assert.Equal(t, map[string]string{
		"sample_file":        "tmp/s1",
		"matched_peaks_file": "tmp/s1_matched_spectra.txt",
		"noise":              "0.25",
		"hits":               form.Hits,
	}, parts)
	assert.Equal(t, map[string]string{"foo": "bar"}, files)
	assert.Equal(t, form.Hits, form.Values().Get("hits"))
}
