package metabohunter

import (
	"bytes"
	"mime/multipart"
	"net/url"
	"strings"

	"metabohunter/internal/catalog"
	"metabohunter/internal/peaks"

	"github.com/shopspring/decimal"
)

// SubmitForm builds the fields of the peak-list submission. Parameters are
// validated first, so an invalid value never reaches the network.
func SubmitForm(list peaks.List, p catalog.Parameters) (url.Values, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("posturl", "upload_file.php")
	form.Set("useall", "yes")
	form.Set("peaks_list", PeaksText(list))
	form.Set("dbsource", p.Database)
	form.Set("metabotype", p.Metabotype)
	form.Set("sampleph", p.PH)
	form.Set("solvent", p.Solvent)
	form.Set("freq", p.Frequency)
	form.Set("method", p.Method)
	form.Set("noise", FormatDecimal(p.Noise))
	form.Set("thres", FormatDecimal(p.Confidence))
	// shift tolerance doubles as the neighbourhood width
	form.Set("neighbourhood", FormatDecimal(p.Tolerance))
	form.Set("submit", "Find matches")
	return form, nil
}

// PeaksText renders one "<position> <intensity>" line per peak in input order.
func PeaksText(list peaks.List) string {
	lines := make([]string, len(list))
	for i, p := range list {
		lines[i] = FormatDecimal(p.Shift) + " " + FormatDecimal(p.Intensity)
	}
	return strings.Join(lines, "\n")
}

// FormatDecimal renders v as the shortest decimal text that round-trips.
func FormatDecimal(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// MatchedPeaksForm is the second request, asking which peaks each ranked
// metabolite explains.
type MatchedPeaksForm struct {
	SampleFile       string
	MatchedPeaksFile string
	Noise            string
	Hits             string
}

// NewMatchedPeaksForm derives the second request from the first response.
func NewMatchedPeaksForm(resp RankingResponse, noise float64) MatchedPeaksForm {
	return MatchedPeaksForm{
		SampleFile:       resp.SampleFile,
		MatchedPeaksFile: resp.SampleFile + MatchedPeaksSuffix,
		Noise:            FormatDecimal(noise),
		Hits:             HitsHeader + "\r\n" + resp.TableText + "\r\n",
	}
}

// Encode renders the form as multipart/form-data and returns the body with
// its content type.
func (f MatchedPeaksForm) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"sample_file", f.SampleFile},
		{"matched_peaks_file", f.MatchedPeaksFile},
		{"noise", f.Noise},
		{"hits", f.Hits},
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	// placeholder file part keeps the body multipart
	part, err := w.CreateFormFile("foo", "foo")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write([]byte("bar")); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Values returns the text fields, for logging and tests.
func (f MatchedPeaksForm) Values() url.Values {
	v := url.Values{}
	v.Set("sample_file", f.SampleFile)
	v.Set("matched_peaks_file", f.MatchedPeaksFile)
	v.Set("noise", f.Noise)
	v.Set("hits", f.Hits)
	return v
}
