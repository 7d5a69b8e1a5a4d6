package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// DetailsFile is the manifest name inside the public directory.
const DetailsFile = "file_details.json"

// FileDetails is the published dataset manifest.
type FileDetails struct {
	Samples     []SampleLinks  `json:"samples"`
	AnswerSheet AnswerSheetRef `json:"answer_sheet"`
	SampleSheet SheetRef       `json:"sample_sheet"`
}

// SampleLinks are the public read URLs of one sample.
type SampleLinks struct {
	PublicName string `json:"public_name"`
	R1URL      string `json:"R1_URL"`
	R2URL      string `json:"R2_URL"`
}

// SheetRef locates a published sheet.
type SheetRef struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// AnswerSheetRef locates the published answer sheet and lists the species it covers.
type AnswerSheetRef struct {
	Filename string   `json:"filename"`
	URL      string   `json:"url"`
	Species  []string `json:"species"`
}

// BuildDetails assembles the manifest for samples. The answer sheet is
// published as answerName, the sample sheet under its fixed name.
func BuildDetails(samples []Sample, publicURL, answerName string) *FileDetails {
	d := &FileDetails{
		Samples: make([]SampleLinks, 0, len(samples)),
		AnswerSheet: AnswerSheetRef{
			Filename: answerName,
			URL:      publicURL + "/" + answerName,
			Species:  []string{},
		},
		SampleSheet: SheetRef{
			Filename: SampleSheetName,
			URL:      publicURL + "/" + SampleSheetName,
		},
	}

	for _, s := range samples {
		d.Samples = append(d.Samples, SampleLinks{
			PublicName: s.PublicName,
			R1URL:      s.R1URL,
			R2URL:      s.R2URL,
		})
		if !slices.Contains(d.AnswerSheet.Species, s.Species) {
			d.AnswerSheet.Species = append(d.AnswerSheet.Species, s.Species)
		}
	}
	slices.Sort(d.AnswerSheet.Species)

	return d
}

// Encode writes d as 4-space indented JSON without HTML escaping.
func (d *FileDetails) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(d)
}

// WriteDetails writes the manifest to path.
func WriteDetails(path string, d *FileDetails) error {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return fmt.Errorf("encode file details: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write file details: %w", err)
	}
	return nil
}

// DecodeDetails reads a manifest.
func DecodeDetails(data []byte) (*FileDetails, error) {
	var d FileDetails
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode file details: %w", err)
	}
	return &d, nil
}
