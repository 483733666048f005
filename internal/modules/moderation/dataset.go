package moderation

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// comments.csv is the bundled labeled corpus used to bootstrap a model when
// no persisted artifact exists. Columns: text, label (1 = spam, 0 = ham).
//
//go:embed data/comments.csv
var bundledDataset []byte

// Sample is one labeled training example.
type Sample struct {
	Text string
	Spam bool
}

// BundledSamples parses the embedded training corpus.
func BundledSamples() ([]Sample, error) {
	return parseSamples(bytes.NewReader(bundledDataset))
}

func parseSamples(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	if len(header) != 2 || strings.TrimSpace(header[0]) != "text" || strings.TrimSpace(header[1]) != "label" {
		return nil, fmt.Errorf("unexpected dataset header %v", header)
	}

	var samples []Sample
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset line %d: %w", line, err)
		}
		label, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("dataset line %d: bad label %q", line, record[1])
		}
		text := strings.TrimSpace(record[0])
		if text == "" {
			continue
		}
		samples = append(samples, Sample{Text: text, Spam: label == 1})
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	return samples, nil
}
