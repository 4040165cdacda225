package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/records-drivecost/internal/failure"
	"github.com/jengzang/records-drivecost/internal/models"
)

// LoadExport reads a location-history export from disk
func LoadExport(ctx context.Context, path string) (*models.RawExport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.New(failure.KindMissingFile, "load export", err)
		}
		return nil, failure.New(failure.KindMalformedFile, "load export", err)
	}

	export, err := DecodeExport(data)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("component", "ingest").
		Str("path", path).
		Int("segments", len(export.SemanticSegments)).
		Msg("Export loaded")
	return export, nil
}

// DecodeExport parses export JSON. A document without a semanticSegments key is
// malformed; an empty list is not.
func DecodeExport(data []byte) (*models.RawExport, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, failure.New(failure.KindMalformedFile, "decode export", err)
	}
	if _, ok := probe["semanticSegments"]; !ok {
		return nil, failure.Newf(failure.KindMalformedFile, "decode export", "missing semanticSegments key")
	}

	var export models.RawExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, failure.New(failure.KindMalformedFile, "decode export", err)
	}
	return &export, nil
}
