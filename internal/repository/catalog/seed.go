package catalog

import (
	"context"
	"embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/catalog/field"
	"github.com/campushq/catalog/internal/domain/record"
)

// The sample datasets mirror the hard-coded mock arrays of the original
// screens: books, staff, posts, and the download center's files.
//
//go:embed seed/*.yaml
var seedFS embed.FS

type seedField struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Searchable bool   `yaml:"searchable"`
	Sort       string `yaml:"sort"`
}

type seedRecord struct {
	ID       string               `yaml:"id"`
	Tags     map[string]string    `yaml:"tags"`
	Numerics map[string]float64   `yaml:"numerics"`
	Dates    map[string]time.Time `yaml:"dates"`
	Lists    map[string][]string  `yaml:"lists"`
}

type seedCatalog struct {
	Name    string       `yaml:"name"`
	Fields  []seedField  `yaml:"fields"`
	Records []seedRecord `yaml:"records"`
}

func (r *Repo) loadSeeds() error {
	entries, err := seedFS.ReadDir("seed")
	if err != nil {
		return fmt.Errorf("read seed dir: %w", err)
	}

	for _, entry := range entries {
		data, err := seedFS.ReadFile("seed/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		var sc seedCatalog
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return fmt.Errorf("parse %s: %w", entry.Name(), err)
		}

		cat, records, err := sc.build()
		if err != nil {
			return fmt.Errorf("seed %s: %w", entry.Name(), err)
		}
		if err := r.CreateCatalog(context.Background(), cat, records); err != nil {
			return err
		}
	}
	return nil
}

func (sc seedCatalog) build() (domcat.Catalog, []record.Record, error) {
	fields := make([]field.Field, 0, len(sc.Fields))
	for _, sf := range sc.Fields {
		f, err := field.New(sf.Name, field.Type(sf.Type), sf.Searchable, sf.Sort)
		if err != nil {
			return domcat.Catalog{}, nil, err
		}
		fields = append(fields, f)
	}

	cat, err := domcat.New(sc.Name, fields)
	if err != nil {
		return domcat.Catalog{}, nil, err
	}

	records := make([]record.Record, 0, len(sc.Records))
	for _, sr := range sc.Records {
		rec, err := record.New(sr.ID, sr.Tags, sr.Numerics, sr.Dates, sr.Lists)
		if err != nil {
			return domcat.Catalog{}, nil, err
		}
		records = append(records, rec)
	}
	return cat, records, nil
}
