package store

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/alextreichler/shopfront/internal/models"
)

// Catalog is the YAML document read by `storefront seed`.
type Catalog struct {
	Products []models.Product `yaml:"products"`
}

func LoadCatalog(r io.Reader) ([]models.Product, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	for i, p := range c.Products {
		switch {
		case p.Name == "":
			return nil, fmt.Errorf("product %d: name is required", i+1)
		case p.Category == "":
			return nil, fmt.Errorf("product %d (%s): category is required", i+1, p.Name)
		case p.Price < 0:
			return nil, fmt.Errorf("product %d (%s): price must not be negative", i+1, p.Name)
		}
	}
	return c.Products, nil
}
