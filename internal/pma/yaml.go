package pma

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// estimateDoc is the YAML shape of an estimate. Values travel as strings so
// that decimal precision survives the round trip (yaml.v3 does not consult
// encoding.TextUnmarshaler, so decimal.Decimal cannot decode directly).
type estimateDoc struct {
	Index     int     `yaml:"index"`
	Value     *string `yaml:"value"`
	Citation  string  `yaml:"citation,omitempty"`
	Link      string  `yaml:"link,omitempty"`
	RawValue  string  `yaml:"raw_value,omitempty"`
	RawUnits  string  `yaml:"raw_units,omitempty"`
	Notes     string  `yaml:"notes,omitempty"`
	SubDomain string  `yaml:"subdomain,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (e Estimate) MarshalYAML() (interface{}, error) {
	doc := estimateDoc{
		Index:     e.Index,
		Citation:  e.Citation,
		Link:      e.Link,
		RawValue:  e.RawValue,
		RawUnits:  e.RawUnits,
		Notes:     e.Notes,
		SubDomain: e.SubDomain,
	}
	if e.Value != nil {
		s := e.Value.String()
		doc.Value = &s
	}
	return doc, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Estimate) UnmarshalYAML(node *yaml.Node) error {
	var doc estimateDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	*e = Estimate{
		Index:     doc.Index,
		Citation:  doc.Citation,
		Link:      doc.Link,
		RawValue:  doc.RawValue,
		RawUnits:  doc.RawUnits,
		Notes:     doc.Notes,
		SubDomain: doc.SubDomain,
	}
	if doc.Value != nil && *doc.Value != "" {
		v, err := decimal.NewFromString(*doc.Value)
		if err != nil {
			return fmt.Errorf("estimate %d: invalid value %q: %w", doc.Index, *doc.Value, err)
		}
		e.Value = &v
	}
	return nil
}
