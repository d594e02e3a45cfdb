package model

import "time"

// GenericRecord is a schema-agnostic map for any data source row
type GenericRecord map[string]interface{}

// ValidationRules defines validation requirements for a source
type ValidationRules struct {
	RequiredFields []string           `json:"requiredFields" yaml:"required_fields"` // fields that must be present
	NumericFields  []string           `json:"numericFields" yaml:"numeric_fields"`   // fields that must be numeric
	MinValues      map[string]float64 `json:"minValues" yaml:"min_values"`           // min allowed numeric values
	MaxValues      map[string]float64 `json:"maxValues" yaml:"max_values"`           // optional max limits
}

// Source represents one emissions data source
type Source struct {
	Type       string           `json:"type" yaml:"type"` // csv, json
	URL        string           `json:"url" yaml:"url"`   // local path or http(s) URL
	Validation *ValidationRules `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// Workers defines number of workers per stage
type Workers struct {
	Validation int `json:"validation" yaml:"validation"`
	Transform  int `json:"transform" yaml:"transform"`
}

// LoadSpec defines how the emissions table is assembled from its sources
type LoadSpec struct {
	Sources           []Source      `json:"sources"`
	Transformations   []string      `json:"transformations"`
	Workers           Workers       `json:"workers"`
	ChannelBufferSize int           `json:"channelBufferSize"`
	Timeout           time.Duration `json:"timeout"`
	Retry             RetryPolicy   `json:"retry"`
}

// ExportSpec defines where and how view results are written
type ExportSpec struct {
	Dir     string   `json:"dir"`
	Formats []string `json:"formats"` // csv, json, xlsx, png
}
