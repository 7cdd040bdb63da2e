package llm

import "time"

// ModelDetails mirrors the details block the local runtime reports per model.
type ModelDetails struct {
	ParentModel       string   `json:"parent_model,omitempty"`
	Format            string   `json:"format,omitempty"`
	Family            string   `json:"family,omitempty"`
	Families          []string `json:"families,omitempty"`
	ParameterSize     string   `json:"parameter_size,omitempty"`
	QuantizationLevel string   `json:"quantization_level,omitempty"`
}

// ModelInfo describes a model available to a service.
type ModelInfo struct {
	ID         string       `json:"id,omitempty"`
	Name       string       `json:"name"`
	Model      string       `json:"model,omitempty"`
	ModifiedAt *time.Time   `json:"modified_at,omitempty"`
	Size       int64        `json:"size,omitempty"`
	Digest     string       `json:"digest,omitempty"`
	Details    ModelDetails `json:"details"`
}
