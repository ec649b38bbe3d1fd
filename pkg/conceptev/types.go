package conceptev

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Resource is a server-owned record (configuration, component, architecture,
// requirement, concept, job, ...). Its schema belongs to the API; the
// client only relies on the service-assigned "id".
type Resource map[string]any

// ID returns the resource id, or "" if it has none.
func (r Resource) ID() string {
	return r.String("id")
}

// String returns the value at key if it is a string.
func (r Resource) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Concept is a vehicle concept. Relationship lists hold ids of resources in
// the same design instance.
type Concept struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name"`
	DesignID          string   `json:"design_id"`
	DesignInstanceID  string   `json:"design_instance_id"`
	ProjectID         string   `json:"project_id"`
	UserID            string   `json:"user_id"`
	ArchitectureID    string   `json:"architecture_id,omitempty"`
	CapabilitiesIDs   []string `json:"capabilities_ids"`
	ComponentsIDs     []string `json:"components_ids"`
	ConfigurationsIDs []string `json:"configurations_ids"`
	DriveCyclesIDs    []string `json:"drive_cycles_ids"`
	JobsIDs           []string `json:"jobs_ids"`
	RequirementsIDs   []string `json:"requirements_ids"`
}

// DecodeConcept converts a loosely typed concept resource into a Concept.
// Unknown fields, such as the populated sub-resources, are ignored.
func DecodeConcept(r Resource) (Concept, error) {
	var c Concept
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &c,
	})
	if err != nil {
		return Concept{}, err
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return Concept{}, fmt.Errorf("failed to decode concept: %w", err)
	}
	return c, nil
}

// JobInput is the body posted to /jobs to create a job for a concept.
type JobInput struct {
	JobName          string   `json:"job_name"`
	RequirementIDs   []string `json:"requirement_ids"`
	ArchitectureID   string   `json:"architecture_id"`
	ConceptID        string   `json:"concept_id"`
	DesignInstanceID string   `json:"design_instance_id"`
}

// JobStart is the body posted to /jobs:start. Job and UploadedFile are
// passed through exactly as /jobs returned them.
type JobStart struct {
	Job          json.RawMessage `json:"job"`
	UploadedFile json.RawMessage `json:"uploaded_file"`
	AccountID    string          `json:"account_id"`
	HPCID        string          `json:"hpc_id"`
}

// JobInfo is the opaque job-start metadata consumed by PollResults.
type JobInfo = json.RawMessage
