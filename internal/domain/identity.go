package domain

// Record is a flat identity field map extracted from documents. The merged
// record on an application aggregates fields across id_card, passport, visa
// and drivers_license documents; live photos never contribute.
type Record map[string]string

// Merge folds other into r with latest-non-empty-wins semantics: a non-empty
// value in other overwrites r's value for the same key, while empty values
// never erase anything. Merging the same record twice is a no-op.
func (r Record) Merge(other Record) {
	for key, value := range other {
		if value == "" {
			continue
		}
		r[key] = value
	}
}

// Clone returns an independent copy of r. Cloning nil yields an empty record
// so callers can merge into the result unconditionally.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

// Get returns the value for key, tolerating nil records.
func (r Record) Get(key string) string {
	if r == nil {
		return ""
	}
	return r[key]
}
