package validation

import "sort"

// Result collects per-field error messages. The zero value is ready to use.
type Result struct {
	errs map[string]string
}

// Set records msg for field. An empty msg clears the field.
func (r *Result) Set(field, msg string) {
	if msg == "" {
		delete(r.errs, field)
		return
	}
	if r.errs == nil {
		r.errs = make(map[string]string)
	}
	r.errs[field] = msg
}

// Get returns the message for field, or "".
func (r Result) Get(field string) string { return r.errs[field] }

// Has reports whether field has an error.
func (r Result) Has(field string) bool {
	_, ok := r.errs[field]
	return ok
}

// Valid reports whether no field has an error.
func (r Result) Valid() bool { return len(r.errs) == 0 }

// Fields returns the failing field names in sorted order.
func (r Result) Fields() []string {
	out := make([]string, 0, len(r.errs))
	for f := range r.errs {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Map returns a copy of the field errors.
func (r Result) Map() map[string]string {
	out := make(map[string]string, len(r.errs))
	for k, v := range r.errs {
		out[k] = v
	}
	return out
}

// Reset clears all errors.
func (r *Result) Reset() { r.errs = nil }
