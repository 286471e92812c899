package table

// Canonical parameter names used by quality control and the pipelines.
const (
	ParamTemperature = "temperature"
	ParamSalinity    = "salinity"
	ParamPressure    = "pressure"
	ParamOxygen      = "oxygen"
	ParamLatitude    = "latitude"
	ParamLongitude   = "longitude"
	ParamTime        = "time"
)

// Aliases maps a canonical parameter name to the source field names that
// may carry it, in preference order. Resolution happens once per table via
// NewResolver; transforms never probe alternate spellings themselves.
type Aliases map[string][]string

// DefaultAliases covers the field spellings seen in common ocean
// observation exports (Argo, JAXA, OSTIA, ERDDAP CSV dumps).
func DefaultAliases() Aliases {
	return Aliases{
		ParamTemperature: {"temperature", "temp", "sst", "TEMP", "Temperature", "sea_surface_temperature"},
		ParamSalinity:    {"salinity", "sal", "psal", "PSAL", "Salinity", "sea_water_salinity"},
		ParamPressure:    {"pressure", "pres", "PRES", "Pressure", "depth"},
		ParamOxygen:      {"oxygen", "doxy", "DOXY", "o2", "dissolved_oxygen"},
		ParamLatitude:    {"latitude", "lat", "LATITUDE"},
		ParamLongitude:   {"longitude", "lon", "LONGITUDE"},
		ParamTime:        {"time", "date", "TIME", "timestamp"},
	}
}

// Resolver is the per-table binding of canonical parameters to actual
// field names.
type Resolver struct {
	bound map[string]string
}

// NewResolver resolves each canonical parameter against the table's fields
// once. A parameter whose candidates are all absent stays unbound.
func NewResolver(t *Table, aliases Aliases) *Resolver {
	present := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		present[f] = true
	}

	bound := make(map[string]string, len(aliases))
	for param, candidates := range aliases {
		for _, c := range candidates {
			if present[c] {
				bound[param] = c
				break
			}
		}
	}
	return &Resolver{bound: bound}
}

// Field returns the source field bound to a canonical parameter.
// The second return is false when no candidate matched.
func (r *Resolver) Field(param string) (string, bool) {
	f, ok := r.bound[param]
	return f, ok
}

// Bound returns all resolved parameter -> field pairs.
func (r *Resolver) Bound() map[string]string {
	out := make(map[string]string, len(r.bound))
	for k, v := range r.bound {
		out[k] = v
	}
	return out
}
