package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nainya/proptree/pkg/path"
	"github.com/nainya/proptree/pkg/property"
	"github.com/nainya/proptree/pkg/version"
	"github.com/nainya/proptree/pkg/wire"
)

// PropertyView is the JSON body returned for a single property
type PropertyView struct {
	Path  string                       `json:"path"`
	Type  string                       `json:"type"`
	Value any                          `json:"value"`
	Set   []property.PropertyArrayJSON `json:"set,omitempty"`
}

// VersionView summarizes one stored version
type VersionView struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	CreatedBy   string            `json:"created_by,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Properties  int               `json:"properties"`
}

// NewVersionView summarizes v
func NewVersionView(v *version.Version) VersionView {
	return VersionView{
		ID:          v.ID,
		CreatedAt:   v.CreatedAt,
		CreatedBy:   v.CreatedBy,
		Description: v.Description,
		Tags:        v.Tags,
		Metadata:    v.Metadata,
		Properties:  v.Size(),
	}
}

// ModificationView is one modified position in a DiffView
type ModificationView struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// DiffView is the JSON body returned for a version diff
type DiffView struct {
	From     string             `json:"from"`
	To       string             `json:"to"`
	Added    []string           `json:"added"`
	Removed  []string           `json:"removed"`
	Modified []ModificationView `json:"modified"`
}

// NewDiffView flattens a difference into paths and rendered values
func NewDiffView(from, to string, d property.Difference) DiffView {
	view := DiffView{
		From:     from,
		To:       to,
		Added:    make([]string, 0, len(d.Added)),
		Removed:  make([]string, 0, len(d.Removed)),
		Modified: make([]ModificationView, 0, len(d.Modified)),
	}
	for _, p := range d.Added {
		view.Added = append(view.Added, p.Path().String())
	}
	for _, p := range d.Removed {
		view.Removed = append(view.Removed, p.Path().String())
	}
	for _, m := range d.Modified {
		view.Modified = append(view.Modified, ModificationView{
			Path: m.Path.String(),
			Type: m.New.Type().String(),
			Old:  m.Old.Value().String(),
			New:  m.New.Value().String(),
		})
	}
	return view
}

func (o *ObservabilityServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "proptree"})
}

func (o *ObservabilityServer) ready(w http.ResponseWriter, r *http.Request) {
	if o.store.Len() == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "empty"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// getTree writes the latest version, or ?version=id, in ?format=json|yaml|proto
func (o *ObservabilityServer) getTree(w http.ResponseWriter, r *http.Request) {
	v, ok := o.selectVersion(w, r)
	if !ok {
		return
	}
	o.writeTree(w, r, v)
}

func (o *ObservabilityServer) getVersion(w http.ResponseWriter, r *http.Request) {
	v, err := o.store.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	o.writeTree(w, r, v)
}

func (o *ObservabilityServer) getProperty(w http.ResponseWriter, r *http.Request) {
	v, ok := o.selectVersion(w, r)
	if !ok {
		return
	}

	ref, err := path.Parse(mux.Vars(r)["path"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p := v.Tree().GetPropertyByPath(ref)
	if p == nil {
		http.Error(w, fmt.Sprintf("Property '%s' not found", ref), http.StatusNotFound)
		return
	}

	view := PropertyView{Path: p.Path().String(), Type: p.Type().String()}
	if set, ok := p.GetPropertySet(); ok {
		view.Set = set.ToJSON()
	} else {
		view.Value = p.Value().ToJSON()
	}
	writeJSON(w, http.StatusOK, view)
}

func (o *ObservabilityServer) listVersions(w http.ResponseWriter, r *http.Request) {
	versions := o.store.List(0)
	views := make([]VersionView, 0, len(versions))
	for _, v := range versions {
		views = append(views, NewVersionView(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": views})
}

func (o *ObservabilityServer) diffVersions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	start := time.Now()
	d, err := o.store.Diff(vars["from"], vars["to"])
	if err != nil {
		writeError(w, err)
		return
	}
	duration := time.Since(start)

	o.metrics.RecordDiff(d, duration)
	o.log.LogDiff(vars["from"], vars["to"], d, duration)
	writeJSON(w, http.StatusOK, NewDiffView(vars["from"], vars["to"], d))
}

func (o *ObservabilityServer) selectVersion(w http.ResponseWriter, r *http.Request) (*version.Version, bool) {
	var (
		v   *version.Version
		err error
	)
	if id := r.URL.Query().Get("version"); id != "" {
		v, err = o.store.Get(id)
	} else {
		v, err = o.store.Latest()
	}
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return v, true
}

func (o *ObservabilityServer) writeTree(w http.ResponseWriter, r *http.Request, v *version.Version) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	codec, err := wire.Lookup(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	data, err := codec.Encode(v.Tree())
	o.metrics.RecordCodec(codec.Name(), "encode", time.Since(start), err)
	if err != nil {
		o.log.CodecLogger(codec.Name()).LogCodec(codec.Name(), "encode", time.Since(start), 0, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(codec.Name()))
	w.Header().Set("X-Version", v.ID)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func contentType(codec string) string {
	switch codec {
	case "yaml":
		return "application/yaml"
	case "proto":
		return "application/x-protobuf"
	}
	return "application/json"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, version.ErrNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
