// Package catalogtest serves an in-process imitation of the Mojang manifest
// and the PaperMC builds API for tests.
package catalogtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// Server is a fake upstream. Exported fields may be changed between
// requests; access is guarded internally.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	// VanillaLatest is advertised as latest.release.
	VanillaLatest string
	// VanillaVersions is the manifest list in manifest order.
	VanillaVersions []string
	// VanillaNoServer lists ids whose detail document has no server download.
	VanillaNoServer map[string]bool

	// PaperVersions is the project version list in upstream order.
	PaperVersions []string
	// PaperBuilds maps a version to its build list; missing versions 404.
	PaperBuilds map[string][]int

	// Jar is served for every artifact request.
	Jar []byte
	// JarStatus, when non-zero, is returned for artifact requests instead of Jar.
	JarStatus int
	// ManifestStatus, when non-zero, is returned for the vanilla manifest.
	ManifestStatus int
	// ManifestBody, when non-empty, replaces the generated manifest.
	ManifestBody string

	hits map[string]int
}

// New starts a fake with a small realistic catalog.
func New() *Server {
	s := &Server{
		VanillaLatest:   "1.21.4",
		VanillaVersions: []string{"25w02a", "1.21.4", "1.21.3", "1.20.4", "1.8.9"},
		VanillaNoServer: map[string]bool{},
		PaperVersions:   []string{"1.20.4", "1.21.3", "1.21.4"},
		PaperBuilds: map[string][]int{
			"1.20.4": {496, 497, 499},
			"1.21.3": {82, 83},
			"1.21.4": {15, 231, 232},
		},
		Jar:  []byte("PK\x03\x04 fake server jar contents"),
		hits: map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// ManifestURL is the vanilla manifest location on this server.
func (s *Server) ManifestURL() string {
	return s.URL + "/mc/game/version_manifest.json"
}

// PaperURL is the paper project endpoint on this server.
func (s *Server) PaperURL() string {
	return s.URL + "/v2/projects/paper"
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

// JarHits returns the number of artifact downloads attempted.
func (s *Server) JarHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for p, c := range s.hits {
		if strings.HasSuffix(p, ".jar") {
			n += c
		}
	}
	return n
}

// Set runs fn with the server's lock held, for changing fields while
// requests may be in flight.
func (s *Server) Set(fn func(s *Server)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := r.URL.Path
	s.hits[p]++

	switch {
	case p == "/mc/game/version_manifest.json":
		s.serveManifest(w)
	case strings.HasPrefix(p, "/v1/packages/"):
		s.serveDetail(w, strings.TrimSuffix(strings.TrimPrefix(p, "/v1/packages/"), ".json"))
	case strings.HasPrefix(p, "/objects/"):
		s.serveJar(w)
	case p == "/v2/projects/paper":
		writeJSON(w, map[string]any{"project_id": "paper", "versions": s.PaperVersions})
	case strings.HasPrefix(p, "/v2/projects/paper/versions/"):
		s.servePaperVersion(w, strings.TrimPrefix(p, "/v2/projects/paper/versions/"))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) serveManifest(w http.ResponseWriter) {
	if s.ManifestStatus != 0 {
		http.Error(w, "manifest unavailable", s.ManifestStatus)
		return
	}
	if s.ManifestBody != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s.ManifestBody))
		return
	}

	versions := make([]map[string]string, 0, len(s.VanillaVersions))
	for _, id := range s.VanillaVersions {
		typ := "release"
		if strings.Contains(id, "w") {
			typ = "snapshot"
		}
		versions = append(versions, map[string]string{
			"id":   id,
			"type": typ,
			"url":  s.URL + "/v1/packages/" + id + ".json",
		})
	}
	writeJSON(w, map[string]any{
		"latest":   map[string]string{"release": s.VanillaLatest, "snapshot": "25w02a"},
		"versions": versions,
	})
}

func (s *Server) serveDetail(w http.ResponseWriter, id string) {
	if s.VanillaNoServer[id] {
		writeJSON(w, map[string]any{"id": id, "downloads": map[string]any{
			"client": map[string]any{"url": s.URL + "/objects/client.jar"},
		}})
		return
	}
	writeJSON(w, map[string]any{"id": id, "downloads": map[string]any{
		"server": map[string]any{
			"url":  s.URL + "/objects/vanilla/" + id + "/server.jar",
			"size": len(s.Jar),
		},
	}})
}

func (s *Server) servePaperVersion(w http.ResponseWriter, rest string) {
	parts := strings.Split(rest, "/")
	builds, ok := s.PaperBuilds[parts[0]]
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Version not found."}`))
		return
	}

	if len(parts) == 1 {
		writeJSON(w, map[string]any{"project_id": "paper", "version": parts[0], "builds": builds})
		return
	}

	// versions/{v}/builds/{b}/downloads/paper-{v}-{b}.jar
	if len(parts) == 5 && parts[1] == "builds" && parts[3] == "downloads" {
		want := fmt.Sprintf("paper-%s-%s.jar", parts[0], parts[2])
		if _, err := strconv.Atoi(parts[2]); err == nil && parts[4] == want {
			s.serveJar(w)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (s *Server) serveJar(w http.ResponseWriter) {
	if s.JarStatus != 0 {
		http.Error(w, "artifact unavailable", s.JarStatus)
		return
	}
	w.Header().Set("Content-Type", "application/java-archive")
	w.Header().Set("Content-Length", strconv.Itoa(len(s.Jar)))
	_, _ = w.Write(s.Jar)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
