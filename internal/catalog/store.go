package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/plangest/internal/plan"
)

// CatalogFile is the index file name inside the store directory.
const CatalogFile = "catalog.json"

const coursesSuffix = ".materias.json"

var (
	ErrNotFound    = errors.New("plan not found")
	ErrInvalidSlug = errors.New("invalid slug")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Entry is one career listed in the catalog.
type Entry struct {
	Slug     string `json:"slug"`
	Career   string `json:"carrera"`
	Courses  string `json:"materias"`
	Metadata string `json:"metadata"`
}

// Catalog is the content of catalog.json.
type Catalog struct {
	GeneratedAt time.Time `json:"generado_en_utc"`
	Careers     []Entry   `json:"carreras"`
}

// Saved reports the files written for a plan.
type Saved struct {
	Slug         string `json:"slug"`
	MetadataPath string `json:"metadata_path"`
	CoursesPath  string `json:"courses_path"`
}

// Store reads and writes plan documents in one directory. Writes are
// serialized so concurrent workers never interleave a catalog rebuild.
type Store struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes <slug>.json and <slug>.materias.json.
func (s *Store) Save(p *Plan) (Saved, error) {
	slug := p.Slug()
	saved := Saved{
		Slug:         slug,
		MetadataPath: s.metadataPath(slug),
		CoursesPath:  s.coursesPath(slug),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(saved.MetadataPath, p); err != nil {
		return Saved{}, fmt.Errorf("write plan %s: %w", slug, err)
	}
	if err := writeJSON(saved.CoursesPath, p.WebCourses()); err != nil {
		return Saved{}, fmt.Errorf("write courses %s: %w", slug, err)
	}
	return saved, nil
}

// Load reads the full plan document of slug.
func (s *Store) Load(slug string) (*Plan, error) {
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}
	var p Plan
	if err := readJSON(s.metadataPath(slug), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadCourses reads the frontend course list of slug.
func (s *Store) LoadCourses(slug string) ([]WebCourse, error) {
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}
	var courses []WebCourse
	if err := readJSON(s.coursesPath(slug), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Delete removes both files of slug.
func (s *Store) Delete(slug string) error {
	if !slugPattern.MatchString(slug) {
		return ErrInvalidSlug
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, path := range []string{s.metadataPath(slug), s.coursesPath(slug)} {
		err := os.Remove(path)
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("delete %s: %w", filepath.Base(path), err)
		}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Catalog reads catalog.json.
func (s *Store) Catalog() (*Catalog, error) {
	var c Catalog
	if err := readJSON(filepath.Join(s.dir, CatalogFile), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

type planHeader struct {
	Career      string `json:"carrera"`
	SourcePDF   string `json:"fuente_pdf"`
	GeneratedAt string `json:"generado_en_utc"`
}

type candidate struct {
	entry     Entry
	generated time.Time
}

// WriteCatalog rebuilds catalog.json from the plan files in the directory.
// When several plans come from the same source PDF only the most recently
// generated one is listed.
func (s *Store) WriteCatalog() (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeCatalogLocked()
}

func (s *Store) writeCatalogLocked() (*Catalog, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	selected := make(map[string]candidate)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") ||
			strings.HasSuffix(name, coursesSuffix) || name == CatalogFile {
			continue
		}
		slug := strings.TrimSuffix(name, ".json")
		if _, err := os.Stat(s.coursesPath(slug)); err != nil {
			continue
		}

		var h planHeader
		if err := readJSON(filepath.Join(s.dir, name), &h); err != nil {
			continue
		}
		career := h.Career
		if career == "" {
			career = slug
		}
		generated, _ := time.Parse(time.RFC3339Nano, h.GeneratedAt)

		key := strings.ToLower(plan.CleanName(h.SourcePDF))
		if key == "" {
			key = slug
		}
		c := candidate{
			entry: Entry{
				Slug:     slug,
				Career:   plan.CleanName(career),
				Courses:  slug + coursesSuffix,
				Metadata: name,
			},
			generated: generated,
		}
		if cur, ok := selected[key]; !ok || c.generated.After(cur.generated) {
			selected[key] = c
		}
	}

	cat := &Catalog{GeneratedAt: s.now().UTC(), Careers: make([]Entry, 0, len(selected))}
	for _, c := range selected {
		cat.Careers = append(cat.Careers, c.entry)
	}
	sort.SliceStable(cat.Careers, func(i, j int) bool {
		a, b := strings.ToLower(cat.Careers[i].Career), strings.ToLower(cat.Careers[j].Career)
		if a != b {
			return a < b
		}
		return cat.Careers[i].Slug < cat.Careers[j].Slug
	})

	if err := writeJSON(filepath.Join(s.dir, CatalogFile), cat); err != nil {
		return nil, fmt.Errorf("write catalog: %w", err)
	}
	return cat, nil
}

// Prune deletes every JSON file the catalog does not reference and returns
// the removed file names.
func (s *Store) Prune() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cat Catalog
	if err := readJSON(filepath.Join(s.dir, CatalogFile), &cat); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return s.pruneLocked(&cat)
}

// RebuildAndPrune rewrites catalog.json and prunes against it without
// letting a concurrent Save land in between.
func (s *Store) RebuildAndPrune() (*Catalog, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.writeCatalogLocked()
	if err != nil {
		return nil, nil, err
	}
	removed, err := s.pruneLocked(cat)
	return cat, removed, err
}

func (s *Store) pruneLocked(cat *Catalog) ([]string, error) {
	keep := map[string]bool{CatalogFile: true}
	for _, e := range cat.Careers {
		if e.Courses != "" {
			keep[filepath.Base(e.Courses)] = true
		}
		if e.Metadata != "" {
			keep[filepath.Base(e.Metadata)] = true
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || keep[name] {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("prune %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func (s *Store) metadataPath(slug string) string {
	return filepath.Join(s.dir, slug+".json")
}

func (s *Store) coursesPath(slug string) string {
	return filepath.Join(s.dir, slug+coursesSuffix)
}

// writeJSON writes v pretty printed through a temp file and a rename, so
// readers never observe a partial document.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.json.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
