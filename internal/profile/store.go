package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPath is the conventional catalog location relative to the user's
// home directory.
const DefaultPath = ".stellium/profiles.toml"

// Catalog is the on-disk shape of the profile file.
type Catalog struct {
	Profiles []Profile `toml:"profiles"`
}

// Store reads and writes the profile catalog at a fixed path. A missing file
// reads as an empty catalog; the file is created on first save.
type Store struct {
	Path string
}

// NewStore returns a store for the given path, or for DefaultPath under the
// user's home directory when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("profile store: resolve home directory: %w", err)
		}
		path = filepath.Join(home, DefaultPath)
	}
	return &Store{Path: path}, nil
}

// Load reads the catalog. If the file does not exist, it returns an empty
// catalog and no error.
func (s *Store) Load() (*Catalog, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}

	var cat Catalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path, err)
	}
	return &cat, nil
}

// Save writes the catalog, creating parent directories as needed.
func (s *Store) Save(cat *Catalog) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("marshaling profiles: %w", err)
	}

	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.Path, err)
	}
	return nil
}

// Lookup finds a profile by name. On a miss it returns a NotFoundError
// listing every known name.
func (s *Store) Lookup(name string) (Profile, error) {
	cat, err := s.Load()
	if err != nil {
		return Profile{}, err
	}
	for _, p := range cat.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, &NotFoundError{Name: name, Known: names(cat)}
}

// Names returns all saved profile names, sorted.
func (s *Store) Names() ([]string, error) {
	cat, err := s.Load()
	if err != nil {
		return nil, err
	}
	return names(cat), nil
}

// All returns every saved profile, sorted by name.
func (s *Store) All() ([]Profile, error) {
	cat, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := append([]Profile(nil), cat.Profiles...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Put inserts or replaces a profile by name.
func (s *Store) Put(p Profile) error {
	if !ValidName(p.Name) {
		return fmt.Errorf("invalid profile name %q: use letters, digits, hyphen, underscore", p.Name)
	}
	cat, err := s.Load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range cat.Profiles {
		if cat.Profiles[i].Name == p.Name {
			cat.Profiles[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		cat.Profiles = append(cat.Profiles, p)
	}
	return s.Save(cat)
}

// Remove deletes a profile by name. Removing an unknown name returns a
// NotFoundError.
func (s *Store) Remove(name string) error {
	cat, err := s.Load()
	if err != nil {
		return err
	}
	for i := range cat.Profiles {
		if cat.Profiles[i].Name == name {
			cat.Profiles = append(cat.Profiles[:i], cat.Profiles[i+1:]...)
			return s.Save(cat)
		}
	}
	return &NotFoundError{Name: name, Known: names(cat)}
}

func names(cat *Catalog) []string {
	out := make([]string, 0, len(cat.Profiles))
	for _, p := range cat.Profiles {
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out
}
