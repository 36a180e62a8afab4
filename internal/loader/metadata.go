package loader

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// Registry maps artist IDs (file stems) to profiles.
type Registry struct {
	profiles map[string]models.ArtistProfile
}

// metadataFile is the YAML layout of an artists metadata file.
type metadataFile struct {
	Artists []models.ArtistProfile `yaml:"artists"`
}

var builtinProfiles = []models.ArtistProfile{
	{ID: "taylor_swift", Name: "Taylor Swift", Color: "#A52A2A", ImageURL: "https://upload.wikimedia.org/wikipedia/commons/f/f2/Taylor_Swift_and_Fans.png"},
	{ID: "the_weeknd", Name: "The Weeknd", Color: "#800080", ImageURL: "https://upload.wikimedia.org/wikipedia/commons/8/8d/The_Weeknd_in_2019.jpg"},
	{ID: "drake", Name: "Drake", Color: "#4682B4", ImageURL: "https://upload.wikimedia.org/wikipedia/commons/3/38/Drake_-_2016.jpg"},
	{ID: "bad_bunny", Name: "Bad Bunny", Color: "#FFD700", ImageURL: "https://upload.wikimedia.org/wikipedia/commons/2/2c/Bad_Bunny_2022_by_Glenn_Francis.jpg"},
	{ID: "dua_lipa", Name: "Dua Lipa", Color: "#FF007F", ImageURL: "https://upload.wikimedia.org/wikipedia/commons/e/e6/Dua_Lipa_2018.jpg"},
}

// NewRegistry returns a registry holding the built-in artist profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]models.ArtistProfile, len(builtinProfiles))}
	for _, p := range builtinProfiles {
		r.profiles[p.ID] = p
	}
	return r
}

// LoadRegistry returns the built-in registry extended by the YAML file at
// path. Entries in the file replace built-in ones with the same ID. An empty
// path or a missing file yields the built-in registry.
func LoadRegistry(path string) (*Registry, error) {
	r := NewRegistry()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var mf metadataFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", filepath.Base(path), err)
	}
	for i, p := range mf.Artists {
		if p.ID == "" {
			return nil, fmt.Errorf("parse metadata %s: artist %d has no id", filepath.Base(path), i+1)
		}
		r.Set(p)
	}
	return r, nil
}

// Set adds or replaces a profile. Empty name and color are filled in.
func (r *Registry) Set(p models.ArtistProfile) {
	if p.Name == "" {
		p.Name = NameFromID(p.ID)
	}
	if p.Color == "" {
		p.Color = models.DefaultArtistColor
	}
	r.profiles[p.ID] = p
}

// Profile returns the profile for id, or one derived from the id when the
// artist is unknown.
func (r *Registry) Profile(id string) models.ArtistProfile {
	if p, ok := r.profiles[id]; ok {
		return p
	}
	return models.ArtistProfile{ID: id, Name: NameFromID(id), Color: models.DefaultArtistColor}
}

// Known reports whether id has registered metadata.
func (r *Registry) Known(id string) bool {
	_, ok := r.profiles[id]
	return ok
}

// Marshal encodes every registered profile as a metadata file.
func (r *Registry) Marshal() ([]byte, error) {
	mf := metadataFile{Artists: make([]models.ArtistProfile, 0, len(r.profiles))}
	for _, p := range builtinProfiles {
		mf.Artists = append(mf.Artists, r.profiles[p.ID])
	}
	for _, id := range slices.Sorted(maps.Keys(r.profiles)) {
		if !isBuiltin(id) {
			mf.Artists = append(mf.Artists, r.profiles[id])
		}
	}
	return yaml.Marshal(mf)
}

func isBuiltin(id string) bool {
	for _, p := range builtinProfiles {
		if p.ID == id {
			return true
		}
	}
	return false
}

// NameFromID turns a file stem such as "dua_lipa" into "Dua Lipa".
func NameFromID(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	if len(words) == 0 {
		return id
	}
	return strings.Join(words, " ")
}

// IDFromPath returns the artist ID of a fact table file.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
