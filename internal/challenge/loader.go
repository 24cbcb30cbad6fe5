// Package challenge loads coding challenge packs from YAML and serves
// them from an in-memory registry.
package challenge

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"

	"github.com/felixgeelhaar/devgenius/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed packs
var builtinPacks embed.FS

// BuiltinFS returns the packs compiled into the binary
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinPacks, "packs")
	if err != nil {
		panic(err) // embedded path is fixed
	}
	return sub
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// PackFile represents the YAML structure for a challenge pack
type PackFile struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Challenges  []string `yaml:"challenges"`
}

// ChallengeFile represents the YAML structure for a challenge
type ChallengeFile struct {
	Title       string   `yaml:"title"`
	Difficulty  string   `yaml:"difficulty"`
	Language    string   `yaml:"language"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Starter     string   `yaml:"starter"`
}

// Loader reads packs laid out as <pack>/pack.yaml and <pack>/<slug>.yaml
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a loader over fsys
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadPack loads a pack manifest
func (l *Loader) LoadPack(packID string) (*domain.ChallengePack, error) {
	if !slugPattern.MatchString(packID) {
		return nil, fmt.Errorf("%w: pack id %q", domain.ErrInvalidChallenge, packID)
	}

	data, err := fs.ReadFile(l.fsys, path.Join(packID, "pack.yaml"))
	if err != nil {
		return nil, fmt.Errorf("read pack file: %w", err)
	}

	var packFile PackFile
	if err := yaml.Unmarshal(data, &packFile); err != nil {
		return nil, fmt.Errorf("parse pack file: %w", err)
	}
	if packFile.ID != "" && packFile.ID != packID {
		return nil, fmt.Errorf("%w: pack.yaml id %q does not match directory %q",
			domain.ErrInvalidChallenge, packFile.ID, packID)
	}

	pack := &domain.ChallengePack{
		ID:           packID,
		Name:         packFile.Name,
		Version:      packFile.Version,
		Description:  packFile.Description,
		ChallengeIDs: make([]string, len(packFile.Challenges)),
	}
	for i, slug := range packFile.Challenges {
		if !slugPattern.MatchString(slug) {
			return nil, fmt.Errorf("%w: slug %q in pack %s", domain.ErrInvalidChallenge, slug, packID)
		}
		pack.ChallengeIDs[i] = packID + "/" + slug
	}

	return pack, nil
}

// LoadChallenge loads one challenge. order is its position in the pack.
func (l *Loader) LoadChallenge(packID, slug string, order int) (*domain.Challenge, error) {
	data, err := fs.ReadFile(l.fsys, path.Join(packID, slug+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("read challenge file: %w", err)
	}

	var file ChallengeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse challenge file: %w", err)
	}

	c := &domain.Challenge{
		ID:          packID + "/" + slug,
		PackID:      packID,
		Order:       order,
		Title:       file.Title,
		Difficulty:  domain.Difficulty(file.Difficulty),
		Description: file.Description,
		StarterCode: file.Starter,
		Language:    domain.Language(file.Language),
		Tags:        file.Tags,
	}
	if c.Language == "" {
		c.Language = domain.LanguageJavaScript
	}

	switch {
	case c.Title == "":
		return nil, fmt.Errorf("%w: %s has no title", domain.ErrInvalidChallenge, c.ID)
	case !c.Difficulty.Valid():
		return nil, fmt.Errorf("%w: %s has difficulty %q", domain.ErrInvalidChallenge, c.ID, file.Difficulty)
	case !c.Language.Valid():
		return nil, fmt.Errorf("%w: %s has language %q", domain.ErrInvalidChallenge, c.ID, file.Language)
	}

	return c, nil
}

// LoadAllPacks loads every directory containing a pack.yaml.
// A missing root yields no packs.
func (l *Loader) LoadAllPacks() ([]*domain.ChallengePack, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read challenges directory: %w", err)
	}

	var packs []*domain.ChallengePack
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := fs.Stat(l.fsys, path.Join(entry.Name(), "pack.yaml")); err != nil {
			continue
		}

		pack, err := l.LoadPack(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("load pack %s: %w", entry.Name(), err)
		}
		packs = append(packs, pack)
	}

	return packs, nil
}

// LoadPackChallenges loads all challenges listed by pack
func (l *Loader) LoadPackChallenges(pack *domain.ChallengePack) ([]*domain.Challenge, error) {
	challenges := make([]*domain.Challenge, 0, len(pack.ChallengeIDs))
	for i, id := range pack.ChallengeIDs {
		slug := id[len(pack.ID)+1:]

		c, err := l.LoadChallenge(pack.ID, slug, i+1)
		if err != nil {
			return nil, fmt.Errorf("load challenge %s: %w", id, err)
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}
