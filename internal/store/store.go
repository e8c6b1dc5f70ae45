// Package store persists orbital sets: one directory per set with a
// JSON manifest and one positional binary record per orbital, plus CSV
// export of the sampled components for external plotting.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/orbital"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// SetMetadata describes a persisted orbital set. The binary records
// carry no energies (the format is positional and ABI-stable), so the
// manifest does.
type SetMetadata struct {
	Identifier string            `json:"identifier"`
	Timestamp  time.Time         `json:"timestamp"`
	NumPoints  int               `json:"num_points"`
	Rmin       float64           `json:"rmin"`
	H          float64           `json:"h"`
	Orbitals   []OrbitalMetadata `json:"orbitals"`
}

type OrbitalMetadata struct {
	Name      string  `json:"name"`
	PQN       int     `json:"pqn"`
	Kappa     int     `json:"kappa"`
	Energy    float64 `json:"energy"`
	Occupancy float64 `json:"occupancy"`
	Size      int     `json:"size"`
}

// Save writes the set under its identifier, one .orb record per
// orbital in (pqn, kappa) order.
func (s *Store) Save(identifier string, lat *lattice.ExpLattice, orbitals []*orbital.Orbital) error {
	setDir := filepath.Join(s.baseDir, identifier)
	if err := os.MkdirAll(setDir, 0755); err != nil {
		return err
	}

	sorted := make([]*orbital.Orbital, len(orbitals))
	copy(sorted, orbitals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Info().Less(sorted[j].Info()) })

	meta := SetMetadata{
		Identifier: identifier,
		Timestamp:  time.Now(),
		NumPoints:  lat.Size(),
		Rmin:       lat.Rmin(),
		H:          lat.H(),
	}

	for _, orb := range sorted {
		meta.Orbitals = append(meta.Orbitals, OrbitalMetadata{
			Name:      orb.Name(),
			PQN:       orb.PQN,
			Kappa:     orb.Kappa,
			Energy:    orb.Energy,
			Occupancy: orb.Occupancy,
			Size:      orb.Size(),
		})

		fp, err := os.Create(filepath.Join(setDir, orb.Name()+".orb"))
		if err != nil {
			return err
		}
		if err := orb.Write(fp); err != nil {
			fp.Close()
			return err
		}
		if err := fp.Close(); err != nil {
			return err
		}
	}

	metaFile, err := os.Create(filepath.Join(setDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// Load reads a persisted set: the lattice rebuilt from the manifest
// parameters and the orbitals in manifest order.
func (s *Store) Load(identifier string) (*lattice.ExpLattice, []*orbital.Orbital, error) {
	setDir := filepath.Join(s.baseDir, identifier)
	data, err := os.ReadFile(filepath.Join(setDir, "metadata.json"))
	if err != nil {
		return nil, nil, err
	}

	var meta SetMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, nil, err
	}

	lat := lattice.NewExpLattice(meta.NumPoints, meta.Rmin, meta.H)
	orbitals := make([]*orbital.Orbital, 0, len(meta.Orbitals))
	for _, om := range meta.Orbitals {
		fp, err := os.Open(filepath.Join(setDir, om.Name+".orb"))
		if err != nil {
			return nil, nil, err
		}
		orb := orbital.New(0, 0, om.Energy, 0)
		if err := orb.Read(fp); err != nil {
			fp.Close()
			return nil, nil, fmt.Errorf("store: %s: %w", om.Name, err)
		}
		if err := fp.Close(); err != nil {
			return nil, nil, err
		}
		orb.Energy = om.Energy
		orbitals = append(orbitals, orb)
	}
	return lat, orbitals, nil
}

// List returns the manifests of all persisted sets.
func (s *Store) List() ([]SetMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SetMetadata{}, nil
		}
		return nil, err
	}

	sets := make([]SetMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta SetMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		sets = append(sets, meta)
	}
	return sets, nil
}

// ExportCSV writes r, f, g, dfdr, dgdr rows for one orbital.
func ExportCSV(path string, lat lattice.Lattice, orb *orbital.Orbital) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	w := csv.NewWriter(fp)
	defer w.Flush()

	if err := w.Write([]string{"r", "f", "g", "dfdr", "dgdr"}); err != nil {
		return err
	}
	for i := 0; i < orb.Size() && i < lat.Size(); i++ {
		row := []string{
			strconv.FormatFloat(lat.R(i), 'e', 8, 64),
			strconv.FormatFloat(orb.F[i], 'e', 8, 64),
			strconv.FormatFloat(orb.G[i], 'e', 8, 64),
			strconv.FormatFloat(orb.DFDR[i], 'e', 8, 64),
			strconv.FormatFloat(orb.DGDR[i], 'e', 8, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
