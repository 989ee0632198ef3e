package system

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var latticeRe = regexp.MustCompile(`Lattice="([^"]*)"`)

// elements maps chemical symbols to atomic numbers, used as species ids.
var elements = map[string]int{
	"H": 1, "He": 2, "Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8, "F": 9, "Ne": 10,
	"Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15, "S": 16, "Cl": 17, "Ar": 18,
	"K": 19, "Ca": 20, "Ti": 22, "Fe": 26, "Co": 27, "Ni": 28, "Cu": 29, "Zn": 30,
	"Ga": 31, "Ge": 32, "As": 33, "Se": 34, "Br": 35, "Kr": 36, "Ag": 47, "Sn": 50,
	"I": 53, "Xe": 54, "Pt": 78, "Au": 79, "Pb": 82,
}

// SpeciesFromSymbol returns the atomic number for a chemical symbol. Numeric
// symbols are accepted as raw species ids.
func SpeciesFromSymbol(symbol string) (int, error) {
	if z, ok := elements[symbol]; ok {
		return z, nil
	}
	if z, err := strconv.Atoi(symbol); err == nil && z >= 0 {
		return z, nil
	}
	return 0, fmt.Errorf("system: unknown element %q", symbol)
}

// ReadXYZ parses every frame of an (extended) XYZ stream. A frame whose
// comment line carries Lattice="ax ay az bx by bz cx cy cz" is periodic.
func ReadXYZ(r io.Reader) ([]*SimpleSystem, error) {
	sc := bufio.NewScanner(r)
	var (
		frames []*SimpleSystem
		line   int
	)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return sc.Text(), true
	}

	for {
		header, ok := next()
		if !ok {
			break
		}
		header = strings.TrimSpace(header)
		if header == "" {
			continue
		}

		n, err := strconv.Atoi(header)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("system: xyz line %d: invalid atom count %q", line, header)
		}

		comment, ok := next()
		if !ok {
			return nil, fmt.Errorf("system: xyz line %d: missing comment line", line)
		}

		cell, err := parseLattice(comment)
		if err != nil {
			return nil, fmt.Errorf("system: xyz line %d: %w", line, err)
		}

		frame := NewSimpleSystem(cell)
		for i := 0; i < n; i++ {
			text, ok := next()
			if !ok {
				return nil, fmt.Errorf("system: xyz frame %d: expected %d atoms, got %d", len(frames), n, i)
			}
			species, pos, err := parseAtom(text)
			if err != nil {
				return nil, fmt.Errorf("system: xyz line %d: %w", line, err)
			}
			frame.AddAtom(species, pos)
		}
		frames = append(frames, frame)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

func parseLattice(comment string) (UnitCell, error) {
	m := latticeRe.FindStringSubmatch(comment)
	if m == nil {
		return InfiniteCell(), nil
	}

	fields := strings.Fields(m[1])
	if len(fields) != 9 {
		return UnitCell{}, fmt.Errorf("lattice needs 9 values, got %d", len(fields))
	}

	var vectors [3]Vector3
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return UnitCell{}, fmt.Errorf("invalid lattice value %q", f)
		}
		vectors[i/3][i%3] = v
	}
	return NewCell(vectors)
}

func parseAtom(text string) (int, Vector3, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return 0, Vector3{}, fmt.Errorf("atom line needs a symbol and 3 coordinates, got %q", text)
	}

	species, err := SpeciesFromSymbol(fields[0])
	if err != nil {
		return 0, Vector3{}, err
	}

	var pos Vector3
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return 0, Vector3{}, fmt.Errorf("invalid coordinate %q", fields[i+1])
		}
		pos[i] = v
	}
	return species, pos, nil
}
