package level

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrSizeMismatch = errors.New("map size does not match scene size")
	ErrBadHeader    = errors.New("malformed map header")
)

// TileID is the single character naming a part in a level file.
type TileID byte

// Empty is the tile of cells with nothing on them.
const Empty TileID = '0'

func (id TileID) String() string { return string(rune(id)) }

// Scene2D is the top-down tile description of a level.
// Cells are addressed (column, row), matching the (x, z) world axes.
type Scene2D struct {
	width   int
	height  int
	tiles   []TileID
	originX float64
	originZ float64
	path    string
}

func NewScene2D(width, height int) *Scene2D {
	s := &Scene2D{width: width, height: height}
	s.Fill(Empty)
	return s
}

// Fill sets every cell to part.
func (s *Scene2D) Fill(part TileID) {
	s.tiles = make([]TileID, s.width*s.height)
	for i := range s.tiles {
		s.tiles[i] = part
	}
}

func (s *Scene2D) Size() (width, height int) { return s.width, s.height }

// Origin is the world (x, z) position of cell (0, 0).
func (s *Scene2D) Origin() (x, z float64) { return s.originX, s.originZ }

func (s *Scene2D) Path() string { return s.path }

// PartAt returns the tile at column x, row y. Out of range reads return Empty.
func (s *Scene2D) PartAt(x, y int) TileID {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Empty
	}
	return s.tiles[y*s.width+x]
}

func (s *Scene2D) SetPart(x, y int, part TileID) bool {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return false
	}
	s.tiles[y*s.width+x] = part
	return true
}

// LoadMap reads a level file from disk. See Parse for the format.
func (s *Scene2D) LoadMap(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open map %s: %w", path, err)
	}
	defer f.Close()

	s.path = path
	if err := s.Parse(f); err != nil {
		return fmt.Errorf("load map %s: %w", path, err)
	}
	return nil
}

// Parse reads a level description.
//
// The first line is either "originX originZ width height" or "width height".
// Every following non-empty line is a row of single character tile ids.
// When the declared size differs from the scene size nothing is loaded and
// ErrSizeMismatch is returned; the origin is still taken from the header.
func (s *Scene2D) Parse(r io.Reader) error {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: empty file", ErrBadHeader)
	}

	width, height, err := s.parseHeader(sc.Text())
	if err != nil {
		return err
	}
	if width != s.width || height != s.height {
		return fmt.Errorf("%w: file %dx%d, scene %dx%d", ErrSizeMismatch, width, height, s.width, s.height)
	}

	row := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		for col := 0; col < len(line); col++ {
			s.SetPart(col, row, TileID(line[col]))
		}
		row++
	}
	return sc.Err()
}

func (s *Scene2D) parseHeader(line string) (width, height int, err error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 2:
	case 4:
		if s.originX, err = strconv.ParseFloat(fields[0], 64); err != nil {
			return 0, 0, fmt.Errorf("%w: origin x: %v", ErrBadHeader, err)
		}
		if s.originZ, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return 0, 0, fmt.Errorf("%w: origin z: %v", ErrBadHeader, err)
		}
		fields = fields[2:]
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrBadHeader, line)
	}

	if width, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: width: %v", ErrBadHeader, err)
	}
	if height, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: height: %v", ErrBadHeader, err)
	}
	return width, height, nil
}
