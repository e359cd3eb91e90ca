package engine

import (
	"errors"

	"github.com/zeusync/matix/internal/core/level"
)

// Level designers iterate on broken maps all the time, so none of these stop the
// game. They are logged as warnings and the offending operation does nothing.
var (
	ErrDuplicateName     = errors.New("name already registered")
	ErrUnknownTileID     = errors.New("unknown tile id")
	ErrMissingMapFile    = errors.New("map file not found")
	ErrSizeMismatch      = level.ErrSizeMismatch
	ErrOutOfBoundsStatic = errors.New("static body outside the grid")
	ErrUnknownScene      = errors.New("unknown scene")
)
