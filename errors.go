/*
Copyright © 2026 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package topology

import (
	"errors"
	"fmt"
)

// Classification errors returned by graph operations. Call sites wrap
// these with context, so callers should test with errors.Is.
var (
	// ErrInvalidInput is returned for arguments that fail validation
	// before the graph is modified.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNonManifold is returned for operations that would give an edge
	// more than two bordering faces, or that need a boundary opening at a
	// vertex that has none.
	ErrNonManifold = errors.New("non-manifold geometry")

	// ErrNotIsolated is returned when removing a connected vertex without
	// force.
	ErrNotIsolated = errors.New("vertex not isolated")

	// ErrCorrupt is returned when a structural invariant does not hold,
	// either by VerifyTopology or by a capped traversal that failed to
	// terminate.
	ErrCorrupt = errors.New("corrupt topology")
)

func corruptf(format string, args ...interface{}) error {
	return fmt.Errorf("topology: "+format+": %w", append(args, ErrCorrupt)...)
}
