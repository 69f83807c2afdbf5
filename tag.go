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

import "fmt"

// Tag labels vertices and faces with their provenance when two bodies of
// content are merged, so that boolean set operations (union, intersection,
// difference) can be read back out of the merged graph afterwards.
type Tag uint8

const (
	// TagNone marks content with no recorded provenance.
	TagNone Tag = 0
	// TagA marks content that came from the receiving graph in a merge.
	TagA Tag = 1 << 0
	// TagB marks content that came from the merged-in graph.
	TagB Tag = 1 << 1
	// TagBoth marks content shared by both sides.
	TagBoth Tag = TagA | TagB
)

// Has reports whether t includes every bit of t2.
func (t Tag) Has(t2 Tag) bool { return t&t2 == t2 }

// Union returns the combination of t and t2.
func (t Tag) Union(t2 Tag) Tag { return t | t2 }

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagA:
		return "A"
	case TagB:
		return "B"
	case TagBoth:
		return "AB"
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}
