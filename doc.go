/*
 * doc.go, part of moltop.
 *
 * Copyright 2024 The moltop developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package moltop models molecular-simulation topologies: atoms (sites), the
bonded connections between them (bonds, angles, dihedrals and impropers), the
parameterized type records describing their interactions, and the periodic
simulation box.


	**moltop capabilities**

    Typed topology model with structural (content-based) equality for
	interaction type records, so independently constructed but identical
	types deduplicate and sort deterministically.

    Orthogonal and triclinic boxes, interconvertible with the
	bounds-plus-tilt-factors representation used by simulation engines.

    Reads/writes the LAMMPS positional data format (subpackage lammps),
	including transparently compressed files.

    Unit styles (real, metal, si, cgs, electron, micro, nano and the
	reduced "lj" style) with quantity conversion (subpackage unit).

    A library of canonical potential functional forms and algebraic
	conversions between equivalent torsion parameterizations
	(subpackage ff).

    Potential-energy curve plots for parameterized types
	(subpackage ffplot).

The topology passed to or produced by the codec is owned by the caller; the
library keeps no state between calls and performs no concurrency of its own.
*/
package moltop
