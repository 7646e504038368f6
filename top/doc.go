/*
 * doc.go, part of topmerge
 *
 * Copyright 2025 Raul Mera A. (rmeraaatacademicosdotutadotcl)
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

/*
Top reads, merges and writes Gromacs force-field topologies (not to be
confused with the chemical topology of a molecule). A topology is read
from a flat sequence of lines (see the include package for flattening
#include statements) and split in sections: the defaults, the force field
parameters, one block per molecule type, the system name and the list of
molecules in the system. Position restraint force constants and molecule
counts are rewritten while reading.

Several topologies can be merged into one. Parameters are merged directive by
directive, without repeating lines, and the molecule types are put one after
the other. The result is written as a main file that includes one file for the
parameters and one per molecule type.

Only the fields mentioned above are interpreted, everything else is kept as
text.
*/
package top
