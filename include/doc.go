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
Include finds and expands the fragments referenced by #include statements
in GROMACS topologies (top/itp files).

A reference is searched for in the directory of the including file, and then in
each library root, recursively. Any file whose path contains the reference matches,
so "oplsaa.ff/ffbonded.itp" or even "ffbonded" are valid references. When several
files match, a Chooser picks one.

Gzip (.gz) and zstd (.zst) compressed fragments are read transparently.
*/
package include
