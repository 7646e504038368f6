package top

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/topmerge/include"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splits a string in lines, keeping the '\n'.
func lines(s string) []string {
	l := strings.SplitAfter(s, "\n")
	if l[len(l)-1] == "" {
		l = l[:len(l)-1]
	}
	return l
}

func writeTree(Te *testing.T, dir string, files map[string]string) {
	Te.Helper()
	for k, v := range files {
		p := filepath.Join(dir, k)
		require.NoError(Te, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(Te, os.WriteFile(p, []byte(v), 0o644))
	}
}

const water = `[ moleculetype ]
; molname	nrexcl
SOL		2

[ atoms ]
;   nr   type  resnr residue  atom   cgnr     charge       mass
     1  opls_116   1    SOL     OW      1      -0.82
     2  opls_117   1    SOL    HW1      1       0.41
     3  opls_117   1    SOL    HW2      1       0.41

[ position_restraints ]
; atom  type      fx      fy      fz
  1   1   100   100   100

[ settles ]
; OW	funct	doh	dhh
1	1	0.1	0.16330
`

const small = `; a small system
[ defaults ]
; nbfunc	comb-rule	gen-pairs	fudgeLJ	fudgeQQ
1		3		yes		0.5	0.5

[ atomtypes ]
 opls_116   OW  8  15.99940   -0.820  A  3.16557e-01  6.50194e-01
 opls_117   HW  1   1.00800    0.410  A  0.00000e+00  0.00000e+00

[ bondtypes ]
  OW    HW      1    0.10000   345000.0

` + water + `
[ system ]
; Name
Pure water

[ molecules ]
; Compound        #mols
SOL              10
`

func TestClassify(Te *testing.T) {
	p := DefaultParams()
	p.NMol = 3
	p.PosRes = [3]float64{500, 500, 500}
	T, err := New(lines(small), p)
	require.NoError(Te, err)
	assert.Equal(Te, []string{
		"; a small system\n",
		"[ defaults ]\n",
		"; nbfunc	comb-rule	gen-pairs	fudgeLJ	fudgeQQ\n",
		"1		3		yes		0.5	0.5\n",
		"\n",
	}, T.Defaults)
	assert.Equal(Te, "[ atomtypes ]\n", T.Parameters[0])
	assert.Contains(Te, T.Parameters, "[ bondtypes ]\n")
	assert.Equal(Te, []string{"SOL"}, T.MoleculeNames)
	require.Len(Te, T.MoleculesInfo, 1)
	info := T.MoleculeInfo(0)
	assert.Equal(Te, moleculeTypeLine, info[0])
	assert.Equal(Te, "; molname	nrexcl\n", info[1])
	assert.Equal(Te, "SOL		2\n", info[2])
	assert.Contains(Te, info, sf("%6s %5s %7s %7s %7s\n", "1", "1", "500", "500", "500"))
	assert.NotContains(Te, info, "  1   1   100   100   100\n")
	assert.Contains(Te, info, "[ settles ]\n")
	assert.Equal(Te, []string{"; Name\n", "Pure water\n", "\n"}, T.SystemName)
	assert.Equal(Te, []string{"; Compound        #mols\n", "SOL                  30\n"}, T.SystemMol)
	assert.Equal(Te, 1, T.Len())
	assert.Equal(Te, 3, T.NMol())
}

// every line goes somewhere, and only once.
func TestClassifyPartition(Te *testing.T) {
	T, err := New(lines(small), DefaultParams())
	require.NoError(Te, err)
	all := make([]string, 0, 100)
	all = append(all, T.Defaults...)
	all = append(all, T.Parameters...)
	for _, v := range T.MoleculesInfo {
		all = append(all, v...)
	}
	all = append(all, T.SystemName...)
	all = append(all, T.SystemMol...)
	for _, l := range lines(small) {
		if header.IsBlank(l) || header.IsComment(l) {
			continue
		}
		if n := header.Which(l); n == "system" || n == "molecules" {
			continue
		}
		if header.IsPosRes(l) {
			continue //rewritten
		}
		if strings.HasPrefix(l, "SOL ") {
			continue //rewritten
		}
		n := 0
		for _, v := range all {
			if v == l {
				n++
			}
		}
		assert.Equal(Te, 1, n, "line %q", l)
	}
}

func TestPosRes(Te *testing.T) {
	p := DefaultParams()
	p.PosRes = [3]float64{500, 500, 500}
	in := "[ moleculetype ]\nPROT 3\n[ position_restraints ]\n  12   34   100   100   100\n[ atoms ]\n  12   34   100   100   100\n"
	T, err := New(lines(in), p)
	require.NoError(Te, err)
	info := T.MoleculeInfo(0)
	assert.Equal(Te, "    12    34     500     500     500\n", info[3])
	f := strings.Fields(info[3])
	assert.Equal(Te, []string{"12", "34", "500", "500", "500"}, f)
	//the flag is disarmed by the next directive.
	assert.Equal(Te, "  12   34   100   100   100\n", info[5])

	p.PosRes = [3]float64{1000, 250.5, 0}
	T, err = New(lines(in), p)
	require.NoError(Te, err)
	assert.Equal(Te, "    12    34    1000   250.5       0\n", T.MoleculeInfo(0)[3])
}

func TestSystemMolMultiplicity(Te *testing.T) {
	p := DefaultParams()
	p.NMol = 3
	T, err := New(lines("[ molecules ]\n\n; comment\nSOL      10\nNA 2 ; ions\n"), p)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"; comment\n", "SOL             " + "     30\n", "NA                    6\n"}, T.SystemMol)
}

func TestMalformedIndex(Te *testing.T) {
	_, err := New(lines("[ molecules ]\nSOL ten\n"), DefaultParams())
	var me *MalformedIndexError
	require.True(Te, errors.As(err, &me))
	assert.Equal(Te, 2, me.LineNumber)
	assert.True(Te, me.Critical())
	_, err = New(lines("[ molecules ]\nSOL\n"), DefaultParams())
	assert.True(Te, errors.As(err, &me))

	dir := Te.TempDir()
	writeTree(Te, dir, map[string]string{"topol.top": "[ molecules ]\nSOL x\n"})
	_, err = FromFile(filepath.Join(dir, "topol.top"), DefaultParams(), nil)
	require.True(Te, errors.As(err, &me))
	assert.Equal(Te, filepath.Join(dir, "topol.top"), me.FileName())
	assert.Contains(Te, err.Error(), "topol.top")
}

func TestMoleculeLabels(Te *testing.T) {
	in := "[ moleculetype ]\n; name nrexcl\n\n[ atoms ]\n; nothing\nMOL 3\n 1 C\n[ moleculetype ]\nION 1\n"
	T, err := New(lines(in), DefaultParams())
	require.NoError(Te, err)
	assert.Equal(Te, []string{"MOL", "ION"}, T.MoleculeNames)
	assert.Equal(Te, []string{moleculeTypeLine, "; name nrexcl\n", "\n", "[ atoms ]\n", "; nothing\n", "MOL 3\n", " 1 C\n"}, T.MoleculeInfo(0))
	assert.Equal(Te, []string{moleculeTypeLine, "ION 1\n"}, T.MoleculeInfo(1))
}

func TestClean(Te *testing.T) {
	assert.Empty(Te, Clean(nil))
	assert.Empty(Te, Clean([]string{"\n", "  \n"}))
	assert.Equal(Te, []string{"a\n", "\n", "b\n"}, Clean([]string{"\n", "\n", "a\n", "\n", "\n", "\n", "b\n"}))
	assert.Equal(Te, []string{"a\n", "\n"}, Clean([]string{"a\n", "\n", "; next\n", "\n", ";more\n", "\n"}))
	assert.Equal(Te, []string{"; c\n", "a\n"}, Clean([]string{"; c\n", "a\n", "; d\n"}))
	assert.Equal(Te, []string{"a\n", "\n"}, Clean([]string{"a\n", "\n", "\n"}))
	//leading blanks never survive.
	for _, in := range [][]string{{"\n", "x\n"}, {" \n", "\t\n", ";c\n", "x\n"}, {"\n", "\n", "\n", "x\n", "\n"}} {
		out := Clean(in)
		require.NotEmpty(Te, out)
		assert.False(Te, header.IsBlank(out[0]))
	}
}

func TestGroupParameters(Te *testing.T) {
	g := GroupParameters(lines("; head\n[ atomtypes ]\nA\nB\n[ bondtypes ]\nC\n"))
	require.Len(Te, g, 3)
	assert.Equal(Te, "", g[0].Directive)
	assert.Equal(Te, []string{"; head\n"}, g[0].Lines)
	assert.Equal(Te, "[ atomtypes ]\n", g[1].Directive)
	assert.Equal(Te, []string{"A\n", "B\n"}, g[1].Lines)
	assert.Equal(Te, []string{"C\n"}, g[2].Lines)
	assert.Equal(Te, lines("; head\n[ atomtypes ]\nA\nB\n[ bondtypes ]\nC\n"), ungroup(g))
}

func TestMergeParameters(Te *testing.T) {
	a := lines("[ atomtypes ]\nA1\nA2\n[ bondtypes ]\nB1\n[ dihedraltypes ]\nD1\n")
	orig := append([]string(nil), a...)

	//a subset changes nothing.
	assert.Equal(Te, a, MergeParameters(a, lines("[ bondtypes ]\nB1\n[ atomtypes ]\nA2\n")))
	assert.Equal(Te, orig, a)

	b := lines("[ bondtypes ]\nB2\nB1\n[ angletypes ]\nN1\n[ atomtypes ]\nA3\n[ pairtypes ]\nP1\n")
	m := MergeParameters(a, b)
	assert.Equal(Te, lines("[ atomtypes ]\nA1\nA2\nA3\n[ pairtypes ]\nP1\n[ bondtypes ]\nB1\nB2\n[ angletypes ]\nN1\n[ dihedraltypes ]\nD1\n"), m)

	//a new first directive goes after the first group of a.
	m = MergeParameters(a, lines("[ cmaptypes ]\nC1\n"))
	assert.Equal(Te, "[ cmaptypes ]\n", m[3])

	//relative order of a's lines under each directive is kept.
	for _, g := range GroupParameters(a) {
		mg := GroupParameters(MergeParameters(a, b))
		i := findGroup(mg, g.Directive)
		require.GreaterOrEqual(Te, i, 0)
		assert.Equal(Te, g.Lines, mg[i].Lines[:len(g.Lines)])
	}

	assert.Equal(Te, lines("[ atomtypes ]\nX\n"), MergeParameters(nil, lines("[ atomtypes ]\nX\nX\n")))
}

func TestRedefinitions(Te *testing.T) {
	a := lines("[ bondtypes ]\n  OW HW 1 0.1 345000\n; OW HW\n")
	b := lines("[ bondtypes ]\n  OW HW 1 0.1 345000\n  OW HW 1 0.09572 502416\n  HW HW 1 0.15 1000\n[ atomtypes ]\nOW HW\n")
	r := Redefinitions(a, b)
	require.Len(Te, r, 1)
	assert.Equal(Te, "[ bondtypes ]", r[0].Directive)
	assert.Equal(Te, "  OW HW 1 0.09572 502416\n", r[0].New)
	assert.Equal(Te, "  OW HW 1 0.1 345000\n", r[0].Old)
}

// the number of fields that identify a parameter depends on the directive.
func TestRedefinitionsKeys(Te *testing.T) {
	a := lines("[ atomtypes ]\nOW 15.9994 0.0 A 0.3166 0.65\n" +
		"[ dihedraltypes ]\nCT CT CT CT 3 0.6 1.2 0.0 -1.8 0.0 0.0\n")
	b := lines("[ atomtypes ]\nOW 16.0 0.0 A 0.3166 0.65\nHW 1.008 0.0 A 0.0 0.0\n" +
		"[ dihedraltypes ]\nCT CT CT HC 3 0.6 1.8 0.0 -2.4 0.0 0.0\nCT CT CT CT 3 0.7 1.2 0.0 -1.9 0.0 0.0\n")
	r := Redefinitions(a, b)
	require.Len(Te, r, 2)
	assert.Equal(Te, "[ atomtypes ]", r[0].Directive)
	assert.Equal(Te, "OW 16.0 0.0 A 0.3166 0.65\n", r[0].New)
	assert.Equal(Te, "[ dihedraltypes ]", r[1].Directive)
	assert.Equal(Te, "CT CT CT CT 3 0.7 1.2 0.0 -1.9 0.0 0.0\n", r[1].New)
	assert.Equal(Te, "CT CT CT CT 3 0.6 1.2 0.0 -1.8 0.0 0.0\n", r[1].Old)
}

func TestMerge(Te *testing.T) {
	A, err := New(lines(small), DefaultParams())
	require.NoError(Te, err)
	p := DefaultParams()
	p.NMol = 2
	other := "[ defaults ]\n1 2 yes 0.5 0.8333\n[ atomtypes ]\n opls_116   OW  8  15.99940   -0.820  A  3.16557e-01  6.50194e-01\n NA NA 11 22.99\n" +
		"[ moleculetype ]\nNA 1\n[ atoms ]\n1 NA 1 NA NA 1 1\n[ system ]\nIons\n[ molecules ]\n; ions\nNA 4\n"
	B, err := New(lines(other), p)
	require.NoError(Te, err)
	assert.True(Te, A.DefaultsConflict(B))
	assert.False(Te, A.DefaultsConflict(A))

	params := append([]string(nil), A.Parameters...)
	M := A.Merge(B)
	assert.Same(Te, A, M)
	assert.Equal(Te, []string{"SOL", "NA"}, M.MoleculeNames)
	assert.Len(Te, M.MoleculesInfo, 2)
	assert.Equal(Te, []string{"; Compound        #mols\n", "SOL                  10\n", "NA                    8\n"}, M.SystemMol)
	assert.Equal(Te, []string{"; Name\n", "Pure water\n", "\n"}, M.SystemName)
	assert.Equal(Te, len(params)+1, len(M.Parameters))
	assert.Contains(Te, M.Parameters, " NA NA 11 22.99\n")
	//B is not modified
	assert.Equal(Te, []string{"NA"}, B.MoleculeNames)
}

func TestWrite(Te *testing.T) {
	p := DefaultParams()
	p.Prefix = "wat"
	T, err := New(lines(small), p)
	require.NoError(Te, err)
	sink := make(MemSink)
	created := make([]string, 0, 3)
	require.NoError(Te, T.Write(sink, filepath.Join("out", "system.top"), func(s string) { created = append(created, s) }))
	assert.Equal(Te, []string{
		filepath.Join("out", "wat_parameters.itp"),
		filepath.Join("out", "wat_00_SOL.itp"),
		filepath.Join("out", "system.top"),
	}, created)
	assert.Equal(Te, []string{
		filepath.Join("out", "system.top"),
		filepath.Join("out", "wat_00_SOL.itp"),
		filepath.Join("out", "wat_parameters.itp"),
	}, sink.Names())
	assert.Equal(Te, T.Parameters, sink[filepath.Join("out", "wat_parameters.itp")].Slice())
	assert.Equal(Te, T.MoleculeInfo(0), sink[filepath.Join("out", "wat_00_SOL.itp")].Slice())
	expected := strings.Join(T.Defaults, "") +
		"; include parameter file\n#include \"wat_parameters.itp\"\n\n" +
		"; include molecules information\n#include \"wat_00_SOL.itp\"\n\n" +
		"[ system ]\n" + strings.Join(T.SystemName, "") + "\n" +
		"[ molecules ]\n" + strings.Join(T.SystemMol, "") + "\n"
	assert.Equal(Te, expected, sink[filepath.Join("out", "system.top")].String())

	//without a prefix, the name of the output is used.
	T.p.Prefix = ""
	sink = make(MemSink)
	require.NoError(Te, T.Write(sink, "merged.top", nil))
	assert.Contains(Te, sink.Names(), "merged_00_SOL.itp")
}

func TestRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	writeTree(Te, dir, map[string]string{
		"in/topol.top": "[ defaults ]\n1 3 yes 0.5 0.5\n\n#include \"forcefield.itp\"\n#include \"water.itp\"\n\n[ system ]\nWater\n\n[ molecules ]\nSOL 10\n",
		"lib/ff/forcefield.itp": "[ atomtypes ]\n opls_116 OW 8 15.9994 -0.82 A 3.16557e-01 6.50194e-01\n" +
			"[ bondtypes ]\n  OW HW 1 0.1 345000.0\n",
		"lib/water.itp": water,
	})
	p := DefaultParams()
	p.Library = []string{filepath.Join(dir, "lib")}
	p.Prefix = "rt"
	T, err := FromFile(filepath.Join(dir, "in", "topol.top"), p, include.First)
	require.NoError(Te, err)
	require.Equal(Te, []string{"SOL"}, T.MoleculeNames)
	require.NoError(Te, os.MkdirAll(filepath.Join(dir, "out"), 0o755))
	output := filepath.Join(dir, "out", "topol.top")
	require.NoError(Te, T.Write(DirSink{}, output, nil))

	R, err := FromFile(output, p, nil)
	require.NoError(Te, err)
	assert.Equal(Te, T.Parameters, R.Parameters)
	assert.Equal(Te, T.MoleculesInfo, R.MoleculesInfo)
	assert.Equal(Te, T.MoleculeNames, R.MoleculeNames)
	assert.Equal(Te, T.SystemMol, R.SystemMol)
}

func TestManifest(Te *testing.T) {
	p := DefaultParams()
	p.Prefix = "wat"
	p.NMol = 2
	T, err := New(lines(small), p)
	require.NoError(Te, err)
	M := T.Manifest(filepath.Join("out", "system.top"))
	M.Sources = []string{"small.top"}
	assert.Equal(Te, filepath.Join("out", "wat_parameters.itp"), M.Parameters)
	require.Len(Te, M.Molecules, 1)
	assert.Equal(Te, MoleculeEntry{Name: "SOL", File: filepath.Join("out", "wat_00_SOL.itp")}, M.Molecules[0])
	assert.Equal(Te, []MoleculeCount{{Name: "SOL", Count: 20}}, M.System)
	var buf bytes.Buffer
	_, err = M.WriteTo(&buf)
	require.NoError(Te, err)
	assert.Contains(Te, buf.String(), "posres: [1000, 1000, 1000]")
	R, err := ReadManifest(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, M, R)
}

func TestLines(Te *testing.T) {
	L := NewLines(nil)
	L.WriteString("[ defaults ]\n1 C")
	L.WriteString(" 12\n2 H 1\n")
	assert.Equal(Te, 3, L.Len())
	assert.Equal(Te, "1 C 12\n", L.Slice()[1])
	T, err := NewFromReader(L.Copy(), DefaultParams())
	require.NoError(Te, err)
	assert.Equal(Te, []string{"[ defaults ]\n", "1 C 12\n", "2 H 1\n"}, T.Defaults)
	n := 0
	for _, err := L.ReadString('\n'); err == nil; _, err = L.ReadString('\n') {
		n++
	}
	assert.Equal(Te, 3, n)

	fname := filepath.Join(Te.TempDir(), "l.itp")
	require.NoError(Te, L.WriteToFile(fname))
	L2, err := LinesFromFile(fname)
	require.NoError(Te, err)
	assert.Equal(Te, L.Slice(), L2.Slice())
}
