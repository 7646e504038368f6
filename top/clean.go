package top

// Clean returns a new slice with the lines given, but without the
// blank lines at the beginning, with no more than one blank line in a row, and
// without the comments at the end (they belong to whatever comes next, which
// is not in lines). Blank lines between the final comments don't save them.
func Clean(lines []string) []string {
	ret := make([]string, 0, len(lines))
	cut := -1 //where the trailing comments start, if we are in them.
	prevblank := true
	for _, l := range lines {
		switch {
		case header.IsBlank(l):
			if prevblank {
				continue
			}
			prevblank = true
		case header.IsComment(l):
			if cut < 0 {
				cut = len(ret)
			}
			prevblank = false
		default:
			cut = -1
			prevblank = false
		}
		ret = append(ret, l)
	}
	if cut >= 0 {
		ret = ret[:cut]
	}
	return ret
}

func (T *Topology) clean() {
	T.Defaults = Clean(T.Defaults)
	T.Parameters = Clean(T.Parameters)
	for i, v := range T.MoleculesInfo {
		T.MoleculesInfo[i] = Clean(v)
	}
	T.SystemName = Clean(T.SystemName)
	T.SystemMol = Clean(T.SystemMol)
}
