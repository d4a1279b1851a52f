package esmry

import (
	"os"
	"path/filepath"

	"github.com/ecl-tools/eclio/lib/eclerr"
)

// openChain walks the restart chain starting at path, returning its spec
// files ordered leaves-first (the base restart root first, the requested
// run last), per spec.md §4.5 steps 1-4. If loadBaseRunData is false, only
// path itself is opened.
func openChain(path string, loadBaseRunData bool) ([]*specFile, error) {
	visited := map[string]bool{}
	chain, err := openChainRec(path, loadBaseRunData, visited)
	if err != nil {
		return nil, err
	}
	// chain is built child-first (the run requested, then its parent, ...);
	// reverse so the base run appears first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func openChainRec(path string, loadBaseRunData bool, visited map[string]bool) ([]*specFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if visited[abs] {
		return nil, eclerr.New(eclerr.Malformed, "restart chain revisits %s", path)
	}
	visited[abs] = true

	spec, err := openSpec(path)
	if err != nil {
		return nil, err
	}
	chain := []*specFile{spec}

	if !loadBaseRunData || spec.restartRoot == "" {
		return chain, nil
	}

	parentPath, err := resolveRestartPath(path, spec.restartRoot)
	if err != nil || parentPath == "" {
		return chain, nil // restart target absent: treat as a standalone run
	}

	parentChain, err := openChainRec(parentPath, loadBaseRunData, visited)
	if err != nil {
		return nil, err
	}
	return append(chain, parentChain...), nil
}

// resolveRestartPath resolves a RESTART root name relative to specPath's
// parent directory, trying .SMSPEC then .FSMSPEC (spec.md §4.5 step 3).
func resolveRestartPath(specPath, root string) (string, error) {
	dir := filepath.Dir(specPath)
	for _, ext := range []string{".SMSPEC", ".FSMSPEC"} {
		candidate := filepath.Join(dir, root+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// unionKeys merges every spec file's per-column keys, preserving first-seen
// order with the base run (chain[0]) first (spec.md §4.5 step 4), and
// computes each spec file's arrayPos: ordinal -> column index in that
// file's PARAMS, or -1 if that file doesn't carry the key.
func unionKeys(chain []*specFile) (keys []string, keyIndex map[string]int, nodes []SummaryNode, units []string, arrayPos [][]int) {
	keyIndex = map[string]int{}
	for _, spec := range chain {
		for col, key := range spec.keys {
			if key == "" {
				continue
			}
			if _, ok := keyIndex[key]; !ok {
				keyIndex[key] = len(keys)
				keys = append(keys, key)
				nodes = append(nodes, spec.nodes[col])
				units = append(units, spec.units[col])
			}
		}
	}

	arrayPos = make([][]int, len(chain))
	for si, spec := range chain {
		pos := make([]int, len(keys))
		for o := range pos {
			pos[o] = -1
		}
		for col, key := range spec.keys {
			if key == "" {
				continue
			}
			if ordinal, ok := keyIndex[key]; ok {
				pos[ordinal] = col
			}
		}
		arrayPos[si] = pos
	}
	return keys, keyIndex, nodes, units, arrayPos
}
