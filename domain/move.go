package domain

// Move computes fresh task id orderings for a single-task move. The id at
// sourceIndex is removed from source and taskID is inserted at destIndex of
// dest. When source and dest are the same column the removal happens first and
// destIndex is interpreted against the shortened list.
//
// The returned columns always carry newly allocated TaskIDs slices; the
// callers' column values are never modified. Out-of-range indices are clamped:
// the removal index into [0, len(source)-1] (nothing is removed from an empty
// list) and the insertion index into [0, len(dest)].
//
// Move does not detect no-op moves; callers short-circuit those before
// invoking it.
func Move(source, dest Column, taskID string, sourceIndex, destIndex int) (Column, Column) {
	same := source.ID == dest.ID

	srcIDs := make([]string, len(source.TaskIDs))
	copy(srcIDs, source.TaskIDs)
	if n := len(srcIDs); n > 0 {
		i := clampIndex(sourceIndex, n-1)
		srcIDs = append(srcIDs[:i], srcIDs[i+1:]...)
	}

	dstIDs := srcIDs
	if !same {
		dstIDs = make([]string, len(dest.TaskIDs))
		copy(dstIDs, dest.TaskIDs)
	}
	j := clampIndex(destIndex, len(dstIDs))
	dstIDs = append(dstIDs, "")
	copy(dstIDs[j+1:], dstIDs[j:])
	dstIDs[j] = taskID

	newSource := Column{ID: source.ID, Title: source.Title, TaskIDs: srcIDs}
	newDest := Column{ID: dest.ID, Title: dest.Title, TaskIDs: dstIDs}
	if same {
		newSource.TaskIDs = dstIDs
	}
	return newSource, newDest
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
