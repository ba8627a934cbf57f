package orm

// LinkHasMany connects ParentCollection-ChildCollection where a Parent-HasMany-Children
// ForeignKeyField is on the Child
// RelationField (a Collection) is on the Parent
func LinkHasMany[
PP Identifiable[PID],
PID comparable,
CP Identifiable[CID],
CID comparable,
](
	parents *Collection[PP, PID],
	children *Collection[CP, CID],
	foreignKey func(CP) PID, // on the child
	relationFieldPtr func(PP) **Collection[CP, CID], // on the parent
) {
	childCollGrpByPID := make(map[PID]*Collection[CP, CID], parents.Len())
	children.ForEach(func(child CP) {
		pid := foreignKey(child) // child's FK to parent id
		childColl, ok := childCollGrpByPID[pid]
		if !ok {
			childColl = NewEmptyOrderedCollection[CP, CID]()
			childCollGrpByPID[pid] = childColl
		}
		childColl.Add(child)
	})
	for pid, parent := range parents.itemsMap {
		if childColl, ok := childCollGrpByPID[pid]; ok {
			*relationFieldPtr(parent) = childColl
		} else {
			*relationFieldPtr(parent) = NewEmptyOrderedCollection[CP, CID]()
		}
	}
}
