// Package fabric holds the tensegrity network and its physics tick.
//
// A Fabric owns joints, intervals and faces in generational arenas. Handles
// (JointID, IntervalID, FaceID) stay valid across the removal of other
// elements and stop resolving once their own element is removed, so growth
// and shaping code can keep them between ticks.
//
// Iterate advances the fabric by one fixed step:
//
//	reset joints -> interval forces -> joint integration -> progress
//
// Everything is single threaded. A Fabric must be owned by one goroutine at
// a time; run separate fabrics in parallel instead.
package fabric
