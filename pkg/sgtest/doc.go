// Package sgtest provides golden-file helpers for scene graph tests.
//
// A snapshot is the JSON serialization of a layer tree with floats rounded,
// so small numeric noise does not break goldens:
//
//	snap := sgtest.CaptureSceneGraph(e.SceneGraph())
//	snap.MatchesFile(t, "testdata/group.snapshot.json")
//
// Run with SG_UPDATE_SNAPSHOTS=1 to write the golden files.
package sgtest
