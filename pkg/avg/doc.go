// Package avg loads Alexa Vector Graphics documents and turns them into
// scene graph fragments.
//
// A Document is decoded from JSON or YAML, validated and turned into a
// Graphic. The graphic holds a tree of elements (groups, paths and text)
// whose properties may refer to parameters with ${name}:
//
//	doc, err := avg.Parse(data)
//	if err != nil {
//		return err
//	}
//	g, err := avg.New(doc, avg.WithParameters(map[string]any{"fill": "red"}))
//	if err != nil {
//		return err
//	}
//	frag := g.BuildSceneGraph(true, &updates)
//
// Elements bound to parameters are kept mutable. SetProperty re-evaluates
// the bound properties and UpdateSceneGraph applies the changes to the
// nodes and layers built earlier, reporting them in the updates.
package avg
