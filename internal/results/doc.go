// Package results models analysis result trees and indexes them for rendering.
//
// A ResultSet is the flat payload written by the result manager (or any
// external analysis run): an ordered list of typed nodes plus the id of the
// root node. Index turns it into a Tree, a read-only id lookup with the
// root's direct children already resolved. Deeper levels are resolved
// lazily through Tree.Children by the renderers.
//
// Usage:
//
//	set, err := results.ReadFile("results/data.json")
//	if err != nil {
//	    return err
//	}
//	tree, err := results.Index(set)
//	if err != nil {
//	    return err // *MissingNodeError or *DuplicateIDError
//	}
//	for _, child := range tree.RootChildren {
//	    fmt.Println(child.ID, child.Type)
//	}
package results
