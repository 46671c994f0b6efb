package annotator

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
)

// existing holds what a declaration's own, already-written JSDoc says, so
// the synthesized block can merge rather than clobber it: user `@param`
// descriptions survive, a user-written `@deprecated` survives, but a
// user-written type is overridden by the Type Translator's output per
// §4.3 step 3.
type existing struct {
	Description string
	Deprecated  bool
	ParamDescs  map[string]string // param name -> description text
	License     string            // verbatim pass-through if this declaration carries @license
}

// readExisting parses whatever JSDoc is already attached to node.
func readExisting(node *ast.Node) existing {
	var e existing
	if node == nil {
		return e
	}
	docs := node.JSDoc(nil)
	if len(docs) == 0 {
		return e
	}
	jsdoc := docs[len(docs)-1].AsJSDoc()
	if jsdoc.Comment != nil {
		e.Description = strings.TrimSpace(extractNodeListText(jsdoc.Comment))
	}
	if jsdoc.Tags == nil {
		return e
	}
	for _, tagNode := range jsdoc.Tags.Nodes {
		if tagNode.Kind == ast.KindJSDocParameterTag {
			paramTag := tagNode.AsJSDocParameterOrPropertyTag()
			if paramTag != nil && paramTag.Name() != nil && paramTag.Comment != nil {
				name := paramTag.Name().Text()
				desc := strings.TrimSpace(extractNodeListText(paramTag.Comment))
				if name != "" && desc != "" {
					if e.ParamDescs == nil {
						e.ParamDescs = make(map[string]string)
					}
					e.ParamDescs[name] = desc
				}
			}
			continue
		}
		tagName, comment := extractJSDocTagInfo(tagNode)
		switch strings.ToLower(tagName) {
		case "deprecated":
			e.Deprecated = true
		case "license":
			e.License = strings.TrimSpace(comment)
		}
	}
	return e
}

// extractJSDocTagInfo extracts the tag name and comment body from a JSDoc
// tag node. Custom/unknown tags (anything not specifically
// KindJSDocDeprecatedTag/KindJSDocTypeTag) parse as ast.KindJSDocTag.
func extractJSDocTagInfo(tagNode *ast.Node) (tagName string, comment string) {
	if tagNode == nil {
		return "", ""
	}
	switch tagNode.Kind {
	case ast.KindJSDocTag:
		unknown := tagNode.AsJSDocUnknownTag()
		if unknown == nil || unknown.TagName == nil {
			return "", ""
		}
		tagName = unknown.TagName.Text()
		if unknown.Comment != nil {
			comment = extractNodeListText(unknown.Comment)
		}
		return tagName, comment
	case ast.KindJSDocDeprecatedTag:
		return "deprecated", ""
	default:
		return "", ""
	}
}

// extractNodeListText concatenates text from a NodeList of JSDoc text/link
// nodes into a single comment string.
func extractNodeListText(nodeList *ast.NodeList) string {
	if nodeList == nil {
		return ""
	}
	var parts []string
	for _, n := range nodeList.Nodes {
		switch n.Kind {
		case ast.KindJSDocText, ast.KindJSDocLink, ast.KindJSDocLinkCode, ast.KindJSDocLinkPlain:
			parts = append(parts, n.Text())
		}
	}
	return strings.Join(parts, "")
}
