package theme

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// VSCodeDark mirrors the Dark+ editor colors as a chroma style so it can be
// used as "chroma:vscode-dark" without a theme file.
var VSCodeDark = styles.Register(chroma.MustNewStyle("vscode-dark", chroma.StyleEntries{
	chroma.Text:       "#D4D4D4",
	chroma.Background: "bg:#1E1E1E",

	chroma.Comment:        "italic #6A9955",
	chroma.CommentPreproc: "#C586C0",

	chroma.Keyword:            "#569CD6",
	chroma.KeywordConstant:    "#569CD6",
	chroma.KeywordDeclaration: "#569CD6",
	chroma.KeywordType:        "#4EC9B0",

	chroma.Name:          "#9CDCFE",
	chroma.NameBuiltin:   "#4EC9B0",
	chroma.NameClass:     "#4EC9B0",
	chroma.NameFunction:  "#DCDCAA",
	chroma.NameConstant:  "#4FC1FF",
	chroma.NameNamespace: "#4EC9B0",
	chroma.NameTag:       "#569CD6",
	chroma.NameAttribute: "#9CDCFE",

	chroma.LiteralNumber: "#B5CEA8",
	chroma.String:        "#CE9178",
	chroma.StringEscape:  "#D7BA7D",
	chroma.StringRegex:   "#D16969",

	chroma.Operator:    "#D4D4D4",
	chroma.Punctuation: "#D4D4D4",

	chroma.GenericDeleted:  "#CE9178",
	chroma.GenericInserted: "#B5CEA8",
	chroma.GenericHeading:  "bold #569CD6",
	chroma.GenericEmph:     "italic",
	chroma.GenericStrong:   "bold",
}))
